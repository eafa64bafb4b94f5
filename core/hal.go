// Package core holds the interface contracts shared by every driver in the
// HAL, plus the process-wide registry that binds them to a platform.
//
// Target code registers concrete drivers at boot (SetGPIODriver,
// SetSPIDriver, SetSerial, SetSteadyClock); portable code fetches them with
// the Must* accessors and never imports a chip package directly.
package core

// Hertz is a frequency in cycles per second.
type Hertz uint32

// Frequency units
const (
	Hz  Hertz = 1
	KHz Hertz = 1000
	MHz Hertz = 1000 * 1000
)

// String formats h with the largest unit that divides it exactly.
func (h Hertz) String() string {
	return FormatHertz(h)
}

// ParseHertz parses a frequency such as "8MHz", "32768Hz", "20kHz", "12.5MHz"
// or a bare number of hertz. Fractions must resolve to a whole number of hertz.
func ParseHertz(text string) (Hertz, bool) {
	s := text
	for len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}
	for len(s) > 0 && s[0] == ' ' {
		s = s[1:]
	}

	unit := uint64(Hz)
	switch {
	case hasSuffixFold(s, "mhz"):
		unit, s = uint64(MHz), s[:len(s)-3]
	case hasSuffixFold(s, "khz"):
		unit, s = uint64(KHz), s[:len(s)-3]
	case hasSuffixFold(s, "hz"):
		s = s[:len(s)-2]
	}
	for len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}
	if s == "" {
		return 0, false
	}

	var whole, frac, scale uint64 = 0, 0, 1
	seenDot := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '.' && !seenDot:
			seenDot = true
		case c == '_':
		case c >= '0' && c <= '9':
			if seenDot {
				frac = frac*10 + uint64(c-'0')
				scale *= 10
			} else {
				whole = whole*10 + uint64(c-'0')
			}
		default:
			return 0, false
		}
		if whole > 1<<32 || scale > 1<<32 {
			return 0, false
		}
	}

	total := whole*unit + frac*unit/scale
	if frac*unit%scale != 0 || total > 0xFFFFFFFF {
		return 0, false
	}
	return Hertz(total), true
}

func hasSuffixFold(s, suffix string) bool {
	if len(s) < len(suffix) {
		return false
	}
	tail := s[len(s)-len(suffix):]
	for i := 0; i < len(suffix); i++ {
		c := tail[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != suffix[i] {
			return false
		}
	}
	return true
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseHertz.
func (h *Hertz) UnmarshalText(text []byte) error {
	v, ok := ParseHertz(string(text))
	if !ok {
		return errInvalidHertz
	}
	*h = v
	return nil
}

// UnmarshalJSON accepts either a JSON number of hertz or a quoted frequency
// string. Hertz marshals as a plain number.
func (h *Hertz) UnmarshalJSON(data []byte) error {
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	return h.UnmarshalText(data)
}
