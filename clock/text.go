package clock

import (
	"errors"
	"strings"

	"github.com/libhal-google/libhal-stm32f1/core"
)

// ErrUnknownValue is returned when parsing a configuration name fails.
var ErrUnknownValue = errors.New("unknown clock configuration value")

func unknown(kind, text string) error {
	return errors.Join(ErrUnknownValue, errors.New(kind+" "+`"`+text+`"`))
}

// normalize lower-cases text and strips the "div", "/" and "x" decorations
// so that "div4", "/4", "4" and "x9", "9" all compare equal.
func normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.TrimPrefix(s, "divide_by_")
	s = strings.TrimPrefix(s, "multiply_by_")
	s = strings.TrimPrefix(s, "div")
	s = strings.TrimPrefix(s, "/")
	s = strings.TrimPrefix(s, "x")
	return s
}

func (s SystemClockSource) String() string {
	switch s {
	case SystemClockInternal:
		return "hsi"
	case SystemClockExternal:
		return "hse"
	case SystemClockPLL:
		return "pll"
	default:
		return "sysclk(" + core.Utoa(uint32(s)) + ")"
	}
}

// ParseSystemClockSource parses "hsi", "hse" or "pll".
func ParseSystemClockSource(text string) (SystemClockSource, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "hsi", "internal", "high_speed_internal":
		return SystemClockInternal, nil
	case "hse", "external", "high_speed_external":
		return SystemClockExternal, nil
	case "pll":
		return SystemClockPLL, nil
	}
	return 0, unknown("system clock source", text)
}

func (s PLLSource) String() string {
	switch s {
	case PLLSourceInternal:
		return "hsi_div2"
	case PLLSourceExternal:
		return "hse"
	case PLLSourceExternalDiv2:
		return "hse_div2"
	default:
		return "pllsrc(" + core.Utoa(uint32(s)) + ")"
	}
}

// ParsePLLSource parses "hsi_div2", "hse" or "hse_div2".
func ParsePLLSource(text string) (PLLSource, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "hsi_div2", "hsi", "internal", "high_speed_internal":
		return PLLSourceInternal, nil
	case "hse", "external", "high_speed_external":
		return PLLSourceExternal, nil
	case "hse_div2", "external_div2", "high_speed_external_divided_by_2":
		return PLLSourceExternalDiv2, nil
	}
	return 0, unknown("PLL source", text)
}

func (m PLLMultiply) String() string {
	return "x" + core.Utoa(m.Factor())
}

// ParsePLLMultiply parses a factor such as "x9" or "9".
func ParsePLLMultiply(text string) (PLLMultiply, error) {
	for m := MultiplyBy2; m <= MultiplyBy16; m++ {
		if normalize(text) == core.Utoa(m.Factor()) {
			return m, nil
		}
	}
	return 0, unknown("PLL multiplier", text)
}

func (d USBDivider) String() string {
	if d == USBDivideBy1 {
		return "div1"
	}
	return "div1.5"
}

// ParseUSBDivider parses "div1" or "div1.5".
func ParseUSBDivider(text string) (USBDivider, error) {
	switch normalize(text) {
	case "1":
		return USBDivideBy1, nil
	case "1.5", "1_point_5":
		return USBDivideBy1Point5, nil
	}
	return 0, unknown("USB divider", text)
}

func (s RTCSource) String() string {
	switch s {
	case RTCNoClock:
		return "none"
	case RTCLowSpeedInternal:
		return "lsi"
	case RTCLowSpeedExternal:
		return "lse"
	case RTCHighSpeedExternalDiv128:
		return "hse_div128"
	default:
		return "rtcsel(" + core.Utoa(uint32(s)) + ")"
	}
}

// ParseRTCSource parses "none", "lsi", "lse" or "hse_div128".
func ParseRTCSource(text string) (RTCSource, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "none", "no_clock", "":
		return RTCNoClock, nil
	case "lsi", "low_speed_internal":
		return RTCLowSpeedInternal, nil
	case "lse", "low_speed_external":
		return RTCLowSpeedExternal, nil
	case "hse_div128", "high_speed_external_divided_by_128":
		return RTCHighSpeedExternalDiv128, nil
	}
	return 0, unknown("RTC source", text)
}

func (d AHBDivider) String() string {
	return "div" + core.Utoa(d.Divisor())
}

// ParseAHBDivider parses a divider such as "div8", "/8" or "8".
func ParseAHBDivider(text string) (AHBDivider, error) {
	for _, d := range []AHBDivider{AHBDivideBy1, AHBDivideBy2, AHBDivideBy4,
		AHBDivideBy8, AHBDivideBy16, AHBDivideBy64, AHBDivideBy128,
		AHBDivideBy256, AHBDivideBy512} {
		if normalize(text) == core.Utoa(d.Divisor()) {
			return d, nil
		}
	}
	return 0, unknown("AHB divider", text)
}

func (d APBDivider) String() string {
	return "div" + core.Utoa(d.Divisor())
}

// ParseAPBDivider parses a divider such as "div2" or "2".
func ParseAPBDivider(text string) (APBDivider, error) {
	for _, d := range []APBDivider{APBDivideBy1, APBDivideBy2, APBDivideBy4,
		APBDivideBy8, APBDivideBy16} {
		if normalize(text) == core.Utoa(d.Divisor()) {
			return d, nil
		}
	}
	return 0, unknown("APB divider", text)
}

func (d ADCDivider) String() string {
	return "div" + core.Utoa(d.Divisor())
}

// ParseADCDivider parses a divider such as "div6" or "6".
func ParseADCDivider(text string) (ADCDivider, error) {
	for _, d := range []ADCDivider{ADCDivideBy2, ADCDivideBy4, ADCDivideBy6, ADCDivideBy8} {
		if normalize(text) == core.Utoa(d.Divisor()) {
			return d, nil
		}
	}
	return 0, unknown("ADC divider", text)
}

// Text encoding, used by the profile files and the JSON plan output

func (s SystemClockSource) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s PLLSource) MarshalText() ([]byte, error)         { return []byte(s.String()), nil }
func (m PLLMultiply) MarshalText() ([]byte, error)       { return []byte(m.String()), nil }
func (d USBDivider) MarshalText() ([]byte, error)        { return []byte(d.String()), nil }
func (s RTCSource) MarshalText() ([]byte, error)         { return []byte(s.String()), nil }
func (d AHBDivider) MarshalText() ([]byte, error)        { return []byte(d.String()), nil }
func (d APBDivider) MarshalText() ([]byte, error)        { return []byte(d.String()), nil }
func (d ADCDivider) MarshalText() ([]byte, error)        { return []byte(d.String()), nil }

func (s *SystemClockSource) UnmarshalText(text []byte) (err error) {
	*s, err = ParseSystemClockSource(string(text))
	return err
}

func (s *PLLSource) UnmarshalText(text []byte) (err error) {
	*s, err = ParsePLLSource(string(text))
	return err
}

func (m *PLLMultiply) UnmarshalText(text []byte) (err error) {
	*m, err = ParsePLLMultiply(string(text))
	return err
}

func (d *USBDivider) UnmarshalText(text []byte) (err error) {
	*d, err = ParseUSBDivider(string(text))
	return err
}

func (s *RTCSource) UnmarshalText(text []byte) (err error) {
	*s, err = ParseRTCSource(string(text))
	return err
}

func (d *AHBDivider) UnmarshalText(text []byte) (err error) {
	*d, err = ParseAHBDivider(string(text))
	return err
}

func (d *APBDivider) UnmarshalText(text []byte) (err error) {
	*d, err = ParseAPBDivider(string(text))
	return err
}

func (d *ADCDivider) UnmarshalText(text []byte) (err error) {
	*d, err = ParseADCDivider(string(text))
	return err
}
