package core

// Utoa converts an unsigned integer to a string without using fmt package
func Utoa(n uint32) string {
	return Utoa64(uint64(n))
}

// Utoa64 is Utoa for 64-bit values.
func Utoa64(n uint64) string {
	if n == 0 {
		return "0"
	}

	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}

// Itoa converts a signed integer to a string
func Itoa(n int) string {
	if n < 0 {
		return "-" + Utoa64(uint64(-n))
	}
	return Utoa64(uint64(n))
}

// Hex32 formats v as 0x followed by eight upper-case hex digits.
func Hex32(v uint32) string {
	const digits = "0123456789ABCDEF"
	var buf [10]byte
	buf[0] = '0'
	buf[1] = 'x'
	for i := 9; i >= 2; i-- {
		buf[i] = digits[v&0xF]
		v >>= 4
	}
	return string(buf[:])
}

// FormatHertz formats a frequency as "72MHz", "20kHz" or "1500Hz", choosing
// the largest unit that divides it exactly.
func FormatHertz(h Hertz) string {
	switch {
	case h == 0:
		return "0Hz"
	case h%MHz == 0:
		return Utoa(uint32(h/MHz)) + "MHz"
	case h%KHz == 0:
		return Utoa(uint32(h/KHz)) + "kHz"
	default:
		return Utoa(uint32(h)) + "Hz"
	}
}
