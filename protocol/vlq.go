package protocol

import "errors"

var (
	// ErrShortVLQ is returned when the data ends inside a VLQ integer.
	ErrShortVLQ = errors.New("truncated VLQ integer")
)

// AppendVLQ appends v in the variable-length encoding used by Klipper:
// seven bits per byte, most significant group first, continuation in bit 7.
// Small negative numbers stay short because the first group is sign
// extended on decode.
func AppendVLQ(dst []byte, v int32) []byte {
	if !(-(1<<26) <= v && v < (3<<26)) {
		dst = append(dst, byte((v>>28)&0x7F)|0x80)
	}
	if !(-(1<<19) <= v && v < (3<<19)) {
		dst = append(dst, byte((v>>21)&0x7F)|0x80)
	}
	if !(-(1<<12) <= v && v < (3<<12)) {
		dst = append(dst, byte((v>>14)&0x7F)|0x80)
	}
	if !(-(1<<5) <= v && v < (3<<5)) {
		dst = append(dst, byte((v>>7)&0x7F)|0x80)
	}
	return append(dst, byte(v&0x7F))
}

// AppendUVLQ appends an unsigned value. Values above 1<<31 travel as their
// two's complement and decode back to the same bits.
func AppendUVLQ(dst []byte, v uint32) []byte {
	return AppendVLQ(dst, int32(v))
}

// ReadVLQ decodes one integer from the front of *data and advances it.
func ReadVLQ(data *[]byte) (int32, error) {
	buf := *data
	if len(buf) == 0 {
		return 0, ErrShortVLQ
	}

	c := uint32(buf[0])
	buf = buf[1:]
	v := c & 0x7F
	if c&0x60 == 0x60 {
		v |= ^uint32(0x1F)
	}
	for c&0x80 != 0 {
		if len(buf) == 0 {
			return 0, ErrShortVLQ
		}
		c = uint32(buf[0])
		buf = buf[1:]
		v = v<<7 | c&0x7F
	}

	*data = buf
	return int32(v), nil
}

// ReadUVLQ decodes one unsigned integer from the front of *data.
func ReadUVLQ(data *[]byte) (uint32, error) {
	v, err := ReadVLQ(data)
	return uint32(v), err
}
