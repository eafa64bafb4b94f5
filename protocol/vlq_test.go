package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func TestVLQRoundTrip(t *testing.T) {
	testCases := []int32{
		0, 1, -1, 31, -32, 95, 96, 127, -127, 128, -128,
		1000, -1000, 65535, -65535, 1000000, -1000000,
		72000000, 1<<31 - 1, -1 << 31,
	}

	for _, want := range testCases {
		encoded := AppendVLQ(nil, want)
		data := encoded
		got, err := ReadVLQ(&data)
		if err != nil {
			t.Errorf("%d: decode failed: %v", want, err)
			continue
		}
		if got != want {
			t.Errorf("Expected %d, got %d (encoded as %x)", want, got, encoded)
		}
		if len(data) != 0 {
			t.Errorf("%d: %d bytes left over", want, len(data))
		}
	}
}

func TestVLQEncoding(t *testing.T) {
	testCases := []struct {
		v    int32
		want []byte
	}{
		{0, []byte{0x00}},
		{-1, []byte{0x7F}},
		{95, []byte{0x5F}},
		{96, []byte{0x80, 0x60}},
		{-32, []byte{0x60}},
		{-33, []byte{0xFF, 0x5F}},
		{1000, []byte{0x87, 0x68}},
	}

	for _, tc := range testCases {
		if got := AppendVLQ(nil, tc.v); !bytes.Equal(got, tc.want) {
			t.Errorf("%d: expected %x, got %x", tc.v, tc.want, got)
		}
	}
}

func TestUVLQRates(t *testing.T) {
	for _, want := range []uint32{0, 20000, 32768, 8000000, 72000000, 0xFFFFFFFF} {
		data := AppendUVLQ(nil, want)
		got, err := ReadUVLQ(&data)
		if err != nil || got != want {
			t.Errorf("Expected %d, got %d (%v)", want, got, err)
		}
	}
}

func TestVLQSequence(t *testing.T) {
	var buf []byte
	for i := int32(-3); i <= 3; i++ {
		buf = AppendVLQ(buf, i*1000)
	}
	for i := int32(-3); i <= 3; i++ {
		got, err := ReadVLQ(&buf)
		if err != nil || got != i*1000 {
			t.Fatalf("Expected %d, got %d (%v)", i*1000, got, err)
		}
	}
}

func TestVLQTruncated(t *testing.T) {
	for _, data := range [][]byte{{}, {0x80}, {0x87, 0x81}} {
		d := data
		if _, err := ReadVLQ(&d); !errors.Is(err, ErrShortVLQ) {
			t.Errorf("%x: expected ErrShortVLQ, got %v", data, err)
		}
		if len(d) != len(data) {
			t.Errorf("%x: failed read consumed input", data)
		}
	}
}
