package protocol

import "testing"

func TestCRC16(t *testing.T) {
	testCases := []struct {
		data []byte
		want uint16
	}{
		{[]byte{}, 0xFFFF},
		{[]byte("123456789"), 0x6F91},
	}

	for _, tc := range testCases {
		if got := CRC16(tc.data); got != tc.want {
			t.Errorf("CRC16(%q): expected 0x%04X, got 0x%04X", tc.data, tc.want, got)
		}
	}
}

func TestCRC16Different(t *testing.T) {
	if CRC16([]byte{0x01, 0x02, 0x03}) == CRC16([]byte{0x01, 0x02, 0x04}) {
		t.Error("Expected a single changed bit to change the CRC")
	}
}
