package clock

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestEnumNamesRoundTrip(t *testing.T) {
	for s := SystemClockInternal; s <= SystemClockPLL; s++ {
		got, err := ParseSystemClockSource(s.String())
		if err != nil || got != s {
			t.Errorf("%s: round trip gave %v, %v", s, got, err)
		}
	}
	for _, s := range []PLLSource{PLLSourceInternal, PLLSourceExternal, PLLSourceExternalDiv2} {
		got, err := ParsePLLSource(s.String())
		if err != nil || got != s {
			t.Errorf("%s: round trip gave %v, %v", s, got, err)
		}
	}
	for m := MultiplyBy2; m <= MultiplyBy16; m++ {
		got, err := ParsePLLMultiply(m.String())
		if err != nil || got != m {
			t.Errorf("%s: round trip gave %v, %v", m, got, err)
		}
	}
	for s := RTCNoClock; s <= RTCHighSpeedExternalDiv128; s++ {
		got, err := ParseRTCSource(s.String())
		if err != nil || got != s {
			t.Errorf("%s: round trip gave %v, %v", s, got, err)
		}
	}
	for _, d := range []USBDivider{USBDivideBy1, USBDivideBy1Point5} {
		got, err := ParseUSBDivider(d.String())
		if err != nil || got != d {
			t.Errorf("%s: round trip gave %v, %v", d, got, err)
		}
	}
}

func TestParseDividerSpellings(t *testing.T) {
	testCases := []struct {
		text string
		want AHBDivider
	}{
		{"div8", AHBDivideBy8},
		{"/8", AHBDivideBy8},
		{"8", AHBDivideBy8},
		{"DIV512", AHBDivideBy512},
		{" divide_by_64 ", AHBDivideBy64},
	}
	for _, tc := range testCases {
		got, err := ParseAHBDivider(tc.text)
		if err != nil || got != tc.want {
			t.Errorf("%q: expected %s, got %s (%v)", tc.text, tc.want, got, err)
		}
	}

	if _, err := ParseAHBDivider("div32"); !errors.Is(err, ErrUnknownValue) {
		t.Errorf("Expected div32 to be rejected, got %v", err)
	}
	if _, err := ParseAPBDivider("div3"); !errors.Is(err, ErrUnknownValue) {
		t.Errorf("Expected div3 to be rejected, got %v", err)
	}
	if d, err := ParseADCDivider("x6"); err != nil || d != ADCDivideBy6 {
		t.Errorf("Expected ADC /6, got %s (%v)", d, err)
	}
	if m, err := ParsePLLMultiply("x17"); !errors.Is(err, ErrUnknownValue) {
		t.Errorf("Expected x17 to be rejected, got %s", m)
	}
}

func TestTreeJSON(t *testing.T) {
	tree := bluePill()
	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded Tree
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v\n%s", err, data)
	}
	if decoded != tree {
		t.Errorf("Tree changed through JSON:\n got %+v\nwant %+v", decoded, tree)
	}
}
