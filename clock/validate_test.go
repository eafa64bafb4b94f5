package clock

import (
	"errors"
	"strings"
	"testing"

	"github.com/libhal-google/libhal-stm32f1/core"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Tree)
		field  string // Empty when valid
	}{
		{"blue pill", func(*Tree) {}, ""},
		{"reset", func(tr *Tree) { *tr = Tree{} }, ""},
		{"pll selected but off", func(tr *Tree) { tr.PLL.Enable = false }, "system_clock"},
		{"hse sysclk without crystal", func(tr *Tree) {
			*tr = Tree{SystemClock: SystemClockExternal}
		}, "high_speed_external"},
		{"hse pll without crystal", func(tr *Tree) { tr.HighSpeedExternal = 0 }, "high_speed_external"},
		{"lse rtc without crystal", func(tr *Tree) { tr.LowSpeedExternal = 0 }, "low_speed_external"},
		{"hse rtc without crystal", func(tr *Tree) {
			*tr = Tree{RTC: RTC{Enable: true, Source: RTCHighSpeedExternalDiv128}}
		}, "high_speed_external"},
		{"pll overclock", func(tr *Tree) { tr.PLL.Multiply = MultiplyBy10 }, "pll"},
		{"hse too fast", func(tr *Tree) {
			tr.HighSpeedExternal = 32 * core.MHz
			tr.PLL.Source = PLLSourceExternalDiv2
			tr.PLL.Multiply = MultiplyBy4
		}, "high_speed_external"},
		{"pll product wraps", func(tr *Tree) {
			tr.HighSpeedExternal = 1 << 28
			tr.PLL.Multiply = MultiplyBy16
		}, "pll"},
		{"apb1 too fast", func(tr *Tree) { tr.AHB.APB1.Divider = APBDivideBy1 }, "ahb.apb1"},
		{"adc too fast", func(tr *Tree) { tr.AHB.APB2.ADC.Divider = ADCDivideBy4 }, "ahb.apb2.adc"},
		{"unknown sysclk", func(tr *Tree) { tr.SystemClock = 3 }, "system_clock"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tree := bluePill()
			tc.mutate(&tree)

			err := Validate(tree)
			if tc.field == "" {
				if err != nil {
					t.Errorf("Expected valid tree, got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidTree) {
				t.Fatalf("Expected ErrInvalidTree, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.field+":") {
				t.Errorf("Expected problem with %s, got %v", tc.field, err)
			}
		})
	}
}

func TestValidateJoinsProblems(t *testing.T) {
	tree := Tree{
		SystemClock: SystemClockPLL,
		RTC:         RTC{Enable: true, Source: RTCLowSpeedExternal},
	}
	err := Validate(tree)
	if err == nil {
		t.Fatal("Expected errors")
	}
	if n := strings.Count(err.Error(), "invalid clock tree"); n != 2 {
		t.Errorf("Expected 2 problems, got %d: %v", n, err)
	}
}

func TestUSBCapable(t *testing.T) {
	tree := Tree{PLL: PLL{Enable: true, Multiply: MultiplyBy12, USB: USBDivideBy1}}
	if !Derive(tree).USBCapable() {
		t.Errorf("Expected 48MHz USB from HSI/2 x12, got %s", Derive(tree).USB)
	}
	tree.PLL.Multiply = MultiplyBy16
	if Derive(tree).USBCapable() {
		t.Errorf("Expected 64MHz USB to be rejected")
	}
}
