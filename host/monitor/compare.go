package monitor

import (
	"github.com/libhal-google/libhal-stm32f1/clock"
	"github.com/libhal-google/libhal-stm32f1/core"
)

// Difference is one clock whose reported rate differs from the expected one.
type Difference struct {
	Name     string
	Expected core.Hertz
	Reported core.Hertz
}

// Compare lists the clocks that differ between want and got, in the order
// of clock.Rates.
func Compare(want, got clock.Rates) []Difference {
	pairs := []struct {
		name string
		w, g core.Hertz
	}{
		{"system", want.System, got.System},
		{"ahb", want.AHB, got.AHB},
		{"apb1", want.APB1, got.APB1},
		{"apb2", want.APB2, got.APB2},
		{"apb1_timer", want.APB1Timer, got.APB1Timer},
		{"apb2_timer", want.APB2Timer, got.APB2Timer},
		{"adc", want.ADC, got.ADC},
		{"pll", want.PLL, got.PLL},
		{"usb", want.USB, got.USB},
		{"rtc", want.RTC, got.RTC},
	}

	var diffs []Difference
	for _, p := range pairs {
		if p.w != p.g {
			diffs = append(diffs, Difference{Name: p.name, Expected: p.w, Reported: p.g})
		}
	}
	return diffs
}
