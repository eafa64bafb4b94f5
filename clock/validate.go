package clock

import (
	"errors"

	"github.com/libhal-google/libhal-stm32f1/core"
)

// ErrInvalidTree wraps every problem reported by Validate.
var ErrInvalidTree = errors.New("invalid clock tree")

// Datasheet limits for the connectivity and performance lines
const (
	MaxHSE  = 25 * core.MHz
	MaxPLL  = 72 * core.MHz
	MaxAPB1 = 36 * core.MHz
	MaxADC  = 14 * core.MHz
	USBRate = 48 * core.MHz
)

// TreeError describes one incoherent setting in a Tree.
type TreeError struct {
	Field  string
	Reason string
}

func (e *TreeError) Error() string {
	return "invalid clock tree: " + e.Field + ": " + e.Reason
}

func (e *TreeError) Is(target error) bool {
	return target == ErrInvalidTree
}

// Validate reports the settings of t that would hang Configure or run the
// part outside its datasheet limits. It returns nil for a coherent tree, or
// every problem joined with errors.Join. Each problem matches
// ErrInvalidTree under errors.Is.
func Validate(t Tree) error {
	var errs []error
	add := func(field, reason string) {
		errs = append(errs, &TreeError{Field: field, Reason: reason})
	}

	hseUsed := t.SystemClock == SystemClockExternal ||
		(t.PLL.Enable && t.PLL.Source != PLLSourceInternal) ||
		(t.RTC.Enable && t.RTC.Source == RTCHighSpeedExternalDiv128)

	if t.SystemClock > SystemClockPLL {
		add("system_clock", "unknown source")
	}
	if t.SystemClock == SystemClockPLL && !t.PLL.Enable {
		add("system_clock", "pll selected but pll disabled")
	}
	if hseUsed && t.HighSpeedExternal == 0 {
		add("high_speed_external", "hse used but frequency is zero")
	}
	if hseUsed && t.HighSpeedExternal > MaxHSE {
		add("high_speed_external", "frequency "+t.HighSpeedExternal.String()+" exceeds "+MaxHSE.String())
	}
	if t.RTC.Enable && t.RTC.Source == RTCLowSpeedExternal && t.LowSpeedExternal == 0 {
		add("low_speed_external", "lse selected for rtc but frequency is zero")
	}

	r := Derive(t)
	if r.PLL > MaxPLL {
		add("pll", "output "+r.PLL.String()+" exceeds "+MaxPLL.String())
	}
	if r.APB1 > MaxAPB1 {
		add("ahb.apb1", "rate "+r.APB1.String()+" exceeds "+MaxAPB1.String())
	}
	if r.ADC > MaxADC {
		add("ahb.apb2.adc", "rate "+r.ADC.String()+" exceeds "+MaxADC.String())
	}
	return errors.Join(errs...)
}

// USBCapable reports whether r clocks the USB peripheral at exactly 48MHz.
// Trees that do not use USB are free to leave it at any rate, so Validate
// does not check it.
func (r Rates) USBCapable() bool {
	return r.USB == USBRate
}
