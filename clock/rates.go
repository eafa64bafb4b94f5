package clock

import (
	"math"

	"github.com/libhal-google/libhal-stm32f1/core"
)

// Rates are the clock frequencies produced by a Tree.
type Rates struct {
	System    core.Hertz `json:"system"`
	AHB       core.Hertz `json:"ahb"`
	APB1      core.Hertz `json:"apb1"`
	APB2      core.Hertz `json:"apb2"`
	APB1Timer core.Hertz `json:"apb1_timer"`
	APB2Timer core.Hertz `json:"apb2_timer"`
	ADC       core.Hertz `json:"adc"`
	PLL       core.Hertz `json:"pll"`
	USB       core.Hertz `json:"usb"`
	RTC       core.Hertz `json:"rtc"`
}

// DefaultRates returns the rates of the reset configuration: everything
// running undivided from HSI, PLL and RTC stopped.
func DefaultRates() Rates {
	return Derive(Tree{})
}

// PLLRate returns the PLL output frequency for t, or zero if the PLL is
// disabled. A product too large for Hertz saturates so Validate still
// flags it.
func PLLRate(t Tree) core.Hertz {
	if !t.PLL.Enable {
		return 0
	}

	var base core.Hertz
	switch t.PLL.Source {
	case PLLSourceInternal:
		base = InternalHighSpeed / 2
	case PLLSourceExternal:
		base = t.HighSpeedExternal
	case PLLSourceExternalDiv2:
		base = t.HighSpeedExternal / 2
	}
	rate := uint64(base) * uint64(t.PLL.Multiply.Factor())
	if rate > math.MaxUint32 {
		return math.MaxUint32
	}
	return core.Hertz(rate)
}

// SystemRate returns SYSCLK for t.
func SystemRate(t Tree) core.Hertz {
	switch t.SystemClock {
	case SystemClockExternal:
		return t.HighSpeedExternal
	case SystemClockPLL:
		return PLLRate(t)
	default:
		return InternalHighSpeed
	}
}

// Derive computes every clock rate produced by t. It is a pure function of
// t and the internal oscillator constants.
func Derive(t Tree) Rates {
	var r Rates

	r.PLL = PLLRate(t)
	r.System = SystemRate(t)

	r.AHB = r.System / core.Hertz(t.AHB.Divider.Divisor())
	r.APB1 = r.AHB / core.Hertz(t.AHB.APB1.Divider.Divisor())
	r.APB2 = r.AHB / core.Hertz(t.AHB.APB2.Divider.Divisor())
	r.ADC = r.APB2 / core.Hertz(t.AHB.APB2.ADC.Divider.Divisor())

	// Timer clocks run at twice PCLK whenever the APB prescaler divides
	r.APB1Timer = timerRate(r.APB1, t.AHB.APB1.Divider)
	r.APB2Timer = timerRate(r.APB2, t.AHB.APB2.Divider)

	switch t.PLL.USB {
	case USBDivideBy1:
		r.USB = r.PLL
	default:
		r.USB = core.Hertz(uint64(r.PLL) * 2 / 3)
	}

	switch t.RTC.Source {
	case RTCLowSpeedInternal:
		r.RTC = InternalLowSpeed
	case RTCLowSpeedExternal:
		r.RTC = t.LowSpeedExternal
	case RTCHighSpeedExternalDiv128:
		r.RTC = t.HighSpeedExternal / 128
	default:
		r.RTC = 0
	}

	return r
}

func timerRate(bus core.Hertz, d APBDivider) core.Hertz {
	if d.Divisor() == 1 {
		return bus
	}
	return bus * 2
}

// Flash wait-state thresholds (RM0008 section 3.3.3)
const (
	ZeroWaitStateMax = 24 * core.MHz
	OneWaitStateMax  = 48 * core.MHz
)

// WaitStates returns the FLASH_ACR LATENCY code needed to fetch
// instructions at sysclk.
func WaitStates(sysclk core.Hertz) uint32 {
	switch {
	case sysclk <= ZeroWaitStateMax:
		return 0
	case sysclk <= OneWaitStateMax:
		return 1
	default:
		return 2
	}
}

// String renders the rates on one line, e.g. for a boot banner.
func (r Rates) String() string {
	return "sysclk=" + r.System.String() +
		" ahb=" + r.AHB.String() +
		" apb1=" + r.APB1.String() +
		" apb2=" + r.APB2.String() +
		" apb1_tim=" + r.APB1Timer.String() +
		" apb2_tim=" + r.APB2Timer.String() +
		" adc=" + r.ADC.String() +
		" pll=" + r.PLL.String() +
		" usb=" + r.USB.String() +
		" rtc=" + r.RTC.String()
}
