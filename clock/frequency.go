package clock

import (
	"github.com/libhal-google/libhal-stm32f1/core"
	"github.com/libhal-google/libhal-stm32f1/peripheral"
)

// FrequencyOf returns the clock rate feeding id under the last applied
// tree. Identifiers outside every bus return zero.
func (c *Configurator) FrequencyOf(id peripheral.ID) core.Hertz {
	return c.Rates().Of(id)
}

// Of looks id up in r.
func (r Rates) Of(id peripheral.ID) core.Hertz {
	switch id {
	case peripheral.I2S:
		return r.PLL
	case peripheral.USB:
		return r.USB
	case peripheral.FLITF:
		return FlashClock
	case peripheral.CPU, peripheral.SystemTimer:
		return r.AHB
	case peripheral.Timer2, peripheral.Timer3, peripheral.Timer4,
		peripheral.Timer5, peripheral.Timer6, peripheral.Timer7,
		peripheral.Timer12, peripheral.Timer13, peripheral.Timer14:
		return r.APB1Timer
	case peripheral.Timer1, peripheral.Timer8, peripheral.Timer9,
		peripheral.Timer10, peripheral.Timer11:
		return r.APB2Timer
	case peripheral.ADC1, peripheral.ADC2, peripheral.ADC3:
		return r.ADC
	}

	switch id.Bus() {
	case peripheral.BusAHB:
		return r.AHB
	case peripheral.BusAPB1:
		return r.APB1
	case peripheral.BusAPB2:
		return r.APB2
	default:
		return 0
	}
}
