package clock

import (
	"github.com/libhal-google/libhal-stm32f1/core"
	"github.com/libhal-google/libhal-stm32f1/peripheral"
	"github.com/libhal-google/libhal-stm32f1/regs"
)

// std backs the package-level functions. On TinyGo targets its bus is the
// memory-mapped register file; host programs attach one with SetBus.
var std = &Configurator{}

// Default returns the configurator behind the package-level functions.
func Default() *Configurator {
	return std
}

// SetBus attaches the register bus used by Configure.
func SetBus(bus regs.Bus) {
	std.Bus = bus
}

// Configure applies t through the default configurator.
func Configure(t Tree) error {
	return std.Configure(t)
}

// Frequency returns the clock rate feeding id, as set by the last
// successful Configure.
func Frequency(id peripheral.ID) core.Hertz {
	return std.FrequencyOf(id)
}

// CurrentRates returns every derived rate of the default configurator.
func CurrentRates() Rates {
	return std.Rates()
}
