// Package driver implements the STM32F1 GPIO, SPI and SysTick drivers on
// top of a regs.Bus and registers them with the core HAL contracts.
//
// Drivers take their clock rates from the clock package, so they must be
// created after the clock tree has been configured. Rates are read again on
// every Configure call.
package driver

import (
	"errors"

	"github.com/libhal-google/libhal-stm32f1/clock"
	"github.com/libhal-google/libhal-stm32f1/core"
	"github.com/libhal-google/libhal-stm32f1/peripheral"
)

var (
	// ErrInvalidPin is returned for a port or pin the part does not have.
	ErrInvalidPin = errors.Join(core.ErrInvalidArgument, errors.New("invalid pin"))

	// ErrInvalidBus is returned for an unknown SPI bus number.
	ErrInvalidBus = errors.Join(core.ErrInvalidArgument, errors.New("invalid SPI bus"))

	// ErrUnreachableRate is returned when no prescaler brings the bus clock
	// down to the requested rate.
	ErrUnreachableRate = errors.Join(core.ErrInvalidArgument, errors.New("SPI clock rate unreachable"))
)

// FrequencyFunc reports the clock rate feeding a peripheral.
type FrequencyFunc func(peripheral.ID) core.Hertz

func orDefault(f FrequencyFunc) FrequencyFunc {
	if f == nil {
		return clock.Frequency
	}
	return f
}
