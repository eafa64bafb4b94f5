// Package board brings up an STM32F103 "blue pill": clock tree, drivers and
// the status LED, and reports the resulting clock state over a serial link.
package board

import (
	"io"

	"github.com/libhal-google/libhal-stm32f1/clock"
	"github.com/libhal-google/libhal-stm32f1/core"
	"github.com/libhal-google/libhal-stm32f1/driver"
	"github.com/libhal-google/libhal-stm32f1/peripheral"
	"github.com/libhal-google/libhal-stm32f1/protocol"
	"github.com/libhal-google/libhal-stm32f1/regs"
)

// LED is the on-board LED. It lights when the pin is low.
var LED = core.MakePin('C', 13)

// BluePill runs the core at 72MHz from the 8MHz crystal, with USB at 48MHz,
// ADC at 12MHz and the RTC on the 32.768kHz crystal.
var BluePill = clock.Tree{
	HighSpeedExternal: 8 * core.MHz,
	LowSpeedExternal:  32768,
	PLL: clock.PLL{
		Enable:   true,
		Source:   clock.PLLSourceExternal,
		Multiply: clock.MultiplyBy9,
		USB:      clock.USBDivideBy1Point5,
	},
	SystemClock: clock.SystemClockPLL,
	RTC:         clock.RTC{Enable: true, Source: clock.RTCLowSpeedExternal},
	AHB: clock.AHB{
		APB1: clock.APB1{Divider: clock.APBDivideBy2},
		APB2: clock.APB2{ADC: clock.ADC{Divider: clock.ADCDivideBy6}},
	},
}

// Board holds the drivers registered by Init.
type Board struct {
	Bus   regs.Bus
	GPIO  *driver.GPIO
	SPI   *driver.SPIDriver
	Ticks *driver.SysTick
	LED   *driver.OutputPin
}

// Init configures tree on bus and registers the GPIO, SPI and steady clock
// drivers with core. A clock error is returned after the drivers are up:
// the configurator has fallen back to HSI and the board is still usable.
func Init(bus regs.Bus, tree clock.Tree) (*Board, error) {
	clock.SetBus(bus)
	clockErr := clock.Configure(tree)

	b := &Board{
		Bus:   bus,
		GPIO:  driver.NewGPIO(bus),
		SPI:   driver.NewSPIDriver(bus),
		Ticks: driver.NewSysTick(bus),
	}
	b.Ticks.Start()

	core.SetGPIODriver(b.GPIO)
	core.SetSPIDriver(b.SPI)
	core.SetSteadyClock(b.Ticks)

	led, err := driver.NewOutputPin(bus, LED, driver.OutputSettings{})
	if err != nil {
		return nil, err
	}
	b.LED = led
	if err := led.Set(true); err != nil { // off
		return nil, err
	}

	return b, clockErr
}

// Reported registers, in the order they are sent
var reported = []regs.Address{
	peripheral.RCC_CR,
	peripheral.RCC_CFGR,
	peripheral.RCC_BDCR,
	peripheral.FLASH_ACR,
}

// Report sends the current clock rates followed by the raw clock
// registers.
func (b *Board) Report(w *protocol.Writer) error {
	if err := w.WriteMessage(protocol.ClockReport{Rates: clock.CurrentRates()}); err != nil {
		return err
	}
	for _, addr := range reported {
		msg := protocol.RegisterReport{Addr: uint32(addr), Value: b.Bus.Load(addr)}
		if err := w.WriteMessage(msg); err != nil {
			return err
		}
	}
	return nil
}

// Blink toggles the LED every period microseconds, calling tick after each
// toggle. It returns when tick returns false.
func (b *Board) Blink(period uint32, tick func(n uint32) bool) {
	on := false
	for n := uint32(0); ; n++ {
		on = !on
		b.LED.Set(!on)
		core.DelayUS(b.Ticks, period)
		if !tick(n) {
			return
		}
	}
}

// Writer adapts a byte sink without a flush to core.Serial.
type Writer struct {
	io.Writer
}

// Flush implements core.Serial.
func (Writer) Flush() error { return nil }
