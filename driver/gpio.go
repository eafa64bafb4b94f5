package driver

import (
	"github.com/libhal-google/libhal-stm32f1/core"
	"github.com/libhal-google/libhal-stm32f1/peripheral"
	"github.com/libhal-google/libhal-stm32f1/regs"
)

// GPIO implements core.GPIODriver for every port of the part.
type GPIO struct {
	bus regs.Bus

	// Track configured pins so repeated configuration is a no-op
	configured map[core.GPIOPin]PinConfig
}

var _ core.GPIODriver = (*GPIO)(nil)

// NewGPIO creates a GPIO driver on bus.
func NewGPIO(bus regs.Bus) *GPIO {
	return &GPIO{
		bus:        bus,
		configured: make(map[core.GPIOPin]PinConfig),
	}
}

func (d *GPIO) configure(pin core.GPIOPin, cfg PinConfig) error {
	if prev, ok := d.configured[pin]; ok && prev.nibble() == cfg.nibble() && samePull(prev, cfg) {
		return nil
	}

	id, err := PortID(pin)
	if err != nil {
		return err
	}
	peripheral.Gate{Bus: d.bus}.On(id)

	if err := ConfigurePin(d.bus, pin, cfg); err != nil {
		return err
	}
	d.configured[pin] = cfg
	return nil
}

func samePull(a, b PinConfig) bool {
	if a.Pull == nil || b.Pull == nil {
		return a.Pull == b.Pull
	}
	return *a.Pull == *b.Pull
}

// ConfigureOutput implements core.GPIODriver.
func (d *GPIO) ConfigureOutput(pin core.GPIOPin) error {
	return d.configure(pin, PushPullOutput)
}

// ConfigureInputPullUp implements core.GPIODriver.
func (d *GPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	return d.configure(pin, InputPullUp)
}

// ConfigureInputPullDown implements core.GPIODriver.
func (d *GPIO) ConfigureInputPullDown(pin core.GPIOPin) error {
	return d.configure(pin, InputPullDown)
}

// SetPin implements core.GPIODriver. Unconfigured pins are made outputs
// first.
func (d *GPIO) SetPin(pin core.GPIOPin, value bool) error {
	if _, ok := d.configured[pin]; !ok {
		if err := d.ConfigureOutput(pin); err != nil {
			return err
		}
	}
	writeLevel(d.bus, pin, value)
	return nil
}

// GetPin implements core.GPIODriver. Unconfigured pins read low.
func (d *GPIO) GetPin(pin core.GPIOPin) (bool, error) {
	if _, ok := d.configured[pin]; !ok {
		return false, nil
	}
	return readLevel(d.bus, pin), nil
}
