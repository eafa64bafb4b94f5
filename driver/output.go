package driver

import (
	"github.com/libhal-google/libhal-stm32f1/core"
	"github.com/libhal-google/libhal-stm32f1/peripheral"
	"github.com/libhal-google/libhal-stm32f1/regs"
)

// OutputSettings selects the output stage of an OutputPin.
type OutputSettings struct {
	OpenDrain bool
}

// OutputPin is a GPIO pin driven as a digital output. It implements
// core.OutputPin.
type OutputPin struct {
	bus regs.Bus
	pin core.GPIOPin
}

var _ core.OutputPin = (*OutputPin)(nil)

// NewOutputPin powers the pin's port and configures it as an output. Only
// ports A to E are bonded out on the packages this driver supports.
func NewOutputPin(bus regs.Bus, pin core.GPIOPin, settings OutputSettings) (*OutputPin, error) {
	if _, err := portIndex(pin, 'E'); err != nil {
		return nil, err
	}
	id, err := PortID(pin)
	if err != nil {
		return nil, err
	}

	gate := peripheral.Gate{Bus: bus}
	gate.On(peripheral.AFIO)
	gate.On(id)

	p := &OutputPin{bus: bus, pin: pin}
	if err := p.Configure(settings); err != nil {
		return nil, err
	}
	return p, nil
}

// Configure switches between push-pull and open-drain.
func (p *OutputPin) Configure(settings OutputSettings) error {
	cfg := PushPullOutput
	if settings.OpenDrain {
		cfg = OpenDrainOutput
	}
	return ConfigurePin(p.bus, p.pin, cfg)
}

// Pin returns the pin being driven.
func (p *OutputPin) Pin() core.GPIOPin {
	return p.pin
}

// Set implements core.OutputPin.
func (p *OutputPin) Set(high bool) error {
	writeLevel(p.bus, p.pin, high)
	return nil
}

// Get implements core.OutputPin. It reads the input data register, so an
// open-drain pin held low externally reads low.
func (p *OutputPin) Get() (bool, error) {
	return readLevel(p.bus, p.pin), nil
}
