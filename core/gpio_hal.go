package core

// GPIOPin identifies a hardware GPIO pin.
// On ported parts the value is port*16 + pin, with port 0 meaning 'A'.
type GPIOPin uint32

// InvalidPin is what MakePin returns for a port that is not a letter.
// Every driver rejects it.
const InvalidPin GPIOPin = 0xFFFFFFFF

// MakePin builds a GPIOPin from a port letter ('A'..'G') and pin number.
func MakePin(port byte, pin uint8) GPIOPin {
	if port < 'A' || port > 'Z' {
		return InvalidPin
	}
	return GPIOPin(uint32(port-'A')*16 + uint32(pin&0x0F))
}

// Port returns the port letter of p, or '?' past port Z.
func (p GPIOPin) Port() byte {
	if p/16 > 'Z'-'A' {
		return '?'
	}
	return byte('A' + p/16)
}

// Number returns the pin index within its port.
func (p GPIOPin) Number() uint8 {
	return uint8(p % 16)
}

// String formats the pin as "PA5".
func (p GPIOPin) String() string {
	return "P" + string(p.Port()) + Utoa(uint32(p.Number()))
}

// OutputPin is a single digital output.
type OutputPin interface {
	// Set drives the pin high (true) or low (false)
	Set(high bool) error

	// Get reads back the current pin level
	Get() (bool, error)
}

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a push-pull digital output
	ConfigureOutput(pin GPIOPin) error

	// ConfigureInputPullUp configures a pin as a digital input with pull-up resistor
	ConfigureInputPullUp(pin GPIOPin) error

	// ConfigureInputPullDown configures a pin as a digital input with pull-down resistor
	ConfigureInputPullDown(pin GPIOPin) error

	// SetPin sets the pin to high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error

	// GetPin reads the current pin state
	GetPin(pin GPIOPin) (bool, error)
}

// Global singleton used by core code.
var gpioDriver GPIODriver

// SetGPIODriver is called by target-specific code to register its driver.
func SetGPIODriver(d GPIODriver) {
	gpioDriver = d
}

// MustGPIO returns the configured driver or panics if missing.
func MustGPIO() GPIODriver {
	if gpioDriver == nil {
		panic("GPIO driver not configured")
	}
	return gpioDriver
}
