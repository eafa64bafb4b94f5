package driver

import (
	"github.com/libhal-google/libhal-stm32f1/core"
	"github.com/libhal-google/libhal-stm32f1/peripheral"
	"github.com/libhal-google/libhal-stm32f1/regs"
)

// GPIO port register offsets
const (
	gpioCRL  = 0x00
	gpioCRH  = 0x04
	gpioIDR  = 0x08
	gpioBSRR = 0x10
)

// afioMAPR is the AF remap and debug I/O configuration register
const afioMAPR = peripheral.AFIOBase + 0x04

var maprJTAGConfig = regs.Bits(24, 26)

// jtagRelease keeps SW-DP and frees PA15, PB3 and PB4
const jtagRelease = 0b010

// MaxPort is the last GPIO port letter on the largest parts
const MaxPort = 'G'

// PinMode is the MODE field of a pin configuration nibble.
type PinMode uint8

const (
	ModeInput     PinMode = 0b00
	ModeOutput10M PinMode = 0b01
	ModeOutput2M  PinMode = 0b10
	ModeOutput50M PinMode = 0b11
)

// PinConfig is the 4-bit CNF/MODE setting of one pin, plus the ODR level
// that selects between pull-up and pull-down on pulled inputs.
type PinConfig struct {
	CNF1 bool
	CNF0 bool
	Mode PinMode

	// Pull is written to ODR when set; only meaningful for pulled inputs
	Pull *bool
}

var (
	pullHigh = true
	pullLow  = false
)

// Pin configuration presets (RM0008 Table 20)
var (
	PushPullOutput     = PinConfig{Mode: ModeOutput50M}
	OpenDrainOutput    = PinConfig{CNF0: true, Mode: ModeOutput50M}
	PushPullAlternate  = PinConfig{CNF1: true, Mode: ModeOutput50M}
	OpenDrainAlternate = PinConfig{CNF1: true, CNF0: true, Mode: ModeOutput50M}
	InputAnalog        = PinConfig{}
	InputFloat         = PinConfig{CNF0: true}
	InputPullDown      = PinConfig{CNF1: true, Pull: &pullLow}
	InputPullUp        = PinConfig{CNF1: true, Pull: &pullHigh}
)

// nibble packs c as CNF1|CNF0|MODE.
func (c PinConfig) nibble() uint32 {
	n := uint32(c.Mode) & 0b11
	if c.CNF0 {
		n |= 1 << 2
	}
	if c.CNF1 {
		n |= 1 << 3
	}
	return n
}

// portIndex returns pin's port as 0 for A, checked against the last port
// letter. It works on the raw value so wrapped letters cannot slip through.
func portIndex(pin core.GPIOPin, last byte) (uint32, error) {
	idx := uint32(pin) / 16
	if idx > uint32(last-'A') {
		return 0, ErrInvalidPin
	}
	return idx, nil
}

// portBase returns the GPIO register block of pin's port.
func portBase(pin core.GPIOPin) (regs.Address, error) {
	idx, err := portIndex(pin, MaxPort)
	if err != nil {
		return 0, err
	}
	return peripheral.GPIOABase + regs.Address(idx*peripheral.GPIOStride), nil
}

// PortID returns the clock gate of pin's port.
func PortID(pin core.GPIOPin) (peripheral.ID, error) {
	idx, err := portIndex(pin, MaxPort)
	if err != nil {
		return 0, err
	}
	return peripheral.GPIOA + peripheral.ID(idx), nil
}

func configField(pin core.GPIOPin) (regs.Address, regs.Field, error) {
	base, err := portBase(pin)
	if err != nil {
		return 0, regs.Field{}, err
	}
	n := pin.Number()
	reg := base.Offset(gpioCRL)
	if n > 7 {
		reg = base.Offset(gpioCRH)
	}
	return reg, regs.Field{Pos: (n * 4) % 32, Width: 4}, nil
}

// ConfigurePin writes cfg into pin's CRL or CRH nibble. The port clock must
// already be on.
func ConfigurePin(bus regs.Bus, pin core.GPIOPin, cfg PinConfig) error {
	reg, field, err := configField(pin)
	if err != nil {
		return err
	}
	regs.Modify(bus, reg).Insert(field, cfg.nibble()).Apply()

	if cfg.Pull != nil {
		writeLevel(bus, pin, *cfg.Pull)
	}
	return nil
}

// PinConfigOf reads back the CNF/MODE nibble of pin.
func PinConfigOf(bus regs.Bus, pin core.GPIOPin) (PinConfig, error) {
	reg, field, err := configField(pin)
	if err != nil {
		return PinConfig{}, err
	}
	n := regs.Read(bus, reg, field)
	return PinConfig{
		CNF1: n&(1<<3) != 0,
		CNF0: n&(1<<2) != 0,
		Mode: PinMode(n & 0b11),
	}, nil
}

// writeLevel drives pin through BSRR, which sets and resets without a
// read-modify-write of ODR.
func writeLevel(bus regs.Bus, pin core.GPIOPin, high bool) {
	base, _ := portBase(pin)
	bit := uint32(1) << pin.Number()
	if !high {
		bit <<= 16
	}
	bus.Store(base.Offset(gpioBSRR), bit)
}

func readLevel(bus regs.Bus, pin core.GPIOPin) bool {
	base, _ := portBase(pin)
	return bus.Load(base.Offset(gpioIDR))&(1<<pin.Number()) != 0
}

// ReleaseJTAGPins frees PA15, PB3 and PB4 for general use while keeping the
// SWD debug port.
func ReleaseJTAGPins(bus regs.Bus) {
	peripheral.Gate{Bus: bus}.On(peripheral.AFIO)
	regs.Modify(bus, afioMAPR).Insert(maprJTAGConfig, jtagRelease).Apply()
}
