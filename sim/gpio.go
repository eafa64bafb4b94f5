package sim

import (
	"github.com/libhal-google/libhal-stm32f1/peripheral"
	"github.com/libhal-google/libhal-stm32f1/regs"
)

// GPIO register offsets
const (
	gpioIDR  = 0x08
	gpioODR  = 0x0C
	gpioBSRR = 0x10
	gpioBRR  = 0x14
)

// Ports bonded out on the 48-pin package and larger
const simulatedPorts = 5

func gpioBase(port byte) regs.Address {
	return peripheral.GPIOABase + regs.Address(uint32(port-'A')*peripheral.GPIOStride)
}

// attachGPIO models the set/reset registers of ports A to E. The pins read
// back what the output register drives, as if nothing external were
// connected.
func (b *Board) attachGPIO() {
	for i := byte(0); i < simulatedPorts; i++ {
		base := gpioBase('A' + i)
		odr := base.Offset(gpioODR)
		idr := base.Offset(gpioIDR)

		drive := func(set, reset uint32) {
			v := (b.Peek(odr) &^ reset) | set
			b.Preset(odr, v&0xFFFF)
			b.Preset(idr, v&0xFFFF)
		}
		b.OnStore(base.Offset(gpioBSRR), func(_ regs.Address, _, value uint32) uint32 {
			drive(value&0xFFFF, value>>16&^value)
			return 0
		})
		b.OnStore(base.Offset(gpioBRR), func(_ regs.Address, _, value uint32) uint32 {
			drive(0, value&0xFFFF)
			return 0
		})
		b.OnStore(odr, func(_ regs.Address, _, value uint32) uint32 {
			b.Preset(idr, value&0xFFFF)
			return value & 0xFFFF
		})
	}
}

// Level returns the level the simulated pin reads back.
func (b *Board) Level(port byte, pin uint8) bool {
	return b.Peek(gpioBase(port).Offset(gpioIDR))&(1<<pin) != 0
}
