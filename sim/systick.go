package sim

import (
	"github.com/libhal-google/libhal-stm32f1/peripheral"
	"github.com/libhal-google/libhal-stm32f1/regs"
)

const (
	sysTickCSR = peripheral.SysTickBase + 0x00
	sysTickRVR = peripheral.SysTickBase + 0x04
	sysTickCVR = peripheral.SysTickBase + 0x08
)

var csrEnable = regs.Bit(0)

// RunSysTick makes the SysTick counter advance by step ticks on every read
// of its current value while the timer is enabled. Writing the current
// value clears it, and the counter reloads from RVR after reaching zero.
func (b *Board) RunSysTick(step uint32) {
	b.OnStore(sysTickCVR, func(regs.Address, uint32, uint32) uint32 {
		return 0
	})
	b.OnLoad(sysTickCVR, func(_ regs.Address, stored uint32) uint32 {
		if csrEnable.Extract(b.Peek(sysTickCSR)) == 0 {
			return stored
		}
		reload := b.Peek(sysTickRVR) & 0x00FF_FFFF
		next := stored
		for left := step; left > 0; {
			if next == 0 {
				next = reload
				left--
				continue
			}
			n := min(left, next)
			next -= n
			left -= n
		}
		b.Preset(sysTickCVR, next)
		return next
	})
}
