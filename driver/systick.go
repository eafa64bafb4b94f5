package driver

import (
	"github.com/libhal-google/libhal-stm32f1/core"
	"github.com/libhal-google/libhal-stm32f1/peripheral"
	"github.com/libhal-google/libhal-stm32f1/regs"
)

// SysTick registers (ARMv7-M B3.3)
const (
	sysTickCSR = peripheral.SysTickBase + 0x00
	sysTickRVR = peripheral.SysTickBase + 0x04
	sysTickCVR = peripheral.SysTickBase + 0x08
)

var (
	csrEnable      = regs.Bit(0)
	csrTickInt     = regs.Bit(1)
	csrClockSource = regs.Bit(2)
)

// sysTickMax is the 24-bit reload value
const sysTickMax = 0x00FF_FFFF

// SysTick is a free-running steady clock on the Cortex-M3 system timer,
// clocked from HCLK. The 24-bit down-counter is extended to 64 bits in
// software, so Uptime must be called at least once per wrap (about 233ms
// at 72MHz).
type SysTick struct {
	bus regs.Bus

	// Clock supplies the timer clock; nil means clock.Frequency
	Clock FrequencyFunc

	last   uint32
	ticks  uint64
	frozen core.Hertz
}

var _ core.SteadyClock = (*SysTick)(nil)

// NewSysTick returns a stopped SysTick clock.
func NewSysTick(bus regs.Bus) *SysTick {
	return &SysTick{bus: bus}
}

// Start reloads the counter and starts it without interrupts.
func (s *SysTick) Start() {
	regs.Modify(s.bus, sysTickCSR).Clear(csrEnable).Apply()
	s.bus.Store(sysTickRVR, sysTickMax)
	s.bus.Store(sysTickCVR, 0)
	s.last = sysTickMax
	s.ticks = 0
	s.frozen = orDefault(s.Clock)(peripheral.SystemTimer)

	regs.Modify(s.bus, sysTickCSR).
		Set(csrClockSource).
		Clear(csrTickInt).
		Set(csrEnable).
		Apply()
}

// Frequency implements core.SteadyClock. It is sampled at Start, so call
// Start again after reconfiguring the clock tree.
func (s *SysTick) Frequency() core.Hertz {
	return s.frozen
}

// Uptime implements core.SteadyClock.
func (s *SysTick) Uptime() uint64 {
	state := core.DisableInterrupts()
	now := s.bus.Load(sysTickCVR) & sysTickMax
	s.ticks += uint64((s.last - now) & sysTickMax)
	s.last = now
	total := s.ticks
	core.RestoreInterrupts(state)
	return total
}
