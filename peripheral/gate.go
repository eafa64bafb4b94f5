package peripheral

import "github.com/libhal-google/libhal-stm32f1/regs"

// Gate switches peripheral bus clocks on and off through the RCC enable
// registers.
type Gate struct {
	Bus regs.Bus
}

// enableRegister returns the enable register for id and false for IDs
// outside of any gated bus.
func enableRegister(id ID) (regs.Address, bool) {
	switch id.Bus() {
	case BusAHB:
		return RCC_AHBENR, true
	case BusAPB1:
		return RCC_APB1ENR, true
	case BusAPB2:
		return RCC_APB2ENR, true
	default:
		return 0, false
	}
}

// On enables the clock of id. Ungated IDs are ignored.
func (g Gate) On(id ID) {
	if reg, ok := enableRegister(id); ok {
		regs.Modify(g.Bus, reg).Set(regs.Bit(id.Bit())).Apply()
	}
}

// Off disables the clock of id. Ungated IDs are ignored.
func (g Gate) Off(id ID) {
	if reg, ok := enableRegister(id); ok {
		regs.Modify(g.Bus, reg).Clear(regs.Bit(id.Bit())).Apply()
	}
}

// IsOn reports whether the clock of id is enabled. Ungated IDs are always on.
func (g Gate) IsOn(id ID) bool {
	reg, ok := enableRegister(id)
	if !ok {
		return true
	}
	return regs.IsSet(g.Bus, reg, regs.Bit(id.Bit()))
}
