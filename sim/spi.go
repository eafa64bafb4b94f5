package sim

import "github.com/libhal-google/libhal-stm32f1/regs"

// SPI register offsets
const (
	spiCR1 = 0x00
	spiSR  = 0x08
	spiDR  = 0x0C
)

var (
	srRXNE = regs.Bit(0)
	srTXE  = regs.Bit(1)
)

// SPI is a loopback SPI master at a fixed base address. Each byte written
// to DR is shifted through Respond and the reply is latched for the next DR
// read, with RXNE set until it is read.
type SPI struct {
	// Respond maps each transmitted byte to the received one. Nil echoes.
	Respond func(tx byte) byte

	// Sent collects every transmitted byte
	Sent []byte

	rx      byte
	pending bool
}

// AttachSPI wires a loopback SPI into the board at base.
func (b *Board) AttachSPI(base regs.Address) *SPI {
	s := &SPI{}
	b.Preset(base.Offset(spiSR), srTXE.Mask())

	b.OnStore(base.Offset(spiDR), func(_ regs.Address, _, value uint32) uint32 {
		tx := byte(value)
		s.Sent = append(s.Sent, tx)
		s.rx = tx
		if s.Respond != nil {
			s.rx = s.Respond(tx)
		}
		s.pending = true
		return value
	})
	b.OnLoad(base.Offset(spiDR), func(_ regs.Address, _ uint32) uint32 {
		s.pending = false
		return uint32(s.rx)
	})
	b.OnLoad(base.Offset(spiSR), func(_ regs.Address, stored uint32) uint32 {
		stored |= srTXE.Mask()
		if s.pending {
			stored |= srRXNE.Mask()
		} else {
			stored &^= srRXNE.Mask()
		}
		return stored
	})
	return s
}

// Control returns the CR1 register of the SPI at base.
func (b *Board) Control(base regs.Address) uint32 {
	return b.Peek(base.Offset(spiCR1))
}
