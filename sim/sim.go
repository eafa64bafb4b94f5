// Package sim models the STM32F1 reset and clock control block, the flash
// interface and a loopback SPI on top of a regs.Memory, so register
// sequences can be exercised on the host. GPIO ports A to E and the SysTick
// timer can be modelled as well.
//
// The model covers the handshakes software depends on: ready flags follow
// their enable bits, the system clock status follows the switch only once
// the selected source is ready, and a backup-domain reset wipes the RTC
// configuration. Oscillators can be marked as missing to reproduce a board
// without a crystal.
package sim

import (
	"github.com/libhal-google/libhal-stm32f1/peripheral"
	"github.com/libhal-google/libhal-stm32f1/regs"
)

// Reset values (RM0008 section 7.3)
const (
	ResetCR   = 0x0000_0083 // HSION, HSIRDY, HSITRIM=16
	ResetCFGR = 0x0000_0000
	ResetBDCR = 0x0000_0000
	ResetACR  = 0x0000_0030 // PRFTBE, PRFTBS
)

var (
	crHSIOn  = regs.Bit(0)
	crHSIRdy = regs.Bit(1)
	crHSEOn  = regs.Bit(16)
	crHSERdy = regs.Bit(17)
	crPLLOn  = regs.Bit(24)
	crPLLRdy = regs.Bit(25)

	cfgrSW  = regs.Bits(0, 1)
	cfgrSWS = regs.Bits(2, 3)

	bdcrLSEOn  = regs.Bit(0)
	bdcrLSERdy = regs.Bit(1)
	bdcrRTCSel = regs.Bits(8, 9)
	bdcrRTCEn  = regs.Bit(15)
	bdcrBDRST  = regs.Bit(16)
)

// Board is a simulated STM32F1 register file.
type Board struct {
	*regs.Memory

	// Oscillators physically present. A missing oscillator never reports
	// ready, exactly like a board without the crystal fitted.
	HSEFitted bool
	LSEFitted bool

	// PLLLocks controls whether PLLRDY follows PLLON
	PLLLocks bool

	// BackupResets counts rising edges of BDCR.BDRST
	BackupResets int
}

// New returns a board in its reset state with every oscillator fitted.
func New() *Board {
	b := &Board{
		Memory:    regs.NewMemory(),
		HSEFitted: true,
		LSEFitted: true,
		PLLLocks:  true,
	}
	b.Preset(peripheral.RCC_CR, ResetCR)
	b.Preset(peripheral.RCC_CFGR, ResetCFGR)
	b.Preset(peripheral.RCC_BDCR, ResetBDCR)
	b.Preset(peripheral.FLASH_ACR, ResetACR)

	b.OnStore(peripheral.RCC_CR, b.storeCR)
	b.OnStore(peripheral.RCC_CFGR, b.storeCFGR)
	b.OnStore(peripheral.RCC_BDCR, b.storeBDCR)
	b.attachGPIO()
	return b
}

func (b *Board) storeCR(_ regs.Address, old, value uint32) uint32 {
	value = crHSIRdy.Insert(value, crHSIOn.Extract(value))
	value = crHSERdy.Insert(value, boolBit(b.HSEFitted && crHSEOn.Extract(value) == 1))
	value = crPLLRdy.Insert(value, boolBit(b.PLLLocks && crPLLOn.Extract(value) == 1))
	return value
}

// storeCFGR keeps SWS on the old source when the requested one is not
// ready, which is how the hardware refuses an unusable clock.
func (b *Board) storeCFGR(_ regs.Address, old, value uint32) uint32 {
	sw := cfgrSW.Extract(value)
	sws := cfgrSWS.Extract(old)
	if b.sourceReady(sw) {
		sws = sw
	}
	return cfgrSWS.Insert(value, sws)
}

func (b *Board) sourceReady(sw uint32) bool {
	cr := b.Peek(peripheral.RCC_CR)
	switch sw {
	case 0b00:
		return cr&crHSIRdy.Mask() != 0
	case 0b01:
		return cr&crHSERdy.Mask() != 0
	case 0b10:
		return cr&crPLLRdy.Mask() != 0
	default:
		return false
	}
}

func (b *Board) storeBDCR(_ regs.Address, old, value uint32) uint32 {
	if bdcrBDRST.Extract(value) == 1 {
		if bdcrBDRST.Extract(old) == 0 {
			b.BackupResets++
		}
		return bdcrBDRST.Mask()
	}
	return bdcrLSERdy.Insert(value, boolBit(b.LSEFitted && bdcrLSEOn.Extract(value) == 1))
}

// SwitchStatus returns the CFGR.SWS field.
func (b *Board) SwitchStatus() uint32 {
	return cfgrSWS.Extract(b.Peek(peripheral.RCC_CFGR))
}

// RTCSelect returns BDCR.RTCSEL and BDCR.RTCEN.
func (b *Board) RTCSelect() (source uint32, enabled bool) {
	bdcr := b.Peek(peripheral.RCC_BDCR)
	return bdcrRTCSel.Extract(bdcr), bdcrRTCEn.Extract(bdcr) == 1
}

func boolBit(on bool) uint32 {
	if on {
		return 1
	}
	return 0
}
