package clock

import (
	"github.com/libhal-google/libhal-stm32f1/peripheral"
	"github.com/libhal-google/libhal-stm32f1/regs"
)

// RCC_CR fields
var (
	crPLLReady  = regs.Bit(25)
	crPLLEnable = regs.Bit(24)
	crHSEReady  = regs.Bit(17)
	crHSEEnable = regs.Bit(16)
)

// RCC_CFGR fields
var (
	cfgrUSBPrescaler = regs.Bit(22)
	cfgrPLLMul       = regs.Bits(18, 21)
	cfgrHSEPreDiv    = regs.Bit(17)
	cfgrPLLSource    = regs.Bit(16)
	cfgrADCPrescaler = regs.Bits(14, 15)
	cfgrAPB2Divider  = regs.Bits(11, 13)
	cfgrAPB1Divider  = regs.Bits(8, 10)
	cfgrAHBDivider   = regs.Bits(4, 7)
	cfgrSwitchStatus = regs.Bits(2, 3)
	cfgrSwitch       = regs.Bits(0, 1)
)

// RCC_BDCR fields
var (
	bdcrBackupReset = regs.Bit(16)
	bdcrRTCEnable   = regs.Bit(15)
	bdcrRTCSelect   = regs.Bits(8, 9)
	bdcrLSEReady    = regs.Bit(1)
	bdcrLSEEnable   = regs.Bit(0)
)

// FLASH_ACR fields
var (
	acrLatency = regs.Bits(0, 2)
)

const (
	rcc_CR    = peripheral.RCC_CR
	rcc_CFGR  = peripheral.RCC_CFGR
	rcc_BDCR  = peripheral.RCC_BDCR
	flash_ACR = peripheral.FLASH_ACR
)
