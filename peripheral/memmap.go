package peripheral

import "github.com/libhal-google/libhal-stm32f1/regs"

// Peripheral block base addresses (RM0008 section 3.3)
const (
	AFIOBase    regs.Address = 0x4001_0000
	GPIOABase   regs.Address = 0x4001_0800
	SPI1Base    regs.Address = 0x4001_3000
	SPI2Base    regs.Address = 0x4000_3800
	RCCBase     regs.Address = 0x4002_1000
	FlashBase   regs.Address = 0x4002_2000
	SysTickBase regs.Address = 0xE000_E010

	// GPIO ports are laid out every 0x400 bytes starting at GPIOA
	GPIOStride = 0x400
)

// RCC registers
const (
	RCC_CR      = RCCBase + 0x00
	RCC_CFGR    = RCCBase + 0x04
	RCC_CIR     = RCCBase + 0x08
	RCC_APB2RST = RCCBase + 0x0C
	RCC_APB1RST = RCCBase + 0x10
	RCC_AHBENR  = RCCBase + 0x14
	RCC_APB2ENR = RCCBase + 0x18
	RCC_APB1ENR = RCCBase + 0x1C
	RCC_BDCR    = RCCBase + 0x20
	RCC_CSR     = RCCBase + 0x24
)

// Flash interface registers
const (
	FLASH_ACR = FlashBase + 0x00
)
