// Package peripheral identifies the on-chip peripherals of the STM32F1
// family and gates their bus clocks.
package peripheral

import "github.com/libhal-google/libhal-stm32f1/core"

// ID names a peripheral by its clock-enable bit. The value is
// bus*BusOffset + bit, where bit is the position in the bus's enable
// register (AHBENR, APB1ENR or APB2ENR). IDs at or beyond BeyondBus are not
// gated by any enable register.
type ID uint8

// Bus offsets
const (
	BusOffset = 32
	AHBBus    = BusOffset * 0
	APB1Bus   = BusOffset * 1
	APB2Bus   = BusOffset * 2
	BeyondBus = BusOffset * 3
)

// Bus numbers returned by ID.Bus
const (
	BusAHB = iota
	BusAPB1
	BusAPB2
	BusBeyond
)

// AHB peripherals
const (
	DMA1  ID = AHBBus + 0
	DMA2  ID = AHBBus + 1
	SRAM  ID = AHBBus + 2
	FLITF ID = AHBBus + 4
	CRC   ID = AHBBus + 6
	FSMC  ID = AHBBus + 8
	SDIO  ID = AHBBus + 10
)

// APB1 peripherals
const (
	Timer2         ID = APB1Bus + 0
	Timer3         ID = APB1Bus + 1
	Timer4         ID = APB1Bus + 2
	Timer5         ID = APB1Bus + 3
	Timer6         ID = APB1Bus + 4
	Timer7         ID = APB1Bus + 5
	Timer12        ID = APB1Bus + 6
	Timer13        ID = APB1Bus + 7
	Timer14        ID = APB1Bus + 8
	WindowWatchdog ID = APB1Bus + 11
	SPI2           ID = APB1Bus + 14
	SPI3           ID = APB1Bus + 15
	USART2         ID = APB1Bus + 17
	USART3         ID = APB1Bus + 18
	UART4          ID = APB1Bus + 19
	UART5          ID = APB1Bus + 20
	I2C1           ID = APB1Bus + 21
	I2C2           ID = APB1Bus + 22
	USB            ID = APB1Bus + 23
	CAN1           ID = APB1Bus + 25
	BackupClock    ID = APB1Bus + 27
	Power          ID = APB1Bus + 28
	DAC            ID = APB1Bus + 29
)

// APB2 peripherals
const (
	AFIO    ID = APB2Bus + 0
	GPIOA   ID = APB2Bus + 2
	GPIOB   ID = APB2Bus + 3
	GPIOC   ID = APB2Bus + 4
	GPIOD   ID = APB2Bus + 5
	GPIOE   ID = APB2Bus + 6
	GPIOF   ID = APB2Bus + 7
	GPIOG   ID = APB2Bus + 8
	ADC1    ID = APB2Bus + 9
	ADC2    ID = APB2Bus + 10
	Timer1  ID = APB2Bus + 11
	SPI1    ID = APB2Bus + 12
	Timer8  ID = APB2Bus + 13
	USART1  ID = APB2Bus + 14
	ADC3    ID = APB2Bus + 15
	Timer9  ID = APB2Bus + 19
	Timer10 ID = APB2Bus + 20
	Timer11 ID = APB2Bus + 21
)

// Clock consumers outside of any bus enable register
const (
	CPU         ID = BeyondBus + 0
	SystemTimer ID = BeyondBus + 1
	I2S         ID = BeyondBus + 2
)

// Bus returns the bus number of id (BusAHB, BusAPB1, BusAPB2 or BusBeyond).
func (id ID) Bus() int {
	return int(id) / BusOffset
}

// Bit returns the position of id within its bus enable register.
func (id ID) Bit() uint8 {
	return uint8(id) % BusOffset
}

var names = map[ID]string{
	DMA1: "dma1", DMA2: "dma2", SRAM: "sram", FLITF: "flitf", CRC: "crc",
	FSMC: "fsmc", SDIO: "sdio",

	Timer2: "timer2", Timer3: "timer3", Timer4: "timer4", Timer5: "timer5",
	Timer6: "timer6", Timer7: "timer7", Timer12: "timer12", Timer13: "timer13",
	Timer14: "timer14", WindowWatchdog: "window_watchdog", SPI2: "spi2",
	SPI3: "spi3", USART2: "usart2", USART3: "usart3", UART4: "uart4",
	UART5: "uart5", I2C1: "i2c1", I2C2: "i2c2", USB: "usb", CAN1: "can1",
	BackupClock: "backup_clock", Power: "power", DAC: "dac",

	AFIO: "afio", GPIOA: "gpioa", GPIOB: "gpiob", GPIOC: "gpioc",
	GPIOD: "gpiod", GPIOE: "gpioe", GPIOF: "gpiof", GPIOG: "gpiog",
	ADC1: "adc1", ADC2: "adc2", Timer1: "timer1", SPI1: "spi1",
	Timer8: "timer8", USART1: "usart1", ADC3: "adc3", Timer9: "timer9",
	Timer10: "timer10", Timer11: "timer11",

	CPU: "cpu", SystemTimer: "system_timer", I2S: "i2s",
}

// String returns the lower-case peripheral name, or "peripheral(N)" for
// values with no assigned peripheral.
func (id ID) String() string {
	if name, ok := names[id]; ok {
		return name
	}
	return "peripheral(" + core.Utoa(uint32(id)) + ")"
}

// All returns every named peripheral ID in ascending order.
func All() []ID {
	out := make([]ID, 0, len(names))
	for i := 0; i < 256; i++ {
		if _, ok := names[ID(i)]; ok {
			out = append(out, ID(i))
		}
	}
	return out
}

// Lookup returns the ID with the given String name.
func Lookup(name string) (ID, bool) {
	for id, n := range names {
		if n == name {
			return id, true
		}
	}
	return 0, false
}
