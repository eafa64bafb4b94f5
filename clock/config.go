package clock

import "github.com/libhal-google/libhal-stm32f1/core"

// Fixed internal oscillator frequencies
const (
	InternalHighSpeed core.Hertz = 8 * core.MHz
	InternalLowSpeed  core.Hertz = 20 * core.KHz

	// FlashClock is the rate of the flash programming interface, which
	// always runs from HSI
	FlashClock = InternalHighSpeed
)

// SystemClockSource selects the oscillator feeding SYSCLK (CFGR.SW).
type SystemClockSource uint8

const (
	SystemClockInternal SystemClockSource = 0b00 // HSI
	SystemClockExternal SystemClockSource = 0b01 // HSE
	SystemClockPLL      SystemClockSource = 0b10 // PLL output
)

// PLLSource selects the PLL reference input.
type PLLSource uint8

const (
	PLLSourceInternal     PLLSource = 0b0  // HSI / 2
	PLLSourceExternal     PLLSource = 0b1  // HSE
	PLLSourceExternalDiv2 PLLSource = 0b11 // HSE / 2, via the PLLXTPRE pre-divider
)

// PLLMultiply is the PLLMUL field code. Code n multiplies by n+2.
type PLLMultiply uint8

const (
	MultiplyBy2 PLLMultiply = iota
	MultiplyBy3
	MultiplyBy4
	MultiplyBy5
	MultiplyBy6
	MultiplyBy7
	MultiplyBy8
	MultiplyBy9
	MultiplyBy10
	MultiplyBy11
	MultiplyBy12
	MultiplyBy13
	MultiplyBy14
	MultiplyBy15
	MultiplyBy16
)

// Factor returns the multiplication factor of m. The hardware treats code
// 0b1111 as x16 too.
func (m PLLMultiply) Factor() uint32 {
	code := uint32(m) & 0xF
	if code == 0xF {
		return 16
	}
	return code + 2
}

// USBDivider is the USBPRE code dividing the PLL output for the USB
// peripheral.
type USBDivider uint8

const (
	USBDivideBy1Point5 USBDivider = 0
	USBDivideBy1       USBDivider = 1
)

// RTCSource selects the RTC clock (BDCR.RTCSEL).
type RTCSource uint8

const (
	RTCNoClock                 RTCSource = 0b00
	RTCLowSpeedInternal        RTCSource = 0b01
	RTCLowSpeedExternal        RTCSource = 0b10
	RTCHighSpeedExternalDiv128 RTCSource = 0b11
)

// AHBDivider is the HPRE code dividing SYSCLK into HCLK.
type AHBDivider uint8

const (
	AHBDivideBy1   AHBDivider = 0
	AHBDivideBy2   AHBDivider = 0b1000
	AHBDivideBy4   AHBDivider = 0b1001
	AHBDivideBy8   AHBDivider = 0b1010
	AHBDivideBy16  AHBDivider = 0b1011
	AHBDivideBy64  AHBDivider = 0b1100
	AHBDivideBy128 AHBDivider = 0b1101
	AHBDivideBy256 AHBDivider = 0b1110
	AHBDivideBy512 AHBDivider = 0b1111
)

// Divisor returns the division ratio of d. Codes 0b0xxx all leave SYSCLK
// undivided.
func (d AHBDivider) Divisor() uint32 {
	code := uint32(d) & 0xF
	if code < 0b1000 {
		return 1
	}
	shift := code - 0b1000 + 1
	if code >= uint32(AHBDivideBy64) {
		// /32 does not exist; the upper four codes skip it
		shift++
	}
	return 1 << shift
}

// APBDivider is the PPRE code dividing HCLK into PCLK1 or PCLK2.
type APBDivider uint8

const (
	APBDivideBy1  APBDivider = 0
	APBDivideBy2  APBDivider = 0b100
	APBDivideBy4  APBDivider = 0b101
	APBDivideBy8  APBDivider = 0b110
	APBDivideBy16 APBDivider = 0b111
)

// Divisor returns the division ratio of d. Codes 0b0xx leave HCLK undivided.
func (d APBDivider) Divisor() uint32 {
	code := uint32(d) & 0b111
	if code < 0b100 {
		return 1
	}
	return 1 << (code - 0b100 + 1)
}

// ADCDivider is the ADCPRE code dividing PCLK2 for the ADCs.
type ADCDivider uint8

const (
	ADCDivideBy2 ADCDivider = 0b00
	ADCDivideBy4 ADCDivider = 0b01
	ADCDivideBy6 ADCDivider = 0b10
	ADCDivideBy8 ADCDivider = 0b11
)

// Divisor returns the division ratio of d.
func (d ADCDivider) Divisor() uint32 {
	return (uint32(d)&0b11 + 1) * 2
}

// Tree is the declarative clock configuration applied by Configure.
//
// The zero value is the reset configuration: SYSCLK from HSI, PLL off, every
// bus undivided, ADC at PCLK2/2, no RTC clock.
//
// Configure trusts the tree. Some combinations lock the part up for good:
// selecting the PLL while it is disabled, selecting HSE (or an HSE-fed PLL)
// while HighSpeedExternal is zero, or running the PLL above 72MHz. Use
// Validate, or Configurator.Strict, to catch these before touching hardware.
//
// See RM0008 Figure 8, Clock tree.
type Tree struct {
	// HighSpeedExternal is the HSE crystal frequency, zero when not fitted
	HighSpeedExternal core.Hertz `yaml:"high_speed_external" json:"high_speed_external"`

	// LowSpeedExternal is the LSE crystal frequency, zero when not fitted
	LowSpeedExternal core.Hertz `yaml:"low_speed_external" json:"low_speed_external"`

	PLL PLL `yaml:"pll" json:"pll"`

	SystemClock SystemClockSource `yaml:"system_clock" json:"system_clock"`

	RTC RTC `yaml:"rtc" json:"rtc"`

	AHB AHB `yaml:"ahb" json:"ahb"`
}

// PLL configures the phase-locked loop.
type PLL struct {
	Enable   bool        `yaml:"enable" json:"enable"`
	Source   PLLSource   `yaml:"source" json:"source"`
	Multiply PLLMultiply `yaml:"multiply" json:"multiply"`
	USB      USBDivider  `yaml:"usb_divider" json:"usb_divider"`
}

// RTC configures the real-time clock source.
type RTC struct {
	Enable bool      `yaml:"enable" json:"enable"`
	Source RTCSource `yaml:"source" json:"source"`
}

// AHB configures the dividers downstream of the system clock mux.
type AHB struct {
	Divider AHBDivider `yaml:"divider" json:"divider"`

	// APB1 must not exceed 36MHz
	APB1 APB1 `yaml:"apb1" json:"apb1"`

	APB2 APB2 `yaml:"apb2" json:"apb2"`
}

// APB1 configures the low-speed peripheral bus.
type APB1 struct {
	Divider APBDivider `yaml:"divider" json:"divider"`
}

// APB2 configures the high-speed peripheral bus and the ADC prescaler.
type APB2 struct {
	Divider APBDivider `yaml:"divider" json:"divider"`

	// ADC must not exceed 14MHz
	ADC ADC `yaml:"adc" json:"adc"`
}

// ADC configures the ADC prescaler.
type ADC struct {
	Divider ADCDivider `yaml:"divider" json:"divider"`
}
