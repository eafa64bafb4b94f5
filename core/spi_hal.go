package core

// SPIBusID identifies a hardware SPI bus
type SPIBusID uint8

// SPIMode represents SPI clock polarity and phase (0-3)
// Mode 0: CPOL=0, CPHA=0 (clock idle low, sample on rising edge)
// Mode 1: CPOL=0, CPHA=1 (clock idle low, sample on falling edge)
// Mode 2: CPOL=1, CPHA=0 (clock idle high, sample on falling edge)
// Mode 3: CPOL=1, CPHA=1 (clock idle high, sample on rising edge)
type SPIMode uint8

// ClockIdlesHigh reports the CPOL bit of the mode.
func (m SPIMode) ClockIdlesHigh() bool {
	return m&0b10 != 0
}

// DataValidOnTrailingEdge reports the CPHA bit of the mode.
func (m SPIMode) DataValidOnTrailingEdge() bool {
	return m&0b01 != 0
}

// SPIConfig holds the configuration for an SPI bus
type SPIConfig struct {
	BusID SPIBusID // Hardware bus identifier
	Mode  SPIMode  // SPI mode (0-3)
	Rate  Hertz    // Maximum clock rate
}

// SPIDriver is the abstract SPI interface that core code uses.
type SPIDriver interface {
	// ConfigureBus sets up a hardware SPI bus with specified parameters
	// Returns an opaque bus handle and any error
	ConfigureBus(config SPIConfig) (interface{}, error)

	// Transfer performs a bidirectional SPI transfer
	// Sends txData and receives rxData simultaneously; the shorter slice is
	// padded with filler bytes or has its excess received bytes dropped
	Transfer(busHandle interface{}, txData []byte, rxData []byte) error

	// GetBusInfo returns a map of bus IDs to human-readable descriptions
	GetBusInfo() map[SPIBusID]string
}

var spiDriver SPIDriver

// SetSPIDriver is called by target-specific code to register its hardware SPI driver
func SetSPIDriver(d SPIDriver) {
	spiDriver = d
}

// MustSPI returns the configured hardware SPI driver or panics if missing
func MustSPI() SPIDriver {
	if spiDriver == nil {
		panic("SPI driver not configured")
	}
	return spiDriver
}
