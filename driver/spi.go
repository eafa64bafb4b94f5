package driver

import (
	"github.com/libhal-google/libhal-stm32f1/core"
	"github.com/libhal-google/libhal-stm32f1/peripheral"
	"github.com/libhal-google/libhal-stm32f1/regs"
	"tinygo.org/x/drivers"
)

// SPI register offsets
const (
	spiCR1 = 0x00
	spiSR  = 0x08
	spiDR  = 0x0C
)

// SPI_CR1 fields
var (
	cr1Phase     = regs.Bit(0)
	cr1Polarity  = regs.Bit(1)
	cr1Master    = regs.Bit(2)
	cr1BaudRate  = regs.Bits(3, 5)
	cr1Enable    = regs.Bit(6)
	cr1LSBFirst  = regs.Bit(7)
	cr1SSI       = regs.Bit(8)
	cr1SSM       = regs.Bit(9)
	cr1RXOnly    = regs.Bit(10)
	cr1FrameSize = regs.Bit(11)
)

// SPI_SR fields
var (
	srRXNotEmpty = regs.Bit(0)
)

// spiBusConfig describes a hardware SPI bus and its default pins.
type spiBusConfig struct {
	id   peripheral.ID
	base regs.Address
	sck  core.GPIOPin
	miso core.GPIOPin
	mosi core.GPIOPin
	name string
}

// RM0008 Table 25, default (unremapped) pins
var spiBuses = map[core.SPIBusID]spiBusConfig{
	1: {
		id: peripheral.SPI1, base: peripheral.SPI1Base,
		sck: core.MakePin('A', 5), miso: core.MakePin('A', 6), mosi: core.MakePin('A', 7),
		name: "spi1 (sck PA5, miso PA6, mosi PA7)",
	},
	2: {
		id: peripheral.SPI2, base: peripheral.SPI2Base,
		sck: core.MakePin('B', 13), miso: core.MakePin('B', 14), mosi: core.MakePin('B', 15),
		name: "spi2 (sck PB13, miso PB14, mosi PB15)",
	},
}

// SPISettings configures an SPI master.
type SPISettings struct {
	ClockRate               core.Hertz
	ClockIdlesHigh          bool
	DataValidOnTrailingEdge bool
}

// SPI is a polled, full-duplex, 8-bit SPI master. It implements the TinyGo
// drivers.SPI interface so sensor drivers from tinygo.org/x/drivers can sit
// on top of it.
type SPI struct {
	bus  regs.Bus
	info spiBusConfig

	// Clock supplies the bus clock; nil means clock.Frequency
	Clock FrequencyFunc

	// Poller bounds the wait for each received byte
	Poller regs.Poller

	// Filler is transmitted once the outgoing data runs out
	Filler byte

	rate core.Hertz
}

var _ drivers.SPI = (*SPI)(nil)

// NewSPI returns the master for bus number 1 or 2, configured with
// settings.
func NewSPI(bus regs.Bus, number core.SPIBusID, settings SPISettings) (*SPI, error) {
	s, err := newSPI(bus, number)
	if err != nil {
		return nil, err
	}
	if err := s.Configure(settings); err != nil {
		return nil, err
	}
	return s, nil
}

func newSPI(bus regs.Bus, number core.SPIBusID) (*SPI, error) {
	info, ok := spiBuses[number]
	if !ok {
		return nil, ErrInvalidBus
	}
	return &SPI{bus: bus, info: info, Filler: 0xFF}, nil
}

// BaudRateCode returns the BR field that divides busClock down to at most
// rate. The divisor is 2 << code.
func BaudRateCode(busClock, rate core.Hertz) (uint32, error) {
	if rate == 0 {
		return 0, ErrUnreachableRate
	}
	for code := uint32(0); code <= 7; code++ {
		if busClock/core.Hertz(2<<code) <= rate {
			return code, nil
		}
	}
	return 0, ErrUnreachableRate
}

// Configure follows the master-mode setup of RM0008 section 25.3.3.
func (s *SPI) Configure(settings SPISettings) error {
	busClock := orDefault(s.Clock)(s.info.id)
	code, err := BaudRateCode(busClock, settings.ClockRate)
	if err != nil {
		return err
	}

	gate := peripheral.Gate{Bus: s.bus}
	gate.On(s.info.id)
	gate.On(peripheral.AFIO)
	for _, pin := range []core.GPIOPin{s.info.sck, s.info.miso, s.info.mosi} {
		id, _ := PortID(pin)
		gate.On(id)
	}

	cr1 := s.info.base.Offset(spiCR1)

	// Disable while the frame format changes
	regs.Modify(s.bus, cr1).Clear(cr1Enable).Apply()

	regs.Modify(s.bus, cr1).
		Insert(cr1BaudRate, code).
		InsertBool(cr1Polarity, settings.ClockIdlesHigh).
		InsertBool(cr1Phase, settings.DataValidOnTrailingEdge).
		Clear(cr1FrameSize).
		Clear(cr1LSBFirst).
		Clear(cr1RXOnly).
		Set(cr1SSM).
		Set(cr1SSI).
		Apply()

	ConfigurePin(s.bus, s.info.sck, PushPullAlternate)
	ConfigurePin(s.bus, s.info.miso, InputFloat)
	ConfigurePin(s.bus, s.info.mosi, PushPullAlternate)

	regs.Modify(s.bus, cr1).Set(cr1Master).Set(cr1Enable).Apply()

	s.rate = busClock / core.Hertz(2<<code)
	core.Debug("spi: ", s.info.id.String(), " at ", s.rate.String())
	return nil
}

// Rate returns the SCK frequency chosen by the last Configure.
func (s *SPI) Rate() core.Hertz {
	return s.rate
}

// Close disables the SPI and gates its clock.
func (s *SPI) Close() {
	regs.Modify(s.bus, s.info.base.Offset(spiCR1)).Clear(cr1Enable).Apply()
	peripheral.Gate{Bus: s.bus}.Off(s.info.id)
}

// Exchange clocks max(len(out), len(in)) bytes. Bytes past the end of out
// are sent as Filler and bytes past the end of in are dropped.
func (s *SPI) Exchange(out, in []byte) error {
	n := len(out)
	if len(in) > n {
		n = len(in)
	}

	dr := s.info.base.Offset(spiDR)
	sr := s.info.base.Offset(spiSR)
	for i := 0; i < n; i++ {
		tx := s.Filler
		if i < len(out) {
			tx = out[i]
		}
		s.bus.Store(dr, uint32(tx))

		if err := s.Poller.UntilSet(s.bus, sr, srRXNotEmpty); err != nil {
			return err
		}

		rx := byte(s.bus.Load(dr))
		if i < len(in) {
			in[i] = rx
		}
	}
	return nil
}

// Tx implements drivers.SPI. Either slice may be nil.
func (s *SPI) Tx(w, r []byte) error {
	return s.Exchange(w, r)
}

// Transfer implements drivers.SPI.
func (s *SPI) Transfer(b byte) (byte, error) {
	var in [1]byte
	err := s.Exchange([]byte{b}, in[:])
	return in[0], err
}

// SPIDriver implements core.SPIDriver over the hardware SPI buses.
type SPIDriver struct {
	bus regs.Bus

	// Clock is passed to every bus; nil means clock.Frequency
	Clock FrequencyFunc

	// Track configured buses to avoid reconfiguration
	configured map[core.SPIBusID]*spiInstance
}

type spiInstance struct {
	spi    *SPI
	config core.SPIConfig
}

var _ core.SPIDriver = (*SPIDriver)(nil)

// NewSPIDriver creates an SPI driver on bus.
func NewSPIDriver(bus regs.Bus) *SPIDriver {
	return &SPIDriver{
		bus:        bus,
		configured: make(map[core.SPIBusID]*spiInstance),
	}
}

// ConfigureBus implements core.SPIDriver. The handle is a *SPI.
func (d *SPIDriver) ConfigureBus(config core.SPIConfig) (interface{}, error) {
	if inst, ok := d.configured[config.BusID]; ok && inst.config == config {
		return inst.spi, nil
	}

	s, err := newSPI(d.bus, config.BusID)
	if err != nil {
		return nil, err
	}
	s.Clock = d.Clock

	err = s.Configure(SPISettings{
		ClockRate:               config.Rate,
		ClockIdlesHigh:          config.Mode.ClockIdlesHigh(),
		DataValidOnTrailingEdge: config.Mode.DataValidOnTrailingEdge(),
	})
	if err != nil {
		return nil, err
	}

	d.configured[config.BusID] = &spiInstance{spi: s, config: config}
	return s, nil
}

// Transfer implements core.SPIDriver.
func (d *SPIDriver) Transfer(busHandle interface{}, txData []byte, rxData []byte) error {
	s, ok := busHandle.(*SPI)
	if !ok {
		return ErrInvalidBus
	}
	return s.Exchange(txData, rxData)
}

// GetBusInfo implements core.SPIDriver.
func (d *SPIDriver) GetBusInfo() map[core.SPIBusID]string {
	info := make(map[core.SPIBusID]string, len(spiBuses))
	for id, config := range spiBuses {
		info[id] = config.name
	}
	return info
}
