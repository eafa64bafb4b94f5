package driver

import (
	"bytes"
	"errors"
	"testing"

	"github.com/libhal-google/libhal-stm32f1/core"
	"github.com/libhal-google/libhal-stm32f1/peripheral"
	"github.com/libhal-google/libhal-stm32f1/regs"
	"github.com/libhal-google/libhal-stm32f1/sim"
)

func fixedClock(rate core.Hertz) FrequencyFunc {
	return func(peripheral.ID) core.Hertz { return rate }
}

func TestBaudRateCode(t *testing.T) {
	testCases := []struct {
		bus  core.Hertz
		rate core.Hertz
		code uint32
		err  bool
	}{
		{72 * core.MHz, 36 * core.MHz, 0, false},
		{72 * core.MHz, 40 * core.MHz, 0, false},
		{72 * core.MHz, 10 * core.MHz, 2, false},
		{72 * core.MHz, 1 * core.MHz, 6, false},
		{72 * core.MHz, 281250, 7, false},
		{72 * core.MHz, 100 * core.KHz, 0, true},
		{8 * core.MHz, 4 * core.MHz, 0, false},
		{8 * core.MHz, 0, 0, true},
	}

	for _, tc := range testCases {
		code, err := BaudRateCode(tc.bus, tc.rate)
		if tc.err {
			if !errors.Is(err, ErrUnreachableRate) {
				t.Errorf("%s from %s: expected ErrUnreachableRate, got code %d", tc.rate, tc.bus, code)
			}
			continue
		}
		if err != nil || code != tc.code {
			t.Errorf("%s from %s: expected code %d, got %d (%v)", tc.rate, tc.bus, tc.code, code, err)
		}
	}
}

func TestSPIConfigure(t *testing.T) {
	board := sim.New()
	board.AttachSPI(peripheral.SPI1Base)

	s, err := newSPI(board, 1)
	if err != nil {
		t.Fatal(err)
	}
	s.Clock = fixedClock(72 * core.MHz)

	err = s.Configure(SPISettings{ClockRate: 10 * core.MHz, ClockIdlesHigh: true})
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if s.Rate() != 9*core.MHz {
		t.Errorf("Expected 9MHz SCK, got %s", s.Rate())
	}

	cr1 := board.Control(peripheral.SPI1Base)
	fields := []struct {
		name  string
		field regs.Field
		want  uint32
	}{
		{"BR", cr1BaudRate, 2},
		{"CPOL", cr1Polarity, 1},
		{"CPHA", cr1Phase, 0},
		{"MSTR", cr1Master, 1},
		{"SPE", cr1Enable, 1},
		{"SSM", cr1SSM, 1},
		{"SSI", cr1SSI, 1},
		{"DFF", cr1FrameSize, 0},
	}
	for _, f := range fields {
		if got := f.field.Extract(cr1); got != f.want {
			t.Errorf("CR1.%s: expected %d, got %d", f.name, f.want, got)
		}
	}

	gate := peripheral.Gate{Bus: board}
	if !gate.IsOn(peripheral.SPI1) || !gate.IsOn(peripheral.GPIOA) {
		t.Error("Expected SPI1 and GPIOA clocks on")
	}

	crl := board.Peek(gpioReg('A', gpioCRL))
	for pin, want := range map[uint32]uint32{5: 0b1011, 6: 0b0100, 7: 0b1011} {
		if got := (crl >> (pin * 4)) & 0xF; got != want {
			t.Errorf("PA%d: expected nibble 0b%04b, got 0b%04b", pin, want, got)
		}
	}

	s.Close()
	if gate.IsOn(peripheral.SPI1) {
		t.Error("Expected SPI1 clock off after Close")
	}
}

func TestSPIExchange(t *testing.T) {
	board := sim.New()
	wire := board.AttachSPI(peripheral.SPI2Base)
	wire.Respond = func(tx byte) byte { return ^tx }

	s, err := NewSPI(board, 2, SPISettings{ClockRate: 1 * core.MHz})
	if err != nil {
		t.Fatalf("NewSPI failed: %v", err)
	}

	in := make([]byte, 5)
	if err := s.Exchange([]byte{1, 2, 3}, in); err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	if !bytes.Equal(wire.Sent, []byte{1, 2, 3, 0xFF, 0xFF}) {
		t.Errorf("Expected filler after data, sent %x", wire.Sent)
	}
	if !bytes.Equal(in, []byte{0xFE, 0xFD, 0xFC, 0x00, 0x00}) {
		t.Errorf("Unexpected received bytes %x", in)
	}

	// Received bytes past the end of in are dropped
	wire.Sent = nil
	short := make([]byte, 1)
	if err := s.Tx([]byte{0x10, 0x20}, short); err != nil {
		t.Fatal(err)
	}
	if len(wire.Sent) != 2 || short[0] != 0xEF {
		t.Errorf("Unexpected Tx result: sent %x, got %x", wire.Sent, short)
	}

	b, err := s.Transfer(0x55)
	if err != nil || b != 0xAA {
		t.Errorf("Transfer gave 0x%02X, %v", b, err)
	}
}

func TestSPIExchangeTimeout(t *testing.T) {
	// No SPI model attached, so RXNE never rises
	mem := regs.NewMemory()
	s, err := NewSPI(mem, 1, SPISettings{ClockRate: 4 * core.MHz})
	if err != nil {
		t.Fatal(err)
	}
	s.Poller = regs.Poller{Bound: 5}

	if err := s.Exchange([]byte{1}, nil); !errors.Is(err, regs.ErrNotReady) {
		t.Errorf("Expected ErrNotReady, got %v", err)
	}
}

func TestSPIDefaultClock(t *testing.T) {
	// Before the clock tree is configured APB2 runs at HSI
	s, err := NewSPI(regs.NewMemory(), 1, SPISettings{ClockRate: 4 * core.MHz})
	if err != nil {
		t.Fatal(err)
	}
	if s.Rate() != 4*core.MHz {
		t.Errorf("Expected 4MHz from an 8MHz bus, got %s", s.Rate())
	}
}

func TestSPIInvalidBus(t *testing.T) {
	if _, err := NewSPI(regs.NewMemory(), 3, SPISettings{ClockRate: core.MHz}); !errors.Is(err, ErrInvalidBus) {
		t.Errorf("Expected ErrInvalidBus, got %v", err)
	}
}

func TestSPIDriver(t *testing.T) {
	board := sim.New()
	wire := board.AttachSPI(peripheral.SPI1Base)

	d := NewSPIDriver(board)
	d.Clock = fixedClock(72 * core.MHz)

	config := core.SPIConfig{BusID: 1, Mode: 3, Rate: 4 * core.MHz}
	h1, err := d.ConfigureBus(config)
	if err != nil {
		t.Fatalf("ConfigureBus failed: %v", err)
	}
	h2, _ := d.ConfigureBus(config)
	if h1 != h2 {
		t.Error("Expected the same handle for an unchanged configuration")
	}

	cr1 := board.Control(peripheral.SPI1Base)
	if cr1Polarity.Extract(cr1) != 1 || cr1Phase.Extract(cr1) != 1 {
		t.Errorf("Expected mode 3, CR1=0x%08X", cr1)
	}

	rx := make([]byte, 2)
	if err := d.Transfer(h1, []byte{0xA5, 0x5A}, rx); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(rx, []byte{0xA5, 0x5A}) || !bytes.Equal(wire.Sent, []byte{0xA5, 0x5A}) {
		t.Errorf("Expected loopback, got rx %x sent %x", rx, wire.Sent)
	}

	if err := d.Transfer("bogus", nil, nil); !errors.Is(err, ErrInvalidBus) {
		t.Errorf("Expected ErrInvalidBus for a bad handle, got %v", err)
	}
	if _, err := d.ConfigureBus(core.SPIConfig{BusID: 9, Rate: core.MHz}); !errors.Is(err, ErrInvalidBus) {
		t.Errorf("Expected ErrInvalidBus, got %v", err)
	}
	if info := d.GetBusInfo(); len(info) != 2 {
		t.Errorf("Expected 2 buses, got %v", info)
	}
}
