package board

import (
	"bytes"
	"errors"
	"testing"

	"github.com/libhal-google/libhal-stm32f1/clock"
	"github.com/libhal-google/libhal-stm32f1/core"
	"github.com/libhal-google/libhal-stm32f1/peripheral"
	"github.com/libhal-google/libhal-stm32f1/protocol"
	"github.com/libhal-google/libhal-stm32f1/regs"
	"github.com/libhal-google/libhal-stm32f1/sim"
)

func newBoard(t *testing.T) *sim.Board {
	t.Helper()
	b := sim.New()
	b.RunSysTick(7200) // 100us per read at 72MHz
	clock.Default().Poller = regs.Poller{Bound: 100}
	t.Cleanup(func() {
		clock.SetBus(nil)
		clock.Default().Poller = regs.Poller{}
		core.SetGPIODriver(nil)
		core.SetSPIDriver(nil)
		core.SetSteadyClock(nil)
	})
	return b
}

func TestInit(t *testing.T) {
	hw := newBoard(t)
	b, err := Init(hw, BluePill)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if got := clock.Frequency(peripheral.CPU); got != 72*core.MHz {
		t.Errorf("Expected 72MHz CPU, got %s", got)
	}
	if b.Ticks.Frequency() != 72*core.MHz {
		t.Errorf("Expected SysTick sampled at 72MHz, got %s", b.Ticks.Frequency())
	}
	if core.MustGPIO() != core.GPIODriver(b.GPIO) || core.MustSteadyClock() != core.SteadyClock(b.Ticks) {
		t.Error("Expected drivers registered with core")
	}
	if level, _ := b.LED.Get(); !level {
		t.Error("Expected the LED pin high (off) after Init")
	}
}

func TestInitWithoutCrystal(t *testing.T) {
	hw := newBoard(t)
	hw.HSEFitted = false

	b, err := Init(hw, BluePill)
	if !errors.Is(err, clock.ErrClockNotReady) {
		t.Fatalf("Expected ErrClockNotReady, got %v", err)
	}
	if b == nil {
		t.Fatal("Expected a usable board on HSI")
	}
	if got := clock.Frequency(peripheral.CPU); got != clock.InternalHighSpeed {
		t.Errorf("Expected HSI, got %s", got)
	}
}

func TestReport(t *testing.T) {
	hw := newBoard(t)
	b, err := Init(hw, BluePill)
	if err != nil {
		t.Fatal(err)
	}

	var wire bytes.Buffer
	if err := b.Report(protocol.NewWriter(&wire)); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	r := protocol.NewReader(&wire)
	m, err := r.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if cr, ok := m.(protocol.ClockReport); !ok || cr.Rates != clock.Derive(BluePill) {
		t.Errorf("Unexpected clock report %#v", m)
	}

	for _, addr := range reported {
		m, err := r.ReadMessage()
		if err != nil {
			t.Fatal(err)
		}
		reg, ok := m.(protocol.RegisterReport)
		if !ok || reg.Addr != uint32(addr) || reg.Value != hw.Peek(addr) {
			t.Errorf("Unexpected register report %#v for 0x%08X", m, uint32(addr))
		}
	}
}

func TestBlink(t *testing.T) {
	hw := newBoard(t)
	b, err := Init(hw, BluePill)
	if err != nil {
		t.Fatal(err)
	}

	var levels []bool
	b.Blink(1000, func(n uint32) bool {
		level, _ := b.LED.Get()
		levels = append(levels, level)
		return n < 3
	})

	want := []bool{false, true, false, true}
	if len(levels) != len(want) {
		t.Fatalf("Expected %d toggles, got %d", len(want), len(levels))
	}
	for i := range want {
		if levels[i] != want[i] {
			t.Errorf("Toggle %d: expected level %v, got %v", i, want[i], levels[i])
		}
	}
}

func TestWriterFlush(t *testing.T) {
	var buf bytes.Buffer
	var s core.Serial = Writer{&buf}
	s.Write([]byte("ok"))
	if err := s.Flush(); err != nil || buf.String() != "ok" {
		t.Errorf("Unexpected serial state %q, %v", buf.String(), err)
	}
}
