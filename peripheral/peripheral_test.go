package peripheral

import (
	"testing"

	"github.com/libhal-google/libhal-stm32f1/regs"
)

func TestIDPartitioning(t *testing.T) {
	testCases := []struct {
		id  ID
		bus int
		bit uint8
	}{
		{DMA1, BusAHB, 0},
		{FLITF, BusAHB, 4},
		{Timer2, BusAPB1, 0},
		{USB, BusAPB1, 23},
		{AFIO, BusAPB2, 0},
		{SPI1, BusAPB2, 12},
		{Timer11, BusAPB2, 21},
		{CPU, BusBeyond, 0},
		{I2S, BusBeyond, 2},
	}

	for _, tc := range testCases {
		if tc.id.Bus() != tc.bus || tc.id.Bit() != tc.bit {
			t.Errorf("%s: expected bus %d bit %d, got bus %d bit %d",
				tc.id, tc.bus, tc.bit, tc.id.Bus(), tc.id.Bit())
		}
	}
}

func TestIDNames(t *testing.T) {
	if SystemTimer.String() != "system_timer" {
		t.Errorf("Unexpected name %q", SystemTimer.String())
	}
	if ID(200).String() != "peripheral(200)" {
		t.Errorf("Unexpected name %q", ID(200).String())
	}

	id, ok := Lookup("gpioc")
	if !ok || id != GPIOC {
		t.Errorf("Lookup(gpioc) = %v, %v", id, ok)
	}

	all := All()
	for i := 1; i < len(all); i++ {
		if all[i-1] >= all[i] {
			t.Fatalf("All() is not strictly ascending at %d", i)
		}
	}
	if len(all) != len(names) {
		t.Errorf("All() returned %d ids, expected %d", len(all), len(names))
	}
}

func TestGate(t *testing.T) {
	mem := regs.NewMemory()
	gate := Gate{Bus: mem}

	gate.On(GPIOC)
	gate.On(SPI2)
	gate.On(DMA1)

	if got := mem.Peek(RCC_APB2ENR); got != 1<<4 {
		t.Errorf("APB2ENR = 0x%08X, expected GPIOC bit", got)
	}
	if got := mem.Peek(RCC_APB1ENR); got != 1<<14 {
		t.Errorf("APB1ENR = 0x%08X, expected SPI2 bit", got)
	}
	if got := mem.Peek(RCC_AHBENR); got != 1 {
		t.Errorf("AHBENR = 0x%08X, expected DMA1 bit", got)
	}

	if !gate.IsOn(GPIOC) || gate.IsOn(GPIOA) {
		t.Error("IsOn does not reflect the enable register")
	}

	gate.Off(GPIOC)
	if gate.IsOn(GPIOC) {
		t.Error("GPIOC still on after Off")
	}
}

func TestGateUngated(t *testing.T) {
	mem := regs.NewMemory()
	gate := Gate{Bus: mem}

	gate.On(CPU)
	gate.Off(I2S)

	if _, stores := mem.Counts(); stores != 0 {
		t.Errorf("Ungated ids touched %d registers", stores)
	}
	if !gate.IsOn(SystemTimer) {
		t.Error("Ungated ids should always report on")
	}
}
