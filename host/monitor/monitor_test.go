package monitor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/libhal-google/libhal-stm32f1/clock"
	"github.com/libhal-google/libhal-stm32f1/core"
	"github.com/libhal-google/libhal-stm32f1/peripheral"
	"github.com/libhal-google/libhal-stm32f1/protocol"
)

func bluePillRates() clock.Rates {
	return clock.Derive(clock.Tree{
		HighSpeedExternal: 8 * core.MHz,
		PLL:               clock.PLL{Enable: true, Source: clock.PLLSourceExternal, Multiply: clock.MultiplyBy9},
		SystemClock:       clock.SystemClockPLL,
		AHB:               clock.AHB{APB1: clock.APB1{Divider: clock.APBDivideBy2}},
	})
}

func stream(t *testing.T, msgs ...protocol.Message) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	w := protocol.NewWriter(&buf)
	for _, m := range msgs {
		if err := w.WriteMessage(m); err != nil {
			t.Fatalf("WriteMessage failed: %v", err)
		}
	}
	return &buf
}

func TestRunRecordsReports(t *testing.T) {
	rates := bluePillRates()
	wire := stream(t,
		protocol.ClockReport{Rates: rates},
		protocol.RegisterReport{Addr: uint32(peripheral.RCC_CFGR), Value: 0x001D840A},
	)

	m := New(nil)
	var clocks, registers int
	m.OnClock = func(protocol.ClockReport) { clocks++ }
	m.OnRegister = func(protocol.RegisterReport) { registers++ }

	if err := m.Run(context.Background(), wire); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if clocks != 1 || registers != 1 {
		t.Errorf("Expected 1 clock and 1 register callback, got %d and %d", clocks, registers)
	}
	got, ok := m.Rates()
	if !ok || got != rates {
		t.Errorf("Expected rates %s, got %s", rates, got)
	}
	if v, ok := m.Register(uint32(peripheral.RCC_CFGR)); !ok || v != 0x001D840A {
		t.Errorf("Unexpected CFGR report 0x%08X, %v", v, ok)
	}
	if _, ok := m.Register(0x1234); ok {
		t.Error("Expected no report for an unknown address")
	}
}

func TestRunSkipsNoise(t *testing.T) {
	var wire bytes.Buffer
	wire.Write([]byte{0x00, 0x55, 0x12, protocol.SyncByte}) // line noise
	wire.Write(stream(t, protocol.ClockReport{Rates: clock.DefaultRates()}).Bytes())

	// A well-framed payload with an unknown message id
	var enc protocol.Encoder
	frame, _ := enc.Encode(nil, protocol.AppendUVLQ(nil, 99))
	wire.Write(frame)

	m := New(nil)
	if err := m.Run(context.Background(), &wire); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, ok := m.Rates(); !ok {
		t.Error("Expected the clock report after the noise")
	}
	if unknown, _ := m.Stats(); unknown != 1 {
		t.Errorf("Expected 1 unknown message, got %d", unknown)
	}
}

// corruptCRC replaces a frame's CRC with a wrong value that holds no sync
// byte, so the scanner resyncs on the frame's own trailer.
func corruptCRC(frame []byte) []byte {
	hi, lo := len(frame)-3, len(frame)-2
	bad := byte(0x00)
	if frame[hi] == 0x00 && frame[lo] == 0x00 {
		bad = 0x01
	}
	frame[hi], frame[lo] = bad, bad
	return frame
}

func TestRunCountsCorruptedFrames(t *testing.T) {
	const n = 200
	var wire bytes.Buffer
	var enc protocol.Encoder
	for i := 0; i < n; i++ {
		good := protocol.RegisterReport{Addr: uint32(peripheral.RCC_CR), Value: uint32(i % 64)}
		frame, err := enc.Encode(nil, good.AppendPayload(nil))
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		wire.Write(frame)

		frame, _ = enc.Encode(nil, good.AppendPayload(nil))
		wire.Write(corruptCRC(frame))
	}
	wire.Write(stream(t, protocol.ClockReport{Rates: clock.DefaultRates()}).Bytes())

	m := New(nil)
	var registers int
	m.OnRegister = func(protocol.RegisterReport) { registers++ }
	if err := m.Run(context.Background(), &wire); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if registers != n {
		t.Errorf("Expected %d register reports, got %d", n, registers)
	}
	if _, ok := m.Rates(); !ok {
		t.Error("Expected the trailing clock report")
	}
	if _, bad := m.Stats(); bad != n {
		t.Errorf("Expected %d bad frames, got %d", n, bad)
	}
}

func TestRunLogsMismatch(t *testing.T) {
	var logs bytes.Buffer
	m := New(slog.New(slog.NewTextHandler(&logs, nil)))

	want := bluePillRates()
	m.Expect = &want

	got := want
	got.APB1 = 72 * core.MHz
	if err := m.Run(context.Background(), stream(t, protocol.ClockReport{Rates: got})); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	out := logs.String()
	if !strings.Contains(out, "clock mismatch") || !strings.Contains(out, "clock=apb1") {
		t.Errorf("Expected an apb1 mismatch in the log, got:\n%s", out)
	}
}

func TestRunCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- New(nil).Run(ctx, r)
	}()

	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	r.Close()
}

func TestRunReadError(t *testing.T) {
	r, w := io.Pipe()
	boom := errors.New("unplugged")
	go w.CloseWithError(boom)

	if err := New(nil).Run(context.Background(), r); !errors.Is(err, boom) {
		t.Errorf("Expected the read error, got %v", err)
	}
}

func TestCompare(t *testing.T) {
	want := bluePillRates()
	if d := Compare(want, want); len(d) != 0 {
		t.Errorf("Expected no differences, got %v", d)
	}

	got := want
	got.USB = 0
	got.RTC = 32768
	d := Compare(want, got)
	if len(d) != 2 || d[0].Name != "usb" || d[1].Name != "rtc" {
		t.Fatalf("Unexpected differences %v", d)
	}
	if d[1].Expected != 0 || d[1].Reported != 32768 {
		t.Errorf("Unexpected rtc difference %+v", d[1])
	}
}
