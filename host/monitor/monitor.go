// Package monitor decodes the report stream a board sends over its console
// UART and checks it against an expected clock tree.
package monitor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/libhal-google/libhal-stm32f1/clock"
	"github.com/libhal-google/libhal-stm32f1/protocol"
)

// Monitor reads protocol messages and keeps the latest board state.
type Monitor struct {
	Logger *slog.Logger

	// Expect, when set, is compared with every clock report
	Expect *clock.Rates

	// OnClock and OnRegister are called from Run for each report
	OnClock    func(protocol.ClockReport)
	OnRegister func(protocol.RegisterReport)

	mu        sync.Mutex
	rates     clock.Rates
	haveRates bool
	registers map[uint32]uint32
	unknown   int
	badFrames int
}

// New returns a Monitor logging to logger.
func New(logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Monitor{Logger: logger, registers: make(map[uint32]uint32)}
}

// result carries one ReadMessage outcome and the scanner's bad frame count
// at that point. The count is read on the reader goroutine, which owns the
// scanner.
type result struct {
	msg       protocol.Message
	err       error
	badFrames int
}

// Run reads messages from r until ctx is cancelled or r fails. A clean end
// of stream returns nil. Run does not close r; callers cancel a blocked
// read by closing the port after ctx is done.
func (m *Monitor) Run(ctx context.Context, r io.Reader) error {
	pr := protocol.NewReader(r)
	results := make(chan result)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			msg, err := pr.ReadMessage()
			select {
			case results <- result{msg, err, pr.BadFrames()}:
			case <-done:
				return
			}
			if err != nil && !errors.Is(err, protocol.ErrUnknownMessage) && !errors.Is(err, protocol.ErrShortVLQ) {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res := <-results:
			m.setBadFrames(res.badFrames)
			switch {
			case res.err == nil:
				m.handle(res.msg)
			case errors.Is(res.err, protocol.ErrUnknownMessage), errors.Is(res.err, protocol.ErrShortVLQ):
				m.mu.Lock()
				m.unknown++
				m.mu.Unlock()
				m.Logger.Warn("undecodable message", "error", res.err)
			case errors.Is(res.err, io.EOF):
				return nil
			default:
				return res.err
			}
		}
	}
}

func (m *Monitor) setBadFrames(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > m.badFrames {
		m.Logger.Warn("corrupted frames skipped", "count", n-m.badFrames)
	}
	m.badFrames = n
}

func (m *Monitor) handle(msg protocol.Message) {
	switch msg := msg.(type) {
	case protocol.ClockReport:
		m.mu.Lock()
		m.rates = msg.Rates
		m.haveRates = true
		m.mu.Unlock()

		m.Logger.Info("clock report", "rates", msg.Rates.String())
		if m.Expect != nil {
			for _, d := range Compare(*m.Expect, msg.Rates) {
				m.Logger.Error("clock mismatch", "clock", d.Name, "expected", d.Expected, "reported", d.Reported)
			}
		}
		if m.OnClock != nil {
			m.OnClock(msg)
		}

	case protocol.RegisterReport:
		m.mu.Lock()
		m.registers[msg.Addr] = msg.Value
		m.mu.Unlock()

		m.Logger.Debug("register report", "addr", msg.Addr, "value", msg.Value)
		if m.OnRegister != nil {
			m.OnRegister(msg)
		}
	}
}

// Rates returns the last reported rates.
func (m *Monitor) Rates() (clock.Rates, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rates, m.haveRates
}

// Register returns the last reported value at addr.
func (m *Monitor) Register(addr uint32) (uint32, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.registers[addr]
	return v, ok
}

// Stats returns the number of undecodable messages and corrupted frames.
func (m *Monitor) Stats() (unknown, badFrames int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unknown, m.badFrames
}
