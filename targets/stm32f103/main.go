//go:build tinygo && stm32f103

// Firmware for the STM32F103 "blue pill": brings the clock tree up to 72MHz,
// reports the result on USART1 and blinks PC13.
package main

import (
	"machine"

	"github.com/libhal-google/libhal-stm32f1/board"
	"github.com/libhal-google/libhal-stm32f1/clock"
	"github.com/libhal-google/libhal-stm32f1/core"
	"github.com/libhal-google/libhal-stm32f1/protocol"
	"github.com/libhal-google/libhal-stm32f1/regs"
)

const (
	consoleBaud = 115200

	// LED half period in microseconds
	blinkPeriod = 200 * 1000
	faultPeriod = 50 * 1000

	// Resend the clock report every this many LED toggles
	reportEvery = 25

	// Ready-flag polls before an oscillator counts as missing
	oscillatorTimeout = 100000
)

func main() {
	// Give up on a missing crystal instead of hanging in the ready wait
	clock.Default().Poller = regs.Poller{Bound: oscillatorTimeout}

	b, clockErr := board.Init(regs.MMIO{}, board.BluePill)
	if b == nil {
		// The LED pin itself failed, nothing left to report on
		for {
		}
	}

	uart := machine.DefaultUART
	uart.Configure(machine.UARTConfig{BaudRate: consoleBaud})
	console := board.Writer{Writer: uart}
	core.SetSerial(console)

	// Debug text shares USART1 with the report frames, so it stays off
	// unless a debugger flips it
	core.SetDebugWriter(func(s string) {
		// Debug output is best effort
		_, _ = console.Write([]byte(s))
		_, _ = console.Write([]byte("\r\n"))
	})

	period := uint32(blinkPeriod)
	if clockErr != nil {
		// Running from HSI: the console baud rate is off, fast blink instead
		period = faultPeriod
	}

	// A failed console write drops one report; the next tick sends a fresh one
	reports := protocol.NewWriter(console)
	_ = b.Report(reports)

	b.Blink(period, func(n uint32) bool {
		if n%reportEvery == reportEvery-1 {
			_ = b.Report(reports)
		}
		return true
	})
}
