package core

import "io"

// Serial is a byte stream to the outside world, usually a UART.
type Serial interface {
	io.Writer

	// Flush blocks until every written byte has left the transmitter
	Flush() error
}

var serialPort Serial

// SetSerial registers the console serial port.
func SetSerial(s Serial) {
	serialPort = s
}

// GetSerial returns the registered serial port or nil if none.
func GetSerial() Serial {
	return serialPort
}
