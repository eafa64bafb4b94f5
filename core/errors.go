package core

import "errors"

var (
	// ErrInvalidArgument is returned when a driver is asked for a port,
	// pin, bus or rate it does not have.
	ErrInvalidArgument = errors.New("invalid argument")

	errInvalidHertz = errors.New("invalid frequency")
)
