package core

// SteadyClock is a monotonic tick counter.
type SteadyClock interface {
	// Frequency returns the tick rate. It may change after the clock tree
	// is reconfigured.
	Frequency() Hertz

	// Uptime returns the number of ticks since the clock was started
	Uptime() uint64
}

var steadyClock SteadyClock

// SetSteadyClock registers the system steady clock.
func SetSteadyClock(c SteadyClock) {
	steadyClock = c
}

// MustSteadyClock returns the configured steady clock or panics if missing.
func MustSteadyClock() SteadyClock {
	if steadyClock == nil {
		panic("steady clock not configured")
	}
	return steadyClock
}
