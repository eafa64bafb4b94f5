package core

// TicksFromUS converts microseconds to ticks of a clock running at freq.
func TicksFromUS(freq Hertz, us uint32) uint64 {
	return uint64(us) * uint64(freq) / 1000000
}

// TicksToUS converts ticks of a clock running at freq to microseconds.
func TicksToUS(freq Hertz, ticks uint64) uint64 {
	if freq == 0 {
		return 0
	}
	return ticks * 1000000 / uint64(freq)
}

// UptimeUS returns the uptime of the registered steady clock in microseconds.
func UptimeUS() uint64 {
	c := MustSteadyClock()
	return TicksToUS(c.Frequency(), c.Uptime())
}

// DelayUS busy-waits on clock for at least us microseconds.
func DelayUS(clock SteadyClock, us uint32) {
	start := clock.Uptime()
	ticks := TicksFromUS(clock.Frequency(), us)
	for clock.Uptime()-start < ticks {
	}
}
