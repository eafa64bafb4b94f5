package regs

// Forever is the Poller bound that never gives up.
const Forever = 0

// Poller spins on a hardware condition.
//
// With Bound == Forever the loop never returns until the condition holds,
// which is the expected behaviour during early boot when no timebase exists
// yet. A non-zero Bound counts failed checks, not time, so it works before
// any clock has been calibrated.
type Poller struct {
	Bound uint32
}

// Until spins until cond returns true. It returns ErrNotReady once Bound
// checks have failed.
func (p Poller) Until(cond func() bool) error {
	if p.Bound == Forever {
		for !cond() {
		}
		return nil
	}
	for i := uint32(0); i < p.Bound; i++ {
		if cond() {
			return nil
		}
	}
	return ErrNotReady
}

// UntilSet spins until any bit of f at addr is set.
func (p Poller) UntilSet(bus Bus, addr Address, f Field) error {
	return p.Until(func() bool {
		return IsSet(bus, addr, f)
	})
}

// UntilEqual spins until field f at addr reads back value.
func (p Poller) UntilEqual(bus Bus, addr Address, f Field, value uint32) error {
	return p.Until(func() bool {
		return Read(bus, addr, f) == value
	})
}
