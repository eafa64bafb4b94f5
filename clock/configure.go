package clock

import (
	"errors"

	"github.com/libhal-google/libhal-stm32f1/core"
	"github.com/libhal-google/libhal-stm32f1/regs"
)

var (
	// ErrClockNotReady is returned when a bounded poll for an oscillator,
	// the PLL or the system clock switch gives up.
	ErrClockNotReady = errors.New("clock not ready")

	// ErrNoBus is returned by Configure when no register bus is attached.
	ErrNoBus = errors.New("clock configurator has no register bus")
)

// Stage names used in errors and debug output
const (
	StageHSE    = "hse"
	StageLSE    = "lse"
	StagePLL    = "pll"
	StageSwitch = "sysclk switch"
)

// NotReadyError reports which hardware stage failed to come up.
type NotReadyError struct {
	Stage string
}

func (e *NotReadyError) Error() string {
	return "clock not ready: " + e.Stage
}

// Is makes errors.Is(err, ErrClockNotReady) hold.
func (e *NotReadyError) Is(target error) bool {
	return target == ErrClockNotReady
}

// Configurator applies clock trees to the RCC and FLASH register blocks and
// remembers the rates the last tree produced.
//
// A Configurator is not safe for concurrent use. Configure is meant to run
// once during boot, before interrupts are enabled and before any driver
// reads a frequency.
type Configurator struct {
	// Bus reaches the RCC and FLASH registers
	Bus regs.Bus

	// Poller bounds the ready-flag waits. The zero value waits forever.
	Poller regs.Poller

	// Strict makes Configure reject trees that fail Validate before any
	// register is written.
	Strict bool

	rates      Rates
	configured bool
}

// NewConfigurator returns a Configurator that waits forever on ready flags.
func NewConfigurator(bus regs.Bus) *Configurator {
	return &Configurator{Bus: bus}
}

// Configured reports whether a tree has been applied successfully.
func (c *Configurator) Configured() bool {
	return c.configured
}

// Rates returns the rates produced by the last successful Configure, or
// DefaultRates before the first one.
func (c *Configurator) Rates() Rates {
	if !c.configured {
		return DefaultRates()
	}
	return c.rates
}

// Configure switches the clock tree to t.
//
// The sequence never hands a consumer an unstable clock: SYSCLK is parked
// on HSI while the PLL and external oscillators are restarted, every ready
// flag is awaited before its clock is used, and flash wait states are raised
// before SYSCLK is switched to the PLL.
//
// With the default Poller a missing oscillator hangs Configure forever. With
// a bounded Poller Configure returns a *NotReadyError and leaves the part
// running from HSI with every bus undivided.
func (c *Configurator) Configure(t Tree) error {
	if c.Bus == nil {
		return ErrNoBus
	}
	if c.Strict {
		if err := Validate(t); err != nil {
			return err
		}
	}

	c.isolate()
	c.stopOscillators()

	if err := c.startOscillators(t); err != nil {
		return c.fail(err)
	}

	c.selectPLLSource(t)

	pll, err := c.startPLL(t)
	if err != nil {
		return c.fail(err)
	}

	c.setDividers(t)

	if err := c.switchSystemClock(t, pll); err != nil {
		return c.fail(err)
	}
	c.setRTC(t)

	c.rates = Derive(t)
	c.configured = true
	core.Debug("clock: ", c.rates.String())
	return nil
}

// isolate parks SYSCLK on HSI, which is always running, and resets the
// backup domain so the RTC mux can be rewritten.
func (c *Configurator) isolate() {
	regs.Modify(c.Bus, rcc_CFGR).
		Insert(cfgrSwitch, uint32(SystemClockInternal)).
		Apply()

	regs.Modify(c.Bus, rcc_BDCR).Set(bdcrBackupReset).Apply()
	regs.Modify(c.Bus, rcc_BDCR).Clear(bdcrBackupReset).Apply()
}

// stopOscillators turns off the PLL and HSE. The PLL source and multiplier
// must not change while the PLL is on.
func (c *Configurator) stopOscillators() {
	regs.Modify(c.Bus, rcc_CR).
		Clear(crPLLEnable).
		Clear(crHSEEnable).
		Apply()
}

func (c *Configurator) startOscillators(t Tree) error {
	if t.HighSpeedExternal != 0 {
		regs.Modify(c.Bus, rcc_CR).Set(crHSEEnable).Apply()
		if err := c.Poller.UntilSet(c.Bus, rcc_CR, crHSEReady); err != nil {
			return &NotReadyError{Stage: StageHSE}
		}
		core.Debug("clock: hse ready ", t.HighSpeedExternal.String())
	}

	if t.LowSpeedExternal != 0 {
		regs.Modify(c.Bus, rcc_BDCR).Set(bdcrLSEEnable).Apply()
		if err := c.Poller.UntilSet(c.Bus, rcc_BDCR, bdcrLSEReady); err != nil {
			return &NotReadyError{Stage: StageLSE}
		}
		core.Debug("clock: lse ready ", t.LowSpeedExternal.String())
	}
	return nil
}

// selectPLLSource is harmless while the PLL is off, so it is written
// whether or not the PLL is wanted.
func (c *Configurator) selectPLLSource(t Tree) {
	regs.Modify(c.Bus, rcc_CFGR).
		InsertBool(cfgrHSEPreDiv, t.PLL.Source == PLLSourceExternalDiv2).
		Insert(cfgrPLLSource, uint32(t.PLL.Source)&1).
		Apply()
}

func (c *Configurator) startPLL(t Tree) (core.Hertz, error) {
	if !t.PLL.Enable {
		return 0, nil
	}

	regs.Modify(c.Bus, rcc_CFGR).Insert(cfgrPLLMul, uint32(t.PLL.Multiply)).Apply()
	regs.Modify(c.Bus, rcc_CR).Set(crPLLEnable).Apply()
	if err := c.Poller.UntilSet(c.Bus, rcc_CR, crPLLReady); err != nil {
		return 0, &NotReadyError{Stage: StagePLL}
	}

	pll := PLLRate(t)
	core.Debug("clock: pll locked ", pll.String())
	return pll, nil
}

func (c *Configurator) setDividers(t Tree) {
	regs.Modify(c.Bus, rcc_CFGR).
		Insert(cfgrUSBPrescaler, uint32(t.PLL.USB)).
		Insert(cfgrAHBDivider, uint32(t.AHB.Divider)).
		Insert(cfgrAPB1Divider, uint32(t.AHB.APB1.Divider)).
		Insert(cfgrAPB2Divider, uint32(t.AHB.APB2.Divider)).
		Insert(cfgrADCPrescaler, uint32(t.AHB.APB2.ADC.Divider)).
		Apply()
}

func (c *Configurator) switchSystemClock(t Tree, pll core.Hertz) error {
	// Raise flash latency before the core speeds up, or instruction fetch
	// outruns the flash array
	if t.SystemClock == SystemClockPLL {
		regs.Modify(c.Bus, flash_ACR).Insert(acrLatency, WaitStates(pll)).Apply()
	}

	target := uint32(t.SystemClock) & 0b11
	regs.Modify(c.Bus, rcc_CFGR).Insert(cfgrSwitch, target).Apply()
	if err := c.Poller.UntilEqual(c.Bus, rcc_CFGR, cfgrSwitchStatus, target); err != nil {
		return &NotReadyError{Stage: StageSwitch}
	}
	return nil
}

func (c *Configurator) setRTC(t Tree) {
	regs.Modify(c.Bus, rcc_BDCR).
		Insert(bdcrRTCSelect, uint32(t.RTC.Source)).
		InsertBool(bdcrRTCEnable, t.RTC.Enable).
		Apply()
}

// fail falls back to the reset clock configuration after a bounded wait
// gave up. HSI needs no ready wait, so the fallback cannot itself fail.
func (c *Configurator) fail(err error) error {
	regs.Modify(c.Bus, rcc_CFGR).
		Insert(cfgrSwitch, uint32(SystemClockInternal)).
		Insert(cfgrAHBDivider, uint32(AHBDivideBy1)).
		Insert(cfgrAPB1Divider, uint32(APBDivideBy1)).
		Insert(cfgrAPB2Divider, uint32(APBDivideBy1)).
		Insert(cfgrADCPrescaler, uint32(ADCDivideBy2)).
		Apply()
	regs.Modify(c.Bus, rcc_CR).Clear(crPLLEnable).Apply()

	c.rates = DefaultRates()
	c.configured = false
	core.Debug("clock: ", err.Error(), ", running from hsi")
	return err
}
