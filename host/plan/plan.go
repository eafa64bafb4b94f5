// Package plan dry-runs a clock tree against the simulated register file
// and reports the resulting rates and register image.
package plan

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/marcinbor85/gohex"

	"github.com/libhal-google/libhal-stm32f1/clock"
	"github.com/libhal-google/libhal-stm32f1/peripheral"
	"github.com/libhal-google/libhal-stm32f1/regs"
	"github.com/libhal-google/libhal-stm32f1/sim"
)

// PollBound caps every ready-flag wait in a dry run. The simulated flags
// settle on the first read, so only a missing oscillator ever reaches it.
const PollBound = 1000

// Register is one register of the image written by Configure.
type Register struct {
	Name  string       `json:"name" yaml:"name"`
	Addr  regs.Address `json:"addr" yaml:"addr"`
	Value uint32       `json:"value" yaml:"value"`
}

// Image lists the registers the configurator owns, in address order.
var Image = []struct {
	Name string
	Addr regs.Address
}{
	{"RCC_CR", peripheral.RCC_CR},
	{"RCC_CFGR", peripheral.RCC_CFGR},
	{"RCC_BDCR", peripheral.RCC_BDCR},
	{"FLASH_ACR", peripheral.FLASH_ACR},
}

// Options control the simulated board.
type Options struct {
	Strict bool

	// Simulate a board without the crystal fitted
	NoHSE bool
	NoLSE bool
}

// Result is the outcome of a dry run.
type Result struct {
	Tree       clock.Tree  `json:"tree" yaml:"tree"`
	Rates      clock.Rates `json:"rates" yaml:"rates"`
	Registers  []Register  `json:"registers" yaml:"registers"`
	Problems   []string    `json:"problems,omitempty" yaml:"problems,omitempty"`
	USBCapable bool        `json:"usb_capable" yaml:"usb_capable"`
	Stores     uint64      `json:"stores" yaml:"stores"`

	// Error is set when Configure failed; the image then shows the safe
	// clock the configurator fell back to
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	err error
}

// Err returns the Configure error, if any.
func (r *Result) Err() error {
	return r.err
}

// Run configures t on a freshly reset simulated board.
func Run(t clock.Tree, opts Options) *Result {
	board := sim.New()
	board.HSEFitted = !opts.NoHSE
	board.LSEFitted = !opts.NoLSE

	c := clock.NewConfigurator(board)
	c.Poller = regs.Poller{Bound: PollBound}
	c.Strict = opts.Strict

	res := &Result{Tree: t}
	res.err = c.Configure(t)
	if res.err != nil {
		res.Error = res.err.Error()
	}
	res.Rates = c.Rates()
	res.USBCapable = res.Rates.USBCapable()
	res.Problems = Problems(clock.Validate(t))
	_, res.Stores = board.Counts()

	for _, r := range Image {
		res.Registers = append(res.Registers, Register{Name: r.Name, Addr: r.Addr, Value: board.Peek(r.Addr)})
	}
	return res
}

// Problems flattens a joined Validate error into one message per problem.
func Problems(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, Problems(e)...)
		}
		return out
	}
	return []string{err.Error()}
}

// WriteHex writes the register image as Intel HEX, one little-endian word
// per register, as a debugger would dump it.
func (r *Result) WriteHex(w io.Writer) error {
	mem := gohex.NewMemory()
	for _, reg := range r.Registers {
		var word [4]byte
		binary.LittleEndian.PutUint32(word[:], reg.Value)
		if err := mem.AddBinary(uint32(reg.Addr), word[:]); err != nil {
			return errors.Join(errors.New("register "+reg.Name), err)
		}
	}
	return mem.DumpIntelHex(w, 16)
}
