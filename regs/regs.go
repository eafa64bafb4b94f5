// Package regs provides typed access to memory-mapped peripheral registers.
//
// Drivers never dereference hardware addresses directly. They go through a
// Bus, which is backed by volatile loads and stores on the microcontroller
// (MMIO) and by a sparse in-memory map on the host (Memory). This keeps the
// register sequencing logic testable without silicon.
package regs

import "errors"

// Address is the physical address of a 32-bit register.
type Address uint32

// Offset returns the register n bytes past a.
func (a Address) Offset(n uint32) Address {
	return a + Address(n)
}

// Bus is the register access capability consumed by every driver.
type Bus interface {
	// Load reads the 32-bit register at addr
	Load(addr Address) uint32

	// Store writes the 32-bit register at addr
	Store(addr Address, value uint32)
}

var (
	// ErrNotReady is returned by a bounded Poller whose condition never held.
	ErrNotReady = errors.New("register condition not ready")
)

// Field describes a contiguous run of bits inside a register.
type Field struct {
	Pos   uint8 // Lowest bit index
	Width uint8 // Number of bits
}

// Bit returns the single-bit field at position pos.
func Bit(pos uint8) Field {
	return Field{Pos: pos, Width: 1}
}

// Bits returns the field spanning bits low..high inclusive, matching the
// [high:low] notation of the reference manual.
func Bits(low, high uint8) Field {
	return Field{Pos: low, Width: high - low + 1}
}

// Mask returns the in-place mask of the field.
func (f Field) Mask() uint32 {
	if f.Width >= 32 {
		return ^uint32(0)
	}
	return ((uint32(1) << f.Width) - 1) << f.Pos
}

// Extract returns the field value from a register word.
func (f Field) Extract(word uint32) uint32 {
	return (word & f.Mask()) >> f.Pos
}

// Insert returns word with the field replaced by value. Bits of value wider
// than the field are discarded.
func (f Field) Insert(word, value uint32) uint32 {
	return (word &^ f.Mask()) | ((value << f.Pos) & f.Mask())
}

// Read loads addr and extracts the field.
func Read(bus Bus, addr Address, f Field) uint32 {
	return f.Extract(bus.Load(addr))
}

// IsSet reports whether any bit of f is set at addr.
func IsSet(bus Bus, addr Address, f Field) bool {
	return bus.Load(addr)&f.Mask() != 0
}

// Modifier batches field updates into a single read-modify-write.
type Modifier struct {
	bus  Bus
	addr Address
	word uint32
}

// Modify loads addr and returns a Modifier for it. Nothing is written until
// Apply is called.
func Modify(bus Bus, addr Address) *Modifier {
	return &Modifier{bus: bus, addr: addr, word: bus.Load(addr)}
}

// Set sets every bit of f.
func (m *Modifier) Set(f Field) *Modifier {
	m.word |= f.Mask()
	return m
}

// Clear clears every bit of f.
func (m *Modifier) Clear(f Field) *Modifier {
	m.word &^= f.Mask()
	return m
}

// Insert replaces f with value.
func (m *Modifier) Insert(f Field, value uint32) *Modifier {
	m.word = f.Insert(m.word, value)
	return m
}

// InsertBool writes 1 or 0 into f.
func (m *Modifier) InsertBool(f Field, on bool) *Modifier {
	if on {
		return m.Insert(f, 1)
	}
	return m.Insert(f, 0)
}

// Word returns the pending register value.
func (m *Modifier) Word() uint32 {
	return m.word
}

// Apply stores the pending value.
func (m *Modifier) Apply() {
	m.bus.Store(m.addr, m.word)
}
