//go:build tinygo

package regs

import (
	"runtime/volatile"
	"unsafe"
)

// MMIO is the Bus backed by the real memory-mapped peripherals.
type MMIO struct{}

// Load implements Bus.
func (MMIO) Load(addr Address) uint32 {
	return (*volatile.Register32)(unsafe.Pointer(uintptr(addr))).Get()
}

// Store implements Bus.
func (MMIO) Store(addr Address, value uint32) {
	(*volatile.Register32)(unsafe.Pointer(uintptr(addr))).Set(value)
}
