//go:build tinygo

package clock

import "github.com/libhal-google/libhal-stm32f1/regs"

func init() {
	std.Bus = regs.MMIO{}
}
