// Package nrf51 is the chip support for the nRF51 series used on the BBC
// micro:bit v1: interrupt numbering, device register blocks and the
// vector table layout.
package nrf51

import (
	"omibyte.io/bootcore/cortexm"
	"omibyte.io/bootcore/vector"
)

const (
	ClockBase uint32 = 0x4000_0000
	GPIOBase  uint32 = 0x5000_0000
)

// PriorityBits is the number of implemented NVIC priority bits.
const PriorityBits = 2

// VectorLayout returns the handler name of every vector table slot.
func VectorLayout() vector.Layout {
	layout := vector.CoreLayout()
	for irq, name := range IRQHandlers {
		layout[vector.IRQSlot(cortexm.Interrupt(irq))] = name
	}
	return layout
}
