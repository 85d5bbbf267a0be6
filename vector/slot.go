// Package vector builds and checks the Cortex-M vector table: the fixed
// array of handler addresses the core reads on reset and on every
// exception. Slots are a closed enumeration so no handler can silently
// move to another position.
package vector

import (
	"fmt"

	"omibyte.io/bootcore/cortexm"
)

// Slot is a position in the vector table.
type Slot int

const (
	SlotStack     Slot = 0
	SlotReset     Slot = 1
	SlotNMI       Slot = 2
	SlotHardFault Slot = 3
	SlotSVCall    Slot = 11
	SlotPendSV    Slot = 14
	SlotSysTick   Slot = 15
	SlotIRQ0      Slot = 16
)

const (
	NumCoreSlots = 16
	NumIRQSlots  = 32
	NumSlots     = NumCoreSlots + NumIRQSlots
)

// IRQSlot returns the slot serving irq.
func IRQSlot(irq cortexm.Interrupt) Slot {
	return Slot(irq.Exception())
}

func (s Slot) Valid() bool {
	return s >= 0 && s < NumSlots
}

// Interrupt returns the interrupt number of the slot. Slots 0 and 1 hold
// the stack pointer and reset vector and have none.
func (s Slot) Interrupt() cortexm.Interrupt {
	return cortexm.Interrupt(int(s) - NumCoreSlots)
}

// Reserved reports whether the architecture leaves the core slot unused
// on Cortex-M0.
func (s Slot) Reserved() bool {
	switch s {
	case 4, 5, 6, 7, 8, 9, 10, 12, 13:
		return true
	}
	return false
}

func (s Slot) String() string {
	switch s {
	case SlotStack:
		return "Stack"
	case SlotReset:
		return "Reset"
	}
	if s >= SlotIRQ0 {
		return fmt.Sprintf("IRQ%d", int(s-SlotIRQ0))
	}
	if s.Reserved() {
		return fmt.Sprintf("Reserved%d", int(s))
	}
	return s.Interrupt().String()
}
