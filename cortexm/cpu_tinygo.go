//go:build tinygo && cortexm

package cortexm

import "device/arm"

// Core is the CPU of the running chip.
var Core CPU = Processor{}

// Processor issues the instructions directly. It is usable before
// initialised data is in place, unlike Core.
type Processor struct{}

func (Processor) DisableInterrupts() { arm.Asm("cpsid i") }
func (Processor) EnableInterrupts()  { arm.Asm("cpsie i") }
func (Processor) WaitForEvent()      { arm.Asm("wfe") }
func (Processor) NOP()               { arm.Asm("nop") }
