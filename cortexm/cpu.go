package cortexm

// CPU exposes the handful of instructions the boot code needs that have no
// memory-mapped equivalent.
type CPU interface {
	// DisableInterrupts sets PRIMASK (cpsid i).
	DisableInterrupts()
	// EnableInterrupts clears PRIMASK (cpsie i).
	EnableInterrupts()
	// WaitForEvent sleeps until the next event (wfe).
	WaitForEvent()
	NOP()
}
