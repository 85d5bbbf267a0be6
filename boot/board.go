package boot

import (
	"omibyte.io/bootcore/cortexm"
	"omibyte.io/bootcore/fault"
	"omibyte.io/bootcore/mmio"
	"omibyte.io/bootcore/nrf51"
	"omibyte.io/bootcore/timing"
)

// Board binds the reset sequence and the default fault handler of an
// nRF51 board to a bus and a core. The firmware entry points and the
// simulated board both build their handlers here.
type Board struct {
	Bus mmio.Bus
	CPU cortexm.CPU
	// Delay paces the fault pattern. A LoopDelay on CPU is used when nil.
	Delay   timing.Delayer
	Pattern fault.Pattern
}

// Sequencer returns a reset sequencer over the board's clock that hands
// over to init.
func (b Board) Sequencer(l Layout, init func()) Sequencer {
	return Sequencer{
		Bus:    b.Bus,
		Layout: l,
		Clock:  nrf51.NewClock(b.Bus),
		CPU:    b.CPU,
		Init:   init,
	}
}

// FaultHandler returns the handler bound to every slot the application
// leaves unset.
func (b Board) FaultHandler() fault.Handler {
	delay := b.Delay
	if delay == nil {
		delay = timing.LoopDelay{CPU: b.CPU}
	}
	return fault.Handler{
		CPU:     b.CPU,
		GPIO:    nrf51.NewGPIO(b.Bus),
		Delay:   delay,
		Pattern: b.Pattern,
	}
}
