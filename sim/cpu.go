package sim

import (
	"runtime"
	"sync"

	"omibyte.io/bootcore/timing"
)

// CPU simulates the core state the firmware touches directly: the
// interrupt mask, sleep instructions and a cycle counter. It can stop a
// never-returning routine after a budget of cycles or sleeps. Its state
// may be read from any goroutine.
type CPU struct {
	Hz uint64
	// Step is the number of cycles consumed by each counter read.
	Step uint64

	mu         sync.Mutex
	cycles     uint64
	primask    bool
	waits      int
	cycleLimit uint64
	waitLimit  int
	halted     bool
}

func NewCPU(hz uint64) *CPU {
	return &CPU{Hz: hz, Step: 4}
}

// HaltAfterCycles stops the running routine once the counter reaches n.
func (c *CPU) HaltAfterCycles(n uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cycleLimit = n
}

// HaltAfterWaits stops the running routine on its n-th wait for event.
func (c *CPU) HaltAfterWaits(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waitLimit = n
}

// tick advances the counter and returns its new value. It does not
// return when the cycle budget is spent.
func (c *CPU) tick(n uint64) uint64 {
	c.mu.Lock()
	c.cycles += n
	cycles := c.cycles
	stop := c.cycleLimit > 0 && cycles >= c.cycleLimit
	c.mu.Unlock()
	if stop {
		c.halt()
	}
	return cycles
}

func (c *CPU) halt() {
	c.mu.Lock()
	c.halted = true
	c.mu.Unlock()
	runtime.Goexit()
}

func (c *CPU) setPrimask(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.primask = v
}

func (c *CPU) DisableInterrupts() {
	c.setPrimask(true)
	c.tick(1)
}

func (c *CPU) EnableInterrupts() {
	c.setPrimask(false)
	c.tick(1)
}

// InterruptsEnabled reports whether PRIMASK is clear.
func (c *CPU) InterruptsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.primask
}

func (c *CPU) WaitForEvent() {
	c.mu.Lock()
	c.waits++
	stop := c.waitLimit > 0 && c.waits >= c.waitLimit
	c.mu.Unlock()
	c.tick(1)
	if stop {
		c.halt()
	}
}

func (c *CPU) NOP() {
	c.tick(1)
}

func (c *CPU) Cycles() uint64 {
	return c.tick(c.Step)
}

// Reset clears PRIMASK as a core reset does. The cycle counter and the
// budgets are kept.
func (c *CPU) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.primask = false
	c.halted = false
}

// Waits returns the number of wait-for-event instructions executed.
func (c *CPU) Waits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waits
}

// Halted reports whether the last Run was stopped by a budget.
func (c *CPU) Halted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.halted
}

// Clock returns a time source driven by the cycle counter.
func (c *CPU) Clock() timing.Source {
	return &timing.CycleSource{Counter: c, Hz: c.Hz}
}

// Run executes fn on a fresh goroutine, as the core would, and waits for
// it to return or be halted. It reports whether fn was halted. A panic
// inside fn is re-raised on the caller's goroutine.
func (c *CPU) Run(fn func()) (halted bool) {
	c.mu.Lock()
	c.halted = false
	c.mu.Unlock()
	done := make(chan struct{})
	var fault any
	go func() {
		defer close(done)
		defer func() {
			fault = recover()
		}()
		fn()
	}()
	<-done
	if fault != nil {
		panic(fault)
	}
	return c.Halted()
}
