// Package boot holds the reset sequence: the first code the core runs.
// It starts the crystal clock, copies initialised data from the program
// image, zeroes bss and hands over to the program entry point.
package boot

import (
	"omibyte.io/bootcore/cortexm"
	"omibyte.io/bootcore/mem"
	"omibyte.io/bootcore/mmio"
	"omibyte.io/bootcore/timing"
)

// Oscillator starts the high frequency clock and returns once it runs.
type Oscillator interface {
	StartHF()
}

// Sequencer runs the reset sequence once per reset.
type Sequencer struct {
	Bus    mmio.Bus
	Layout Layout
	Clock  Oscillator
	CPU    cortexm.CPU

	// Init is the application's main routine.
	Init func()
	// Entry overrides the program entry point. When nil the sequencer
	// dispatches to DefaultEntry(CPU, Init).
	Entry func()

	// Time, when set, measures how long the oscillator took to start.
	Time timing.Source
	// Observer, when set, is told about every state before it runs.
	Observer func(State)

	// ClockStartup is the measured oscillator start time in nanoseconds.
	ClockStartup uint64

	booted bool
}

// Reset runs ClockStart, DataInit, BssInit and EntryDispatch in order.
// Nothing in data or bss may be relied upon before it completes.
func (s *Sequencer) Reset() {
	if s.booted {
		panic(ErrAlreadyBooted)
	}
	s.booted = true

	s.enter(ClockStart)
	var start uint64
	if s.Time != nil {
		start = s.Time.Now()
	}
	s.Clock.StartHF()
	if s.Time != nil {
		s.ClockStartup = s.Time.Now() - start
	}

	s.enter(DataInit)
	data := s.Layout.Data
	mem.Copy(s.Bus, data.Start, data.Load, data.Size())

	s.enter(BssInit)
	bss := s.Layout.Bss
	mem.Fill(s.Bus, bss.Start, 0, bss.Size())

	s.enter(EntryDispatch)
	entry := s.Entry
	if entry == nil {
		entry = DefaultEntry(s.CPU, s.Init)
	}
	entry()
}

func (s *Sequencer) enter(state State) {
	if s.Observer != nil {
		s.Observer(state)
	}
}

// DefaultEntry returns the default program entry point: call init and,
// if it returns, sleep forever. Returning from init is not an error but
// the program is not resumed.
func DefaultEntry(cpu cortexm.CPU, init func()) func() {
	return func() {
		if init != nil {
			init()
		}
		for {
			cpu.WaitForEvent()
		}
	}
}
