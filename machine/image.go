package machine

import (
	"errors"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"omibyte.io/bootcore/boot"
	"omibyte.io/bootcore/cortexm"
	"omibyte.io/bootcore/fault"
	"omibyte.io/bootcore/mmio"
	"omibyte.io/bootcore/nrf51"
	"omibyte.io/bootcore/timing"
	"omibyte.io/bootcore/vector"
)

// Peripherals are the drivers an application sees, bound to the board.
type Peripherals struct {
	CPU    cortexm.CPU
	NVIC   *cortexm.NVIC
	GPIO   *nrf51.GPIO
	Clock  *nrf51.Clock
	Bus    mmio.Bus
	Time   timing.Source
	Layout boot.Layout
}

// Program is an application linked with the startup code.
type Program struct {
	// Init is the application's main routine.
	Init func(p *Peripherals)
	// Handlers overrides vector table slots by handler name.
	Handlers map[string]func(p *Peripherals)
	// Data is the initial contents of the data section.
	Data    []byte
	BssSize uint32
	// Delay replaces the fault handler's busy loop.
	Delay timing.Delayer
}

type image struct {
	table    vector.Table
	registry *vector.Registry
	boot     boot.Sequencer
	last     *boot.Sequencer
}

// Load links p with the reset sequencer and the default fault handler,
// builds the vector table and programs it into flash together with the
// data section's load image.
func (m *Machine) Load(p Program) (vector.Table, error) {
	if m.program != nil {
		return vector.Table{}, ErrAlreadyLoaded
	}
	layout := nrf51.VectorLayout()
	periph := m.Peripherals()

	names := maps.Keys(p.Handlers)
	slices.Sort(names)
	var errs []error
	for _, name := range names {
		if s, ok := layout.Slot(name); !ok || s < vector.SlotNMI {
			errs = append(errs, fmt.Errorf("%w: %q", vector.ErrUnknownHandler, name))
		}
	}
	if len(errs) > 0 {
		return vector.Table{}, errors.Join(errs...)
	}

	img := &image{}
	m.Define(vector.ResetSymbol, func() {
		seq := img.boot
		img.last = &seq
		seq.Reset()
	})
	board := boot.Board{
		Bus:   m.Bus,
		CPU:   m.CPU,
		Delay: p.Delay,
		Pattern: fault.Pattern{
			DirMask:   m.Target.Fault.DirMask,
			Indicator: m.Target.Fault.Indicator,
			Idle:      m.Target.Fault.Idle,
			OnMicros:  m.Target.Fault.OnMicros,
			OffMicros: m.Target.Fault.OffMicros,
		},
	}
	handler := board.FaultHandler()
	m.Define(vector.DefaultSymbol, handler.Spin)
	for _, name := range names {
		fn := p.Handlers[name]
		m.Define(name, func() { fn(periph) })
	}

	etext := m.Etext()
	l, err := m.Target.Layout(etext, uint32(len(p.Data)), p.BssSize)
	if err != nil {
		return vector.Table{}, err
	}
	periph.Layout = l
	m.symbols[vector.StackSymbol] = l.Stack

	img.boot = board.Sequencer(l, func() {
		if p.Init != nil {
			p.Init(periph)
		}
	})
	img.boot.Time = periph.Time
	img.boot.Observer = func(s boot.State) {
		m.Log.Printf("boot: %s", s)
	}

	img.registry, err = vector.FromSymbols(layout, m.symbols)
	if err != nil {
		return vector.Table{}, err
	}
	img.table = img.registry.Build()
	if err := img.table.Verify(img.registry); err != nil {
		return vector.Table{}, err
	}

	raw, err := img.table.MarshalBinary()
	if err != nil {
		return vector.Table{}, err
	}
	copy(m.Flash.Bytes(m.Target.Flash.Origin, vector.Size), raw)
	copy(m.Flash.Bytes(etext, uint32(len(p.Data))), p.Data)

	m.program = img
	m.Log.Printf("loaded: etext=0x%08X data=%d bss=%d stack=0x%08X", etext, len(p.Data), p.BssSize, l.Stack)
	return img.table, nil
}

// Registry returns the handler registry of the loaded program.
func (m *Machine) Registry() (*vector.Registry, error) {
	if m.program == nil {
		return nil, ErrNotLoaded
	}
	return m.program.registry, nil
}

// Sequencer returns the reset sequencer of the last reset, or nil before
// the first.
func (m *Machine) Sequencer() *boot.Sequencer {
	if m.program == nil {
		return nil
	}
	return m.program.last
}
