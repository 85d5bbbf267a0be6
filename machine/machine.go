// Package machine is a simulated board. It holds flash, RAM and the
// device register blocks the startup code drives, and it performs reset
// and exception entry the way the core does: by fetching words from the
// vector table at the start of flash and jumping to them.
package machine

import (
	"fmt"
	"io"
	"log"

	"omibyte.io/bootcore/cortexm"
	"omibyte.io/bootcore/nrf51"
	"omibyte.io/bootcore/sim"
	"omibyte.io/bootcore/targets"
	"omibyte.io/bootcore/vector"
)

type routine struct {
	name string
	fn   func()
}

type Machine struct {
	Target targets.TargetInfo
	CPU    *sim.CPU
	Bus    *sim.Map
	Flash  *sim.RAM
	RAM    *sim.RAM
	NVIC   *sim.Bank
	SCB    *sim.Bank
	Clock  *sim.Bank
	GPIO   *sim.Bank
	Log    *log.Logger

	// NoCrystal makes the oscillator never report started.
	NoCrystal bool

	// SP is the stack pointer fetched at the last reset.
	SP uint32

	code    map[uint32]routine
	symbols vector.Symbols
	next    uint32
	program *image
}

// New creates a board for target. Trace output goes to logger, which may
// be nil.
func New(target targets.TargetInfo, logger *log.Logger) *Machine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	m := &Machine{
		Target:  target,
		CPU:     sim.NewCPU(target.ClockHz),
		Flash:   sim.NewRAM("flash", target.Flash.Origin, target.Flash.Length),
		RAM:     sim.NewRAM("ram", target.RAM.Origin, target.RAM.Length),
		NVIC:    newNVIC(target.IRQSlots, target.PriorityMask()),
		SCB:     newSCB(target.PriorityMask()),
		GPIO:    newGPIO(),
		Log:     logger,
		code:    map[uint32]routine{},
		symbols: vector.Symbols{},
		next:    target.Flash.Origin + vector.Size,
	}
	m.Clock = newClock(func() bool { return !m.NoCrystal }, m.CPU)
	m.Bus = sim.NewMap(m.Flash, m.RAM, m.NVIC, m.SCB, m.Clock, m.GPIO)
	return m
}

// Define places fn in the code area under name and returns its address
// with the Thumb bit set, as a linker would.
func (m *Machine) Define(name string, fn func()) uint32 {
	if _, ok := m.symbols[name]; ok {
		panic(fmt.Errorf("symbol %s defined twice", name))
	}
	addr := m.next | 1
	m.next += 4
	m.code[addr] = routine{name: name, fn: fn}
	m.symbols[name] = addr
	return addr
}

// Etext is the end of the code area.
func (m *Machine) Etext() uint32 {
	return m.next
}

// Symbols returns a copy of the symbol table.
func (m *Machine) Symbols() vector.Symbols {
	syms := make(vector.Symbols, len(m.symbols))
	for name, addr := range m.symbols {
		syms[name] = addr
	}
	return syms
}

// Peripherals returns drivers bound to this board's bus.
func (m *Machine) Peripherals() *Peripherals {
	return &Peripherals{
		CPU:   m.CPU,
		NVIC:  cortexm.NewNVIC(m.Bus),
		GPIO:  nrf51.NewGPIO(m.Bus),
		Clock: nrf51.NewClock(m.Bus),
		Bus:   m.Bus,
		Time:  m.CPU.Clock(),
	}
}

func (m *Machine) vector(s vector.Slot) uint32 {
	return m.Flash.Load32(m.Target.Flash.Origin + uint32(s)*4)
}

// Reset performs a power-on reset: device registers return to their reset
// values, the core loads the stack pointer from slot 0 and jumps to the
// address in slot 1. It reports whether the simulated CPU stopped the
// program on a budget.
func (m *Machine) Reset() (bool, error) {
	m.Bus.Do(func() {
		for _, b := range []*sim.Bank{m.NVIC, m.SCB, m.Clock, m.GPIO} {
			b.Reset()
		}
	})
	m.CPU.Reset()

	sp := m.vector(vector.SlotStack)
	if sp&3 != 0 || sp <= m.Target.RAM.Origin || sp > m.Target.RAM.End() {
		return false, fmt.Errorf("%w: 0x%08X", ErrBadStack, sp)
	}
	pc := m.vector(vector.SlotReset)
	r, ok := m.code[pc]
	if !ok {
		return false, fmt.Errorf("%w: reset vector 0x%08X", ErrNoCode, pc)
	}
	m.SP = sp
	m.Log.Printf("reset: sp=0x%08X pc=0x%08X <%s>", sp, pc, r.name)
	return m.CPU.Run(r.fn), nil
}

// Raise signals an exception or interrupt. Peripheral lines are latched
// as pending in the NVIC and taken by Service. NMI and HardFault are taken
// at once; the other core exceptions are taken unless PRIMASK is set.
// It reports whether any handler ran.
func (m *Machine) Raise(irq cortexm.Interrupt) bool {
	if irq.IsCore() {
		if irq != cortexm.NMI && irq != cortexm.HardFault && !m.CPU.InterruptsEnabled() {
			m.Log.Printf("%s masked", irq)
			return false
		}
		m.take(vector.Slot(irq.Exception()))
		return true
	}
	if int(irq) >= m.Target.IRQSlots {
		panic(fmt.Errorf("%w: irq %d", vector.ErrSlotOutOfRange, irq))
	}
	word := uint32(irq>>5) * 4
	m.Bus.Do(func() {
		pending := m.NVIC.Peek(nvicISPR+word) | 1<<(irq&31)
		m.NVIC.Poke(nvicISPR+word, pending)
		m.NVIC.Poke(nvicICPR+word, pending)
	})
	return len(m.Service()) > 0
}

// Service takes the pending, enabled peripheral interrupts in priority
// order, lowest number first among equals, for as long as PRIMASK stays
// clear. It returns the lines taken.
func (m *Machine) Service() []cortexm.Interrupt {
	var taken []cortexm.Interrupt
	for m.CPU.InterruptsEnabled() {
		var (
			irq cortexm.Interrupt
			ok  bool
		)
		m.Bus.Do(func() {
			if irq, ok = m.nextPending(); ok {
				word := uint32(irq>>5) * 4
				pending := m.NVIC.Peek(nvicISPR+word) &^ (1 << (irq & 31))
				m.NVIC.Poke(nvicISPR+word, pending)
				m.NVIC.Poke(nvicICPR+word, pending)
			}
		})
		if !ok {
			break
		}

		taken = append(taken, irq)
		m.take(vector.IRQSlot(irq))
	}
	return taken
}

// PendSVPending reports whether software has requested PendSV through
// the ICSR.
func (m *Machine) PendSVPending() bool {
	var pending bool
	m.Bus.Do(func() {
		pending = m.SCB.Peek(scbICSR)&icsrPENDSVSET != 0
	})
	return pending
}

func (m *Machine) priority(irq cortexm.Interrupt) uint32 {
	return (m.NVIC.Peek(nvicIPR+uint32(irq>>2)*4) >> ((irq & 3) * 8)) & 0xFF
}

// nextPending must be called inside m.Bus.Do.
func (m *Machine) nextPending() (cortexm.Interrupt, bool) {
	best, found := cortexm.Interrupt(0), false
	for irq := cortexm.Interrupt(0); int(irq) < m.Target.IRQSlots; irq++ {
		word := uint32(irq>>5) * 4
		bit := uint32(1) << (irq & 31)
		if m.NVIC.Peek(nvicISPR+word)&bit == 0 || m.NVIC.Peek(nvicISER+word)&bit == 0 {
			continue
		}
		if !found || m.priority(irq) < m.priority(best) {
			best, found = irq, true
		}
	}
	return best, found
}

// take fetches the handler address from the table and runs it. A slot
// without code escalates to HardFault; a HardFault without code locks the
// core up.
func (m *Machine) take(s vector.Slot) {
	addr := m.vector(s)
	r, ok := m.code[addr]
	if !ok {
		if s == vector.SlotHardFault {
			panic(fmt.Errorf("%w: %s vector 0x%08X", ErrLockup, s, addr))
		}
		m.Log.Printf("%s: %v 0x%08X, escalating", s, ErrNoCode, addr)
		m.take(vector.SlotHardFault)
		return
	}
	m.Log.Printf("%s -> <%s> 0x%08X", s, r.name, addr)
	if m.CPU.Run(r.fn) {
		m.Log.Printf("%s: <%s> halted", s, r.name)
	}
}

// Direction returns the GPIO direction register.
func (m *Machine) Direction() (dir uint32) {
	m.Bus.Do(func() { dir = m.GPIO.Peek(gpioDIR) })
	return dir
}

// Outputs returns every value written to the GPIO output register since
// the last reset.
func (m *Machine) Outputs() (out []uint32) {
	m.Bus.Do(func() { out = m.GPIO.WritesTo(gpioOUT) })
	return out
}
