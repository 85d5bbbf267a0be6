package cortexm

import (
	"fmt"

	"omibyte.io/bootcore/mmio"
)

// Interrupt numbers a line of the interrupt controller. Negative values
// are core exceptions, non-negative values are peripheral IRQs.
type Interrupt int16

// Core exceptions.
const (
	NMI       Interrupt = -14
	HardFault Interrupt = -13
	SVCall    Interrupt = -5
	PendSV    Interrupt = -2
	SysTick   Interrupt = -1
)

// IsCore reports whether i is a core exception.
func (i Interrupt) IsCore() bool {
	return i < 0
}

// Exception returns the architectural exception number (IRQ0 is 16).
func (i Interrupt) Exception() int {
	return int(i) + 16
}

func (i Interrupt) String() string {
	switch i {
	case NMI:
		return "NMI"
	case HardFault:
		return "HardFault"
	case SVCall:
		return "SVCall"
	case PendSV:
		return "PendSV"
	case SysTick:
		return "SysTick"
	}
	if i < 0 {
		return fmt.Sprintf("exception(%d)", i.Exception())
	}
	return fmt.Sprintf("IRQ%d", int(i))
}

const NVICBase uint32 = 0xE000E100

const (
	nvicISER = 0x000
	nvicICER = 0x080
	nvicISPR = 0x100
	nvicICPR = 0x180
	nvicIPR  = 0x300
)

// NVIC is the nested vectored interrupt controller. Core exception
// priorities live in the system control block, so it carries one.
type NVIC struct {
	bus  mmio.Bus
	base uint32
	SCB  *SCB
}

// NewNVIC binds the controller and system control block at their
// architectural addresses on bus.
func NewNVIC(bus mmio.Bus) *NVIC {
	return &NVIC{bus: bus, base: NVICBase, SCB: NewSCB(bus)}
}

func (n *NVIC) word(offset uint32, irq Interrupt) mmio.Register {
	if irq < 0 {
		panic(fmt.Errorf("%w: %s", ErrCoreException, irq))
	}
	return mmio.Reg(n.bus, n.base, offset).Index(int(irq >> 5))
}

// shpr selects the handler priority word of a core exception. Reset, NMI
// and HardFault have fixed priorities and no register.
func (n *NVIC) shpr(irq Interrupt) mmio.Register {
	idx := (int(irq) + 12) >> 2
	if idx < 0 {
		panic(fmt.Errorf("%w: %s", ErrFixedPriority, irq))
	}
	return n.SCB.SHPR(idx)
}

// SetPriority sets the priority of irq. Priorities range over 0-255 but
// the core only implements the top PriorityBits, the rest read as zero.
func (n *NVIC) SetPriority(irq Interrupt, priority uint8) {
	if irq < 0 {
		n.shpr(irq).SetByte(uint(irq)&3, priority)
		return
	}
	mmio.Reg(n.bus, n.base, nvicIPR).Index(int(irq>>2)).SetByte(uint(irq)&3, priority)
}

// Priority reads back the implemented bits of irq's priority.
func (n *NVIC) Priority(irq Interrupt) uint8 {
	if irq < 0 {
		return mmio.GetByte(n.shpr(irq).Get(), uint(irq)&3)
	}
	return mmio.GetByte(mmio.Reg(n.bus, n.base, nvicIPR).Index(int(irq>>2)).Get(), uint(irq)&3)
}

// Enable, Disable, SetPending and ClearPending write a single bit into
// the write-one registers. No read-modify-write happens, so concurrent
// callers never undo each other.
func (n *NVIC) Enable(irq Interrupt) {
	n.word(nvicISER, irq).Set(mmio.Bit(uint(irq)))
}

func (n *NVIC) Disable(irq Interrupt) {
	n.word(nvicICER, irq).Set(mmio.Bit(uint(irq)))
}

func (n *NVIC) SetPending(irq Interrupt) {
	n.word(nvicISPR, irq).Set(mmio.Bit(uint(irq)))
}

func (n *NVIC) ClearPending(irq Interrupt) {
	n.word(nvicICPR, irq).Set(mmio.Bit(uint(irq)))
}

func (n *NVIC) IsEnabled(irq Interrupt) bool {
	return mmio.GetBit(n.word(nvicISER, irq).Get(), uint(irq)) != 0
}

func (n *NVIC) IsPending(irq Interrupt) bool {
	return mmio.GetBit(n.word(nvicISPR, irq).Get(), uint(irq)) != 0
}
