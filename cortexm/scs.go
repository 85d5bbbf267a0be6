package cortexm

import "omibyte.io/bootcore/mmio"

const SCBBase uint32 = 0xE000ED00

const (
	scbICSR  = 0x04
	scbSHPR1 = 0x18
)

// SCB is the system control block.
type SCB struct {
	bus  mmio.Bus
	base uint32
}

func NewSCB(bus mmio.Bus) *SCB {
	return &SCB{bus: bus, base: SCBBase}
}

// SHPR returns system handler priority register n+1. SHPR(0) covers
// exceptions 4-7, SHPR(1) 8-11 (SVCall) and SHPR(2) 12-15 (PendSV, SysTick).
func (s *SCB) SHPR(n int) mmio.Register {
	return mmio.Reg(s.bus, s.base, scbSHPR1).Index(n)
}

func (s *SCB) ICSR() mmio.Register {
	return mmio.Reg(s.bus, s.base, scbICSR)
}

const icsrPENDSVSET = 28

// TriggerPendSV sets the PendSV pending flag.
func (s *SCB) TriggerPendSV() {
	s.ICSR().Set(mmio.Bit(icsrPENDSVSET))
}
