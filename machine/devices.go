package machine

import (
	"omibyte.io/bootcore/cortexm"
	"omibyte.io/bootcore/nrf51"
	"omibyte.io/bootcore/sim"
)

// Register offsets of the device models. They follow the silicon, not the
// drivers, so a driver bug shows up as a wrong register access.
const (
	nvicISER = 0x000
	nvicICER = 0x080
	nvicISPR = 0x100
	nvicICPR = 0x180
	nvicIPR  = 0x300

	scbICSR  = 0x04
	scbSHPR1 = 0x18
	scbSHPR2 = 0x1C
	scbSHPR3 = 0x20

	clockTASKS_HFCLKSTART    = 0x000
	clockEVENTS_HFCLKSTARTED = 0x100

	gpioOUT    = 0x504
	gpioOUTSET = 0x508
	gpioOUTCLR = 0x50C
	gpioIN     = 0x510
	gpioDIR    = 0x514
	gpioDIRSET = 0x518
	gpioDIRCLR = 0x51C
)

const icsrPENDSVSET = 1 << 28

// setClear wires a write-one-to-set and write-one-to-clear register pair
// that both read back the shared state.
func setClear(b *sim.Bank, set, clear uint32) {
	b.OnWrite(set, func(b *sim.Bank, v uint32) {
		state := b.Peek(set) | v
		b.Poke(set, state)
		b.Poke(clear, state)
	})
	b.OnWrite(clear, func(b *sim.Bank, v uint32) {
		state := b.Peek(set) &^ v
		b.Poke(set, state)
		b.Poke(clear, state)
	})
}

func newNVIC(irqs int, priorityMask uint32) *sim.Bank {
	b := sim.NewBank("nvic", cortexm.NVICBase, 0x400)
	for w := 0; w < (irqs+31)/32; w++ {
		off := uint32(w) * 4
		setClear(b, nvicISER+off, nvicICER+off)
		setClear(b, nvicISPR+off, nvicICPR+off)
	}
	for w := 0; w < (irqs+3)/4; w++ {
		b.Implement(nvicIPR+uint32(w)*4, priorityMask)
	}
	return b
}

// newSCB models the Cortex-M0 system control block: SHPR1 does not exist
// and only the SVCall, PendSV and SysTick lanes of SHPR2/3 are implemented.
func newSCB(priorityMask uint32) *sim.Bank {
	b := sim.NewBank("scb", cortexm.SCBBase, 0x100)
	b.Implement(scbSHPR1, 0)
	b.Implement(scbSHPR2, priorityMask&0xFF00_0000)
	b.Implement(scbSHPR3, priorityMask&0xFFFF_0000)
	return b
}

// newClock models the CLOCK peripheral. The crystal starts as soon as it
// is asked to unless crystal reports it missing. Polling the started
// event costs a core cycle so a program waiting on a dead crystal still
// runs into the CPU's budget.
func newClock(crystal func() bool, cpu *sim.CPU) *sim.Bank {
	b := sim.NewBank("clock", nrf51.ClockBase, 0x1000)
	b.OnWrite(clockTASKS_HFCLKSTART, func(b *sim.Bank, v uint32) {
		if v&1 != 0 && crystal() {
			b.Poke(clockEVENTS_HFCLKSTARTED, 1)
		}
	})
	b.OnRead(clockEVENTS_HFCLKSTARTED, func(b *sim.Bank) uint32 {
		cpu.NOP()
		return b.Peek(clockEVENTS_HFCLKSTARTED)
	})
	return b
}

func newGPIO() *sim.Bank {
	b := sim.NewBank("gpio", nrf51.GPIOBase, 0x800)
	b.OnWrite(gpioOUTSET, func(b *sim.Bank, v uint32) {
		b.Poke(gpioOUT, b.Peek(gpioOUT)|v)
	})
	b.OnWrite(gpioOUTCLR, func(b *sim.Bank, v uint32) {
		b.Poke(gpioOUT, b.Peek(gpioOUT)&^v)
	})
	b.OnWrite(gpioDIRSET, func(b *sim.Bank, v uint32) {
		b.Poke(gpioDIR, b.Peek(gpioDIR)|v)
	})
	b.OnWrite(gpioDIRCLR, func(b *sim.Bank, v uint32) {
		b.Poke(gpioDIR, b.Peek(gpioDIR)&^v)
	})
	b.OnRead(gpioOUTSET, func(b *sim.Bank) uint32 { return b.Peek(gpioOUT) })
	b.OnRead(gpioOUTCLR, func(b *sim.Bank) uint32 { return b.Peek(gpioOUT) })
	b.OnRead(gpioDIRSET, func(b *sim.Bank) uint32 { return b.Peek(gpioDIR) })
	b.OnRead(gpioDIRCLR, func(b *sim.Bank) uint32 { return b.Peek(gpioDIR) })
	// IN is read only
	b.OnWrite(gpioIN, func(b *sim.Bank, v uint32) {})
	return b
}
