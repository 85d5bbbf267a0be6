package nrf51

import (
	"fmt"

	"omibyte.io/bootcore/mmio"
)

const (
	gpioOUT     = 0x504
	gpioOUTSET  = 0x508
	gpioOUTCLR  = 0x50C
	gpioIN      = 0x510
	gpioDIR     = 0x514
	gpioDIRSET  = 0x518
	gpioDIRCLR  = 0x51C
	gpioPIN_CNF = 0x700
)

// PIN_CNF fields
var (
	pinCnfINPUT = mmio.Field{Pos: 1, Width: 1}
	pinCnfPULL  = mmio.Field{Pos: 2, Width: 2}
	pinCnfDRIVE = mmio.Field{Pos: 8, Width: 3}
)

const (
	inputConnect    = 0
	inputDisconnect = 1
)

// Pin numbers a line of the single 32-bit GPIO port.
type Pin uint8

// NumPins is the width of the port.
const NumPins = 32

// bit returns the port bit of pin. A pin beyond the port panics rather
// than wrapping onto another line.
func (pin Pin) bit() uint {
	if pin >= NumPins {
		panic(fmt.Errorf("%w: %d", ErrPinOutOfRange, pin))
	}
	return uint(pin)
}

// Drive selects the output drive strength of a pin. S is standard drive,
// H high drive and D disconnected, for the 0 and 1 levels in turn.
type Drive uint32

const (
	S0S1 Drive = iota
	H0S1
	S0H1
	H0H1
	D0S1
	D0H1
	S0D1
	H0D1
)

// Pull selects the pin's pull resistor.
type Pull uint32

const (
	NoPull   Pull = 0
	PullDown Pull = 1
	PullUp   Pull = 3
)

// GPIO is the GPIO port. Every method is a single register access and
// nothing is cached in software.
type GPIO struct {
	bus  mmio.Bus
	base uint32
}

func NewGPIO(bus mmio.Bus) *GPIO {
	return &GPIO{bus: bus, base: GPIOBase}
}

func (g *GPIO) reg(offset uint32) mmio.Register {
	return mmio.Reg(g.bus, g.base, offset)
}

func (g *GPIO) cnf(pin Pin) mmio.Register {
	return g.reg(gpioPIN_CNF).Index(int(pin.bit()))
}

// SetDirection makes pin an output or an input.
func (g *GPIO) SetDirection(pin Pin, output bool) {
	if output {
		g.reg(gpioDIRSET).Set(mmio.Bit(pin.bit()))
	} else {
		g.reg(gpioDIRCLR).Set(mmio.Bit(pin.bit()))
	}
}

// Connect connects the input buffer of pin so it can be read.
func (g *GPIO) Connect(pin Pin) {
	g.cnf(pin).SetField(pinCnfINPUT, inputConnect)
}

// Disconnect disconnects the input buffer of pin.
func (g *GPIO) Disconnect(pin Pin) {
	g.cnf(pin).SetField(pinCnfINPUT, inputDisconnect)
}

func (g *GPIO) SetDrive(pin Pin, mode Drive) {
	g.cnf(pin).SetField(pinCnfDRIVE, uint32(mode))
}

func (g *GPIO) SetPull(pin Pin, pull Pull) {
	g.cnf(pin).SetField(pinCnfPULL, uint32(pull))
}

// Write drives pin high for a non-zero value and low otherwise.
func (g *GPIO) Write(pin Pin, value uint32) {
	if value != 0 {
		g.reg(gpioOUTSET).Set(mmio.Bit(pin.bit()))
	} else {
		g.reg(gpioOUTCLR).Set(mmio.Bit(pin.bit()))
	}
}

// Read returns the input level of pin as 0 or 1.
func (g *GPIO) Read(pin Pin) uint32 {
	return mmio.GetBit(g.reg(gpioIN).Get(), pin.bit())
}

// SetDirMask writes the whole direction register.
func (g *GPIO) SetDirMask(mask uint32) {
	g.reg(gpioDIR).Set(mask)
}

// SetOutput writes the whole output register.
func (g *GPIO) SetOutput(mask uint32) {
	g.reg(gpioOUT).Set(mask)
}

// IsOutput reports the direction bit of pin.
func (g *GPIO) IsOutput(pin Pin) bool {
	return mmio.GetBit(g.reg(gpioDIR).Get(), pin.bit()) != 0
}
