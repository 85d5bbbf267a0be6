package nrf51

import "omibyte.io/bootcore/mmio"

const (
	clockTASKS_HFCLKSTART    = 0x000
	clockEVENTS_HFCLKSTARTED = 0x100
)

// Clock is the CLOCK peripheral.
type Clock struct {
	bus  mmio.Bus
	base uint32
}

func NewClock(bus mmio.Bus) *Clock {
	return &Clock{bus: bus, base: ClockBase}
}

// StartHF starts the crystal oscillator and spins until it reports ready.
// There is no timeout: a board without a working crystal hangs here.
func (c *Clock) StartHF() {
	started := mmio.Reg(c.bus, c.base, clockEVENTS_HFCLKSTARTED)
	started.Set(0)
	mmio.Reg(c.bus, c.base, clockTASKS_HFCLKSTART).Set(1)
	for started.Get() == 0 {
	}
}
