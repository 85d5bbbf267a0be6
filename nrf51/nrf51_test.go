package nrf51

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omibyte.io/bootcore/sim"
)

func newTestGPIO() (*GPIO, *sim.Bank) {
	bank := sim.NewBank("gpio", GPIOBase, 0x800)
	return NewGPIO(bank), bank
}

func TestSetDirection(t *testing.T) {
	g, bank := newTestGPIO()
	g.SetDirection(5, true)
	assert.Equal(t, []uint32{1 << 5}, bank.WritesTo(gpioDIRSET))

	g.SetDirection(5, false)
	assert.Equal(t, []uint32{1 << 5}, bank.WritesTo(gpioDIRCLR))
	assert.Len(t, bank.Writes, 2)
}

func TestWrite(t *testing.T) {
	g, bank := newTestGPIO()
	g.Write(5, 0)
	assert.Equal(t, []uint32{1 << 5}, bank.WritesTo(gpioOUTCLR))
	assert.Empty(t, bank.WritesTo(gpioOUTSET))

	g.Write(13, 1)
	g.Write(14, 7)
	assert.Equal(t, []uint32{1 << 13, 1 << 14}, bank.WritesTo(gpioOUTSET))
}

func TestPinOutOfRange(t *testing.T) {
	g, bank := newTestGPIO()
	for name, fn := range map[string]func(){
		"SetDirection": func() { g.SetDirection(37, true) },
		"Write":        func() { g.Write(37, 1) },
		"Read":         func() { g.Read(32) },
		"Connect":      func() { g.Connect(40) },
		"SetDrive":     func() { g.SetDrive(255, H0H1) },
		"IsOutput":     func() { g.IsOutput(32) },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				err, ok := recover().(error)
				require.True(t, ok, "expected a panic")
				assert.ErrorIs(t, err, ErrPinOutOfRange)
			}()
			fn()
		})
	}
	// Pin 5 was never touched
	assert.Empty(t, bank.Writes)

	g.Write(31, 1)
	assert.Equal(t, []uint32{1 << 31}, bank.WritesTo(gpioOUTSET))
}

func TestRead(t *testing.T) {
	g, bank := newTestGPIO()
	bank.Poke(gpioIN, 1<<17|1<<26)
	assert.Equal(t, uint32(1), g.Read(17))
	assert.Equal(t, uint32(1), g.Read(26))
	assert.Equal(t, uint32(0), g.Read(18))
	assert.Empty(t, bank.Writes)
}

func TestPinConfig(t *testing.T) {
	g, bank := newTestGPIO()
	// Reset value: input buffer disconnected
	bank.Poke(gpioPIN_CNF+4*17, 0x2)

	g.Connect(17)
	assert.Equal(t, uint32(0x0), bank.Peek(gpioPIN_CNF+4*17))

	g.SetDrive(17, H0H1)
	assert.Equal(t, uint32(0x300), bank.Peek(gpioPIN_CNF+4*17))

	g.SetPull(17, PullUp)
	assert.Equal(t, uint32(0x30C), bank.Peek(gpioPIN_CNF+4*17))

	g.Disconnect(17)
	assert.Equal(t, uint32(0x30E), bank.Peek(gpioPIN_CNF+4*17))

	// Other pins untouched
	assert.Zero(t, bank.Peek(gpioPIN_CNF+4*16))
	assert.Zero(t, bank.Peek(gpioPIN_CNF+4*18))
}

func TestWholeRegisters(t *testing.T) {
	g, bank := newTestGPIO()
	g.SetDirMask(0xFFF0)
	g.SetOutput(0x4000)
	assert.Equal(t, uint32(0xFFF0), bank.Peek(gpioDIR))
	assert.Equal(t, uint32(0x4000), bank.Peek(gpioOUT))
	assert.True(t, g.IsOutput(4))
	assert.False(t, g.IsOutput(3))
}

func TestStartHF(t *testing.T) {
	bank := sim.NewBank("clock", ClockBase, 0x1000)
	polls := 0
	bank.OnWrite(clockTASKS_HFCLKSTART, func(b *sim.Bank, v uint32) {
		if v == 1 {
			polls = 3
		}
	})
	bank.OnRead(clockEVENTS_HFCLKSTARTED, func(b *sim.Bank) uint32 {
		if polls > 0 {
			polls--
			if polls == 0 {
				b.Poke(clockEVENTS_HFCLKSTARTED, 1)
			}
		}
		return b.Peek(clockEVENTS_HFCLKSTARTED)
	})
	// A stale event from before reset must be cleared first
	bank.Poke(clockEVENTS_HFCLKSTARTED, 1)

	NewClock(bank).StartHF()

	require.Len(t, bank.Writes, 2)
	assert.Equal(t, sim.Write{Addr: ClockBase + clockEVENTS_HFCLKSTARTED, Value: 0}, bank.Writes[0])
	assert.Equal(t, sim.Write{Addr: ClockBase + clockTASKS_HFCLKSTART, Value: 1}, bank.Writes[1])
	assert.Equal(t, uint32(1), bank.Peek(clockEVENTS_HFCLKSTARTED))
}

func TestDeviceTables(t *testing.T) {
	assert.Equal(t, uint32(0x4000_8000), TIMER[0])
	assert.Equal(t, I2C, SPI)
	assert.Len(t, IRQHandlers, 32)
	assert.Equal(t, "uart_handler", IRQHandlers[UART0])
}
