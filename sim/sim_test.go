package sim

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRAM(t *testing.T) {
	r := NewRAM("ram", 0x2000_0000, 16)
	r.Store32(0x2000_0004, 0x11223344)
	assert.Equal(t, byte(0x44), r.LoadByte(0x2000_0004))
	assert.Equal(t, byte(0x11), r.LoadByte(0x2000_0007))
	r.StoreByte(0x2000_0005, 0xAA)
	assert.Equal(t, uint32(0x1122AA44), r.Load32(0x2000_0004))
	assert.Equal(t, []byte{0x44, 0xAA}, r.Bytes(0x2000_0004, 2))

	assert.True(t, r.Contains(0x2000_000F))
	assert.False(t, r.Contains(0x2000_0010))
	assert.False(t, r.Contains(0x1FFF_FFFF))
	assert.Equal(t, uint32(0x2000_0010), r.End())
}

func TestRAMBusFault(t *testing.T) {
	r := NewRAM("ram", 0x100, 8)
	defer func() {
		fault, ok := recover().(*BusFault)
		require.True(t, ok)
		assert.Equal(t, uint32(0x106), fault.Addr)
		assert.True(t, fault.Write)
		assert.ErrorIs(t, fault, ErrBusFault)
	}()
	// Straddles the end of the region
	r.Store32(0x106, 1)
}

func TestBank(t *testing.T) {
	b := NewBank("nvic", 0xE000_E100, 0x400)
	b.Implement(0x300, 0xC0C0C0C0)

	b.Store32(0xE000_E300, 0xFFFF_FFFF)
	assert.Equal(t, uint32(0xC0C0C0C0), b.Load32(0xE000_E300))

	b.StoreByte(0xE000_E301, 0x00)
	assert.Equal(t, uint32(0xC0C000C0), b.Load32(0xE000_E300))
	assert.Equal(t, []uint32{0xFFFF_FFFF, 0xC0C000C0}, b.WritesTo(0x300))

	// write-one-to-set
	b.OnWrite(0x000, func(b *Bank, v uint32) { b.Poke(0x000, b.Peek(0x000)|v) })
	b.Store32(0xE000_E100, 1<<3)
	b.Store32(0xE000_E100, 1<<7)
	assert.Equal(t, uint32(1<<3|1<<7), b.Load32(0xE000_E100))

	b.OnRead(0x004, func(*Bank) uint32 { return 42 })
	assert.Equal(t, uint32(42), b.Load32(0xE000_E104))

	b.Reset()
	assert.Empty(t, b.Writes)
	assert.Zero(t, b.Peek(0x000))
}

func TestMap(t *testing.T) {
	ram := NewRAM("ram", 0x2000_0000, 64)
	regs := NewBank("gpio", 0x5000_0000, 0x800)
	m := NewMap(ram)
	m.Add(regs)

	m.Store32(0x2000_0000, 7)
	m.Store32(0x5000_0504, 9)
	assert.Equal(t, uint32(7), ram.Load32(0x2000_0000))
	assert.Equal(t, uint32(9), regs.Peek(0x504))
	assert.Equal(t, byte(9), m.LoadByte(0x5000_0504))

	assert.PanicsWithError(t, "bus fault: read at 0x40000000", func() {
		m.Load32(0x4000_0000)
	})
}

func TestMapDo(t *testing.T) {
	regs := NewBank("nvic", 0xE000_E100, 0x400)
	m := NewMap(regs)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(bit uint32) {
			defer wg.Done()
			m.Do(func() { regs.Poke(0x100, regs.Peek(0x100)|1<<bit) })
		}(uint32(i))
		go func() {
			defer wg.Done()
			m.Load32(0xE000_E200)
		}()
	}
	wg.Wait()
	assert.Equal(t, uint32(0xFF), m.Load32(0xE000_E200))
}

func TestCPUStateFromAnotherGoroutine(t *testing.T) {
	c := NewCPU(16_000_000)
	c.HaltAfterWaits(1)
	done := make(chan bool)
	go func() {
		done <- c.Run(func() {
			c.DisableInterrupts()
			for {
				c.WaitForEvent()
			}
		})
	}()
	for c.Waits() == 0 {
	}
	assert.True(t, <-done)
	assert.False(t, c.InterruptsEnabled())
	assert.Equal(t, uint64(2), c.Cycles()-c.Step)
}

func TestCPUHalts(t *testing.T) {
	c := NewCPU(16_000_000)
	c.HaltAfterWaits(3)
	halted := c.Run(func() {
		for {
			c.WaitForEvent()
		}
	})
	assert.True(t, halted)
	assert.Equal(t, 3, c.Waits())

	c = NewCPU(16_000_000)
	c.HaltAfterCycles(100)
	assert.True(t, c.Run(func() {
		for {
			c.NOP()
		}
	}))
	assert.Equal(t, uint64(100), c.cycles)

	assert.False(t, c.Run(func() {}))
}

func TestCPUInterruptMask(t *testing.T) {
	c := NewCPU(16_000_000)
	assert.True(t, c.InterruptsEnabled())
	c.DisableInterrupts()
	assert.False(t, c.InterruptsEnabled())
	c.EnableInterrupts()
	assert.True(t, c.InterruptsEnabled())
}

func TestCPUClock(t *testing.T) {
	c := NewCPU(16_000_000)
	c.Step = 16
	clock := c.Clock()
	assert.Equal(t, uint64(1000), clock.Now())
	assert.Equal(t, uint64(2000), clock.Now())
}

func TestRunRepanics(t *testing.T) {
	c := NewCPU(1)
	assert.Panics(t, func() {
		c.Run(func() { panic("boom") })
	})
}
