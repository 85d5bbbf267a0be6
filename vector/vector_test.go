package vector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omibyte.io/bootcore/cortexm"
	"omibyte.io/bootcore/nrf51"
	"omibyte.io/bootcore/vector"
)

const (
	stack    = 0x2000_4000
	reset    = 0x0000_00C1
	fallback = 0x0000_0201
)

func TestSlots(t *testing.T) {
	assert.Equal(t, 48, vector.NumSlots)
	assert.Equal(t, vector.SlotSysTick, vector.IRQSlot(cortexm.SysTick))
	assert.Equal(t, vector.SlotNMI, vector.IRQSlot(cortexm.NMI))
	assert.Equal(t, vector.SlotSVCall, vector.IRQSlot(cortexm.SVCall))
	assert.Equal(t, vector.SlotPendSV, vector.IRQSlot(cortexm.PendSV))
	assert.Equal(t, vector.SlotHardFault, vector.IRQSlot(cortexm.HardFault))
	assert.Equal(t, vector.Slot(16+8), vector.IRQSlot(nrf51.TIMER0))
	assert.Equal(t, nrf51.UART0, vector.IRQSlot(nrf51.UART0).Interrupt())

	assert.Equal(t, "Stack", vector.SlotStack.String())
	assert.Equal(t, "SysTick", vector.SlotSysTick.String())
	assert.Equal(t, "Reserved7", vector.Slot(7).String())
	assert.Equal(t, "IRQ2", vector.Slot(18).String())
	assert.False(t, vector.Slot(48).Valid())
	assert.False(t, vector.Slot(-1).Valid())
}

func TestLayout(t *testing.T) {
	l := nrf51.VectorLayout()
	// 5 core handlers and 25 peripheral handlers
	assert.Len(t, l.Handlers(), 30)

	s, ok := l.Slot("uart_handler")
	require.True(t, ok)
	assert.Equal(t, vector.IRQSlot(nrf51.UART0), s)

	_, ok = l.Slot("")
	assert.False(t, ok)
	_, ok = l.Slot("bogus_handler")
	assert.False(t, ok)

	// Slot order follows the nRF51 interrupt numbering
	assert.Equal(t, "power_clock_handler", l[vector.SlotIRQ0])
	assert.Equal(t, "", l[vector.SlotIRQ0+5])
	assert.Equal(t, "swi5_handler", l[vector.SlotIRQ0+25])
	for s := vector.SlotIRQ0 + 26; s < vector.NumSlots; s++ {
		assert.Empty(t, l[s])
	}
}

func TestBuildDefaults(t *testing.T) {
	r := vector.NewRegistry(nrf51.VectorLayout(), stack, reset, fallback)
	require.NoError(t, r.Register("uart_handler", 0x301))
	require.NoError(t, r.Register("systick_handler", 0x401))

	table := r.Build()
	assert.Len(t, table, vector.NumSlots)
	assert.Equal(t, uint32(stack), table.Handler(vector.SlotStack))
	assert.Equal(t, uint32(reset), table.Handler(vector.SlotReset))
	assert.Equal(t, uint32(0x301), table.Handler(vector.IRQSlot(nrf51.UART0)))
	assert.Equal(t, uint32(0x401), table.Handler(vector.SlotSysTick))

	layout := r.Layout()
	for s := vector.SlotNMI; s < vector.NumSlots; s++ {
		switch {
		case layout[s] == "":
			assert.Zerof(t, table[s], "reserved slot %s", s)
		case !r.Overridden(s):
			assert.Equalf(t, uint32(fallback), table[s], "slot %s", s)
		}
	}
	assert.NoError(t, table.Verify(r))
}

func TestRegisterErrors(t *testing.T) {
	r := vector.NewRegistry(nrf51.VectorLayout(), stack, reset, fallback)

	assert.ErrorIs(t, r.Register("nope", 1), vector.ErrUnknownHandler)
	assert.ErrorIs(t, r.Register(vector.ResetSymbol, 1), vector.ErrUnknownHandler)
	assert.ErrorIs(t, r.Register("adc_handler", 0), vector.ErrNullHandler)
	assert.ErrorIs(t, r.RegisterSlot(vector.Slot(5), 1), vector.ErrReservedSlot)
	assert.ErrorIs(t, r.RegisterSlot(vector.NumSlots, 1), vector.ErrSlotOutOfRange)
	assert.ErrorIs(t, r.RegisterSlot(vector.SlotReset, 1), vector.ErrSlotOutOfRange)

	require.NoError(t, r.Register("adc_handler", 0x501))
	assert.ErrorIs(t, r.Register("adc_handler", 0x601), vector.ErrDuplicateHandler)
}

func TestFromSymbols(t *testing.T) {
	syms := vector.Symbols{
		vector.StackSymbol:   stack,
		vector.ResetSymbol:   reset,
		vector.DefaultSymbol: fallback,
		"timer1_handler":     0x701,
		"init":               0x801,
	}
	r, err := vector.FromSymbols(nrf51.VectorLayout(), syms)
	require.NoError(t, err)
	assert.True(t, r.Overridden(vector.IRQSlot(nrf51.TIMER1)))
	assert.False(t, r.Overridden(vector.IRQSlot(nrf51.TIMER0)))

	table := r.Build()
	assert.Equal(t, uint32(0x701), table[vector.IRQSlot(nrf51.TIMER1)])
	assert.Equal(t, uint32(fallback), table[vector.IRQSlot(nrf51.TIMER0)])

	_, err = vector.FromSymbols(nrf51.VectorLayout(), vector.Symbols{vector.StackSymbol: stack})
	assert.ErrorIs(t, err, vector.ErrMissingSymbol)
	assert.ErrorContains(t, err, vector.ResetSymbol)
	assert.ErrorContains(t, err, vector.DefaultSymbol)
}

func TestVerifyDetectsMisplacedSlots(t *testing.T) {
	r := vector.NewRegistry(nrf51.VectorLayout(), stack, reset, fallback)
	require.NoError(t, r.Register("rtc0_handler", 0x901))
	table := r.Build()

	bad := table
	bad[vector.SlotStack] = 0
	bad[vector.Slot(6)] = 0x1234
	bad[vector.IRQSlot(nrf51.RTC0)], bad[vector.IRQSlot(nrf51.TEMP)] = table[vector.IRQSlot(nrf51.TEMP)], table[vector.IRQSlot(nrf51.RTC0)]

	err := bad.Verify(r)
	require.ErrorIs(t, err, vector.ErrVerify)
	assert.ErrorContains(t, err, "initial stack pointer")
	assert.ErrorContains(t, err, "reserved slot")
	assert.ErrorContains(t, err, "handler rtc0_handler")
	assert.ErrorContains(t, err, "default handler for temp_handler")
}

func TestImageRoundTrip(t *testing.T) {
	r := vector.NewRegistry(nrf51.VectorLayout(), stack, reset, fallback)
	table := r.Build()

	b, err := table.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, vector.Size)
	assert.Equal(t, []byte{0x00, 0x40, 0x00, 0x20}, b[:4])
	assert.Equal(t, []byte{0xC1, 0x00, 0x00, 0x00}, b[4:8])

	var decoded vector.Table
	require.NoError(t, decoded.UnmarshalBinary(b))
	assert.Equal(t, table, decoded)

	assert.ErrorIs(t, decoded.UnmarshalBinary(b[:10]), vector.ErrImageSize)
}

func TestHandlerOutOfRange(t *testing.T) {
	var table vector.Table
	assert.Panics(t, func() { table.Handler(vector.NumSlots) })
}
