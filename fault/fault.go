// Package fault is the fallback for every exception and interrupt the
// application does not handle. It stops the system and blinks a distress
// pattern on the LED matrix; nothing is recovered.
package fault

import (
	"omibyte.io/bootcore/cortexm"
	"omibyte.io/bootcore/nrf51"
	"omibyte.io/bootcore/timing"
)

// Pattern describes the distress signal.
type Pattern struct {
	// DirMask is written to the GPIO direction register.
	DirMask uint32
	// Indicator is written to the output register for the on phase and
	// Idle for the off phase. Boards with active-low LEDs set Idle to the
	// LED pins and clear the lit one in Indicator.
	Indicator uint32
	Idle      uint32
	OnMicros  uint32
	OffMicros uint32
}

// DefaultPattern lights one LED of the micro:bit matrix: rows on pins
// 13-15 and columns on 4-12 become outputs, and row 2 (pin 14) is driven
// high against low columns.
var DefaultPattern = Pattern{
	DirMask:   0xFFF0,
	Indicator: 0x4000,
	OnMicros:  500_000,
	OffMicros: 100_000,
}

// Handler is the default fault handler.
type Handler struct {
	CPU     cortexm.CPU
	GPIO    *nrf51.GPIO
	Delay   timing.Delayer
	Pattern Pattern
}

// Spin disables interrupts and flashes the indicator forever.
func (h *Handler) Spin() {
	h.CPU.DisableInterrupts()

	h.GPIO.SetDirMask(h.Pattern.DirMask)
	for {
		h.GPIO.SetOutput(h.Pattern.Indicator)
		h.Delay.Delay(h.Pattern.OnMicros)
		h.GPIO.SetOutput(h.Pattern.Idle)
		h.Delay.Delay(h.Pattern.OffMicros)
	}
}
