//go:build tinygo && cortexm

package boot

import (
	"unsafe"

	"omibyte.io/bootcore/cortexm"
	"omibyte.io/bootcore/fault"
	"omibyte.io/bootcore/mmio"
)

//go:linkname appMain main.main
func appMain()

//go:extern __data_start
var dataStart [0]byte

//go:extern __data_end
var dataEnd [0]byte

//go:extern __etext
var etext [0]byte

//go:extern __bss_start
var bssStart [0]byte

//go:extern __bss_end
var bssEnd [0]byte

//go:extern __stack
var stackTop [0]byte

func addr(sym *[0]byte) uint32 {
	return uint32(uintptr(unsafe.Pointer(sym)))
}

func linkedLayout() Layout {
	return Layout{
		Data:  Region{Start: addr(&dataStart), End: addr(&dataEnd), Load: addr(&etext)},
		Bss:   Region{Start: addr(&bssStart), End: addr(&bssEnd)},
		Stack: addr(&stackTop),
	}
}

//go:export __reset
func reset() {
	// Data and bss are not set up yet, so the board is built from values
	// and not from the package variables.
	b := Board{Bus: mmio.Physical{}, CPU: cortexm.Processor{}}
	seq := b.Sequencer(linkedLayout(), appMain)
	seq.Reset()
}

//go:export default_handler
func defaultHandler() {
	b := Board{Bus: mmio.Direct, CPU: cortexm.Core, Pattern: fault.DefaultPattern}
	h := b.FaultHandler()
	h.Spin()
}
