package mmio

import (
	"sync/atomic"
	"unsafe"
)

// Bus is a byte addressable space holding memory and device registers.
// Word accesses are little-endian and must be 4-byte aligned for registers.
type Bus interface {
	LoadByte(addr uint32) byte
	StoreByte(addr uint32, value byte)
	Load32(addr uint32) uint32
	Store32(addr uint32, value uint32)
}

// Direct binds a Bus to the physical address space of the running core.
// It is only meaningful on the target itself.
var Direct Bus = Physical{}

// Physical is the bus behind Direct. Code that runs before initialised
// data is in place uses a Physical value instead of the variable.
type Physical struct{}

func (Physical) LoadByte(addr uint32) byte {
	return *(*byte)(unsafe.Pointer(uintptr(addr)))
}

func (Physical) StoreByte(addr uint32, value byte) {
	*(*byte)(unsafe.Pointer(uintptr(addr))) = value
}

func (Physical) Load32(addr uint32) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(uintptr(addr))))
}

func (Physical) Store32(addr uint32, value uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(uintptr(addr))), value)
}
