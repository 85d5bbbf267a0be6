package sim

import "encoding/binary"

// RAM is a plain memory region, used for both SRAM and flash.
type RAM struct {
	Name string
	Base uint32
	Data []byte
}

func NewRAM(name string, base, size uint32) *RAM {
	return &RAM{Name: name, Base: base, Data: make([]byte, size)}
}

func (r *RAM) Contains(addr uint32) bool {
	return addr-r.Base < uint32(len(r.Data))
}

func (r *RAM) End() uint32 {
	return r.Base + uint32(len(r.Data))
}

func (r *RAM) offset(addr uint32, n uint32, write bool) uint32 {
	off := addr - r.Base
	if off >= uint32(len(r.Data)) || uint32(len(r.Data))-off < n {
		panic(&BusFault{Addr: addr, Write: write})
	}
	return off
}

func (r *RAM) LoadByte(addr uint32) byte {
	return r.Data[r.offset(addr, 1, false)]
}

func (r *RAM) StoreByte(addr uint32, value byte) {
	r.Data[r.offset(addr, 1, true)] = value
}

func (r *RAM) Load32(addr uint32) uint32 {
	off := r.offset(addr, 4, false)
	return binary.LittleEndian.Uint32(r.Data[off:])
}

func (r *RAM) Store32(addr uint32, value uint32) {
	off := r.offset(addr, 4, true)
	binary.LittleEndian.PutUint32(r.Data[off:], value)
}

// Bytes returns a view of n bytes at addr.
func (r *RAM) Bytes(addr, n uint32) []byte {
	off := r.offset(addr, n, false)
	return r.Data[off : off+n]
}
