package sim

// Write records one word store into a register bank.
type Write struct {
	Addr  uint32
	Value uint32
}

// Bank simulates a block of 32-bit device registers. Stored bits can be
// limited to the implemented ones, and individual registers can carry
// hooks giving them write-one-to-set or self-clearing behaviour.
type Bank struct {
	Name string
	Base uint32
	Size uint32

	regs    map[uint32]uint32
	masks   map[uint32]uint32
	onWrite map[uint32]func(b *Bank, value uint32)
	onRead  map[uint32]func(b *Bank) uint32

	// Writes logs every word store in order.
	Writes []Write
}

func NewBank(name string, base, size uint32) *Bank {
	return &Bank{
		Name:    name,
		Base:    base,
		Size:    size,
		regs:    map[uint32]uint32{},
		masks:   map[uint32]uint32{},
		onWrite: map[uint32]func(*Bank, uint32){},
		onRead:  map[uint32]func(*Bank) uint32{},
	}
}

func (b *Bank) Contains(addr uint32) bool {
	return addr-b.Base < b.Size
}

// Implement limits the register at offset to the bits in mask; the rest
// read as zero.
func (b *Bank) Implement(offset, mask uint32) {
	b.masks[offset] = mask
}

// OnWrite replaces the plain store of the register at offset.
func (b *Bank) OnWrite(offset uint32, fn func(b *Bank, value uint32)) {
	b.onWrite[offset] = fn
}

// OnRead replaces the plain load of the register at offset.
func (b *Bank) OnRead(offset uint32, fn func(b *Bank) uint32) {
	b.onRead[offset] = fn
}

// Peek returns the stored value at offset without running hooks.
func (b *Bank) Peek(offset uint32) uint32 {
	return b.regs[offset]
}

// Poke stores value at offset without hooks or logging, honouring the
// implemented bits.
func (b *Bank) Poke(offset, value uint32) {
	if mask, ok := b.masks[offset]; ok {
		value &= mask
	}
	b.regs[offset] = value
}

// WritesTo returns the values written to offset, oldest first.
func (b *Bank) WritesTo(offset uint32) []uint32 {
	var values []uint32
	for _, w := range b.Writes {
		if w.Addr == b.Base+offset {
			values = append(values, w.Value)
		}
	}
	return values
}

// Reset clears registers and the write log but keeps hooks and masks.
func (b *Bank) Reset() {
	b.regs = map[uint32]uint32{}
	b.Writes = nil
}

func (b *Bank) offset(addr uint32, write bool) uint32 {
	if !b.Contains(addr) {
		panic(&BusFault{Addr: addr, Write: write})
	}
	return addr - b.Base
}

func (b *Bank) Load32(addr uint32) uint32 {
	off := b.offset(addr&^3, false)
	if fn, ok := b.onRead[off]; ok {
		return fn(b)
	}
	return b.regs[off]
}

func (b *Bank) Store32(addr uint32, value uint32) {
	off := b.offset(addr&^3, true)
	b.Writes = append(b.Writes, Write{Addr: addr &^ 3, Value: value})
	if fn, ok := b.onWrite[off]; ok {
		fn(b, value)
		return
	}
	b.Poke(off, value)
}

func (b *Bank) LoadByte(addr uint32) byte {
	return byte(b.Load32(addr) >> ((addr & 3) * 8))
}

// StoreByte is a read-modify-write of the containing word.
func (b *Bank) StoreByte(addr uint32, value byte) {
	shift := (addr & 3) * 8
	word := b.Load32(addr) &^ (0xFF << shift)
	b.Store32(addr, word|uint32(value)<<shift)
}
