package mmio

// Bit returns a word with only bit n set. n is taken modulo 32; callers
// range-check their own indices.
func Bit(n uint) uint32 {
	return 1 << (n & 0x1F)
}

// GetBit returns bit n of v as 0 or 1, n modulo 32.
func GetBit(v uint32, n uint) uint32 {
	return (v >> (n & 0x1F)) & 1
}

// Field describes a contiguous group of bits inside a register.
type Field struct {
	Pos   uint
	Width uint
}

func (f Field) Mask() uint32 {
	if f.Width >= 32 {
		return ^uint32(0)
	}
	return ((1 << f.Width) - 1) << f.Pos
}

// Insert returns word with the field replaced by value. Bits of value
// beyond the field width are dropped.
func (f Field) Insert(word, value uint32) uint32 {
	return (word &^ f.Mask()) | ((value << f.Pos) & f.Mask())
}

func (f Field) Extract(word uint32) uint32 {
	return (word & f.Mask()) >> f.Pos
}

// SetByte returns word with byte lane (0 = least significant) replaced.
func SetByte(word uint32, lane uint, value uint8) uint32 {
	return Field{Pos: (lane & 3) * 8, Width: 8}.Insert(word, uint32(value))
}

// GetByte returns byte lane of word.
func GetByte(word uint32, lane uint) uint8 {
	return uint8(word >> ((lane & 3) * 8))
}
