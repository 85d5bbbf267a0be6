// Package mem provides the byte-granular memory primitives used before any
// library exists: copy, move, fill and compare. They work one byte at a
// time, make no alignment assumptions and never allocate.
package mem

// Memory is a byte addressable space. mmio.Bus satisfies it.
type Memory interface {
	LoadByte(addr uint32) byte
	StoreByte(addr uint32, value byte)
}

// Copy copies n bytes from src to dst and returns dst. The regions must
// not overlap; use Move when they might.
func Copy(m Memory, dst, src, n uint32) uint32 {
	for i := uint32(0); i < n; i++ {
		m.StoreByte(dst+i, m.LoadByte(src+i))
	}
	return dst
}

// Move copies n bytes from src to dst and returns dst. Overlapping regions
// are handled by copying upwards when dst is below src and downwards
// otherwise, so no byte is read after it has been overwritten.
func Move(m Memory, dst, src, n uint32) uint32 {
	if dst <= src {
		return Copy(m, dst, src, n)
	}
	for i := n; i > 0; i-- {
		m.StoreByte(dst+i-1, m.LoadByte(src+i-1))
	}
	return dst
}

// Fill stores the low 8 bits of value into n bytes at dst and returns dst.
func Fill(m Memory, dst uint32, value uint32, n uint32) uint32 {
	b := byte(value)
	for i := uint32(0); i < n; i++ {
		m.StoreByte(dst+i, b)
	}
	return dst
}

// Compare compares n bytes at a and b. It returns 0 when they are equal,
// otherwise -1 or 1 according to the first differing byte.
func Compare(m Memory, a, b, n uint32) int {
	for i := uint32(0); i < n; i++ {
		x, y := m.LoadByte(a+i), m.LoadByte(b+i)
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return 0
}
