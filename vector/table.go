package vector

import (
	"encoding/binary"
	"fmt"
)

// Table is the vector table image: one little-endian word per slot,
// placed at address 0 and never written after the image is built.
type Table [NumSlots]uint32

// Size is the table size in bytes.
const Size = NumSlots * 4

// Handler returns the word stored in slot s.
func (t *Table) Handler(s Slot) uint32 {
	if !s.Valid() {
		panic(fmt.Errorf("%w: %d", ErrSlotOutOfRange, int(s)))
	}
	return t[s]
}

func (t *Table) MarshalBinary() ([]byte, error) {
	b := make([]byte, Size)
	for i, v := range t {
		binary.LittleEndian.PutUint32(b[i*4:], v)
	}
	return b, nil
}

func (t *Table) UnmarshalBinary(b []byte) error {
	if len(b) != Size {
		return fmt.Errorf("%w: %d bytes, want %d", ErrImageSize, len(b), Size)
	}
	for i := range t {
		t[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return nil
}
