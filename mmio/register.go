package mmio

// Register is a single 32-bit device register at a fixed address.
type Register struct {
	Bus  Bus
	Addr uint32
}

// Reg returns the register at base+offset.
func Reg(bus Bus, base, offset uint32) Register {
	return Register{Bus: bus, Addr: base + offset}
}

func (r Register) Get() uint32 {
	return r.Bus.Load32(r.Addr)
}

func (r Register) Set(value uint32) {
	r.Bus.Store32(r.Addr, value)
}

// SetField performs a read-modify-write of one field.
func (r Register) SetField(f Field, value uint32) {
	r.Set(f.Insert(r.Get(), value))
}

func (r Register) GetField(f Field) uint32 {
	return f.Extract(r.Get())
}

// SetByte performs a read-modify-write of one byte lane.
func (r Register) SetByte(lane uint, value uint8) {
	r.Set(SetByte(r.Get(), lane, value))
}

// Index returns the n-th register of an array of consecutive words.
func (r Register) Index(n int) Register {
	return Register{Bus: r.Bus, Addr: r.Addr + uint32(n)*4}
}
