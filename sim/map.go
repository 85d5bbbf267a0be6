package sim

import "sync"

// Region is a part of the address space.
type Region interface {
	Contains(addr uint32) bool
	LoadByte(addr uint32) byte
	StoreByte(addr uint32, value byte)
	Load32(addr uint32) uint32
	Store32(addr uint32, value uint32)
}

// Map routes accesses to the region holding the address. Accesses are
// serialised so a test may raise interrupts from another goroutine. Code
// that changes a region's state behind the bus, as the interrupt
// controller model does, must do so inside Do.
type Map struct {
	mu      sync.Mutex
	regions []Region
}

func NewMap(regions ...Region) *Map {
	return &Map{regions: regions}
}

func (m *Map) Add(r Region) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regions = append(m.regions, r)
}

// Do runs fn with the bus held. fn must not access the bus itself.
func (m *Map) Do(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn()
}

func (m *Map) find(addr uint32, write bool) Region {
	for _, r := range m.regions {
		if r.Contains(addr) {
			return r
		}
	}
	panic(&BusFault{Addr: addr, Write: write})
}

func (m *Map) LoadByte(addr uint32) byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(addr, false).LoadByte(addr)
}

func (m *Map) StoreByte(addr uint32, value byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.find(addr, true).StoreByte(addr, value)
}

func (m *Map) Load32(addr uint32) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(addr, false).Load32(addr)
}

func (m *Map) Store32(addr uint32, value uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.find(addr, true).Store32(addr, value)
}
