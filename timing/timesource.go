package timing

// Source reports a monotonic time in nanoseconds.
type Source interface {
	Now() (nsec uint64)
}

// Counter is a free running cycle counter.
type Counter interface {
	Cycles() uint64
}

// CycleSource converts a cycle counter running at Hz into nanoseconds.
type CycleSource struct {
	Counter Counter
	Hz      uint64
}

func (s *CycleSource) Now() uint64 {
	c := s.Counter.Cycles()
	// Split to keep c*1e9 from overflowing on long uptimes.
	return (c/s.Hz)*1_000_000_000 + (c%s.Hz)*1_000_000_000/s.Hz
}
