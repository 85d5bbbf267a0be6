package timing

// Delayer busy-waits for a number of microseconds.
type Delayer interface {
	Delay(usecs uint32)
}

// Delay spins until usecs microseconds have elapsed on src.
func Delay(src Source, usecs uint32) {
	start := src.Now()
	d := uint64(usecs) * 1000
	for src.Now()-start < d {
	}
}

// SourceDelay is a Delayer measured against a time source.
type SourceDelay struct {
	Source Source
}

func (d SourceDelay) Delay(usecs uint32) {
	Delay(d.Source, usecs)
}

// NOPer executes a single no-op instruction.
type NOPer interface {
	NOP()
}

// LoopDelay counts loop iterations instead of measuring time. Its accuracy
// depends on the core clock and the generated code; IterationsPerMicro
// should come from Calibrate.
type LoopDelay struct {
	CPU                NOPer
	IterationsPerMicro uint32
}

// DefaultIterationsPerMicro is two iterations of three NOPs per
// microsecond, 500ns per iteration on a 16MHz Cortex-M0.
const DefaultIterationsPerMicro = 2

func (d LoopDelay) Delay(usecs uint32) {
	per := d.IterationsPerMicro
	if per == 0 {
		per = DefaultIterationsPerMicro
	}
	for t := usecs * per; t > 0; t-- {
		d.CPU.NOP()
		d.CPU.NOP()
		d.CPU.NOP()
	}
}
