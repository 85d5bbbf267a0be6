package boot

// State is a step of the reset sequence.
type State int

const (
	ClockStart State = iota
	DataInit
	BssInit
	EntryDispatch
)

func (s State) String() string {
	switch s {
	case ClockStart:
		return "ClockStart"
	case DataInit:
		return "DataInit"
	case BssInit:
		return "BssInit"
	case EntryDispatch:
		return "EntryDispatch"
	}
	return "Unknown"
}
