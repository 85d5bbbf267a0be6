package sim

import (
	"errors"
	"fmt"
)

var (
	ErrBusFault = errors.New("bus fault")
)

// BusFault is raised (as a panic) when an access hits no mapped region.
type BusFault struct {
	Addr  uint32
	Write bool
}

func (f *BusFault) Error() string {
	op := "read"
	if f.Write {
		op = "write"
	}
	return fmt.Sprintf("%s: %s at 0x%08X", ErrBusFault, op, f.Addr)
}

func (f *BusFault) Unwrap() error {
	return ErrBusFault
}
