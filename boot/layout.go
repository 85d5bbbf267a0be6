package boot

import (
	"errors"
	"fmt"
)

// Region is a span of memory described by link-time symbols. Load is the
// program-image address of its initial contents; it is unused for zeroed
// regions.
type Region struct {
	Start uint32
	End   uint32
	Load  uint32
}

func (r Region) Size() uint32 {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

func (r Region) overlaps(o Region) bool {
	return r.Size() > 0 && o.Size() > 0 && r.Start < o.End && o.Start < r.End
}

// Layout is the link-time memory contract: __data_start/__data_end with
// __etext as the load address, __bss_start/__bss_end and __stack.
type Layout struct {
	Data  Region
	Bss   Region
	Stack uint32
}

// Validate checks the invariants the linker script is expected to
// uphold. The sequencer itself trusts the layout.
func (l Layout) Validate() error {
	var errs []error
	if l.Data.End < l.Data.Start {
		errs = append(errs, fmt.Errorf("%w: data 0x%08X-0x%08X", ErrInvertedRegion, l.Data.Start, l.Data.End))
	}
	if l.Bss.End < l.Bss.Start {
		errs = append(errs, fmt.Errorf("%w: bss 0x%08X-0x%08X", ErrInvertedRegion, l.Bss.Start, l.Bss.End))
	}
	if l.Data.overlaps(l.Bss) {
		errs = append(errs, fmt.Errorf("%w: data and bss", ErrOverlappingRegions))
	}
	load := Region{Start: l.Data.Load, End: l.Data.Load + l.Data.Size()}
	if load.overlaps(l.Data) && l.Data.Load != l.Data.Start {
		errs = append(errs, fmt.Errorf("%w: data and its load image", ErrOverlappingRegions))
	}
	return errors.Join(errs...)
}
