package vector

import (
	"errors"
	"fmt"
)

// Symbols maps link-time symbol names to addresses.
type Symbols map[string]uint32

// Registry is the handler registration table populated while the image is
// built. Every named slot without a registered handler resolves to the
// default handler, mirroring weak symbol aliasing.
type Registry struct {
	layout   Layout
	stack    uint32
	reset    uint32
	fallback uint32
	handlers [NumSlots]uint32
}

func NewRegistry(layout Layout, stack, reset, fallback uint32) *Registry {
	return &Registry{
		layout:   layout,
		stack:    stack,
		reset:    reset,
		fallback: fallback,
	}
}

// FromSymbols creates a registry from a symbol table. The stack, reset
// and default handler symbols are required; every layout handler present
// in syms is registered as an override.
func FromSymbols(layout Layout, syms Symbols) (*Registry, error) {
	var errs []error
	required := func(name string) uint32 {
		addr, ok := syms[name]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingSymbol, name))
		}
		return addr
	}
	r := NewRegistry(layout, required(StackSymbol), required(ResetSymbol), required(DefaultSymbol))
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for _, name := range layout.Handlers() {
		if addr, ok := syms[name]; ok {
			if err := r.Register(name, addr); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return r, errors.Join(errs...)
}

func (r *Registry) Layout() Layout {
	return r.layout
}

func (r *Registry) Default() uint32 {
	return r.fallback
}

// Register binds the named handler to addr.
func (r *Registry) Register(name string, addr uint32) error {
	s, ok := r.layout.Slot(name)
	if !ok || s < SlotNMI {
		return fmt.Errorf("%w: %q", ErrUnknownHandler, name)
	}
	return r.RegisterSlot(s, addr)
}

// RegisterSlot binds slot s to addr.
func (r *Registry) RegisterSlot(s Slot, addr uint32) error {
	switch {
	case !s.Valid() || s < SlotNMI:
		return fmt.Errorf("%w: %d", ErrSlotOutOfRange, int(s))
	case r.layout[s] == "":
		return fmt.Errorf("%w: %s", ErrReservedSlot, s)
	case addr == 0:
		return fmt.Errorf("%w: %s", ErrNullHandler, r.layout[s])
	case r.handlers[s] != 0:
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, r.layout[s])
	}
	r.handlers[s] = addr
	return nil
}

// Overridden reports whether slot s has an application handler.
func (r *Registry) Overridden(s Slot) bool {
	return s.Valid() && r.handlers[s] != 0
}

// Resolve returns the address the slot will hold.
func (r *Registry) Resolve(s Slot) uint32 {
	switch {
	case s == SlotStack:
		return r.stack
	case s == SlotReset:
		return r.reset
	case !s.Valid() || r.layout[s] == "":
		return 0
	case r.handlers[s] != 0:
		return r.handlers[s]
	}
	return r.fallback
}

// Build produces the table.
func (r *Registry) Build() Table {
	var t Table
	for s := Slot(0); s < NumSlots; s++ {
		t[s] = r.Resolve(s)
	}
	return t
}

// Verify checks t against the registry: slot 0 holds the stack pointer,
// slot 1 the reset handler, reserved slots are zero, overridden slots hold
// their handler and every other named slot holds the default handler.
func (t *Table) Verify(r *Registry) error {
	var errs []error
	for s := Slot(0); s < NumSlots; s++ {
		want := r.Resolve(s)
		if t[s] == want {
			continue
		}
		what := "handler " + r.layout[s]
		switch {
		case s == SlotStack:
			what = "initial stack pointer"
		case s == SlotReset:
			what = "reset handler"
		case r.layout[s] == "":
			what = "reserved slot"
		case !r.Overridden(s):
			what = "default handler for " + r.layout[s]
		}
		errs = append(errs, fmt.Errorf("%w: slot %d (%s): %s is 0x%08X, want 0x%08X",
			ErrVerify, int(s), s, what, t[s], want))
	}
	return errors.Join(errs...)
}
