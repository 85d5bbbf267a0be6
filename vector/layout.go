package vector

import "golang.org/x/exp/slices"

// Symbol names fixed by the link-time contract.
const (
	StackSymbol   = "__stack"
	ResetSymbol   = "__reset"
	DefaultSymbol = "default_handler"
)

// Layout names the symbol bound to each slot. An empty name marks a
// reserved slot.
type Layout [NumSlots]string

// CoreLayout returns a layout with the core exception slots filled in and
// every peripheral slot reserved.
func CoreLayout() Layout {
	var l Layout
	l[SlotStack] = StackSymbol
	l[SlotReset] = ResetSymbol
	l[SlotNMI] = "nmi_handler"
	l[SlotHardFault] = "hardfault_handler"
	l[SlotSVCall] = "svc_handler"
	l[SlotPendSV] = "pendsv_handler"
	l[SlotSysTick] = "systick_handler"
	return l
}

// Slot returns the slot bound to name.
func (l Layout) Slot(name string) (Slot, bool) {
	if name == "" {
		return 0, false
	}
	i := slices.Index(l[:], name)
	return Slot(i), i >= 0
}

// Handlers returns the overridable handler names in slot order.
func (l Layout) Handlers() []string {
	var names []string
	for s := SlotNMI; s < NumSlots; s++ {
		if l[s] != "" {
			names = append(names, l[s])
		}
	}
	return names
}
