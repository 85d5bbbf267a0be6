// Package generator turns a device description into the chip support
// sources: the Go interrupt enumeration, the device tables and the linker
// script fragment that binds every unimplemented handler to the default
// handler.
package generator

import (
	"errors"
	"fmt"
	"go/format"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"omibyte.io/bootcore/boot"
	"omibyte.io/bootcore/cortexm"
	"omibyte.io/bootcore/svd"
	"omibyte.io/bootcore/targets"
	"omibyte.io/bootcore/vector"
)

var (
	ErrTooManyInterrupts = errors.New("interrupt number beyond the vector table")
	ErrNoInstances       = errors.New("device group has no instances")
)

type Generator interface {
	Generate(out string) error
}

type irqgen struct {
	device *svd.DeviceElement
	target targets.TargetInfo
	pkg    string
	source string
}

// NewGenerator returns a generator for device on target. The generated
// Go file belongs to package pkg; source names the input in the header.
func NewGenerator(device *svd.DeviceElement, target targets.TargetInfo, pkg, source string) Generator {
	return &irqgen{
		device: device,
		target: target,
		pkg:    pkg,
		source: source,
	}
}

func (g *irqgen) Generate(out string) error {
	if err := os.MkdirAll(out, 0750); err != nil {
		return err
	}

	src, err := g.IRQSource()
	if err != nil {
		return err
	}
	if err = os.WriteFile(filepath.Join(out, "irq.go"), src, 0640); err != nil {
		return err
	}

	if src, err = g.DeviceSource(); err != nil {
		return err
	}
	if err = os.WriteFile(filepath.Join(out, "devices.go"), src, 0640); err != nil {
		return err
	}

	ld, err := g.LinkerAliases()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(out, "handlers.ld"), ld, 0640)
}

func (g *irqgen) header() string {
	return fmt.Sprintf("Code generated by bootcore svd-gen from %s; DO NOT EDIT.", g.source)
}

func (g *irqgen) interrupts() ([]svd.InterruptElement, error) {
	irqs, err := g.device.Interrupts()
	if err != nil {
		return nil, err
	}
	for _, irq := range irqs {
		if int(irq.Value) >= g.target.IRQSlots {
			return nil, fmt.Errorf("%w: %s = %d, %d slots", ErrTooManyInterrupts, irq.Name, irq.Value, g.target.IRQSlots)
		}
	}
	return irqs, nil
}

// Layout returns the vector table layout of the device.
func (g *irqgen) Layout() (vector.Layout, error) {
	irqs, err := g.interrupts()
	if err != nil {
		return vector.Layout{}, err
	}
	layout := vector.CoreLayout()
	for _, irq := range irqs {
		layout[vector.IRQSlot(cortexm.Interrupt(irq.Value))] = g.target.HandlerName(irq.Name)
	}
	return layout, nil
}

// IRQSource returns the formatted Go source of the interrupt enumeration.
func (g *irqgen) IRQSource() ([]byte, error) {
	irqs, err := g.interrupts()
	if err != nil {
		return nil, err
	}

	var w strings.Builder
	fmt.Fprintf(&w, "// %s\n\n", g.header())
	fmt.Fprintf(&w, "package %s\n\n", g.pkg)
	fmt.Fprintln(&w, `import "omibyte.io/bootcore/cortexm"`)
	fmt.Fprintln(&w)

	fmt.Fprintln(&w, "// Peripheral interrupt lines.")
	fmt.Fprintln(&w, "const (")
	for _, irq := range irqs {
		comment := irq.Description
		if len(comment) == 0 {
			comment = irq.Name
		}
		fmt.Fprintf(&w, "%s cortexm.Interrupt = %d // %s\n", irq.Name, irq.Value, strings.Join(strings.Fields(comment), " "))
	}
	fmt.Fprintln(&w, ")")
	fmt.Fprintln(&w)

	fmt.Fprintln(&w, "// NumIRQ is the number of peripheral slots in the vector table.")
	fmt.Fprintf(&w, "const NumIRQ = %d\n\n", g.target.IRQSlots)

	fmt.Fprintln(&w, "// IRQHandlers names the handler symbol of each peripheral slot. Empty")
	fmt.Fprintln(&w, "// names are reserved slots.")
	fmt.Fprintln(&w, "var IRQHandlers = [NumIRQ]string{")
	for _, irq := range irqs {
		fmt.Fprintf(&w, "%s: %q,\n", irq.Name, g.target.HandlerName(irq.Name))
	}
	fmt.Fprintln(&w, "}")

	buf, err := format.Source([]byte(w.String()))
	if err != nil {
		return nil, fmt.Errorf("error formatting irq.go: %w", err)
	}
	return buf, nil
}

// DeviceSource returns the formatted Go source of the device tables the
// target names: the base address of every instance of an SVD peripheral
// group, in document order.
func (g *irqgen) DeviceSource() ([]byte, error) {
	names := maps.Keys(g.target.Devices)
	slices.Sort(names)

	var w strings.Builder
	fmt.Fprintf(&w, "// %s\n\n", g.header())
	fmt.Fprintf(&w, "package %s\n\n", g.pkg)
	if len(names) > 0 {
		fmt.Fprintln(&w, "// Device tables.")
		fmt.Fprintln(&w, "var (")
		for _, name := range names {
			group := g.target.Devices[name]
			bases := g.device.Instances(group)
			if len(bases) == 0 {
				return nil, fmt.Errorf("%w: %s (%s)", ErrNoInstances, group, name)
			}
			values := make([]string, 0, len(bases))
			for _, base := range bases {
				values = append(values, fmt.Sprintf("0x%08X", base))
			}
			fmt.Fprintf(&w, "%s = [%d]uint32{%s} // %s\n", name, len(bases), strings.Join(values, ", "), group)
		}
		fmt.Fprintln(&w, ")")
	}

	buf, err := format.Source([]byte(w.String()))
	if err != nil {
		return nil, fmt.Errorf("error formatting devices.go: %w", err)
	}
	return buf, nil
}

// LinkerAliases returns the linker script fragment providing every
// handler symbol of the device as an alias of the default handler.
func (g *irqgen) LinkerAliases() ([]byte, error) {
	layout, err := g.Layout()
	if err != nil {
		return nil, err
	}

	var w strings.Builder
	WriteLinkerAliases(&w, layout, g.header())
	return []byte(w.String()), nil
}

// WriteLinkerAliases writes a PROVIDE statement binding each handler of
// layout to the default handler. PROVIDE only defines a symbol the
// program leaves undefined, so application handlers take precedence.
func WriteLinkerAliases(w io.Writer, layout vector.Layout, header string) {
	fmt.Fprintf(w, "/* %s */\n\n", header)
	for _, name := range layout.Handlers() {
		fmt.Fprintf(w, "PROVIDE(%s = %s);\n", name, vector.DefaultSymbol)
	}
}

// WriteMemoryScript writes the MEMORY block of target and the layout
// symbols the reset sequence reads.
func WriteMemoryScript(w io.Writer, target targets.TargetInfo, l boot.Layout, header string) {
	fmt.Fprintf(w, "/* %s */\n\n", header)
	fmt.Fprintln(w, "MEMORY")
	fmt.Fprintln(w, "{")
	fmt.Fprintf(w, "    FLASH (rx)  : ORIGIN = 0x%08X, LENGTH = 0x%X\n", target.Flash.Origin, target.Flash.Length)
	fmt.Fprintf(w, "    RAM   (rwx) : ORIGIN = 0x%08X, LENGTH = 0x%X\n", target.RAM.Origin, target.RAM.Length)
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s = 0x%08X;\n", vector.StackSymbol, l.Stack)
	fmt.Fprintf(w, "__stack_size = 0x%X;\n", target.StackSize)
}
