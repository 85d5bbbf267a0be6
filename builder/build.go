package builder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"omibyte.io/bootcore/boot"
	"omibyte.io/bootcore/generator"
	"omibyte.io/bootcore/nrf51"
	"omibyte.io/bootcore/scan"
	"omibyte.io/bootcore/targets"
	"omibyte.io/bootcore/vector"
)

var ErrUnsupportedSeries = errors.New("unsupported chip series")

const generatedHeader = "Code generated by bootcore build; DO NOT EDIT."

// Result is a resolved vector table and the inputs it was built from.
type Result struct {
	Target   targets.TargetInfo
	Layout   boot.Layout
	Table    vector.Table
	Registry *vector.Registry
	Symbols  vector.Symbols
	Handlers []scan.Handler
	// Planned is set when the addresses were planned rather than read
	// from a linked image.
	Planned bool
}

// VectorLayout returns the vector table layout of the target's series.
func VectorLayout(target targets.TargetInfo) (vector.Layout, error) {
	switch target.Series {
	case "nrf51":
		return nrf51.VectorLayout(), nil
	}
	return vector.Layout{}, fmt.Errorf("%w: %s", ErrUnsupportedSeries, target.Series)
}

// BuildPackages builds the vector table for the configured packages and
// writes it to the output directory.
func BuildPackages(ctx context.Context, options Options) error {
	result, err := Build(ctx, options)
	if err != nil {
		return err
	}
	if options.Verbose {
		result.Report(log.Printf)
	}
	return result.Write(options.Output)
}

// Build resolves the vector table. Handlers exported by the scanned
// packages override their slots; every other named slot falls back to the
// default handler.
func Build(ctx context.Context, options Options) (*Result, error) {
	target, err := targets.All().Find(options.Target)
	if err != nil {
		return nil, err
	}
	layout, err := VectorLayout(target)
	if err != nil {
		return nil, err
	}

	result := &Result{Target: target}
	if len(options.Packages) > 0 {
		if result.Handlers, err = scan.Handlers(ctx, options.Dir, options.Packages...); err != nil {
			return nil, errors.Join(ErrScanError, err)
		}
	}
	var errs []error
	for _, h := range result.Handlers {
		if s, ok := layout.Slot(h.Symbol); !ok || s < vector.SlotNMI {
			errs = append(errs, fmt.Errorf("%s: %w: %s", h.Position, vector.ErrUnknownHandler, h.Symbol))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if len(options.Symbols) > 0 {
		if result.Symbols, err = ReadSymbols(options.Symbols); err != nil {
			return nil, err
		}
		for _, h := range result.Handlers {
			if _, ok := result.Symbols[h.Symbol]; !ok {
				errs = append(errs, fmt.Errorf("%w: %s (%s)", ErrHandlerNotLinked, h.Symbol, h.Func))
			}
		}
		if len(errs) > 0 {
			return nil, errors.Join(errs...)
		}
	} else {
		result.Symbols = Plan(target, result.Handlers)
		result.Planned = true
	}

	if result.Layout, err = MemoryLayout(target, result.Symbols, options.DataSize, options.BssSize); err != nil {
		return nil, err
	}
	if _, ok := result.Symbols[vector.StackSymbol]; !ok {
		result.Symbols[vector.StackSymbol] = result.Layout.Stack
	}

	if result.Registry, err = vector.FromSymbols(layout, result.Symbols); err != nil {
		return nil, err
	}
	result.Table = result.Registry.Build()
	if err = result.Table.Verify(result.Registry); err != nil {
		return nil, err
	}
	return result, nil
}

// Plan assigns placeholder addresses in the code area after the vector
// table to the reset handler, the default handler and each exported
// handler, Thumb bit set, and places __etext after them.
func Plan(target targets.TargetInfo, handlers []scan.Handler) vector.Symbols {
	syms := vector.Symbols{}
	next := target.Flash.Origin + vector.Size
	define := func(name string) {
		if _, ok := syms[name]; !ok {
			syms[name] = next | 1
			next += 4
		}
	}
	define(vector.ResetSymbol)
	define(vector.DefaultSymbol)
	for _, h := range handlers {
		define(h.Symbol)
	}
	syms["__etext"] = next
	return syms
}

// MemoryLayout reads the data and bss bounds from syms when all of them
// are present, and otherwise places sections of the given sizes on the
// target.
func MemoryLayout(target targets.TargetInfo, syms vector.Symbols, dataSize, bssSize uint32) (boot.Layout, error) {
	names := []string{"__data_start", "__data_end", "__bss_start", "__bss_end", "__etext"}
	linked := true
	for _, name := range names {
		if _, ok := syms[name]; !ok {
			linked = false
		}
	}
	if linked {
		l := boot.Layout{
			Data:  boot.Region{Start: syms["__data_start"], End: syms["__data_end"], Load: syms["__etext"]},
			Bss:   boot.Region{Start: syms["__bss_start"], End: syms["__bss_end"]},
			Stack: target.RAM.End(),
		}
		if stack, ok := syms[vector.StackSymbol]; ok {
			l.Stack = stack
		}
		return l, l.Validate()
	}

	etext, ok := syms["__etext"]
	if !ok {
		etext = target.Flash.Origin + vector.Size
	}
	return target.Layout(etext, dataSize, bssSize)
}

// Overrides returns the slots bound to an application handler rather than
// the default handler.
func (r *Result) Overrides() []vector.Slot {
	var slots []vector.Slot
	layout := r.Registry.Layout()
	for s := vector.SlotNMI; s < vector.NumSlots; s++ {
		if layout[s] != "" && r.Table[s] != r.Registry.Default() {
			slots = append(slots, s)
		}
	}
	return slots
}

// Report prints a summary of the build through printf.
func (r *Result) Report(printf func(format string, v ...any)) {
	printf("target %s (%s), stack 0x%08X", r.Target.Board, r.Target.Cpu, r.Layout.Stack)
	printf("data 0x%08X-0x%08X from 0x%08X, bss 0x%08X-0x%08X",
		r.Layout.Data.Start, r.Layout.Data.End, r.Layout.Data.Load, r.Layout.Bss.Start, r.Layout.Bss.End)
	layout := r.Registry.Layout()
	for _, s := range r.Overrides() {
		printf("slot %2d %-18s 0x%08X", int(s), layout[s], r.Table[s])
	}
	if r.Planned {
		printf("addresses are planned, link the program and pass its symbols to resolve them")
	}
}

type slotEntry struct {
	Slot     int    `yaml:"slot"`
	Name     string `yaml:"name"`
	Symbol   string `yaml:"symbol,omitempty"`
	Address  string `yaml:"address"`
	Override bool   `yaml:"override,omitempty"`
}

type symbolMap struct {
	Target  string            `yaml:"target"`
	Planned bool              `yaml:"planned,omitempty"`
	Symbols map[string]string `yaml:"symbols"`
	Slots   []slotEntry       `yaml:"slots"`
}

// Write stores the vector table image, the linker fragments and a symbol
// map in out.
func (r *Result) Write(out string) error {
	if info, err := os.Stat(out); err == nil && !info.IsDir() {
		return fmt.Errorf("%w: %s is a file", ErrUnexpectedOutputPath, out)
	}
	if err := os.MkdirAll(out, 0750); err != nil {
		return err
	}

	image, err := r.Table.MarshalBinary()
	if err != nil {
		return err
	}
	if err = os.WriteFile(filepath.Join(out, "vectors.bin"), image, 0640); err != nil {
		return err
	}

	var aliases strings.Builder
	generator.WriteLinkerAliases(&aliases, r.Registry.Layout(), generatedHeader)
	if err = os.WriteFile(filepath.Join(out, "handlers.ld"), []byte(aliases.String()), 0640); err != nil {
		return err
	}

	var memory strings.Builder
	generator.WriteMemoryScript(&memory, r.Target, r.Layout, generatedHeader)
	if err = os.WriteFile(filepath.Join(out, "memory.ld"), []byte(memory.String()), 0640); err != nil {
		return err
	}

	buf, err := yaml.Marshal(r.symbolMap())
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(out, "symbols.yaml"), buf, 0640)
}

func (r *Result) symbolMap() symbolMap {
	m := symbolMap{
		Target:  r.Target.Board,
		Planned: r.Planned,
		Symbols: map[string]string{},
	}
	for name, addr := range r.Symbols {
		m.Symbols[name] = fmt.Sprintf("0x%08X", addr)
	}

	layout := r.Registry.Layout()
	for s := vector.Slot(0); s < vector.NumSlots; s++ {
		m.Slots = append(m.Slots, slotEntry{
			Slot:     int(s),
			Name:     s.String(),
			Symbol:   layout[s],
			Address:  fmt.Sprintf("0x%08X", r.Table[s]),
			Override: s >= vector.SlotNMI && layout[s] != "" && r.Table[s] != r.Registry.Default(),
		})
	}
	return m
}

// Verify checks a vector table image against the symbol table of the
// linked program.
func Verify(image string, options Options) error {
	target, err := targets.All().Find(options.Target)
	if err != nil {
		return err
	}
	layout, err := VectorLayout(target)
	if err != nil {
		return err
	}
	syms, err := ReadSymbols(options.Symbols)
	if err != nil {
		return err
	}

	buf, err := os.ReadFile(image)
	if err != nil {
		return err
	}
	var table vector.Table
	if err = table.UnmarshalBinary(buf); err != nil {
		return err
	}

	registry, err := vector.FromSymbols(layout, syms)
	if err != nil {
		return err
	}
	return table.Verify(registry)
}
