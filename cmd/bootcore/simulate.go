package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"omibyte.io/bootcore/builder"
	"omibyte.io/bootcore/cortexm"
	"omibyte.io/bootcore/machine"
	"omibyte.io/bootcore/targets"
	"omibyte.io/bootcore/vector"
)

var errUnknownInterrupt = errors.New("unknown interrupt")

var (
	simulateOpts = struct {
		target    string
		raise     []string
		handle    []string
		cycles    uint64
		dataSize  int
		bssSize   uint32
		noCrystal bool
		quiet     bool
	}{}

	simulateCmd = &cobra.Command{
		Use:   "simulate",
		Short: "Boot the startup code on a simulated board",
		Long: `Load a program made of the startup code and the named handlers on a
simulated board, run the reset sequence and raise interrupts. Interrupts
without a handler run the default fault handler until the cycle budget is
spent.`,
		Run: func(cmd *cobra.Command, args []string) {
			target, err := targets.All().Find(simulateOpts.target)
			if err != nil {
				log.Fatal(err)
			}
			layout, err := builder.VectorLayout(target)
			if err != nil {
				log.Fatal(err)
			}

			raise, err := resolveInterrupts(layout, simulateOpts.raise)
			if err != nil {
				log.Fatal(err)
			}
			handlers := map[string]func(*machine.Peripherals){}
			for _, h := range simulateOpts.handle {
				name := handlerName(h)
				handlers[name] = func(p *machine.Peripherals) {
					fmt.Printf("%s ran\n", name)
				}
			}

			logger := log.New(os.Stderr, "", 0)
			if simulateOpts.quiet {
				logger = nil
			}
			m := machine.New(target, logger)
			m.NoCrystal = simulateOpts.noCrystal

			table, err := m.Load(machine.Program{
				Init: func(p *machine.Peripherals) {
					for _, irq := range raise {
						if irq >= 0 {
							p.NVIC.Enable(irq)
						}
					}
				},
				Handlers: handlers,
				Data:     make([]byte, simulateOpts.dataSize),
				BssSize:  simulateOpts.bssSize,
			})
			if err != nil {
				log.Fatal(err)
			}
			fmt.Printf("stack 0x%08X reset 0x%08X default 0x%08X\n",
				table[vector.SlotStack], table[vector.SlotReset], m.Symbols()[vector.DefaultSymbol])

			// Reset runs until main settles in its wait loop
			m.CPU.HaltAfterWaits(1)
			m.CPU.HaltAfterCycles(simulateOpts.cycles)
			halted, err := m.Reset()
			if err != nil {
				log.Fatal(err)
			}
			if m.CPU.Waits() == 0 {
				fmt.Printf("reset did not reach main (halted=%v)\n", halted)
				return
			}
			fmt.Printf("boot done, clock startup %v\n", time.Duration(m.Sequencer().ClockStartup))

			for _, irq := range raise {
				// Budgets are checked on every tick, so clear the old one
				// before reading the counter
				m.CPU.HaltAfterCycles(0)
				m.CPU.HaltAfterCycles(m.CPU.Cycles() + simulateOpts.cycles)
				taken := m.Raise(irq)
				fmt.Printf("%s taken=%v halted=%v\n", vector.IRQSlot(irq), taken, m.CPU.Halted())
			}

			fmt.Printf("gpio dir=0x%08X out=%s\n", m.Direction(), formatWrites(m.Outputs()))
		},
	}
)

func init() {
	simulateCmd.Flags().StringVarP(&simulateOpts.target, "target", "t", "microbit-v1", "target board or chip")
	simulateCmd.Flags().StringSliceVarP(&simulateOpts.raise, "raise", "r", nil, "interrupts to raise after boot, by handler name")
	simulateCmd.Flags().StringSliceVar(&simulateOpts.handle, "handle", nil, "handlers the program provides")
	simulateCmd.Flags().Uint64Var(&simulateOpts.cycles, "cycles", 2_000_000, "cycle budget of each run")
	simulateCmd.Flags().IntVar(&simulateOpts.dataSize, "data-size", 0, "size of initialised data")
	simulateCmd.Flags().Uint32Var(&simulateOpts.bssSize, "bss-size", 0, "size of zeroed data")
	simulateCmd.Flags().BoolVar(&simulateOpts.noCrystal, "no-crystal", false, "leave the external crystal unpopulated")
	simulateCmd.Flags().BoolVarP(&simulateOpts.quiet, "quiet", "q", false, "do not trace exception entry")
}

// handlerName accepts "uart", "UART" or "uart_handler".
func handlerName(name string) string {
	name = strings.ToLower(name)
	if !strings.HasSuffix(name, "_handler") {
		name += "_handler"
	}
	return name
}

func resolveInterrupts(layout vector.Layout, names []string) ([]cortexm.Interrupt, error) {
	var irqs []cortexm.Interrupt
	for _, name := range names {
		slot, ok := layout.Slot(handlerName(name))
		if !ok || slot < vector.SlotNMI {
			return nil, fmt.Errorf("%w: %s", errUnknownInterrupt, name)
		}
		irqs = append(irqs, slot.Interrupt())
	}
	return irqs, nil
}

func formatWrites(writes []uint32) string {
	parts := make([]string, 0, len(writes))
	for _, w := range writes {
		parts = append(parts, fmt.Sprintf("0x%X", w))
	}
	if len(parts) > 8 {
		parts = append(parts[:8], fmt.Sprintf("... (%d writes)", len(writes)))
	}
	return "[" + strings.Join(parts, " ") + "]"
}
