package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"omibyte.io/bootcore/builder"
	"omibyte.io/bootcore/targets"
)

var (
	targetsCmd = &cobra.Command{
		Use:   "targets",
		Short: "List the supported boards",
		Run: func(cmd *cobra.Command, args []string) {
			all := targets.All()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "BOARD\tCHIPS\tCPU\tFLASH\tRAM\tSTACK")
			for _, board := range all.Boards() {
				t, _ := all.FindByBoard(board)
				fmt.Fprintf(w, "%s\t%s\t%s\t0x%08X+0x%X\t0x%08X+0x%X\t0x%X\n",
					t.Board, strings.Join(t.Chips, ","), t.Cpu,
					t.Flash.Origin, t.Flash.Length, t.RAM.Origin, t.RAM.Length, t.StackSize)
			}
			w.Flush()
		},
	}

	envCmd = &cobra.Command{
		Use:   "env",
		Short: "Print the bootcore environment",
		Run: func(cmd *cobra.Command, args []string) {
			builder.Environment().Print()
		},
	}
)
