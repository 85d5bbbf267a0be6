package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"omibyte.io/bootcore/builder"
)

var (
	buildOpts = struct {
		output   string
		target   string
		symbols  string
		verify   string
		dataSize uint32
		bssSize  uint32
		verbose  bool
	}{}

	buildCmd = &cobra.Command{
		Use:   "build [packages]",
		Short: "Build the vector table for a program",
		Long: `Scan packages for exported interrupt handlers and build the vector table
image, the handler alias and memory linker fragments and a symbol map.
Pass the linked program's symbols to resolve real addresses.`,
		Run: func(cmd *cobra.Command, args []string) {
			env := builder.Environment()
			options := builder.Options{
				Output:      buildOpts.output,
				Target:      buildOpts.target,
				Symbols:     buildOpts.symbols,
				DataSize:    buildOpts.dataSize,
				BssSize:     buildOpts.bssSize,
				Environment: env,
				Verbose:     buildOpts.verbose,
			}
			if len(options.Target) == 0 {
				options.Target = env.Value("BOOTCORE_TARGET")
			}
			if len(options.Output) == 0 {
				options.Output = env.Value("BOOTCORE_OUT")
			}
			if len(options.Symbols) == 0 {
				options.Symbols = env.Value("BOOTCORE_SYMBOLS")
			}

			if len(buildOpts.verify) > 0 {
				if len(options.Symbols) == 0 {
					fmt.Println("--verify needs the program's symbols (--symbols)")
					cmd.Help()
					os.Exit(2)
				}
				if err := builder.Verify(buildOpts.verify, options); err != nil {
					fmt.Println("Verify error:", err)
					os.Exit(1)
				}
				fmt.Println(buildOpts.verify, "ok")
				return
			}

			cwd, err := os.Getwd()
			if err != nil {
				panic(err)
			}
			options.Dir = cwd

			// Convert the paths to relative paths
			for _, arg := range args {
				if filepath.IsAbs(arg) {
					path, _ := filepath.Rel(cwd, arg)
					options.Packages = append(options.Packages, path)
				} else {
					options.Packages = append(options.Packages, arg)
				}
			}

			if err = builder.BuildPackages(context.Background(), options); err != nil {
				if errors.Is(err, builder.ErrScanError) {
					fmt.Println("Scan error:", err)
				} else {
					fmt.Println("Build error:", err)
				}
				os.Exit(1)
			}
		},
	}
)

func init() {
	buildCmd.Flags().StringVarP(&buildOpts.output, "output", "o", "", "output directory (default $BOOTCORE_OUT)")
	buildCmd.Flags().StringVarP(&buildOpts.target, "target", "t", "", "target board or chip (default $BOOTCORE_TARGET)")
	buildCmd.Flags().StringVarP(&buildOpts.symbols, "symbols", "s", "", "linked ELF file or YAML symbol map")
	buildCmd.Flags().StringVar(&buildOpts.verify, "verify", "", "verify an existing vector table image instead of building")
	buildCmd.Flags().Uint32Var(&buildOpts.dataSize, "data-size", 0, "size of initialised data when not linked")
	buildCmd.Flags().Uint32Var(&buildOpts.bssSize, "bss-size", 0, "size of zeroed data when not linked")
	buildCmd.Flags().BoolVarP(&buildOpts.verbose, "verbose", "v", false, "print the resolved layout and overrides")
}
