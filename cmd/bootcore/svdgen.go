package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"omibyte.io/bootcore/generator"
	"omibyte.io/bootcore/svd"
	"omibyte.io/bootcore/targets"
)

var (
	svdGenOpts = struct {
		input     string
		outputDir string
		target    string
		pkg       string
	}{}

	svdGenCmd = &cobra.Command{
		Use:   "svd-gen",
		Short: "Generate chip support from an SVD file",
		Long:  "Generate the interrupt enumeration and the handler alias linker fragment for a chip from its CMSIS-SVD description",
		Run: func(cmd *cobra.Command, args []string) {
			if len(svdGenOpts.input) == 0 {
				cmd.Help()
				os.Exit(2)
			}

			// Open the input file
			file, err := os.Open(svdGenOpts.input)
			if err != nil {
				log.Fatal("file io error: ", err)
			}
			device, err := svd.Parse(file)
			file.Close()
			if err != nil {
				log.Fatal(err)
			}

			target, err := targets.All().Find(svdGenOpts.target)
			if err != nil {
				log.Fatal(err)
			}

			fmt.Println("Generating the chip support for the following machine:")
			fmt.Printf("Device:\t\t%s\n", device.Name)
			fmt.Printf("CPU:\t\t%s\n", device.CPU.Name)
			fmt.Printf("Revision:\t%s\n", device.CPU.Revision)
			fmt.Printf("Endian:\t\t%s\n", device.CPU.Endian)
			fmt.Printf("Architecture:\t%v-bit\n", device.BitWidth)
			fmt.Printf("Priority bits:\t%v\n", device.CPU.NVICPriorityBits)

			if uint(device.CPU.NVICPriorityBits) != target.PriorityBits {
				log.Printf("%s implements %d priority bits, target %s declares %d",
					device.Name, device.CPU.NVICPriorityBits, target.Board, target.PriorityBits)
			}

			pkg := svdGenOpts.pkg
			if len(pkg) == 0 {
				pkg = strings.ToLower(device.Name)
			}

			gen := generator.NewGenerator(device, target, pkg, filepath.Base(svdGenOpts.input))
			if err = gen.Generate(svdGenOpts.outputDir); err != nil {
				log.Fatal("generator error: ", err)
			}

			fmt.Println("Done.")
		},
	}
)

func init() {
	svdGenCmd.Flags().StringVarP(&svdGenOpts.input, "in", "i", "", "input SVD file")
	svdGenCmd.Flags().StringVarP(&svdGenOpts.outputDir, "out", "o", ".", "output directory")
	svdGenCmd.Flags().StringVarP(&svdGenOpts.target, "target", "t", "microbit-v1", "target board or chip")
	svdGenCmd.Flags().StringVarP(&svdGenOpts.pkg, "package", "p", "", "package name of the generated file (default the device name)")
}
