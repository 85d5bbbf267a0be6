package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bootcore",
	Short: "Startup code tooling for Cortex-M0 boards",
	Long: `bootcore builds and checks the vector table of a program linked with the
Cortex-M0 startup code, generates chip support from SVD files and boots the
startup code on a simulated board.`,
}

func init() {
	rootCmd.AddCommand(buildCmd, svdGenCmd, simulateCmd, targetsCmd, envCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
