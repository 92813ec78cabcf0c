// Espcfg is a configuration orchestration tool for fleets of ESPEasy
// devices.
//
// An operator maintains a single CSV, HTML or XLSX table describing
// the desired configuration of a group of units; espcfg parses the
// table, derives an ordered update plan, and applies it to the devices
// over HTTP, logging every change under ./log/.
//
// Usage:
//
//	espcfg apply <table> [flags]
//	espcfg discover <iprange> [flags]
//
// See 'espcfg --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/espeasy-tools/espcfg/internal/version"
)

// exitError carries a specific process exit code out of a command.
// Exit code 1 means all units were attempted but some failed; 2 means
// the run aborted early (fail-fast or precheck).
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit code %d", e.code)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			if exit.err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", exit.err)
			}
			os.Exit(exit.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}

var rootCmd = &cobra.Command{
	Use:   "espcfg",
	Short: "ESPEasy Fleet Configuration Tool",
	Long: `Configure fleets of ESPEasy devices from a single table.

The apply command reads a CSV, HTML or XLSX table describing desired
device settings, derives an ordered update plan, and applies it over
the network. The discover command scans a subnet for units and records
them in the unit name registry.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("espcfg %s\n", version.Full())
	},
}
