package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "rollcall",
	Short: "Rollcall - multi-tenant attendance tracking backend",
	Long: `Rollcall is a multi-tenant attendance tracking backend.

It records check-ins and check-outs, enriches them with reverse-geocoded
addresses and approver hierarchies, routes them through supervisor approval,
and enforces per-tenant data retention: records past the retention window
are archived to NDJSON files before being purged from the live store.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
