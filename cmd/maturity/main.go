package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "maturity",
	Short: "Digital maturity assessment for catalogued stakeholders",
	Long: "maturity validates discovered links, matches survey responses to the\n" +
		"stakeholder roster and scores digital maturity from resolved evidence.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
