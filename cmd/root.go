// Package cmd defines and implements the CLI commands for the allowlist executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allowlist",
		Short: "Builds a URL allowlist from the gov.sg trusted sites page.",
		Long: `allowlist fetches https://www.gov.sg/trusted-sites reliably under
adverse network conditions and reduces the page to a deduplicated,
normalized set of URLs written to a plaintext allowlist file.`,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")

	cmd.AddCommand(newExtractCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
