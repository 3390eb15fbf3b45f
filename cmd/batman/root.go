// Package main provides the entry point for the batman CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for batman.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batman",
		Short: "Crawl linked Steam profiles and flag hateful comments",
		Long: `Batman crawls linked Steam community profiles breadth-first from one or
more seed profiles, scans every profile comment against a configurable
lexicon, and records flagged comments together with the friend path
that led to them.

Findings are stored in a local SQLite database and can be rendered as a
terminal summary, Markdown, or JSON report.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
