package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Henry-Pulley/batman/internal/config"
	"github.com/Henry-Pulley/batman/internal/database"
	"github.com/Henry-Pulley/batman/internal/report"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a report from previously stored findings",
		Long: `Report renders the findings already stored in the crawl database
without running a new crawl.

Examples:
  # Terminal summary of all stored findings
  batman report

  # Markdown report written to a file
  batman report -m -o findings.md

  # JSON for downstream tooling
  batman report -j`,
		RunE: runReportCmd,
	}

	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to the specified file path (creates directories if needed)")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, _ []string) error {
	ropts, err := buildReportOptions(cmd)
	if err != nil {
		return err
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.DefaultDatabaseDir()
	}

	// Never create an empty database just to report on it.
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	r, err := report.Build(context.Background(), db, nil)
	if err != nil {
		return err
	}
	return writeReport(r, ropts)
}
