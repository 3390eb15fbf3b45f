package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Henry-Pulley/batman/internal/config"
	"github.com/Henry-Pulley/batman/internal/database"
	"github.com/Henry-Pulley/batman/internal/engine"
	"github.com/Henry-Pulley/batman/internal/log"
	"github.com/Henry-Pulley/batman/internal/matcher"
	"github.com/Henry-Pulley/batman/internal/report"
	"github.com/Henry-Pulley/batman/internal/steam"
)

// reportOptions holds the report output flags shared by scan and report.
type reportOptions struct {
	json     bool
	markdown bool
	output   string
}

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [profile-url-or-steamid64...]",
		Short: "Crawl linked profiles and flag hateful comments",
		Long: `Scan crawls linked Steam community profiles breadth-first from the seed
profiles given as arguments, scanning every comment against the
configured lexicon.

Each seed may be a bare SteamID64, a steamcommunity.com/profiles/ URL,
or a steamcommunity.com/id/ vanity URL. Vanity URLs require a Steam Web
API key (STEAM_API_KEY environment variable or --api-key).

Examples:
  # Crawl from one profile with two lexicon terms
  batman scan -T trash -T garbage 76561198000000001

  # Crawl two seeds with a lexicon file, one term per line
  batman scan -l lexicon.txt https://steamcommunity.com/id/someone 76561198000000002

  # Bounded crawl: direct friends only, at most 50 profiles
  batman scan -T trash -d 1 -p 50 76561198000000001

  # Write a Markdown report next to the terminal summary
  batman scan -T trash -m -o report.md 76561198000000001

Configuration file (.batman) example:
  seeds:
    - "76561198000000001"
  lexicon:
    - trash
    - garbage
  fetchInterval: 5s
  maxDepth: 2`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Crawl behavior flags
	cmd.Flags().DurationP("interval", "i", config.DefaultFetchInterval,
		"Minimum delay between profile fetches")
	cmd.Flags().DurationP("timeout", "t", config.DefaultFetchTimeout,
		"Timeout for each profile fetch including comment pagination")
	cmd.Flags().IntP("max-profiles", "p", config.DefaultMaxProfiles,
		"Maximum profiles visited per run (0 or less for unbounded)")
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Maximum friend-path depth from a seed (0 for seeds only, negative for unbounded)")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of concurrent fetch workers")

	// Lexicon flags
	cmd.Flags().StringSliceP("term", "T", nil,
		"Lexicon term that flags a comment (repeatable)")
	cmd.Flags().StringP("lexicon", "l", "",
		"Lexicon file path, one term per line ('#' starts a comment)")

	// Steam access flags
	cmd.Flags().StringP("api-key", "k", "",
		"Steam Web API key for vanity URL resolution (default: STEAM_API_KEY)")

	// Storage flags
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .batman in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to the specified file path (creates directories if needed)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, ropts, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential masking
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, ropts, logger)
}

// buildConfig creates a Config from cobra command flags and the optional
// configuration file. Precedence is defaults < file < flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, *reportOptions, error) {
	cfg := config.NewConfig()

	configPathFlag, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}

	// Load the configuration file before flags so flags win.
	// An explicitly specified file must exist; the default search may
	// come up empty.
	configPath := config.FindConfigFile(configPathFlag)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if configPathFlag != "" {
		return nil, nil, fmt.Errorf("configuration file not found: %s", configPathFlag)
	}

	if cmd.Flags().Changed("interval") {
		if cfg.FetchInterval, err = cmd.Flags().GetDuration("interval"); err != nil {
			return nil, nil, err
		}
	}
	if cmd.Flags().Changed("timeout") {
		if cfg.FetchTimeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return nil, nil, err
		}
	}
	if cmd.Flags().Changed("max-profiles") {
		if cfg.MaxProfiles, err = cmd.Flags().GetInt("max-profiles"); err != nil {
			return nil, nil, err
		}
	}
	if cmd.Flags().Changed("depth") {
		if cfg.MaxDepth, err = cmd.Flags().GetInt("depth"); err != nil {
			return nil, nil, err
		}
	}
	if cmd.Flags().Changed("workers") {
		if cfg.Workers, err = cmd.Flags().GetInt("workers"); err != nil {
			return nil, nil, err
		}
	}

	terms, err := cmd.Flags().GetStringSlice("term")
	if err != nil {
		return nil, nil, err
	}
	cfg.Lexicon = append(cfg.Lexicon, terms...)

	lexiconPath, err := cmd.Flags().GetString("lexicon")
	if err != nil {
		return nil, nil, err
	}
	if lexiconPath != "" {
		fileTerms, err := loadLexiconFile(lexiconPath)
		if err != nil {
			return nil, nil, err
		}
		cfg.Lexicon = append(cfg.Lexicon, fileTerms...)
	}

	apiKey, err := cmd.Flags().GetString("api-key")
	if err != nil {
		return nil, nil, err
	}
	if apiKey != "" {
		cfg.APIKey = apiKey
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, nil, err
	}
	if dbDir != "" {
		cfg.DatabaseDir = dbDir
	}

	// Positional arguments are seed references; they extend file seeds.
	cfg.Seeds = append(cfg.Seeds, args...)

	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err == nil {
		cfg.Verbose = verbose
	}

	ropts, err := buildReportOptions(cmd)
	if err != nil {
		return nil, nil, err
	}

	return cfg, ropts, nil
}

// buildReportOptions reads the shared report flags.
func buildReportOptions(cmd *cobra.Command) (*reportOptions, error) {
	var ropts reportOptions
	var err error

	if ropts.json, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if ropts.markdown, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if ropts.output, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if ropts.json && ropts.markdown {
		return nil, config.ErrConflictingReportFormats
	}
	return &ropts, nil
}

// loadLexiconFile reads lexicon terms from a file, one per line.
// Blank lines and lines starting with '#' are skipped.
func loadLexiconFile(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided lexicon path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open lexicon file: %w", err)
	}
	defer f.Close()

	var terms []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		terms = append(terms, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lexicon file: %w", err)
	}
	return terms, nil
}

// runScan executes the crawl and writes the report.
func runScan(ctx context.Context, cfg *config.Config, ropts *reportOptions, logger *slog.Logger) error {
	db, err := database.Open(cfg.DatabaseDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.Info("database opened", "path", db.Path())

	client := &http.Client{}
	resolver := steam.NewResolver(client, cfg.APIKey, steam.WithResolverLogger(logger))
	fetcher := steam.NewFetcher(client, steam.WithFetcherLogger(logger))
	m := matcher.New(cfg.Lexicon, matcher.WithPatterns(cfg.LexiconPatterns, logger))

	eng := engine.New(cfg, fetcher, resolver, db, m, engine.WithLogger(logger))

	// Evidence events surface flagged comments while the crawl runs.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range eng.Events() {
			logger.Debug("evidence event",
				"profile", ev.ProfileID,
				"commenter", ev.CommenterID,
				"fingerprint", ev.Fingerprint,
			)
		}
	}()

	result, runErr := eng.Run(ctx)
	<-done

	if result == nil {
		return runErr
	}

	// Write the report even for an aborted run; everything committed
	// before the abort is worth showing.
	// A fresh context: the run's context may already be cancelled, and
	// the committed findings should still be reported.
	r, err := report.Build(context.Background(), db, &result.Summary)
	if err != nil {
		logger.Error("failed to build report", "error", err)
		return runErr
	}
	r.Edges = report.EdgesFromRun(result.Edges)
	if err := writeReport(r, ropts); err != nil {
		return err
	}

	return runErr
}

// writeReport renders the report per the output flags. The terminal
// always gets the summary; a format flag without --output switches the
// terminal output to that format instead.
func writeReport(r *report.Report, ropts *reportOptions) error {
	formatWriter := func(w *os.File) report.Writer {
		switch {
		case ropts.json:
			return report.NewJSONWriter(w, report.WithPrettyPrint())
		case ropts.markdown:
			return report.NewMarkdownWriter(w)
		default:
			return report.NewSimpleWriter(w)
		}
	}

	if ropts.output == "" {
		_, err := formatWriter(os.Stdout).Write(r)
		return err
	}

	if dir := filepath.Dir(ropts.output); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	f, err := os.Create(ropts.output) //nolint:gosec // User-provided report path is intentional
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	mw := report.NewMultiWriter(
		report.NewSimpleWriter(os.Stdout),
		formatWriter(f),
	)
	if _, err := mw.Write(r); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Printf("Report written to %s\n", ropts.output)
	return nil
}
