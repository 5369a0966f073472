package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mbpa/rcv-votes/internal/aggregator"
	"github.com/mbpa/rcv-votes/internal/collector"
	"github.com/mbpa/rcv-votes/internal/config"
	"github.com/mbpa/rcv-votes/internal/domain"
	"github.com/mbpa/rcv-votes/internal/enricher"
	apperrors "github.com/mbpa/rcv-votes/internal/errors"
	"github.com/mbpa/rcv-votes/internal/exporter"
	"github.com/mbpa/rcv-votes/internal/logging"
)

var (
	stateFlag   string
	congresses  []int
	outputDir   string
	maxVotes    int
	previewRows int
	verbose     bool
	jsonLogs    bool
)

var rootCmd = &cobra.Command{
	Use:   "rcv-votes",
	Short: "Roll call vote collection tool",
	Long: `A CLI tool for collecting House roll call voting records.

Given a member's last name and state, it retrieves every recorded vote from
the Congress.gov API across the requested congresses, enriches each vote with
details scraped from clerk.house.gov, and exports the result as CSV.`,
}

var collectCmd = &cobra.Command{
	Use:   "collect [lastName]",
	Short: "Collect votes for a House member",
	Long:  `Collect all roll call votes cast by a House member and export them as CSV.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCollect,
}

func init() {
	collectCmd.Flags().StringVar(&stateFlag, "state", "", "member's 2-letter state code (required)")
	collectCmd.Flags().IntSliceVar(&congresses, "congress", nil, "congress number, repeatable (required)")
	collectCmd.Flags().StringVar(&outputDir, "output", "", "output directory for the CSV export (default from config)")
	collectCmd.Flags().IntVar(&maxVotes, "max-votes", 0, "cap the number of exported votes, 0 = unlimited")
	collectCmd.Flags().IntVar(&previewRows, "preview", 10, "number of rows to preview in the terminal")
	collectCmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	collectCmd.Flags().BoolVar(&jsonLogs, "json-logs", false, "emit logs in JSON format")
	_ = collectCmd.MarkFlagRequired("state")
	_ = collectCmd.MarkFlagRequired("congress")

	rootCmd.AddCommand(collectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if jsonLogs {
		cfg.LogFormat = "json"
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		return err
	}

	query, err := domain.NewMemberQuery(args[0], stateFlag, congresses)
	if err != nil {
		return err
	}

	source := collector.NewCongressSource(collector.Options{
		BaseURL: cfg.CongressAPIBase,
		APIKey:  cfg.CongressAPIKey,
	}, log)
	enr := enricher.New(cfg.ClerkBaseURL, 30*time.Second, log)
	agg := aggregator.New(source, enr, log)

	ctx, correlationID := logging.WithCorrelationID(context.Background())
	log.Info("starting collection",
		zap.String("correlation_id", correlationID),
		zap.String("last_name", query.LastName),
		zap.String("state", query.State),
		zap.Ints("congresses", query.Congresses))

	records, err := agg.Collect(ctx, query)
	if err != nil {
		if apperrors.IsNoVotesFound(err) {
			fmt.Printf("No votes found for %s (%s) in congresses %v\n",
				query.LastName, query.State, query.Congresses)
			return nil
		}
		return err
	}

	if maxVotes > 0 && len(records) > maxVotes {
		log.Info("truncating results", zap.Int("max_votes", maxVotes))
		records = records[:maxVotes]
	}

	path, err := exporter.NewCSV(cfg.OutputDir, log).Export(records, query.LastName)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	printPreview(records, previewRows)
	fmt.Printf("\nExported %d votes to %s\n", len(records), path)
	return nil
}

func printPreview(records []domain.VoteRecord, rows int) {
	if rows <= 0 {
		return
	}
	if rows > len(records) {
		rows = len(records)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Congress", "Date", "Roll Call", "Legislation", "Vote Cast", "Question"})
	for _, r := range records[:rows] {
		question := r.Question
		if len(question) > 60 {
			question = question[:57] + "..."
		}
		table.Append([]string{
			strconv.Itoa(r.Congress),
			r.Date.Format("2006-01-02"),
			strconv.Itoa(r.RollCall),
			r.Legislation,
			string(r.Cast),
			question,
		})
	}
	table.Render()
}
