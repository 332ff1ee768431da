package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"mercator-hq/huntquery/pkg/cli"
	"mercator-hq/huntquery/pkg/config"
	"mercator-hq/huntquery/pkg/history"
	"mercator-hq/huntquery/pkg/history/retention"
	"mercator-hq/huntquery/pkg/history/storage"

	"github.com/spf13/cobra"
)

var historyFlags struct {
	pack    string
	hunt    string
	pattern string
	status  string
	since   time.Duration
	changed bool
	limit   int
	format  string
	query   bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded hunt renders",
	Long: `List hunt renders recorded by the pack command, newest first.

Recording is enabled with history.enabled in the config file. Each record
holds the rendered query, its SHA-256 and whether it changed since the hunt's
previous successful render.

Examples:
  # Last 20 renders
  huntquery history

  # Renders of one hunt over the last day, with query text
  huntquery history --hunt beacon-fanout --since 24h --query

  # Only hunts whose query changed
  huntquery history --changed --format json`,
	Args: cobra.NoArgs,
	RunE: listHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Apply history retention now",
	Long: `Delete records older than history.retention_days and trim the store to
history.max_records.`,
	Args: cobra.NoArgs,
	RunE: pruneHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyCmd.Flags().StringVar(&historyFlags.pack, "pack", "", "only this pack")
	historyCmd.Flags().StringVar(&historyFlags.hunt, "hunt", "", "only this hunt ID")
	historyCmd.Flags().StringVar(&historyFlags.pattern, "pattern", "", "only this pattern")
	historyCmd.Flags().StringVar(&historyFlags.status, "status", "", "only success or error")
	historyCmd.Flags().DurationVar(&historyFlags.since, "since", 0, "only renders newer than this (e.g. 24h)")
	historyCmd.Flags().BoolVar(&historyFlags.changed, "changed", false, "only renders whose query changed")
	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "maximum records (0 for all)")
	historyCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json, csv")
	historyCmd.Flags().BoolVar(&historyFlags.query, "query", false, "include query text in text output")
}

func openHistory(cfg *config.Config) (history.Store, error) {
	if cfg.History.Driver == storage.DriverMemory {
		return nil, cli.NewConfigError("", fmt.Errorf("history driver %q keeps no records between runs", cfg.History.Driver))
	}
	return storage.Open(cfg.History, logger.Slog())
}

func listHistory(cmd *cobra.Command, args []string) error {
	switch historyFlags.status {
	case "", history.StatusSuccess, history.StatusError:
	default:
		return fmt.Errorf("invalid status %q (must be success or error)", historyFlags.status)
	}

	format, err := cli.ParseFormat(historyFlags.format)
	if err != nil {
		return err
	}
	formatter, err := cli.NewFormatter(format)
	if err != nil {
		return err
	}

	store, err := openHistory(config.GetConfig())
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	defer store.Close()

	q := &history.Query{
		Pack:        historyFlags.pack,
		HuntID:      historyFlags.hunt,
		Pattern:     historyFlags.pattern,
		Status:      historyFlags.status,
		ChangedOnly: historyFlags.changed,
		Limit:       historyFlags.limit,
	}
	if historyFlags.since > 0 {
		since := time.Now().Add(-historyFlags.since)
		q.StartTime = &since
	}

	records, err := store.Query(cmd.Context(), q)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	var out any = historyReport{records: records, withQuery: historyFlags.query}
	if format == cli.FormatJSON {
		out = records
	}
	return formatter.FormatTo(cmd.OutOrStdout(), out)
}

func pruneHistory(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	store, err := openHistory(cfg)
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}
	defer store.Close()

	deleted, err := retention.NewPruner(store, retention.ConfigFrom(cfg.History), logger.Slog()).Prune(cmd.Context())
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d records\n", deleted)
	return nil
}

// historyReport is the printable form of a history query.
type historyReport struct {
	records   []*history.Record
	withQuery bool
}

func (r historyReport) RenderText(w io.Writer) error {
	if len(r.records) == 0 {
		_, err := fmt.Fprintln(w, "No records")
		return err
	}

	for _, rec := range r.records {
		line := fmt.Sprintf("%s  %s/%s  %s  %s", rec.RenderedAt.Format(time.RFC3339), rec.Pack, rec.HuntID, rec.Pattern, rec.Status())
		if rec.Changed {
			line += "  changed"
		}
		if rec.QueryHash != "" {
			line += "  " + rec.QueryHash[:12]
		}
		if rec.Error != "" {
			line += "  " + rec.Error
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if r.withQuery && rec.Query != "" {
			if _, err := fmt.Fprintf(w, "%s\n\n", rec.Query); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r historyReport) Header() []string {
	return []string{"rendered_at", "run_id", "pack", "hunt_id", "pattern", "status", "changed", "query_hash", "error"}
}

func (r historyReport) Rows() [][]string {
	rows := make([][]string, len(r.records))
	for i, rec := range r.records {
		rows[i] = []string{
			rec.RenderedAt.Format(time.RFC3339),
			rec.RunID,
			rec.Pack,
			rec.HuntID,
			rec.Pattern,
			rec.Status(),
			strconv.FormatBool(rec.Changed),
			rec.QueryHash,
			rec.Error,
		}
	}
	return rows
}
