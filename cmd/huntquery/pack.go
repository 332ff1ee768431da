package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"mercator-hq/huntquery/pkg/cli"
	"mercator-hq/huntquery/pkg/config"
	"mercator-hq/huntquery/pkg/history"
	"mercator-hq/huntquery/pkg/history/retention"
	"mercator-hq/huntquery/pkg/history/storage"
	"mercator-hq/huntquery/pkg/pack"
	"mercator-hq/huntquery/pkg/pack/git"
	"mercator-hq/huntquery/pkg/telemetry/health"
	"mercator-hq/huntquery/pkg/telemetry/metrics"
	"mercator-hq/huntquery/pkg/telemetry/tracing"

	"github.com/spf13/cobra"
)

const metricsShutdownTimeout = 5 * time.Second

var packFlags struct {
	file            string
	format          string
	watch           bool
	concurrency     int
	metricsTextfile string
}

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Render every hunt in a hunt pack",
	Long: `Render every enabled hunt in a hunt pack file.

Hunts render concurrently; one failing hunt does not stop the others, but the
command exits non-zero when any hunt fails. With --watch the pack is
re-rendered whenever the file changes, until interrupted. When pack.git is
configured the pack path is read from a checkout of that repository and watch
mode polls the remote for new commits instead. Prometheus metrics
are served on telemetry.metrics.listen_address when it is set, and written to
--metrics-textfile after every run when given.

Examples:
  # Render the pack named in the config file
  huntquery pack

  # Render a specific pack as JSON
  huntquery pack --file packs/windows.yaml --format json

  # Re-render on change
  huntquery pack --file packs/windows.yaml --watch

  # Export metrics for the node_exporter textfile collector
  huntquery pack --metrics-textfile /var/lib/node_exporter/huntquery.prom`,
	Args: cobra.NoArgs,
	RunE: runPack,
}

func init() {
	rootCmd.AddCommand(packCmd)

	packCmd.Flags().StringVarP(&packFlags.file, "file", "f", "", "hunt pack file (default: pack.path from config)")
	packCmd.Flags().StringVar(&packFlags.format, "format", "text", "output format: text, json, csv")
	packCmd.Flags().BoolVarP(&packFlags.watch, "watch", "w", false, "re-render when the pack file changes")
	packCmd.Flags().IntVar(&packFlags.concurrency, "concurrency", 0, "hunts rendered in parallel (default: pack.concurrency from config)")
	packCmd.Flags().StringVar(&packFlags.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file after each run")
}

// packSession renders one pack file repeatedly with shared metrics.
type packSession struct {
	path      string
	textfile  string
	out       io.Writer
	formatter cli.Formatter
	renderer  *pack.Renderer
	collector *metrics.Collector

	// history records every run when enabled
	history *history.Recorder

	// repo is the Git checkout holding the pack, nil for local packs.
	// source is the pack path relative to the repository root.
	repo   *git.Repository
	source string

	// serializes runs triggered by the watcher
	mu sync.Mutex

	stateMu sync.RWMutex
	lastErr error
	ran     bool
}

func runPack(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	format, err := cli.ParseFormat(packFlags.format)
	if err != nil {
		return err
	}
	formatter, err := cli.NewFormatter(format)
	if err != nil {
		return err
	}

	watch := cfg.Pack.Watch
	if cmd.Flags().Changed("watch") {
		watch = packFlags.watch
	}

	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return cli.NewCommandError("pack", err)
	}
	defer func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			logger.Warn("Tracer shutdown failed", "error", err)
		}
	}()

	s := newPackSession(cfg, formatter, cmd.OutOrStdout(), tracer)

	if cfg.Pack.Git.Repository != "" {
		if err := s.checkout(ctx, &cfg.Pack.Git); err != nil {
			return cli.NewCommandError("pack", err)
		}
	}

	if cfg.History.Enabled {
		store, err := storage.Open(cfg.History, logger.Slog())
		if err != nil {
			return cli.NewCommandError("pack", err)
		}
		defer store.Close()
		s.history = history.NewRecorder(store, logger)

		if watch {
			scheduler := retention.NewScheduler(
				retention.NewPruner(store, retention.ConfigFrom(cfg.History), logger.Slog()))
			if err := scheduler.Start(ctx); err != nil {
				return cli.NewCommandError("pack", err)
			}
			defer scheduler.Stop()
		}
	}

	if !watch {
		if err := s.run(ctx); err != nil {
			return cli.NewCommandError("pack", err)
		}
		return nil
	}

	return s.watch(ctx, cfg)
}

func newPackSession(cfg *config.Config, formatter cli.Formatter, out io.Writer, tracer *tracing.Tracer) *packSession {
	path := cfg.Pack.Path
	if packFlags.file != "" {
		path = packFlags.file
	}
	concurrency := cfg.Pack.Concurrency
	if packFlags.concurrency > 0 {
		concurrency = packFlags.concurrency
	}
	textfile := cfg.Telemetry.Metrics.Textfile
	if packFlags.metricsTextfile != "" {
		textfile = packFlags.metricsTextfile
	}

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	return &packSession{
		path:      path,
		textfile:  textfile,
		out:       out,
		formatter: formatter,
		collector: collector,
		renderer: pack.NewRenderer(pack.RendererConfig{
			Defaults:    cfg.Defaults,
			Concurrency: concurrency,
			Recorder:    collector,
			Logger:      logger,
			Tracer:      tracer,
		}),
	}
}

// checkout clones the pack repository and points the session at the pack
// inside it.
func (s *packSession) checkout(ctx context.Context, cfg *config.GitSourceConfig) error {
	repo, err := git.NewRepository(cfg)
	if err != nil {
		return err
	}
	if err := repo.Clone(ctx); err != nil {
		return err
	}

	head, err := repo.Head()
	if err != nil {
		return err
	}
	logger.Info("Hunt pack repository ready",
		"repository", cfg.Repository,
		"branch", head.Branch,
		"commit", head.SHA,
		"checkout", repo.LocalPath(),
	)

	s.repo = repo
	s.source = s.path
	s.path = repo.Path(s.path)
	return nil
}

// run loads, validates and renders the pack once, printing the results.
func (s *packSession) run(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.render(ctx)

	s.stateMu.Lock()
	s.lastErr, s.ran = err, true
	s.stateMu.Unlock()

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	s.collector.RecordPackRun(status)

	if s.textfile != "" {
		if werr := s.collector.WriteTextfile(s.textfile); werr != nil {
			logger.Warn("Metrics textfile not written", "path", s.textfile, "error", werr)
		}
	}

	return err
}

// LastError reports the outcome of the most recent run. It backs the
// readiness probe in watch mode.
func (s *packSession) LastError(ctx context.Context) error {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	if !s.ran {
		return errors.New("hunt pack not rendered yet")
	}
	return s.lastErr
}

func (s *packSession) render(ctx context.Context) error {
	p, err := pack.Load(s.path)
	if err != nil {
		return err
	}
	if err := pack.Validate(p); err != nil {
		return err
	}
	s.collector.SetPackHunts(p.Name, len(p.Hunts))

	run, err := s.renderer.Render(ctx, p)
	if err != nil {
		return err
	}

	if s.history != nil {
		records, err := s.history.RecordRun(ctx, run)
		if err != nil {
			logger.Warn("Pack run not recorded", "run_id", run.ID, "error", err)
		} else {
			s.collector.RecordQueryChanges(run.Pack, history.Changed(records))
		}
	}

	if err := s.formatter.FormatTo(s.out, packReport{run}); err != nil {
		return err
	}

	if n := run.Failed(); n > 0 {
		return fmt.Errorf("%d of %d hunts failed: %w", n, len(run.Results), run.Err())
	}
	return nil
}

// watch renders the pack, then re-renders on every change until ctx ends.
func (s *packSession) watch(ctx context.Context, cfg *config.Config) error {
	if err := s.run(ctx); err != nil {
		logger.Error("Initial pack render failed", "path", s.path, "error", err)
	}

	if addr := cfg.Telemetry.Metrics.ListenAddress; addr != "" {
		srv := s.serveMetrics(addr, cfg.Telemetry.Metrics.Path)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Metrics server shutdown failed", "error", err)
			}
		}()
	}

	reload := func() error {
		err := s.run(ctx)
		status := metrics.StatusSuccess
		if err != nil {
			status = metrics.StatusError
		}
		s.collector.RecordPackReload(status)
		return err
	}

	if s.repo != nil {
		poller := git.NewPoller(s.repo, cfg.Pack.Git.PollInterval, logger.Slog())
		if err := poller.Poll(ctx, s.source, reload); err != nil {
			return cli.NewCommandError("pack", err)
		}
		return nil
	}

	w, err := pack.NewWatcher(pack.WatcherConfig{
		Path:             s.path,
		DebounceInterval: cfg.Pack.DebounceInterval,
	}, logger.Slog())
	if err != nil {
		return cli.NewCommandError("pack", err)
	}
	defer w.Stop()

	if err := w.Watch(ctx, reload); err != nil {
		return cli.NewCommandError("pack", err)
	}
	return nil
}

// handler exposes metrics on path next to the health endpoints.
func (s *packSession) handler(path string) http.Handler {
	checker := health.New(time.Second)
	checker.RegisterCheck("pack", s.LastError)

	mux := http.NewServeMux()
	mux.Handle(path, s.collector.Handler())
	health.Register(mux, checker, Version, GitCommit, BuildDate)
	return mux
}

func (s *packSession) serveMetrics(addr, path string) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler(path),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Serving metrics", "address", addr, "path", path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "error", err)
		}
	}()

	return srv
}

// packReport is the printable form of a pack run.
type packReport struct {
	*pack.Run
}

func (r packReport) RenderText(w io.Writer) error {
	for _, res := range r.Results {
		header := fmt.Sprintf("# %s (%s)", res.HuntID, res.Pattern)
		if res.Severity != "" {
			header += " severity=" + res.Severity
		}
		if len(res.MITRE) > 0 {
			header += " mitre=" + strings.Join(res.MITRE, ",")
		}
		if res.NextRun != nil {
			header += " next_run=" + res.NextRun.Format(time.RFC3339)
		}

		body := res.Query
		if res.Err != nil {
			body = "# FAILED: " + res.Error
		}

		if _, err := fmt.Fprintf(w, "%s\n%s\n\n", header, body); err != nil {
			return err
		}
	}
	return nil
}

func (r packReport) Header() []string {
	return []string{"run_id", "hunt_id", "pattern", "severity", "mitre", "next_run", "query", "error"}
}

func (r packReport) Rows() [][]string {
	rows := make([][]string, len(r.Results))
	for i, res := range r.Results {
		next := ""
		if res.NextRun != nil {
			next = res.NextRun.Format(time.RFC3339)
		}
		rows[i] = []string{
			res.RunID, res.HuntID, res.Pattern, res.Severity,
			strings.Join(res.MITRE, " "), next, res.Query, res.Error,
		}
	}
	return rows
}
