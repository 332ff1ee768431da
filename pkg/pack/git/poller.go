package git

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Poller pulls a repository on a fixed interval and reports commits that
// touch the hunt pack.
type Poller struct {
	repo     *Repository
	interval time.Duration
	logger   *slog.Logger
}

// NewPoller creates a poller. A non-positive interval defaults to one minute.
func NewPoller(repo *Repository, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{repo: repo, interval: interval, logger: logger}
}

// Check pulls once and reports whether the new commits changed packPath,
// which is relative to the repository root.
func (p *Poller) Check(ctx context.Context, packPath string) (bool, error) {
	result, err := p.repo.Pull(ctx)
	if err != nil {
		return false, err
	}
	if !result.HadChanges() {
		return false, nil
	}

	p.logger.Info("Hunt pack repository updated",
		"from_sha", shortSHA(result.FromSHA),
		"to_sha", shortSHA(result.ToSHA),
		"changed_files", len(result.ChangedFiles),
	)

	if !touches(result.ChangedFiles, packPath) {
		p.logger.Debug("Commit does not touch the hunt pack, skipping render",
			"pack", packPath,
			"changed_files", result.ChangedFiles,
		)
		return false, nil
	}
	return true, nil
}

// Poll blocks until ctx is cancelled, pulling every interval and invoking
// onChange when the pack changed. Pull and onChange errors are logged and
// polling continues.
func (p *Poller) Poll(ctx context.Context, packPath string, onChange func() error) error {
	head, err := p.repo.Head()
	if err != nil {
		return fmt.Errorf("failed to read initial commit: %w", err)
	}

	p.logger.Info("Git pack poller started",
		"repository", p.repo.cfg.Repository,
		"branch", p.repo.cfg.Branch,
		"commit", shortSHA(head.SHA),
		"poll_interval", p.interval,
	)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Git pack poller stopped (context cancelled)")
			return nil

		case <-ticker.C:
			changed, err := p.Check(ctx, packPath)
			if err != nil {
				p.logger.Error("Hunt pack repository pull failed", "error", err)
				continue
			}
			if !changed {
				continue
			}

			p.logger.Info("Reloading hunt pack", "path", packPath)
			if err := onChange(); err != nil {
				p.logger.Error("Hunt pack reload failed", "error", err)
			}
		}
	}
}

// touches reports whether any changed file is packPath or lies below it.
func touches(changed []string, packPath string) bool {
	target := path.Clean(filepath.ToSlash(packPath))
	for _, f := range changed {
		if f == target || strings.HasPrefix(f, target+"/") {
			return true
		}
	}
	return false
}
