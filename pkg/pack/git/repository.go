package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"mercator-hq/huntquery/pkg/config"
)

// DefaultCheckoutDir is the checkout directory under os.TempDir when no
// local path is configured.
const DefaultCheckoutDir = "huntquery-packs"

// ErrNotCloned is returned by operations that need a checkout before Clone.
var ErrNotCloned = errors.New("repository not initialized, call Clone() first")

// Commit describes the checked-out commit.
type Commit struct {
	SHA       string    `json:"sha"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Branch    string    `json:"branch"`
}

// PullResult describes one pull.
type PullResult struct {
	FromSHA string
	ToSHA   string

	// ChangedFiles are slash-separated paths relative to the repository root.
	ChangedFiles []string
}

// HadChanges reports whether the pull moved HEAD.
func (r *PullResult) HadChanges() bool {
	return r.FromSHA != r.ToSHA
}

// Repository is a local checkout of a hunt pack repository.
type Repository struct {
	cfg       config.GitSourceConfig
	localPath string
	auth      AuthProvider

	mu   sync.RWMutex
	repo *gogit.Repository
}

// NewRepository validates cfg and prepares a repository. Nothing is fetched
// until Clone.
func NewRepository(cfg *config.GitSourceConfig) (*Repository, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Repository == "" {
		return nil, fmt.Errorf("repository URL cannot be empty")
	}
	if cfg.Branch == "" {
		return nil, fmt.Errorf("branch cannot be empty")
	}

	auth, err := NewAuthProvider(&cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth provider: %w", err)
	}

	localPath := cfg.LocalPath
	if localPath == "" {
		localPath = filepath.Join(os.TempDir(), DefaultCheckoutDir)
	}

	return &Repository{
		cfg:       *cfg,
		localPath: localPath,
		auth:      auth,
	}, nil
}

// Clone clones the branch into the local path, or opens an existing
// checkout there unless CleanOnStart is set.
func (r *Repository) Clone(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg.CleanOnStart {
		if err := os.RemoveAll(r.localPath); err != nil {
			return fmt.Errorf("failed to clean existing checkout: %w", err)
		}
	}

	if _, err := os.Stat(filepath.Join(r.localPath, ".git")); err == nil {
		repo, err := gogit.PlainOpen(r.localPath)
		if err != nil {
			return fmt.Errorf("failed to open existing checkout: %w", err)
		}
		r.repo = repo
		return nil
	}

	if err := os.MkdirAll(r.localPath, 0755); err != nil {
		return fmt.Errorf("failed to create checkout directory: %w", err)
	}

	auth, err := r.auth.Auth()
	if err != nil {
		return fmt.Errorf("failed to get auth: %w", err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	repo, err := gogit.PlainCloneContext(ctx, r.localPath, false, &gogit.CloneOptions{
		URL:           r.cfg.Repository,
		Auth:          auth,
		ReferenceName: plumbing.NewBranchReferenceName(r.cfg.Branch),
		SingleBranch:  r.cfg.Depth > 0,
		Depth:         r.cfg.Depth,
	})
	if err != nil {
		return fmt.Errorf("failed to clone %s: %w", r.cfg.Repository, err)
	}

	r.repo = repo
	return nil
}

// Pull fetches the tracked branch and fast-forwards the checkout.
func (r *Repository) Pull(ctx context.Context) (*PullResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.repo == nil {
		return nil, ErrNotCloned
	}

	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	worktree, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	auth, err := r.auth.Auth()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth: %w", err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err = worktree.PullContext(ctx, &gogit.PullOptions{
		RemoteName:    "origin",
		ReferenceName: plumbing.NewBranchReferenceName(r.cfg.Branch),
		SingleBranch:  true,
		Auth:          auth,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return nil, fmt.Errorf("failed to pull: %w", err)
	}

	newHead, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get new HEAD: %w", err)
	}

	result := &PullResult{
		FromSHA: head.Hash().String(),
		ToSHA:   newHead.Hash().String(),
	}
	if result.HadChanges() {
		result.ChangedFiles, err = r.changedFiles(head.Hash(), newHead.Hash())
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// Head returns the checked-out commit.
func (r *Repository) Head() (*Commit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.repo == nil {
		return nil, ErrNotCloned
	}

	ref, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}
	c, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}

	return &Commit{
		SHA:       c.Hash.String(),
		Author:    c.Author.Name,
		Timestamp: c.Author.When,
		Message:   c.Message,
		Branch:    r.cfg.Branch,
	}, nil
}

// LocalPath returns the checkout directory.
func (r *Repository) LocalPath() string {
	return r.localPath
}

// Path resolves a repository-relative path inside the checkout.
func (r *Repository) Path(rel string) string {
	return filepath.Join(r.localPath, filepath.FromSlash(rel))
}

// changedFiles diffs the trees of two commits. Callers hold r.mu.
func (r *Repository) changedFiles(from, to plumbing.Hash) ([]string, error) {
	fromCommit, err := r.repo.CommitObject(from)
	if err != nil {
		return nil, fmt.Errorf("failed to get from commit: %w", err)
	}
	toCommit, err := r.repo.CommitObject(to)
	if err != nil {
		return nil, fmt.Errorf("failed to get to commit: %w", err)
	}

	fromTree, err := fromCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get from tree: %w", err)
	}
	toTree, err := toCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get to tree: %w", err)
	}

	changes, err := fromTree.Diff(toTree)
	if err != nil {
		return nil, fmt.Errorf("failed to diff trees: %w", err)
	}

	files := make([]string, 0, len(changes))
	for _, change := range changes {
		// Deleted files only carry a From name.
		if change.To.Name != "" {
			files = append(files, change.To.Name)
		} else {
			files = append(files, change.From.Name)
		}
	}
	return files, nil
}

func (r *Repository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, r.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// shortSHA abbreviates a commit hash for logs.
func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
