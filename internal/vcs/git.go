package vcs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// ErrNotRepository indicates the vault is not a git work tree.
var ErrNotRepository = errors.New("vault is not a git repository")

// Options configures commits made after tasks are edited.
type Options struct {
	AuthorName  string
	AuthorEmail string
	Push        bool
	SSHKeyPath  string
}

// Committer records note edits in the vault's git history.
type Committer struct {
	repoPath string
	opts     Options
	logger   *slog.Logger
	now      func() time.Time
}

// NewCommitter creates a committer for the repository at repoPath.
func NewCommitter(repoPath string, opts Options, logger *slog.Logger) *Committer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Committer{repoPath: repoPath, opts: opts, logger: logger, now: time.Now}
}

// Commit stages the given vault-relative paths and commits them. Nothing is
// committed when the paths carry no changes.
func (c *Committer) Commit(ctx context.Context, message string, paths ...string) error {
	r, err := git.PlainOpen(c.repoPath)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return ErrNotRepository
		}
		return fmt.Errorf("open repository: %w", err)
	}
	w, err := r.Worktree()
	if err != nil {
		return fmt.Errorf("get worktree: %w", err)
	}

	for _, p := range paths {
		if _, err := w.Add(filepath.ToSlash(p)); err != nil {
			return fmt.Errorf("stage %s: %w", p, err)
		}
	}

	status, err := w.Status()
	if err != nil {
		return fmt.Errorf("worktree status: %w", err)
	}
	staged := false
	for _, s := range status {
		if s.Staging != git.Unmodified && s.Staging != git.Untracked {
			staged = true
			break
		}
	}
	if !staged {
		return nil
	}

	if message == "" {
		message = fmt.Sprintf("tasklens: update tasks %s", c.now().Format(time.RFC3339))
	}
	hash, err := w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  c.opts.AuthorName,
			Email: c.opts.AuthorEmail,
			When:  c.now(),
		},
	})
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	c.logger.Debug("vault committed", "hash", hash.String(), "paths", paths)

	if !c.opts.Push {
		return nil
	}
	return c.push(ctx, r)
}

func (c *Committer) push(ctx context.Context, r *git.Repository) error {
	opts := &git.PushOptions{}
	if c.opts.SSHKeyPath != "" {
		keys, err := ssh.NewPublicKeysFromFile("git", c.opts.SSHKeyPath, "")
		if err != nil {
			c.logger.Warn("ssh key unavailable, pushing without explicit auth", "path", c.opts.SSHKeyPath, "error", err)
		} else {
			opts.Auth = keys
		}
	}
	if err := r.PushContext(ctx, opts); err != nil {
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			return nil
		}
		return fmt.Errorf("push: %w", err)
	}
	return nil
}
