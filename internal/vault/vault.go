package vault

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rpggio/tasklens/internal/domain/task"
)

// Vault reads and edits the notes below a root directory.
type Vault struct {
	root     string
	settings task.Settings
	logger   *slog.Logger

	// serializes read-modify-write cycles on notes
	mu sync.Mutex
}

// New creates a vault rooted at root.
func New(root string, s task.Settings, logger *slog.Logger) *Vault {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Vault{root: root, settings: s, logger: logger}
}

// Root returns the vault directory.
func (v *Vault) Root() string {
	return v.root
}

// Load scans the whole vault.
func (v *Vault) Load(ctx context.Context) ([]task.Record, error) {
	return Scan(ctx, v.root, v.settings)
}

// ReadNote returns the content of a note given its vault-relative path.
func (v *Vault) ReadNote(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	full, err := v.resolve(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("read note %s: %w", path, err)
	}
	return string(data), nil
}

// Replace swaps the task original for the serialized records. The line at
// original.Origin must still serialize to original.ToFileLine(), otherwise the
// note changed since original was read and ErrTaskMoved is returned. An empty
// records slice deletes the line. The note keeps its line endings.
func (v *Vault) Replace(ctx context.Context, original task.Record, records []task.Record) error {
	origin := original.Origin
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := v.resolve(origin.Path)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	info, err := os.Stat(full)
	if err != nil {
		return fmt.Errorf("stat note %s: %w", origin.Path, err)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return fmt.Errorf("read note %s: %w", origin.Path, err)
	}
	content := string(data)
	lineBreak := "\n"
	if strings.Contains(content, "\r\n") {
		lineBreak = "\r\n"
	}

	lines := splitLines(content)
	target := -1
	for _, tl := range scanLines(origin.Path, lines, v.settings) {
		if tl.record.Origin != origin {
			continue
		}
		if tl.record.ToFileLine() == original.ToFileLine() {
			target = tl.lineNo
		}
		break
	}
	if target < 0 {
		return fmt.Errorf("%w: %s section %d index %d", ErrTaskMoved, origin.Path, origin.SectionStart, origin.SectionIndex)
	}

	replacement := make([]string, 0, len(records))
	for _, r := range records {
		replacement = append(replacement, r.ToFileLine())
	}
	updated := make([]string, 0, len(lines)+len(replacement))
	updated = append(updated, lines[:target]...)
	updated = append(updated, replacement...)
	updated = append(updated, lines[target+1:]...)

	if err := writeAtomic(full, []byte(strings.Join(updated, lineBreak)), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write note %s: %w", origin.Path, err)
	}
	v.logger.Debug("task replaced", "path", origin.Path, "line", target, "lines", len(replacement))
	return nil
}

func (v *Vault) resolve(path string) (string, error) {
	if !isNote(path) {
		return "", fmt.Errorf("%w: %s", ErrNotNote, path)
	}
	full := filepath.Join(v.root, filepath.FromSlash(path))
	rel, err := filepath.Rel(v.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideVault, path)
	}
	return full, nil
}

// writeAtomic writes through a temp file in the same directory so readers
// never see a half-written note.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tasklens-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
