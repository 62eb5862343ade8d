package scratch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tubegrab/internal/logging"
)

// ErrEmpty reports a workspace that holds no completed file.
var ErrEmpty = errors.New("workspace contains no files")

// Option configures an Area.
type Option func(*Area)

// WithRemover replaces os.RemoveAll for workspace release (primarily for tests).
func WithRemover(fn func(string) error) Option {
	return func(a *Area) {
		if fn != nil {
			a.remove = fn
		}
	}
}

// WithLogger sets the logger used for cleanup traces.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Area) {
		a.logger = logging.NewComponentLogger(logger, "scratch")
	}
}

// Area is the transient root under which each fallback acquisition receives
// its own uniquely named workspace.
type Area struct {
	root   string
	remove func(string) error
	logger *slog.Logger
}

// NewArea returns an Area rooted at root. The directory is created lazily.
func NewArea(root string, opts ...Option) *Area {
	area := &Area{
		root:   strings.TrimSpace(root),
		remove: os.RemoveAll,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(area)
	}
	return area
}

// Root returns the transient root path.
func (a *Area) Root() string { return a.root }

// Acquire creates a fresh workspace. Callers must defer Release.
func (a *Area) Acquire() (*Workspace, error) {
	if a.root == "" {
		return nil, errors.New("scratch root not configured")
	}
	dir := filepath.Join(a.root, uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{area: a, dir: dir}, nil
}

// Workspace is one acquisition's private scratch directory.
type Workspace struct {
	area *Area
	dir  string
	once sync.Once
}

// Dir returns the workspace path.
func (w *Workspace) Dir() string { return w.dir }

// NewestFile returns the most recently modified completed file in the
// workspace. Partial downloads are ignored.
func (w *Workspace) NewestFile() (string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrEmpty
		}
		return "", fmt.Errorf("read workspace: %w", err)
	}
	var newest string
	var newestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() || isPartial(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = filepath.Join(w.dir, entry.Name())
			newestMod = info.ModTime()
		}
	}
	if newest == "" {
		return "", ErrEmpty
	}
	return newest, nil
}

// Release deletes the workspace and, when it is left empty, the transient
// root. It is safe to call more than once; failures are logged and swallowed.
func (w *Workspace) Release() {
	if w == nil {
		return
	}
	w.once.Do(func() {
		logger := w.area.logger
		if err := w.area.remove(w.dir); err != nil {
			logger.Debug("workspace cleanup failed",
				logging.String("path", w.dir),
				logging.Error(err),
				logging.String(logging.FieldEventType, "scratch_cleanup_failed"),
			)
			return
		}
		if err := os.Remove(w.area.root); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Debug("transient root retained", logging.String("path", w.area.root), logging.Error(err))
		}
	})
}

func isPartial(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range []string{".part", ".ytdl", ".temp", ".tmp"} {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return strings.Contains(lower, ".part-frag")
}

// CleanStaleResult contains the outcome of a stale workspace sweep.
type CleanStaleResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a directory path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStale removes workspaces older than maxAge left behind by interrupted runs.
func (a *Area) CleanStale(maxAge time.Duration) CleanStaleResult {
	result := CleanStaleResult{}
	if a.root == "" {
		return result
	}
	entries, err := os.ReadDir(a.root)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: a.root, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := uuid.Parse(entry.Name()); err != nil {
			continue
		}
		dirPath := filepath.Join(a.root, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dirPath, Error: err})
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := a.remove(dirPath); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dirPath, Error: err})
			logging.WarnWithContext(a.logger, "failed to remove stale workspace", "scratch_cleanup_failed",
				logging.String("path", dirPath),
				logging.Error(err),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		result.Removed = append(result.Removed, dirPath)
		a.logger.Info("removed stale workspace",
			logging.String("path", dirPath),
			logging.Duration("age", time.Since(info.ModTime())),
			logging.String(logging.FieldEventType, "scratch_cleanup"),
		)
	}
	return result
}
