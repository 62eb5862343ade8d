package preflight

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"tubegrab/internal/config"
	"tubegrab/internal/deps"
)

func pass(name, path, note string) Result {
	return Result{Name: name, Passed: true, Detail: path + " (" + note + ")"}
}

func fail(name, path, format string, args ...any) Result {
	return Result{Name: name, Detail: path + " (error: " + fmt.Sprintf(format, args...) + ")"}
}

// CheckDirectoryAccess requires path to be an existing directory the current
// user can list, read and write.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fail(name, path, "does not exist")
	case err != nil:
		return fail(name, path, "stat: %v", err)
	case !info.IsDir():
		return fail(name, path, "is not a directory")
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fail(name, path, "insufficient permissions: %v", err)
	}
	return pass(name, path, "read/write ok")
}

// CheckCreatable passes when path is an accessible directory, or when it is
// absent and its nearest existing ancestor is writable. Nothing is created.
func CheckCreatable(name, path string) Result {
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path)
	}
	ancestor := nearestExisting(path)
	if err := unix.Access(ancestor, unix.W_OK|unix.X_OK); err != nil {
		return fail(name, path, "cannot create under %s: %v", ancestor, err)
	}
	return pass(name, path, "created on demand")
}

func nearestExisting(path string) string {
	dir := filepath.Dir(path)
	for {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}

// CheckSystemDeps resolves the configured yt-dlp and ffmpeg binaries.
func CheckSystemDeps(_ context.Context, cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.Requirements(cfg.Tools.YTDLP, cfg.Tools.FFmpeg))
}
