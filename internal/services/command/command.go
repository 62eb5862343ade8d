package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"

	"github.com/alessio/shellescape"
	"golang.org/x/sync/errgroup"

	"tubegrab/internal/logging"
)

const stderrTailLines = 20

// Executor abstracts command execution so tool clients can be tested with stubs.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) error
}

// ExitError reports a tool that started but exited unsuccessfully.
type ExitError struct {
	Binary string
	Code   int
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Binary, e.Code)
	if tail := lastLine(e.Stderr); tail != "" {
		msg += ": " + tail
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

// IsExitError reports whether err carries a non-zero tool exit.
func IsExitError(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr)
}

// Runner executes binaries with exec.CommandContext, streaming stdout lines to
// the callback and keeping the stderr tail for error reporting.
type Runner struct {
	logger *slog.Logger
}

// NewRunner builds a Runner. A nil logger discards command traces.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{logger: logging.NewComponentLogger(logger, "exec")}
}

// Run starts binary with args and blocks until it exits and both streams drain.
func (r *Runner) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
	if r == nil {
		r = NewRunner(nil)
	}
	r.logger.Debug("running command", logging.String("cmd", shellescape.QuoteCommand(append([]string{binary}, args...))))

	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", binary, err)
	}

	tail := newTailBuffer(stderrTailLines)
	var group errgroup.Group
	group.Go(func() error {
		return scanLines(stdout, func(line string) {
			if onStdout != nil {
				onStdout(line)
			}
		})
	})
	group.Go(func() error {
		return scanLines(stderr, func(line string) {
			tail.add(line)
			r.logger.Debug("tool stderr", logging.String("binary", binary), logging.String("line", line))
		})
	})
	scanErr := group.Wait()
	waitErr := cmd.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s interrupted: %w", binary, ctxErr)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return &ExitError{Binary: binary, Code: exitErr.ExitCode(), Stderr: tail.String(), Err: waitErr}
		}
		return fmt.Errorf("wait %s: %w", binary, waitErr)
	}
	if scanErr != nil {
		return fmt.Errorf("read %s output: %w", binary, scanErr)
	}
	return nil
}

func scanLines(r io.Reader, forward func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		forward(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		// Drain so the child never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, r)
		return err
	}
	return nil
}

type tailBuffer struct {
	mu    sync.Mutex
	max   int
	lines []string
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (t *tailBuffer) add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > t.max {
		t.lines = t.lines[len(t.lines)-t.max:]
	}
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.lines, "\n")
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		return s[idx+1:]
	}
	return s
}
