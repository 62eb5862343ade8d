package rename

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// Modes accepted by New.
const (
	ModePrompt = "prompt"
	ModeKeep   = "keep"
	ModeAuto   = "auto"
)

// Renamer decides the name an artifact is saved under.
type Renamer interface {
	Rename(ctx context.Context, current string) (string, error)
}

// Prompt asks the operator for a replacement name, one line per call.
type Prompt struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewPrompt builds a Prompt reading from in and writing questions to out.
// The reader is buffered once so successive prompts never lose input.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	if out == nil {
		out = io.Discard
	}
	return &Prompt{in: bufio.NewReader(in), out: out}
}

// Rename shows current and returns the operator's trimmed answer, or current
// when the answer is blank or input is exhausted.
func (p *Prompt) Rename(ctx context.Context, current string) (string, error) {
	if err := ctx.Err(); err != nil {
		return current, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "Current filename: %q\n", current)
	fmt.Fprint(p.out, "Enter new name (or leave blank to keep original): ")

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return current, fmt.Errorf("read new name: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(p.out)
	}
	if answer := strings.TrimSpace(line); answer != "" {
		return answer, nil
	}
	return current, nil
}

// Keep never changes the name.
type Keep struct{}

func (Keep) Rename(_ context.Context, current string) (string, error) {
	return current, nil
}

// New selects a renamer for mode. Auto prompts only when in is a terminal.
func New(mode string, in *os.File, out io.Writer) (Renamer, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModePrompt:
		return NewPrompt(in, out), nil
	case ModeKeep:
		return Keep{}, nil
	case ModeAuto, "":
		if in != nil && (isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd())) {
			return NewPrompt(in, out), nil
		}
		return Keep{}, nil
	default:
		return nil, fmt.Errorf("unknown rename mode %q", mode)
	}
}
