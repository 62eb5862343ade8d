package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"tubegrab/internal/logging"
	"tubegrab/internal/media/format"
	"tubegrab/internal/services"
	"tubegrab/internal/services/command"
)

// WatchURLPrefix builds an item reference from a listing entry identifier.
const WatchURLPrefix = "https://www.youtube.com/watch?v="

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec command.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithTimeout bounds every downloader invocation. Zero disables the limit.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithOverwrite controls whether existing destination files are replaced.
func WithOverwrite(overwrite bool) Option {
	return func(c *Client) {
		c.overwrite = overwrite
	}
}

// WithLogger sets the logger used for progress traces.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "yt-dlp")
	}
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary    string
	timeout   time.Duration
	overwrite bool
	exec      command.Executor
	logger    *slog.Logger
}

// New constructs a yt-dlp client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("yt-dlp binary required")
	}
	client := &Client{
		binary:    binary,
		overwrite: true,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.exec == nil {
		client.exec = command.NewRunner(client.logger)
	}
	return client, nil
}

// Binary returns the configured executable.
func (c *Client) Binary() string { return c.binary }

// Title queries the display title of one item without fetching media.
func (c *Client) Title(ctx context.Context, ref string) (string, error) {
	var lines []string
	args := []string{"--get-title", "--no-playlist", "--no-warnings", ref}
	if err := c.run(ctx, args, func(line string) { lines = append(lines, line) }); err != nil {
		return "", fmt.Errorf("yt-dlp title query: %w", err)
	}
	for _, line := range lines {
		if title := strings.TrimSpace(line); title != "" {
			return norm.NFC.String(title), nil
		}
	}
	return "", fmt.Errorf("yt-dlp title query: empty title for %s", ref)
}

// Entry is one element of a flattened collection listing.
type Entry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Listing is the flattened view of a collection.
type Listing struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Entries []Entry `json:"entries"`
}

// FlatPlaylist lists a collection's entries in upstream order without fetching media.
func (c *Client) FlatPlaylist(ctx context.Context, ref string) (Listing, error) {
	var out strings.Builder
	args := []string{"--flat-playlist", "-J", "--no-warnings", ref}
	if err := c.run(ctx, args, func(line string) {
		out.WriteString(line)
		out.WriteByte('\n')
	}); err != nil {
		return Listing{}, fmt.Errorf("yt-dlp flat listing: %w", err)
	}
	var listing Listing
	if err := json.Unmarshal([]byte(out.String()), &listing); err != nil {
		return Listing{}, fmt.Errorf("decode flat listing: %w", err)
	}
	for i := range listing.Entries {
		listing.Entries[i].Title = norm.NFC.String(strings.TrimSpace(listing.Entries[i].Title))
	}
	return listing, nil
}

// Progress is a parsed "[download]" status line.
type Progress struct {
	Percent float64
	Line    string
}

// Download fetches ref with the given stream selection into output, which is a
// yt-dlp output template. Use LiteralOutput for fixed paths.
func (c *Client) Download(ctx context.Context, ref string, sel format.Selection, output string, progress func(Progress)) error {
	if strings.TrimSpace(output) == "" {
		return errors.New("output template required")
	}
	args := buildDownloadArgs(ref, sel, output, c.overwrite)
	return c.run(ctx, args, func(line string) {
		update, ok := parseProgress(line)
		if !ok {
			return
		}
		if progress != nil {
			progress(update)
		}
	})
}

func buildDownloadArgs(ref string, sel format.Selection, output string, overwrite bool) []string {
	args := []string{"--no-playlist", "--newline", "--no-warnings"}
	if sel.Format != "" {
		args = append(args, "-f", sel.Format)
	}
	if sel.MergeOutput != "" {
		args = append(args, "--merge-output-format", sel.MergeOutput)
	}
	if sel.RemuxVideo != "" {
		args = append(args, "--remux-video", sel.RemuxVideo)
	}
	if sel.ExtractAudio {
		args = append(args, "-x")
		if sel.AudioFormat != "" {
			args = append(args, "--audio-format", sel.AudioFormat)
		}
		if sel.AudioQuality != "" {
			args = append(args, "--audio-quality", sel.AudioQuality)
		}
	}
	if overwrite {
		args = append(args, "--force-overwrites")
	} else {
		args = append(args, "--no-overwrites")
	}
	args = append(args, "-o", output, ref)
	return args
}

// Version returns the downloader's version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	var version string
	if err := c.run(ctx, []string{"--version"}, func(line string) {
		if version == "" {
			version = strings.TrimSpace(line)
		}
	}); err != nil {
		return "", fmt.Errorf("yt-dlp version: %w", err)
	}
	return version, nil
}

// SelfUpdate runs argv (for example "yt-dlp -U" or "brew upgrade yt-dlp").
func (c *Client) SelfUpdate(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		argv = []string{c.binary, "-U"}
	}
	err := c.exec.Run(ctx, argv[0], argv[1:], func(line string) {
		c.logger.Info("update output", logging.String("line", line))
	})
	if err != nil {
		return fmt.Errorf("yt-dlp self-update: %w", err)
	}
	return nil
}

// LiteralOutput escapes a fixed path so yt-dlp does not expand template fields in it.
func LiteralOutput(path string) string {
	return strings.ReplaceAll(path, "%", "%%")
}

func (c *Client) run(ctx context.Context, args []string, onStdout func(string)) error {
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	err := c.exec.Run(runCtx, c.binary, args, onStdout)
	if err != nil && ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, "yt-dlp", args[0], fmt.Sprintf("exceeded %s", c.timeout), err)
	}
	return err
}

func parseProgress(line string) (Progress, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "[download]") {
		return Progress{}, false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, "[download]"))
	idx := strings.IndexByte(rest, '%')
	if idx <= 0 {
		return Progress{Line: line}, true
	}
	percent, err := strconv.ParseFloat(strings.TrimSpace(rest[:idx]), 64)
	if err != nil {
		return Progress{Line: line}, true
	}
	return Progress{Percent: percent, Line: line}, true
}
