package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"tubegrab/internal/logging"
	"tubegrab/internal/media/format"
	"tubegrab/internal/services"
	"tubegrab/internal/services/command"
)

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

// WithTimeout bounds every transcode. Zero disables the limit.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets the logger handed to the default runner.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithOverwrite selects -y (replace) or -n (refuse) for existing outputs.
func WithOverwrite(overwrite bool) Option {
	return func(c *Client) {
		c.overwrite = overwrite
	}
}

// Client wraps ffmpeg transcoding.
type Client struct {
	binary    string
	timeout   time.Duration
	overwrite bool
	exec      command.Executor
	logger    *slog.Logger
}

// New constructs an ffmpeg client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &Client{binary: binary, overwrite: true, logger: logging.NewNop()}
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

// Transcode converts input into output using the codec settings of target.
// With overwrite disabled an existing output fails before ffmpeg runs.
func (c *Client) Transcode(ctx context.Context, input, output string, target format.Target, bitrateKbps int) error {
	args, err := BuildArgs(input, output, target, bitrateKbps, c.overwrite)
	if err != nil {
		return err
	}
	if !c.overwrite {
		if _, statErr := os.Stat(output); statErr == nil {
			return services.Wrap(services.ErrConfiguration, "ffmpeg", "transcode",
				fmt.Sprintf("%s already exists and overwrite is disabled", output), nil)
		}
	}
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	err = c.exec.Run(runCtx, c.binary, args, nil)
	if err != nil && ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, "ffmpeg", "transcode", fmt.Sprintf("exceeded %s", c.timeout), err)
	}
	if err != nil {
		return fmt.Errorf("ffmpeg transcode: %w", err)
	}
	return nil
}

// BuildArgs assembles the ffmpeg argument list for one transcode. overwrite
// chooses between -y and -n.
func BuildArgs(input, output string, target format.Target, bitrateKbps int, overwrite bool) ([]string, error) {
	if strings.TrimSpace(input) == "" || strings.TrimSpace(output) == "" {
		return nil, errors.New("ffmpeg input and output paths required")
	}
	codec, err := format.TranscodeArgs(target, bitrateKbps)
	if err != nil {
		return nil, err
	}
	clobber := "-n"
	if overwrite {
		clobber = "-y"
	}
	args := []string{clobber, "-hide_banner", "-loglevel", "error", "-i", input}
	if target.IsAudio() {
		args = append(args, "-vn")
	}
	args = append(args, codec...)
	args = append(args, output)
	return args, nil
}

// Version returns the first line of "ffmpeg -version".
func (c *Client) Version(ctx context.Context) (string, error) {
	var version string
	if err := c.exec.Run(ctx, c.binary, []string{"-hide_banner", "-version"}, func(line string) {
		if version == "" {
			version = strings.TrimSpace(line)
		}
	}); err != nil {
		return "", fmt.Errorf("ffmpeg version: %w", err)
	}
	return version, nil
}
