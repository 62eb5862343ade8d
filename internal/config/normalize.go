package config

import (
	"fmt"
	"os"
	"strings"

	"tubegrab/internal/media/format"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeAcquisition(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if value, ok := os.LookupEnv("TUBEGRAB_DESTINATION_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DestinationDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DestinationDir) == "" {
		c.Paths.DestinationDir = defaultDestinationDir
	}
	if c.Paths.DestinationDir, err = ExpandPath(c.Paths.DestinationDir); err != nil {
		return fmt.Errorf("paths.destination_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TransientDir) == "" {
		c.Paths.TransientDir = defaultTransientDir
	}
	if c.Paths.TransientDir, err = ExpandPath(c.Paths.TransientDir); err != nil {
		return fmt.Errorf("paths.transient_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = ExpandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAcquisition() error {
	c.Acquisition.DefaultFormat = strings.TrimSpace(c.Acquisition.DefaultFormat)
	if c.Acquisition.DefaultFormat != "" {
		target, err := format.Parse(c.Acquisition.DefaultFormat)
		if err != nil {
			return fmt.Errorf("acquisition.default_format: %w", err)
		}
		c.Acquisition.DefaultFormat = string(target)
	}
	if c.Acquisition.TargetBitrate == 0 {
		c.Acquisition.TargetBitrate = format.DefaultBitrateKbps
	}
	c.Acquisition.Rename = strings.ToLower(strings.TrimSpace(c.Acquisition.Rename))
	if c.Acquisition.Rename == "" {
		c.Acquisition.Rename = defaultRenameMode
	}
	return nil
}

func (c *Config) normalizeTools() {
	if value, ok := os.LookupEnv("TUBEGRAB_YTDLP"); ok && strings.TrimSpace(value) != "" {
		c.Tools.YTDLP = value
	}
	if value, ok := os.LookupEnv("TUBEGRAB_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.Tools.FFmpeg = value
	}
	c.Tools.YTDLP = strings.TrimSpace(c.Tools.YTDLP)
	if c.Tools.YTDLP == "" {
		c.Tools.YTDLP = defaultYTDLPBinary
	}
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
	cmd := make([]string, 0, len(c.Tools.UpdateCommand))
	for _, part := range c.Tools.UpdateCommand {
		if part = strings.TrimSpace(part); part != "" {
			cmd = append(cmd, part)
		}
	}
	c.Tools.UpdateCommand = cmd
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
