package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"tubegrab/internal/media/format"
)

// Paths holds the directories tubegrab reads and writes.
type Paths struct {
	DestinationDir string `toml:"destination_dir"`
	TransientDir   string `toml:"transient_dir"`
	StateDir       string `toml:"state_dir"`
}

// Acquisition shapes every download request.
type Acquisition struct {
	DefaultFormat string `toml:"default_format"`
	TargetBitrate int    `toml:"target_bitrate"`
	MaxHeight     int    `toml:"max_height"`
	Rename        string `toml:"rename"`
	TagAudio      bool   `toml:"tag_audio"`
	Overwrite     bool   `toml:"overwrite"`
}

// Tools names the external binaries and bounds their runtime. Timeouts are
// seconds; zero disables them.
type Tools struct {
	YTDLP             string   `toml:"ytdlp"`
	FFmpeg            string   `toml:"ffmpeg"`
	UpdateBeforeRun   bool     `toml:"update_before_run"`
	UpdateCommand     []string `toml:"update_command"`
	DownloaderTimeout int      `toml:"downloader_timeout"`
	TranscoderTimeout int      `toml:"transcoder_timeout"`
}

type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config is the decoded config.toml after env overrides and normalization.
type Config struct {
	Paths       Paths       `toml:"paths"`
	Acquisition Acquisition `toml:"acquisition"`
	Tools       Tools       `toml:"tools"`
	Logging     Logging     `toml:"logging"`
}

// DefaultTarget returns the configured default format, if any.
func (c *Config) DefaultTarget() (format.Target, bool) {
	if c.Acquisition.DefaultFormat == "" {
		return "", false
	}
	target, err := format.Parse(c.Acquisition.DefaultFormat)
	return target, err == nil
}

func (c *Config) DownloaderTimeout() time.Duration {
	return time.Duration(c.Tools.DownloaderTimeout) * time.Second
}

func (c *Config) TranscoderTimeout() time.Duration {
	return time.Duration(c.Tools.TranscoderTimeout) * time.Second
}

// LogFilePath is tubegrab.log under the state directory, or "" when unset.
func (c *Config) LogFilePath() string {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.StateDir, "tubegrab.log")
}

func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "tubegrab.lock")
}

// SelfUpdateCommand returns the argv used to refresh the downloader,
// defaulting to "<ytdlp> -U".
func (c *Config) SelfUpdateCommand() []string {
	if len(c.Tools.UpdateCommand) == 0 {
		return []string{c.Tools.YTDLP, "-U"}
	}
	return append([]string(nil), c.Tools.UpdateCommand...)
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() (string, error) {
	var b strings.Builder
	enc := toml.NewEncoder(&b).SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return b.String(), nil
}
