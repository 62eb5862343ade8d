package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAcquisition(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DestinationDir) == "" {
		return errors.New("paths.destination_dir must be set")
	}
	if strings.TrimSpace(c.Paths.TransientDir) == "" {
		return errors.New("paths.transient_dir must be set")
	}
	if c.Paths.TransientDir == c.Paths.DestinationDir {
		return errors.New("paths.transient_dir must differ from paths.destination_dir (it is removed after each fallback)")
	}
	return nil
}

func (c *Config) validateAcquisition() error {
	if c.Acquisition.TargetBitrate < 8 || c.Acquisition.TargetBitrate > 512 {
		return fmt.Errorf("acquisition.target_bitrate must be between 8 and 512 kbps, got %d", c.Acquisition.TargetBitrate)
	}
	if c.Acquisition.MaxHeight < 0 {
		return errors.New("acquisition.max_height must be >= 0")
	}
	switch c.Acquisition.Rename {
	case RenamePrompt, RenameKeep, RenameAuto:
	default:
		return fmt.Errorf("acquisition.rename must be one of %s, %s, %s; got %q", RenamePrompt, RenameKeep, RenameAuto, c.Acquisition.Rename)
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.Tools.DownloaderTimeout < 0 {
		return errors.New("tools.downloader_timeout must be >= 0 (seconds)")
	}
	if c.Tools.TranscoderTimeout < 0 {
		return errors.New("tools.transcoder_timeout must be >= 0 (seconds)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}
