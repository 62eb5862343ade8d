package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"tubegrab/internal/config"
	"tubegrab/internal/logging"
)

const skipConfigAnnotation = "skipConfigLoad"

// loadedConfig is the result of resolving --config once per process.
type loadedConfig struct {
	cfg    *config.Config
	path   string
	exists bool
	err    error
}

// commandContext lazily builds the config and logger shared by subcommands.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	loaded     loadedConfig

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		c.loaded = loadConfig(c.flagValue())
	})
	return c.loaded.cfg, c.loaded.err
}

// configSource describes where the effective config came from.
func (c *commandContext) configSource() string {
	if c.loaded.exists {
		return c.loaded.path
	}
	return c.loaded.path + " (not found; defaults in use)"
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) flagValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func loadConfig(path string) loadedConfig {
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		return loadedConfig{path: resolved, err: err}
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return loadedConfig{path: resolved, err: err}
	}
	return loadedConfig{cfg: cfg, path: resolved, exists: exists}
}

// acquireRunLock serializes runs that share the transient directory.
func acquireRunLock(cfg *config.Config) (*flock.Flock, error) {
	path := cfg.LockPath()
	lock := flock.New(path)
	locked, err := lock.TryLock()
	switch {
	case err != nil:
		return nil, fmt.Errorf("acquire run lock: %w", err)
	case !locked:
		return nil, fmt.Errorf("another tubegrab run is already active (lock held at %s)", path)
	}
	return lock, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for ; cmd != nil; cmd = cmd.Parent() {
		if cmd.Annotations[skipConfigAnnotation] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
