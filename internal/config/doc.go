// Package config loads, normalizes, and validates tubegrab configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TUBEGRAB_DESTINATION_DIR. The Config type is handed to the acquisition
// pipeline at construction time so no component reads process-wide state.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, a canonical target format, and clear validation errors.
package config
