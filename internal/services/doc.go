// Package services defines shared utilities consumed by the acquisition
// pipeline and its external tool clients.
//
// Key responsibilities:
//   - Context helpers that stamp batch positions, references, stages, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent summary classifications.
//
// Subpackages wrap the external binaries (command execution, yt-dlp, ffmpeg)
// behind small clients with injectable executors.
package services
