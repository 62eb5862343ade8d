// Package format maps output targets (m4a, mp3, mp4, webm, mkv) to the
// arguments the external tools need.
//
// It owns the downloader selector expressions for the direct attempt, the raw
// fetch selector for the fallback path, and the transcoder codec arguments.
// The package has no dependencies so both the tool clients and the pipeline
// can share one vocabulary.
package format
