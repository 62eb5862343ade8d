// Package ffmpeg runs the transcoder used by the fallback acquisition path.
package ffmpeg
