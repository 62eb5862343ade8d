// Package acquire turns one resolved item into an output artifact.
//
// Direct asks yt-dlp for the final container in one step. When that fails
// with a Recoverable result, Fallback fetches the best raw stream into a
// private scratch workspace and transcodes it with ffmpeg. Processor chains
// the two and returns an explicit Result instead of a boolean.
package acquire
