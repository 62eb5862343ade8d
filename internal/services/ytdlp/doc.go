// Package ytdlp wraps the yt-dlp command line.
//
// The client exposes the four capabilities the pipeline needs: a title-only
// metadata query, a flattened collection listing decoded from JSON, a stream
// download driven by a format.Selection, and the downloader's self-update.
package ytdlp
