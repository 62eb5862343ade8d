// Package playlist detects collection references and expands them into
// ordered item references using yt-dlp's flat listing.
package playlist
