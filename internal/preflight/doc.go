// Package preflight provides readiness checks for the binaries and
// filesystem paths tubegrab depends on.
//
// The fetch command calls RunAll before the first item so a missing yt-dlp or
// an unwritable destination fails fast. The doctor command renders the same
// results alongside tool versions.
package preflight
