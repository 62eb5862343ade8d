package acquire

import (
	"path/filepath"

	"tubegrab/internal/media/format"
)

// Kind classifies the outcome of one acquisition attempt.
type Kind int

const (
	// Succeeded means the output artifact exists at Result.Path.
	Succeeded Kind = iota
	// Recoverable means the direct attempt failed in a way the fallback may fix.
	Recoverable
	// Fatal means the item cannot be acquired; Result.Err explains why.
	Fatal
	// Empty means the fallback fetch finished but left nothing to transcode.
	Empty
)

func (k Kind) String() string {
	switch k {
	case Succeeded:
		return "succeeded"
	case Recoverable:
		return "recoverable"
	case Fatal:
		return "fatal"
	case Empty:
		return "empty"
	default:
		return "unknown"
	}
}

// Acquisition methods recorded on results.
const (
	MethodDirect   = "direct"
	MethodFallback = "fallback"
)

// Result is the explicit outcome of an acquirer.
type Result struct {
	Kind   Kind
	Method string
	Path   string
	Err    error
}

// Request describes one item to acquire. It is built once per item and not
// shared between acquisitions.
type Request struct {
	Reference      string
	Target         format.Target
	MaxHeight      int
	BitrateKbps    int
	DestinationDir string
	// Title is the upstream title; Name is the resolved (possibly overridden) name.
	Title string
	Name  string
}

// OutputPath is destination/name.ext.
func (r Request) OutputPath() string {
	return filepath.Join(r.DestinationDir, r.Name+"."+r.Target.Extension())
}

// Overridden reports whether the operator replaced the upstream title.
func (r Request) Overridden() bool {
	return r.Title != "" && r.Name != r.Title
}
