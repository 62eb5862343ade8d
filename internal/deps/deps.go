package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external binary and what it is used for.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is a Requirement plus the outcome of resolving it on PATH.
type Status struct {
	Requirement
	Resolved  string
	Available bool
	Detail    string
}

// Requirements lists the binaries a run needs for the configured tool paths.
func Requirements(ytdlpBinary, ffmpegBinary string) []Requirement {
	return []Requirement{
		{Name: "yt-dlp", Command: ytdlpBinary, Description: "title queries, listings and downloads"},
		{Name: "FFmpeg", Command: ffmpegBinary, Description: "merging, extraction and fallback transcodes"},
	}
}

// Resolve looks up a single requirement.
func Resolve(req Requirement) Status {
	req.Command = strings.TrimSpace(req.Command)
	req.Description = strings.TrimSpace(req.Description)
	status := Status{Requirement: req}
	if req.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := exec.LookPath(req.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		return status
	}
	status.Resolved, status.Available = path, true
	return status
}

// CheckBinaries resolves every requirement, preserving order.
func CheckBinaries(requirements []Requirement) []Status {
	out := make([]Status, len(requirements))
	for i, req := range requirements {
		out[i] = Resolve(req)
	}
	return out
}

// Missing returns the required statuses that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if s.Optional || s.Available {
			continue
		}
		missing = append(missing, s)
	}
	return missing
}
