package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers attached by Wrap. Callers classify failures with errors.Is.
var (
	ErrExternalTool  = errors.New("external tool error")
	ErrConfiguration = errors.New("configuration error")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
	ErrNoArtifact    = errors.New("no artifact produced")
)

// Failure classifications reported in run summaries.
const (
	FailureEmpty   = "empty"
	FailureTimeout = "timeout"
	FailureTool    = "tool"
	FailureConfig  = "config"
	FailureOther   = "failed"
)

// classified pairs each marker with its summary label, checked in order.
var classified = []struct {
	marker error
	label  string
}{
	{ErrNoArtifact, FailureEmpty},
	{ErrTimeout, FailureTimeout},
	{ErrConfiguration, FailureConfig},
	{ErrExternalTool, FailureTool},
}

// Wrap tags err with marker and prefixes it with the non-empty parts of
// stage, operation and message. A nil marker becomes ErrTransient.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrTransient
	}
	detail := joinDetail(stage, operation, message)
	if err == nil {
		return fmt.Errorf("%w: %s", marker, detail)
	}
	return fmt.Errorf("%w: %s: %w", marker, detail, err)
}

// FailureOutcome maps an acquisition error to the label shown in the run summary.
func FailureOutcome(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range classified {
		if errors.Is(err, c.marker) {
			return c.label
		}
	}
	return FailureOther
}

// IsSoftFailure reports whether err should not fail a single-item run.
func IsSoftFailure(err error) bool {
	return errors.Is(err, ErrNoArtifact)
}

func joinDetail(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(part)
	}
	if b.Len() == 0 {
		return "service failure"
	}
	return b.String()
}
