package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"tubegrab/internal/workflow"
)

func renderSummary(summary workflow.Summary) string {
	rows := make([][]string, 0, len(summary.Outcomes))
	for _, o := range summary.Outcomes {
		name := o.Name
		if name == "" {
			name = o.Reference
		}
		status := o.Status
		if o.Failure != "" && o.Failure != o.Status {
			status = fmt.Sprintf("%s (%s)", o.Status, o.Failure)
		}
		method := o.Method
		if method == "" {
			method = "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(o.Index),
			name,
			status,
			method,
			formatSize(o.Size),
			o.Elapsed.Round(100 * time.Millisecond).String(),
		})
	}
	return renderTable(tableSpec{
		Headers:      []string{"#", "Name", "Status", "Method", "Size", "Elapsed"},
		Rows:         rows,
		RightAligned: []int{1, 5, 6},
	})
}

func summaryLine(summary workflow.Summary) string {
	return fmt.Sprintf("%d of %d items saved (%d empty, %d failed)",
		summary.Succeeded(), len(summary.Outcomes), summary.Empty(), summary.Failed())
}

func singleItemLines(summary workflow.Summary) []string {
	var lines []string
	for _, o := range summary.Outcomes {
		switch o.Status {
		case workflow.StatusSucceeded:
			lines = append(lines, fmt.Sprintf("Saved %s (%s, %s)", o.Path, formatSize(o.Size), o.Method))
		case workflow.StatusEmpty:
			lines = append(lines, fmt.Sprintf("Nothing saved for %s: download produced no file", o.Reference))
		}
	}
	return lines
}

func formatSize(size int64) string {
	if size <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(size))
}
