package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// tableSpec describes a rounded go-pretty table. RightAligned holds 1-based
// column numbers.
type tableSpec struct {
	Title        string
	Headers      []string
	Rows         [][]string
	RightAligned []int
}

func renderTable(spec tableSpec) string {
	if len(spec.Headers) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(spec.Title)
	tw.AppendHeader(toRow(spec.Headers, len(spec.Headers)))
	for _, row := range spec.Rows {
		tw.AppendRow(toRow(row, len(spec.Headers)))
	}
	configs := make([]table.ColumnConfig, 0, len(spec.RightAligned))
	for _, n := range spec.RightAligned {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

// toRow pads or truncates cells to width.
func toRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range row {
		row[i] = ""
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	return row
}
