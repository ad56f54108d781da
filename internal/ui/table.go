package ui

import (
	"strings"
)

// Table provides minimal table rendering with simple spacing alignment and
// no borders. Used for vault, field, and entry listings.
type Table struct {
	header     []string
	rows       [][]string
	colWidths  []int
	colPadding int
}

// NewTable creates a new table with the specified number of columns.
func NewTable(cols int) *Table {
	return &Table{
		colWidths:  make([]int, cols),
		colPadding: 2,
	}
}

// SetHeader sets a muted header row.
func (t *Table) SetHeader(cells ...string) {
	t.header = t.fit(cells)
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, t.fit(cells))
}

func (t *Table) fit(cells []string) []string {
	row := make([]string, len(t.colWidths))
	for i := 0; i < len(t.colWidths) && i < len(cells); i++ {
		row[i] = cells[i]
		if w := len([]rune(cells[i])); w > t.colWidths[i] {
			t.colWidths[i] = w
		}
	}
	return row
}

// String renders the table as a string.
func (t *Table) String() string {
	if len(t.rows) == 0 && t.header == nil {
		return ""
	}

	var sb strings.Builder
	if t.header != nil {
		sb.WriteString(Muted.Render(strings.TrimRight(t.renderRow(t.header), " ")))
		sb.WriteString("\n")
	}
	for _, row := range t.rows {
		sb.WriteString(t.renderRow(row))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Table) renderRow(row []string) string {
	var sb strings.Builder
	padding := strings.Repeat(" ", t.colPadding)
	for i, cell := range row {
		if i > 0 {
			sb.WriteString(padding)
		}
		sb.WriteString(cell)
		// Pad to column width except for the last column.
		if i < len(row)-1 {
			sb.WriteString(strings.Repeat(" ", t.colWidths[i]-len([]rune(cell))))
		}
	}
	return sb.String()
}

// TruncateWithEllipsis truncates a string to max runes, adding an ellipsis
// marker and preferring a word boundary.
func TruncateWithEllipsis(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}

	truncated := string(runes[:max-3])
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > max/2 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}
