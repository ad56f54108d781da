package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Alignment represents column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// ColumnDef defines a column in a ResultsTable.
type ColumnDef struct {
	Name       string         // column identifier for width lookups
	WidthRatio float64        // proportion of available width (0.0-1.0), 0 means fixed width
	MinWidth   int            // minimum width in characters
	MaxWidth   int            // maximum width (0 = no limit)
	Align      Alignment      // text alignment
	Style      lipgloss.Style // style applied to cells in this column
}

// ResultRow represents a single row in the results table.
type ResultRow struct {
	Num   int      // row number (1-indexed)
	Cells []string // cell values for each column
}

// ResultsTable renders search result rows in a minimal ruled table.
type ResultsTable struct {
	display *DisplayContext
	columns []ColumnDef
	rows    []ResultRow
}

// Standard column definitions for entry search results.
var (
	// ColNum is the row number column (fixed width, right-aligned, muted).
	ColNum = ColumnDef{
		Name:     "num",
		MinWidth: 4,
		MaxWidth: 6,
		Align:    AlignRight,
		Style:    Muted,
	}

	// ColTitle is the entry title column.
	ColTitle = ColumnDef{
		Name:       "title",
		WidthRatio: 0.35,
		MinWidth:   20,
		MaxWidth:   60,
		Align:      AlignLeft,
	}

	// ColSnippet is the description snippet column.
	ColSnippet = ColumnDef{
		Name:       "snippet",
		WidthRatio: 0.45,
		MinWidth:   25,
		MaxWidth:   100,
		Align:      AlignLeft,
		Style:      Muted,
	}

	// ColDate is the timestamp column.
	ColDate = ColumnDef{
		Name:       "date",
		WidthRatio: 0.20,
		MinWidth:   10,
		MaxWidth:   20,
		Align:      AlignLeft,
		Style:      Muted,
	}
)

// SearchLayout is the column layout for search results: [num, title, snippet, date]
var SearchLayout = []ColumnDef{ColNum, ColTitle, ColSnippet, ColDate}

// NewResultsTable creates a ResultsTable with the given display context and
// column layout.
func NewResultsTable(display *DisplayContext, columns []ColumnDef) *ResultsTable {
	return &ResultsTable{
		display: display,
		columns: columns,
	}
}

// AddRow adds a row to the table.
func (t *ResultsTable) AddRow(row ResultRow) {
	t.rows = append(t.rows, row)
}

// ContentWidth returns the calculated width for a column by name, so callers
// can truncate cell content to the actual available width.
func (t *ResultsTable) ContentWidth(columnName string) int {
	widths := t.calculateWidths()
	for i, col := range t.columns {
		if col.Name == columnName {
			return widths[i]
		}
	}
	return 60 // fallback
}

// calculateWidths computes column widths from terminal size and column
// definitions: fixed columns first, then the remainder split by ratio.
func (t *ResultsTable) calculateWidths() []int {
	widths := make([]int, len(t.columns))

	var totalRatio float64
	var fixedWidth int
	const columnPadding = 2

	for i, col := range t.columns {
		if col.WidthRatio == 0 {
			widths[i] = col.MinWidth
			if col.MaxWidth > 0 && widths[i] > col.MaxWidth {
				widths[i] = col.MaxWidth
			}
			fixedWidth += widths[i]
		} else {
			totalRatio += col.WidthRatio
		}
	}

	totalPadding := (len(t.columns) - 1) * columnPadding
	leftMargin := 2
	available := t.display.TermWidth - fixedWidth - totalPadding - leftMargin
	if available < 0 {
		available = 0
	}

	for i, col := range t.columns {
		if col.WidthRatio > 0 {
			width := int(float64(available) * col.WidthRatio / totalRatio)
			if width < col.MinWidth {
				width = col.MinWidth
			}
			if col.MaxWidth > 0 && width > col.MaxWidth {
				width = col.MaxWidth
			}
			widths[i] = width
		}
	}

	return widths
}

// Render generates the table output as a string.
func (t *ResultsTable) Render() string {
	if len(t.rows) == 0 {
		return ""
	}

	widths := t.calculateWidths()

	tableRows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		tableRow := make([]string, len(t.columns))
		for j := range t.columns {
			if j < len(row.Cells) {
				tableRow[j] = row.Cells[j]
			}
		}
		tableRows[i] = tableRow
	}

	tbl := table.New().
		Border(lipgloss.Border{
			Top:    "─",
			Bottom: "─",
			Middle: "─",
		}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(true).
		BorderColumn(false).
		BorderStyle(Muted).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col >= len(t.columns) {
				return lipgloss.NewStyle()
			}

			colDef := t.columns[col]
			style := colDef.Style
			if style.Value() == "" {
				style = lipgloss.NewStyle()
			}

			style = style.Width(widths[col])
			if colDef.Align == AlignRight {
				style = style.Align(lipgloss.Right)
			} else {
				style = style.Align(lipgloss.Left)
			}
			if col < len(t.columns)-1 {
				style = style.PaddingRight(2)
			}
			return style
		}).
		Rows(tableRows...)

	return tbl.Render()
}

// FormatRowNum formats a row number with consistent width.
func FormatRowNum(num, maxNum int) string {
	width := len(fmt.Sprintf("%d", maxNum))
	if width < 2 {
		width = 2
	}
	return fmt.Sprintf("%*d", width, num)
}
