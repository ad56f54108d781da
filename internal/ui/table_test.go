package ui

import (
	"strings"
	"testing"
)

func TestTableAlignment(t *testing.T) {
	table := NewTable(3)
	table.AddRow("1", "Dune", "1965")
	table.AddRow("12", "Neuromancer", "1984")

	out := table.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "1   Dune") {
		t.Errorf("expected padded first column, got %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "1984") {
		t.Errorf("last column should not be padded, got %q", lines[1])
	}
}

func TestTableEmpty(t *testing.T) {
	if out := NewTable(2).String(); out != "" {
		t.Errorf("empty table should render empty, got %q", out)
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"short passes through", "hello", 10, "hello"},
		{"word boundary preferred", "hello wide world", 14, "hello wide..."},
		{"tiny max hard-cuts", "hello", 2, "he"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateWithEllipsis(tt.input, tt.max); got != tt.want {
				t.Errorf("TruncateWithEllipsis(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
		})
	}
}

func TestResultsTableWidths(t *testing.T) {
	display := NewDisplayContextWithWidth(120)
	table := NewResultsTable(display, SearchLayout)

	if w := table.ContentWidth("num"); w != 4 {
		t.Errorf("num width = %d, want 4", w)
	}
	if w := table.ContentWidth("snippet"); w < ColSnippet.MinWidth {
		t.Errorf("snippet width %d below minimum %d", w, ColSnippet.MinWidth)
	}
	if w := table.ContentWidth("missing"); w != 60 {
		t.Errorf("unknown column should use fallback, got %d", w)
	}
}

func TestResultsTableRender(t *testing.T) {
	display := NewDisplayContextWithWidth(120)
	table := NewResultsTable(display, SearchLayout)
	if table.Render() != "" {
		t.Error("empty table should render empty")
	}

	table.AddRow(ResultRow{Num: 1, Cells: []string{" 1", "Dune", "a classic", "2024-01-01"}})
	out := table.Render()
	if !strings.Contains(out, "Dune") {
		t.Errorf("expected rendered row, got %q", out)
	}
}
