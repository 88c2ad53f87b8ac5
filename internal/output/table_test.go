package output

import (
	"bytes"
	"strings"
	"testing"
)

func plainOutput(t *testing.T) {
	t.Helper()
	SetNoColor(true)
	t.Cleanup(func() { SetNoColor(false) })
}

func renderLines(tbl *Table) []string {
	return strings.Split(strings.TrimRight(tbl.Render(), "\n"), "\n")
}

func TestVisualLen(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"plain", "Data Science", 12},
		{"bold title", "\x1b[1mStatistics\x1b[0m", 10},
		{"nested color", "\x1b[1m\x1b[38;2;46;204;113m+10%\x1b[0m", 4},
		{"wide runes", "数据", 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := visualLen(tc.input); got != tc.want {
				t.Errorf("visualLen(%q) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestPad_MeasuresVisibleWidth(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  int
	}{
		{"short id", "7", 4, 4},
		{"exact", "Live", 4, 4},
		{"too long is kept", "Foundations", 5, 11},
		{"styled cell", "\x1b[31m▼\x1b[0m", 3, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := pad(tc.input, tc.width)
			if visualLen(got) != tc.want {
				t.Errorf("pad(%q, %d) visible width = %d, want %d", tc.input, tc.width, visualLen(got), tc.want)
			}
			if !strings.HasPrefix(got, tc.input) {
				t.Errorf("pad(%q) changed the cell text: %q", tc.input, got)
			}
		})
	}
}

func TestTable_CourseListing(t *testing.T) {
	plainOutput(t)

	tbl := NewTable("Course", "Priority", "Lift")
	tbl.AddRow("Foundations of Data Science", "29.4", "+12%")
	tbl.AddRow("Introduction to Statistics", "2.0", "+10%")

	lines := renderLines(tbl)
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header, rule and 2 rows:\n%s", len(lines), tbl.Render())
	}
	for _, h := range []string{"Course", "Priority", "Lift"} {
		if !strings.Contains(lines[0], h) {
			t.Errorf("header line %q missing %q", lines[0], h)
		}
	}
	if strings.Trim(lines[1], "─ ") != "" {
		t.Errorf("rule line contains more than separators: %q", lines[1])
	}
	if visualLen(lines[1]) != visualLen(lines[2]) {
		t.Errorf("rule width %d != row width %d", visualLen(lines[1]), visualLen(lines[2]))
	}
	// The priority column starts at the same offset in every row.
	col := strings.Index(lines[2], "29.4")
	if col < 0 || strings.Index(lines[3], "2.0") != col {
		t.Errorf("priority column misaligned:\n%s\n%s", lines[2], lines[3])
	}
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tbl.Len())
	}
}

func TestTable_AlignsStyledCells(t *testing.T) {
	plainOutput(t)

	tbl := NewTable("Course", "Lift")
	tbl.AddRow("\x1b[1mData\x1b[0m", "+10%")
	tbl.AddRow("Statistics", "+4%")

	lines := renderLines(tbl)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if visualLen(lines[2]) != visualLen(lines[3]) {
		t.Errorf("rows not aligned: %d vs %d", visualLen(lines[2]), visualLen(lines[3]))
	}
}

func TestTable_AddRowNormalizesCellCount(t *testing.T) {
	plainOutput(t)

	tbl := NewTable("#", "Action", "Result")
	tbl.AddRow("1", "navigate")
	tbl.AddRow("2", "accept", "applied", "extra")

	out := tbl.Render()
	if strings.Contains(out, "extra") {
		t.Error("cell beyond the header count was rendered")
	}
	lines := renderLines(tbl)
	if got := len(strings.Fields(lines[2])); got != 2 {
		t.Errorf("short row rendered %d cells, want 2 plus an empty one", got)
	}
}

func TestTable_NoHeaders(t *testing.T) {
	tbl := NewTable()
	tbl.AddRow("ignored")
	if out := tbl.Render(); out != "" {
		t.Errorf("expected empty output for a table without headers, got %q", out)
	}
}

func TestTable_FprintAndString(t *testing.T) {
	plainOutput(t)

	tbl := NewTable("Module", "Suggestions")
	tbl.AddRow("2", "Dialogue")

	var buf bytes.Buffer
	tbl.Fprint(&buf)
	if buf.String() != tbl.Render() {
		t.Errorf("Fprint wrote %q, want Render() output", buf.String())
	}
	if tbl.String() != tbl.Render() {
		t.Error("String() != Render()")
	}
}

func TestSetNoColor_RoundTrip(t *testing.T) {
	SetNoColor(true)
	if strings.Contains(StyleHeader.Render("Courses"), "\x1b[") {
		t.Error("expected no ANSI codes after SetNoColor(true)")
	}
	if !IsNoColor() {
		t.Error("IsNoColor() = false after SetNoColor(true)")
	}

	SetNoColor(false)
	if IsNoColor() {
		t.Error("IsNoColor() = true after SetNoColor(false)")
	}
}
