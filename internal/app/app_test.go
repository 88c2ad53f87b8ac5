package app

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blackwell-systems/coursecoach/internal/output"
)

// execute runs the root command with args against an absent config file
// and returns what it printed.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	flagNoColor, flagJSON, flagVerbose, flagFixtures = false, false, false, ""
	coursesFlagAll, coursesFlagSort, coursesFlagJSON = false, "fixture", false
	suggestionsFlagJSON = false
	sessionFlagScript = ""
	t.Cleanup(func() { output.SetNoColor(false) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "config.yaml")))
	err := rootCmd.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := execute(t, stdin, args...)
	if err != nil {
		t.Fatalf("coursecoach %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestDashboard(t *testing.T) {
	out := mustExecute(t, "")
	wantContains(t, out,
		"3 courses ready for optimization.",
		"Recently Visited",
		"Machine Learning Specialization",
		"Python for Everybody",
		"245,000",
	)
}

func TestDashboard_JSON(t *testing.T) {
	out := mustExecute(t, "", "--json")

	var got dashboardJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got.ReadyCount != 3 {
		t.Errorf("ready_count = %d, want 3", got.ReadyCount)
	}
	if len(got.All) != 6 {
		t.Errorf("all courses = %d, want 6", len(got.All))
	}
	if got.Summary.AverageLift != 10 || got.Summary.LearnerReachK != 364 {
		t.Errorf("summary = %+v, want average lift 10 and reach 364K", got.Summary)
	}
}

func TestCourses(t *testing.T) {
	out := mustExecute(t, "", "courses")

	wantContains(t, out,
		"Courses Ready for Optimization",
		"29.4",
		"2.0",
		"▼ (-3%)",
		"+10%",
		"364K",
	)
	if n := strings.Count(out, "[High impact]"); n != 1 {
		t.Errorf("high impact badges = %d, want 1", n)
	}
	if strings.Contains(out, "Python for Everybody") {
		t.Error("unfiltered course in the filtered list")
	}
}

func TestCourses_AllSortedByPriority(t *testing.T) {
	out := mustExecute(t, "", "courses", "--all", "--sort", "priority")
	wantContains(t, out, "All Courses", "Python for Everybody")
	if strings.Index(out, "Foundations of Data Science") > strings.Index(out, "Introduction to Statistics") {
		t.Error("courses not sorted by priority")
	}
}

func TestCourses_JSON(t *testing.T) {
	out := mustExecute(t, "", "courses", "--json")

	var rows []courseRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if !rows[0].HighImpact || rows[0].PriorityDisplay != "29.4" {
		t.Errorf("row 0 = high %v display %q, want high impact 29.4", rows[0].HighImpact, rows[0].PriorityDisplay)
	}
	if rows[2].HighImpact || rows[2].Priority != 200000 {
		t.Errorf("row 2 = high %v priority %v, want 200000", rows[2].HighImpact, rows[2].Priority)
	}
}

func TestCourses_BadSort(t *testing.T) {
	_, err := execute(t, "", "courses", "--sort", "name")
	if err == nil || !strings.Contains(err.Error(), "invalid --sort") {
		t.Errorf("err = %v, want invalid --sort", err)
	}
}

func TestSuggestions(t *testing.T) {
	out := mustExecute(t, "", "suggestions")
	wantContains(t, out,
		"Module 1", "Module 2", "Module 3", "Module 4",
		"[In review]",
		"Needs Improvement",
		"+25%",
	)
}

func TestSuggestions_JSON(t *testing.T) {
	out := mustExecute(t, "", "--json", "suggestions")

	var got suggestionsJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(got.Modules) != 4 {
		t.Errorf("modules = %d, want 4", len(got.Modules))
	}
	if got.Counts.Total != 5 || got.Counts.Review != 1 {
		t.Errorf("counts = %+v, want 5 total and 1 in review", got.Counts)
	}
	if got.AggregateLift != 25 {
		t.Errorf("aggregate lift = %v, want 25", got.AggregateLift)
	}
}

func TestStrategy(t *testing.T) {
	out := mustExecute(t, "", "strategy")
	wantContains(t, out,
		"Optimization Strategy",
		"+18%",
		"Pedagogy Checks",
		"3 passed, 2 warning, 0 critical",
	)
}

func TestSession_ReadsStdin(t *testing.T) {
	out := mustExecute(t, "courses\noptimize 2\napprove\nstatus\nquit\n", "session")
	wantContains(t, out, "Optimizing Business Analytics with Excel.", "optimizeCourse")
}

func TestFixturesDirMissing(t *testing.T) {
	_, err := execute(t, "", "courses", "--fixtures", filepath.Join(t.TempDir(), "missing"))
	if err == nil || !strings.Contains(err.Error(), "loading fixtures") {
		t.Errorf("err = %v, want a fixtures loading error", err)
	}
}
