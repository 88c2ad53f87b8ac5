package app

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/blackwell-systems/coursecoach/internal/catalog"
	"github.com/blackwell-systems/coursecoach/internal/draft"
	"github.com/blackwell-systems/coursecoach/internal/fixture"
	"github.com/blackwell-systems/coursecoach/internal/metrics"
	"github.com/blackwell-systems/coursecoach/internal/outline"
	"github.com/blackwell-systems/coursecoach/internal/output"
	"github.com/blackwell-systems/coursecoach/internal/pedagogy"
	"github.com/blackwell-systems/coursecoach/internal/review"
	"github.com/blackwell-systems/coursecoach/internal/strategy"
)

// courseRow is the JSON shape of a course in the filtered list.
type courseRow struct {
	catalog.Course
	Priority        float64 `json:"priority"`
	PriorityDisplay string  `json:"priorityDisplay"`
	HighImpact      bool    `json:"highImpact"`
}

func toCourseRows(courses []catalog.Course) []courseRow {
	rows := make([]courseRow, len(courses))
	for i, c := range courses {
		score := metrics.PriorityScore(c)
		rows[i] = courseRow{
			Course:          c,
			Priority:        score,
			PriorityDisplay: metrics.FormatPriority(score),
			HighImpact:      metrics.IsHighImpact(score),
		}
	}
	return rows
}

func renderDashboard(w io.Writer, set *fixture.Set) {
	n := len(set.Courses.Filtered)
	fmt.Fprintln(w, output.Section("Dashboard"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, " %s %s\n",
		output.StyleBold.Render(fmt.Sprintf("%d %s ready for optimization.", n, plural(n, "course", "courses"))),
		output.StyleMuted.Render("Run 'coursecoach courses' to review them."))

	fmt.Fprintln(w, output.Section("Recently Visited"))
	fmt.Fprintln(w)
	if len(set.Courses.RecentlyVisited) == 0 {
		fmt.Fprintln(w, output.StyleMuted.Render(" No recent courses."))
	} else {
		tbl := output.NewTable("Course", "Session", "Enrollments", "Status")
		for _, c := range set.Courses.RecentlyVisited {
			tbl.AddRow(c.Title, sessionLabel(c), formatCount(c.Enrollments), output.StyleSuccess.Render(c.Status))
		}
		tbl.Fprint(w)
	}

	fmt.Fprintln(w, output.Section("All Courses"))
	fmt.Fprintln(w)
	tbl := output.NewTable("ID", "Course", "Enrollments", "Associated With", "Status")
	for _, c := range set.Courses.All {
		tbl.AddRow(strconv.Itoa(c.ID), c.Title, formatCount(c.Enrollments), c.AssociatedWith, output.StyleSuccess.Render(c.Status))
	}
	tbl.Fprint(w)
}

func renderCourses(w io.Writer, title string, courses []catalog.Course) {
	fmt.Fprintln(w, output.Section(title))
	fmt.Fprintln(w)
	if len(courses) == 0 {
		fmt.Fprintln(w, output.StyleMuted.Render(" No courses."))
		return
	}

	tbl := output.NewTable("ID", "Course", "Enrollments", "Engagement", "Completion", "Lift", "Priority", "")
	for _, r := range toCourseRows(courses) {
		engagement := "-"
		if r.Engagement != nil {
			engagement = strings.TrimSpace(fmt.Sprintf("%g%% %s", *r.Engagement, output.TrendArrow(r.Trend())))
		}
		completion := "-"
		if r.Completion != nil {
			completion = fmt.Sprintf("%g%%", *r.Completion)
		}
		badge := ""
		if r.HighImpact {
			badge = output.Badge("High impact")
		}
		tbl.AddRow(
			strconv.Itoa(r.ID),
			r.Title,
			formatCount(r.Enrollments),
			engagement,
			completion,
			output.StyleSuccess.Render(fmt.Sprintf("+%g%%", r.Lift())),
			r.PriorityDisplay,
			badge,
		)
	}
	tbl.Fprint(w)

	s := metrics.Summarize(courses)
	fmt.Fprintln(w)
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Courses pending"), output.StyleValue.Render(strconv.Itoa(s.CoursesPending)))
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Average potential lift"), output.StyleValue.Render(fmt.Sprintf("+%d%%", s.AverageLift)))
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Learner reach"), output.StyleValue.Render(fmt.Sprintf("%dK", s.LearnerReachK)))
}

func renderGroups(w io.Writer, groups []review.ModuleGroup, width int) {
	if len(groups) == 0 {
		fmt.Fprintln(w, output.StyleMuted.Render(" No suggestions awaiting review."))
		return
	}
	for _, g := range groups {
		fmt.Fprintf(w, "\n %s\n", output.StyleHeader.Render(fmt.Sprintf("Module %d", g.Module)))
		for _, s := range g.Suggestions {
			renderSuggestion(w, s, width)
		}
	}
}

func renderSuggestion(w io.Writer, s catalog.Suggestion, width int) {
	v := catalog.VisualFor(s.Type)
	status := ""
	if s.Status == catalog.StatusReview {
		status = " " + output.Badge("In review")
	}
	fmt.Fprintf(w, "  #%d %s %s%s\n", s.ID, output.Accent(v.Accent, v.Glyph+" "+v.Label), output.StyleBold.Render(s.Title), status)
	if s.LearningObjective != "" {
		fmt.Fprintf(w, "     %s %s\n", output.StyleMuted.Render("LO:"), s.LearningObjective)
	}
	line := fmt.Sprintf("     %s  %s %s  %s",
		output.StyleSuccess.Render(fmt.Sprintf("+%g%% engagement", s.EngagementLift)),
		output.QualityBar(s.QualityScore, 10),
		catalog.QualityLabel(s.QualityScore),
		confidenceLabel(s.ModelConfidence))
	fmt.Fprintln(w, strings.TrimRight(line, " "))
	if s.Rationale != "" {
		for _, l := range wrapText(s.Rationale, width-5) {
			fmt.Fprintf(w, "     %s\n", output.StyleMuted.Render(l))
		}
	}
}

func confidenceLabel(c *float64) string {
	if c == nil {
		return ""
	}
	return "confidence " + output.Dots(catalog.ConfidenceDots(*c), catalog.ConfidenceDotCount)
}

func renderProgress(w io.Writer, st *review.Store) {
	c := st.Counts()
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Progress"), output.ProgressBar(st.ProgressPercent(), 20))
	fmt.Fprintf(w, " %s %d accepted, %d dismissed, %d pending, %d in review\n",
		output.StyleLabel.Render("Suggestions"), c.Accepted, c.Dismissed, c.Pending, c.Review)
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Accepted lift"),
		output.StyleSuccess.Render(fmt.Sprintf("+%g%%", metrics.AggregateLift(st.Accepted()))))
}

func renderStrategy(w io.Writer, p strategy.Plan, width int) {
	fmt.Fprintln(w, output.Section("Optimization Strategy"))
	for _, it := range p.Items {
		v := catalog.VisualFor(it.Type)
		fmt.Fprintf(w, "\n %s %s %s\n",
			output.StyleHeader.Render(fmt.Sprintf("Module %d", it.Module)),
			output.Accent(v.Accent, v.Glyph+" "+v.Label),
			output.StyleSuccess.Render(fmt.Sprintf("+%g%%", it.Lift)))
		for _, l := range wrapText(it.Rationale, width-3) {
			fmt.Fprintf(w, "   %s\n", l)
		}
		if tip := p.Tooltip(it.Type); tip != "" {
			for _, l := range wrapText(tip, width-3) {
				fmt.Fprintf(w, "   %s\n", output.StyleMuted.Render(l))
			}
		}
		if it.Insights.Title != "" {
			fmt.Fprintf(w, "   %s\n", output.StyleBold.Render(it.Insights.Title))
			for _, pt := range it.Insights.Points {
				fmt.Fprintf(w, "   - %s\n", pt)
			}
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Total predicted lift"),
		output.StyleSuccess.Render(fmt.Sprintf("+%g%%", p.TotalLift())))
}

func renderPedagogy(w io.Writer, r pedagogy.Report) {
	fmt.Fprintln(w, output.Section("Pedagogy Checks"))
	for _, cat := range r.Categories {
		fmt.Fprintf(w, "\n %s\n", output.StyleBold.Render(cat.Name))
		for _, c := range cat.Checks {
			fix := ""
			if c.AIFix {
				fix = " " + output.StyleMuted.Render("(AI fix available)")
			}
			fmt.Fprintf(w, "   %s %s%s\n", checkMarker(c.Status), c.Message, fix)
		}
	}
	t := r.Tally()
	fmt.Fprintf(w, "\n %d passed, %d warning, %d critical\n", t.Passed, t.Warning, t.Critical)
}

func checkMarker(s pedagogy.CheckStatus) string {
	switch s {
	case pedagogy.StatusPassed:
		return output.StyleSuccess.Render("✓")
	case pedagogy.StatusWarning:
		return output.StyleWarning.Render("!")
	default:
		return output.StyleError.Render("✗")
	}
}

func renderOutline(w io.Writer, o outline.Outline) {
	fmt.Fprintln(w, output.Section(o.Title))
	for _, m := range o.Modules {
		fmt.Fprintf(w, "\n %s %s\n",
			output.StyleHeader.Render(fmt.Sprintf("Module %d: %s", m.Number, m.Title)),
			output.StyleMuted.Render(m.Duration))
		for _, b := range m.Blocks {
			switch b.Kind {
			case outline.KindSection:
				fmt.Fprintf(w, "   %s\n", output.StyleBold.Render(b.Title))
				for _, it := range b.Items {
					fmt.Fprintf(w, "     - %s%s\n", it.Title, itemTag(it))
				}
			case outline.KindLesson:
				fmt.Fprintf(w, "   %s\n", b.Title)
			case outline.KindLearningObjectives:
				fmt.Fprintf(w, "   %s\n", output.StyleMuted.Render(b.Title))
			}
		}
	}
}

func itemTag(it outline.Item) string {
	switch {
	case it.IsLaunched:
		return " " + output.StyleSuccess.Render("[new]")
	case it.IsSuggestion:
		return " " + output.Badge("suggested")
	}
	return ""
}

func renderDraft(w io.Writer, d *draft.Draft) {
	mode := "Edit"
	if d.ReadOnly {
		mode = "Preview"
	}
	v := catalog.VisualFor(d.Suggestion.Type)
	fmt.Fprintf(w, "\n %s %s\n", output.StyleHeader.Render(fmt.Sprintf("%s #%d", mode, d.Suggestion.ID)),
		output.Accent(v.Accent, v.Glyph+" "+v.Label))
	tbl := output.NewTable("Field", "Value")
	fields := d.Fields()
	for _, name := range d.FieldNames() {
		tbl.AddRow(name, strings.ReplaceAll(fields[name], "\n", " / "))
	}
	tbl.Fprint(w)
}

// formatEdits lists saved draft fields as name=value, sorted by name.
func formatEdits(e map[string]string) string {
	parts := make([]string, 0, len(e))
	for _, name := range slices.Sorted(maps.Keys(e)) {
		parts = append(parts, name+"="+strings.ReplaceAll(e[name], "\n", " / "))
	}
	return strings.Join(parts, ", ")
}

func sessionLabel(c catalog.Course) string {
	if c.SessionDate == "" {
		return c.Session
	}
	return c.Session + " (" + c.SessionDate + ")"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// formatCount renders n with thousands separators.
func formatCount(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return "-" + formatCount(-n)
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

// wrapText splits text into lines no wider than maxWidth, breaking on
// spaces.
func wrapText(text string, maxWidth int) []string {
	if maxWidth < 20 {
		maxWidth = 20
	}
	if len(text) <= maxWidth {
		return []string{text}
	}

	var lines []string
	current := ""
	for _, word := range strings.Fields(text) {
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= maxWidth:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
