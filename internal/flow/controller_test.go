package flow

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"testing"

	"github.com/blackwell-systems/coursecoach/internal/catalog"
	"github.com/blackwell-systems/coursecoach/internal/draft"
	"github.com/blackwell-systems/coursecoach/internal/fixture"
	"github.com/blackwell-systems/coursecoach/internal/outline"
)

type recorder struct {
	accepted  []int
	requested []int
	launched  []int
}

func (r *recorder) hooks() Hooks {
	return Hooks{
		ItemsAccepted:   func(n int) { r.accepted = append(r.accepted, n) },
		LaunchRequested: func(c catalog.Course) { r.requested = append(r.requested, c.ID) },
		Launched:        func(c catalog.Course) { r.launched = append(r.launched, c.ID) },
	}
}

func newController(t *testing.T) (*Controller, *recorder) {
	t.Helper()
	set, err := fixture.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("fixture.Load() = %v", err)
	}
	rec := &recorder{}
	return New(set, rec.hooks(), nil), rec
}

// applied dispatches a and fails the test unless it changed state.
func applied(t *testing.T, c *Controller, a Action) {
	t.Helper()
	if out := c.Dispatch(a); !out.Changed {
		t.Fatalf("%s was ignored (err %v)", a.Name(), out.Err)
	}
}

// ignored dispatches a and reports an error if it changed state.
func ignored(t *testing.T, c *Controller, a Action) {
	t.Helper()
	if c.Dispatch(a).Changed {
		t.Errorf("%s %s changed state, want ignored", a.Name(), Target(a))
	}
}

func wantPage(t *testing.T, c *Controller, want Page) {
	t.Helper()
	if got := c.Page(); got != want {
		t.Errorf("Page() = %s, want %s", got, want)
	}
}

func wantNoSelection(t *testing.T, c *Controller) {
	t.Helper()
	if sel, ok := c.Selected(); ok {
		t.Errorf("Selected() = %d, want none", sel.ID)
	}
}

// optimize walks the controller to the optimize page for course id.
func optimize(t *testing.T, c *Controller, id int) *Session {
	t.Helper()
	applied(t, c, Navigate{To: PageFilteredCourses})
	applied(t, c, SelectForOptimize{CourseID: id})
	applied(t, c, ApproveStrategy{})
	if c.Page() != PageOptimizeCourse || c.Session() == nil {
		t.Fatalf("not optimizing after approval: page %s", c.Page())
	}
	return c.Session()
}

func countLaunched(o outline.Outline) int {
	n := 0
	for _, m := range o.Modules {
		for _, b := range m.Blocks {
			for _, it := range b.Items {
				if it.IsLaunched {
					n++
				}
			}
		}
	}
	return n
}

func TestNavigationScenario(t *testing.T) {
	c, _ := newController(t)
	wantPage(t, c, PageDashboard)

	applied(t, c, Navigate{To: PageFilteredCourses})
	wantPage(t, c, PageFilteredCourses)

	// Selecting opens the gate without navigating.
	applied(t, c, SelectForOptimize{CourseID: 3})
	wantPage(t, c, PageFilteredCourses)
	if pending, ok := c.PendingApproval(); !ok || pending.ID != 3 {
		t.Errorf("PendingApproval() = %d, %v, want course 3", pending.ID, ok)
	}
	wantNoSelection(t, c)

	applied(t, c, CancelStrategy{})
	wantPage(t, c, PageFilteredCourses)
	wantNoSelection(t, c)
	if _, ok := c.PendingApproval(); ok {
		t.Error("approval still pending after cancel")
	}
	if c.Session() != nil {
		t.Error("session mounted after cancel")
	}

	applied(t, c, SelectForOptimize{CourseID: 3})
	applied(t, c, ApproveStrategy{})
	wantPage(t, c, PageOptimizeCourse)
	if sel, ok := c.Selected(); !ok || sel.ID != 3 {
		t.Errorf("Selected() = %d, %v, want course 3", sel.ID, ok)
	}
	if s := c.Session(); s == nil || s.Course.ID != 3 {
		t.Error("session not mounted for course 3")
	}
}

func TestPage_FallsBackWithoutSelection(t *testing.T) {
	c, _ := newController(t)
	c.page = PageOptimizeCourse
	wantPage(t, c, PageDashboard)
	ignored(t, c, AcceptAll{})
}

func TestApprovalGateIsModal(t *testing.T) {
	c, _ := newController(t)
	applied(t, c, Navigate{To: PageFilteredCourses})
	applied(t, c, SelectForOptimize{CourseID: 1})

	ignored(t, c, Back{})
	ignored(t, c, Navigate{To: PageDashboard})
	ignored(t, c, SelectForOptimize{CourseID: 2})
	if pending, _ := c.PendingApproval(); pending.ID != 1 {
		t.Errorf("pending course = %d, want 1", pending.ID)
	}
}

func TestSelectForOptimize_Ignored(t *testing.T) {
	c, _ := newController(t)
	ignored(t, c, SelectForOptimize{CourseID: 1}) // not on the filtered list

	applied(t, c, Navigate{To: PageFilteredCourses})
	ignored(t, c, SelectForOptimize{CourseID: 999})
	ignored(t, c, ApproveStrategy{})
	ignored(t, c, CancelStrategy{})
}

func TestNavigate(t *testing.T) {
	c, _ := newController(t)
	ignored(t, c, Navigate{To: PageDashboard})
	ignored(t, c, Navigate{To: PageOptimizeCourse})
	applied(t, c, Navigate{To: PageFilteredCourses})
	applied(t, c, Navigate{To: PageDashboard})
}

func TestBack(t *testing.T) {
	c, _ := newController(t)
	ignored(t, c, Back{})

	optimize(t, c, 1)
	applied(t, c, Back{})
	wantPage(t, c, PageFilteredCourses)
	wantNoSelection(t, c)
	if c.Session() != nil {
		t.Error("session still mounted after back")
	}

	applied(t, c, Back{})
	wantPage(t, c, PageDashboard)
}

func TestNavigateIgnoredWhileOptimizing(t *testing.T) {
	c, _ := newController(t)
	s := optimize(t, c, 1)
	applied(t, c, AcceptSuggestion{ID: 1})

	ignored(t, c, Navigate{To: PageDashboard})
	ignored(t, c, Navigate{To: PageFilteredCourses})
	wantPage(t, c, PageOptimizeCourse)
	if c.Session() != s {
		t.Fatal("session replaced by navigate")
	}
	if got := s.Store.Counts().Accepted; got != 1 {
		t.Errorf("accepted = %d, review progress lost", got)
	}
}

func TestSessionIsFreshOnEachApproval(t *testing.T) {
	c, _ := newController(t)
	s := optimize(t, c, 1)
	applied(t, c, AcceptAll{})
	if s.Store.Counts().Accepted == 0 {
		t.Fatal("nothing accepted")
	}

	applied(t, c, Back{})
	applied(t, c, Navigate{To: PageDashboard})
	s = optimize(t, c, 1)
	if got := s.Store.Counts().Accepted; got != 0 {
		t.Errorf("new session starts with %d accepted, want 0", got)
	}
}

func TestSuggestionActionsNeedSession(t *testing.T) {
	c, rec := newController(t)
	for _, a := range []Action{
		AcceptSuggestion{ID: 1}, DismissSuggestion{ID: 1}, AcceptAll{}, DismissAll{},
		RequestLaunch{}, ConfirmLaunch{}, OpenDraft{ID: 1}, SaveDraft{},
	} {
		ignored(t, c, a)
	}
	if len(rec.accepted) != 0 {
		t.Errorf("ItemsAccepted fired %v without a session", rec.accepted)
	}
}

func TestItemsAcceptedHook(t *testing.T) {
	c, rec := newController(t)
	optimize(t, c, 1)

	applied(t, c, AcceptSuggestion{ID: 1})
	ignored(t, c, AcceptSuggestion{ID: 1})
	ignored(t, c, AcceptSuggestion{ID: 404})
	applied(t, c, AcceptAll{})
	ignored(t, c, AcceptAll{})
	applied(t, c, DismissSuggestion{ID: 2})

	if want := []int{1, 3}; !slices.Equal(rec.accepted, want) {
		t.Errorf("ItemsAccepted calls = %v, want %v", rec.accepted, want)
	}
}

func TestLaunchScenario(t *testing.T) {
	c, rec := newController(t)
	s := optimize(t, c, 1)
	sourceLaunched := countLaunched(c.Fixtures().Outline)
	wantLaunched := sourceLaunched + len(outline.LaunchedItems())

	ignored(t, c, RequestLaunch{}) // suggestions still undecided
	ignored(t, c, ConfirmLaunch{}) // confirmation not open

	applied(t, c, AcceptAll{})
	applied(t, c, DismissAll{})
	if !s.Store.AllHandled() || s.Launched() {
		t.Fatal("expected every suggestion handled and nothing launched")
	}
	before := s.Store.Suggestions()

	applied(t, c, RequestLaunch{})
	if !s.ConfirmOpen() {
		t.Error("confirmation not open after request")
	}
	if !slices.Equal(rec.requested, []int{1}) {
		t.Errorf("LaunchRequested calls = %v, want [1]", rec.requested)
	}

	applied(t, c, CancelLaunch{})
	if s.ConfirmOpen() || s.Launched() {
		t.Error("cancel left the confirmation open or launched")
	}

	applied(t, c, RequestLaunch{})
	applied(t, c, ConfirmLaunch{})
	if !s.Launched() || s.ConfirmOpen() || !s.Store.Sealed() {
		t.Errorf("after confirm: launched=%v confirmOpen=%v sealed=%v", s.Launched(), s.ConfirmOpen(), s.Store.Sealed())
	}
	if !slices.Equal(rec.launched, []int{1}) {
		t.Errorf("Launched calls = %v, want [1]", rec.launched)
	}
	if got := countLaunched(s.Outline()); got != wantLaunched {
		t.Errorf("launched items = %d, want %d", got, wantLaunched)
	}
	if len(s.Outline().Suggested()) != 0 {
		t.Error("suggested sections remain after launch")
	}

	// Repeating the launch changes nothing.
	ignored(t, c, RequestLaunch{})
	ignored(t, c, ConfirmLaunch{})
	if !slices.Equal(rec.launched, []int{1}) {
		t.Errorf("Launched calls = %v after repeat, want [1]", rec.launched)
	}
	if got := countLaunched(s.Outline()); got != wantLaunched {
		t.Errorf("launched items = %d after repeat, want %d", got, wantLaunched)
	}
	if !reflect.DeepEqual(before, s.Store.Suggestions()) {
		t.Error("suggestions changed by launch")
	}

	// The fixture outline is untouched.
	if got := countLaunched(c.Fixtures().Outline); got != sourceLaunched {
		t.Errorf("fixture outline has %d launched items, want %d", got, sourceLaunched)
	}
	if len(c.Fixtures().Outline.Suggested()) == 0 {
		t.Error("fixture outline lost its suggested sections")
	}
}

func TestDraft_PreviewRejectsEdits(t *testing.T) {
	c, _ := newController(t)
	s := optimize(t, c, 1)

	applied(t, c, OpenDraft{ID: 3, ReadOnly: true})
	if s.Draft() == nil {
		t.Fatal("no draft open")
	}

	if out := c.Dispatch(EditDraft{Field: draft.FieldTitle, Value: "New"}); !errors.Is(out.Err, draft.ErrReadOnly) {
		t.Errorf("edit in preview err = %v, want ErrReadOnly", out.Err)
	}
	if out := c.Dispatch(SaveDraft{}); !errors.Is(out.Err, draft.ErrReadOnly) {
		t.Errorf("save in preview err = %v, want ErrReadOnly", out.Err)
	}

	applied(t, c, CloseDraft{})
	if s.Draft() != nil {
		t.Error("draft still open after close")
	}
	if sg, _ := s.Store.Get(3); sg.Status != catalog.StatusPending {
		t.Errorf("status = %q, preview must not decide", sg.Status)
	}
}

func TestDraft_SaveAcceptsWithEdits(t *testing.T) {
	c, rec := newController(t)
	s := optimize(t, c, 1)

	applied(t, c, OpenDraft{ID: 3})
	ignored(t, c, OpenDraft{ID: 4}) // one draft at a time

	applied(t, c, EditDraft{Field: draft.FieldTone, Value: "Instructional"})
	ignored(t, c, EditDraft{Field: draft.FieldTone, Value: "Instructional"})
	if out := c.Dispatch(EditDraft{Field: "scenario", Value: "x"}); !errors.Is(out.Err, draft.ErrUnknownField) {
		t.Errorf("unknown field err = %v, want ErrUnknownField", out.Err)
	}

	applied(t, c, SaveDraft{})
	if s.Draft() != nil {
		t.Error("draft still open after save")
	}
	if sg, _ := s.Store.Get(3); sg.Status != catalog.StatusAccepted {
		t.Errorf("status = %q, want accepted", sg.Status)
	}
	if !slices.Equal(rec.accepted, []int{1}) {
		t.Errorf("ItemsAccepted calls = %v, want [1]", rec.accepted)
	}

	edits, ok := s.Edits(3)
	if !ok {
		t.Fatal("no edits recorded for suggestion 3")
	}
	if len(edits) != 1 || edits[draft.FieldTone] != "Instructional" {
		t.Errorf("Edits(3) = %v, want only tone", edits)
	}
	if s.EditedCount() != 1 {
		t.Errorf("EditedCount() = %d, want 1", s.EditedCount())
	}
}

func TestDraft_SaveWithoutChangesRecordsNoEdits(t *testing.T) {
	c, _ := newController(t)
	s := optimize(t, c, 1)

	applied(t, c, OpenDraft{ID: 3})
	applied(t, c, SaveDraft{})
	if _, ok := s.Edits(3); ok {
		t.Error("edits recorded for an unchanged draft")
	}
	if s.EditedCount() != 0 {
		t.Errorf("EditedCount() = %d, want 0", s.EditedCount())
	}
}

func TestDraft_CloseDiscardsEdits(t *testing.T) {
	c, rec := newController(t)
	s := optimize(t, c, 1)

	applied(t, c, OpenDraft{ID: 4})
	applied(t, c, EditDraft{Field: draft.FieldTitle, Value: "Changed"})
	applied(t, c, CloseDraft{})
	ignored(t, c, CloseDraft{})

	sg, _ := s.Store.Get(4)
	if sg.Status != catalog.StatusPending || sg.Title == "Changed" {
		t.Errorf("suggestion 4 = %q %q, want pending and unchanged", sg.Status, sg.Title)
	}
	if _, ok := s.Edits(4); ok {
		t.Error("edits recorded for a closed draft")
	}
	if len(rec.accepted) != 0 {
		t.Errorf("ItemsAccepted fired %v", rec.accepted)
	}
}

func TestDraft_DecidedSuggestionCannotOpen(t *testing.T) {
	c, _ := newController(t)
	optimize(t, c, 1)
	applied(t, c, DismissSuggestion{ID: 5})
	ignored(t, c, OpenDraft{ID: 5})
	ignored(t, c, OpenDraft{ID: 404, ReadOnly: true})
}

func TestNameAndTarget(t *testing.T) {
	tests := []struct {
		action Action
		name   string
		target string
	}{
		{Navigate{To: PageFilteredCourses}, "navigate", "filteredCourses"},
		{SelectForOptimize{CourseID: 2}, "select_for_optimize", "2"},
		{AcceptSuggestion{ID: 4}, "accept", "4"},
		{OpenDraft{ID: 3, ReadOnly: true}, "open_draft", "3 (preview)"},
		{EditDraft{Field: "tone", Value: "x"}, "edit_draft", "tone"},
		{ConfirmLaunch{}, "confirm_launch", ""},
	}
	for _, tc := range tests {
		if got := tc.action.Name(); got != tc.name {
			t.Errorf("Name() = %q, want %q", got, tc.name)
		}
		if got := Target(tc.action); got != tc.target {
			t.Errorf("Target(%s) = %q, want %q", tc.name, got, tc.target)
		}
	}
}

func TestParsePage(t *testing.T) {
	p, err := ParsePage("filteredCourses")
	if err != nil || p != PageFilteredCourses {
		t.Errorf("ParsePage(filteredCourses) = %s, %v", p, err)
	}
	if _, err := ParsePage("settings"); err == nil {
		t.Error("expected error for an unknown page")
	}
}
