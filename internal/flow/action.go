package flow

import (
	"fmt"
	"strconv"
)

// Page is a top-level screen.
type Page string

// Pages.
const (
	PageDashboard       Page = "dashboard"
	PageFilteredCourses Page = "filteredCourses"
	PageOptimizeCourse  Page = "optimizeCourse"
)

// ParsePage maps a page name to a Page.
func ParsePage(s string) (Page, error) {
	switch Page(s) {
	case PageDashboard, PageFilteredCourses, PageOptimizeCourse:
		return Page(s), nil
	}
	return "", fmt.Errorf("unknown page %q", s)
}

// Action is one user intent. Every action the controller understands is
// one of the types below.
type Action interface {
	// Name is a stable snake_case identifier used in the journal.
	Name() string
}

// Navigate moves between the dashboard and the filtered course list.
type Navigate struct{ To Page }

// SelectForOptimize opens the strategy approval gate for a course.
type SelectForOptimize struct{ CourseID int }

// ApproveStrategy commits the course held by the approval gate.
type ApproveStrategy struct{}

// CancelStrategy closes the approval gate without selecting anything.
type CancelStrategy struct{}

// Back leaves the current page for its parent.
type Back struct{}

// AcceptSuggestion accepts one suggestion.
type AcceptSuggestion struct{ ID int }

// DismissSuggestion dismisses one suggestion.
type DismissSuggestion struct{ ID int }

// AcceptAll accepts every pending suggestion.
type AcceptAll struct{}

// DismissAll dismisses every undecided suggestion.
type DismissAll struct{}

// RequestLaunch opens the launch confirmation.
type RequestLaunch struct{}

// CancelLaunch closes the launch confirmation.
type CancelLaunch struct{}

// ConfirmLaunch launches the optimized course.
type ConfirmLaunch struct{}

// OpenDraft opens the edit form for a suggestion, or its preview when
// ReadOnly is set.
type OpenDraft struct {
	ID       int
	ReadOnly bool
}

// EditDraft changes one field of the open draft.
type EditDraft struct {
	Field string
	Value string
}

// SaveDraft accepts the drafted suggestion and keeps its edits.
type SaveDraft struct{}

// CloseDraft discards the open draft.
type CloseDraft struct{}

func (Navigate) Name() string          { return "navigate" }
func (SelectForOptimize) Name() string { return "select_for_optimize" }
func (ApproveStrategy) Name() string   { return "approve_strategy" }
func (CancelStrategy) Name() string    { return "cancel_strategy" }
func (Back) Name() string              { return "back" }
func (AcceptSuggestion) Name() string  { return "accept" }
func (DismissSuggestion) Name() string { return "dismiss" }
func (AcceptAll) Name() string         { return "accept_all" }
func (DismissAll) Name() string        { return "dismiss_all" }
func (RequestLaunch) Name() string     { return "request_launch" }
func (CancelLaunch) Name() string      { return "cancel_launch" }
func (ConfirmLaunch) Name() string     { return "confirm_launch" }
func (OpenDraft) Name() string         { return "open_draft" }
func (EditDraft) Name() string         { return "edit_draft" }
func (SaveDraft) Name() string         { return "save_draft" }
func (CloseDraft) Name() string        { return "close_draft" }

// Target returns the object an action refers to, or "" for actions
// without one.
func Target(a Action) string {
	switch a := a.(type) {
	case Navigate:
		return string(a.To)
	case SelectForOptimize:
		return strconv.Itoa(a.CourseID)
	case AcceptSuggestion:
		return strconv.Itoa(a.ID)
	case DismissSuggestion:
		return strconv.Itoa(a.ID)
	case OpenDraft:
		if a.ReadOnly {
			return strconv.Itoa(a.ID) + " (preview)"
		}
		return strconv.Itoa(a.ID)
	case EditDraft:
		return a.Field
	}
	return ""
}
