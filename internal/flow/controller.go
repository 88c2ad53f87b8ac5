// Package flow drives the page-level navigation of the course review and
// the optimize session mounted behind the strategy approval gate.
//
// All state changes go through Controller.Dispatch, which applies one
// action synchronously. A Controller is not safe for concurrent use.
package flow

import (
	"go.uber.org/zap"

	"github.com/blackwell-systems/coursecoach/internal/catalog"
	"github.com/blackwell-systems/coursecoach/internal/fixture"
	"github.com/blackwell-systems/coursecoach/internal/logging"
	"github.com/blackwell-systems/coursecoach/internal/outline"
)

// Hooks are the notifications the controller emits to its presentation
// layer. Nil hooks are skipped.
type Hooks struct {
	// ItemsAccepted receives the number of suggestions accepted by one
	// action.
	ItemsAccepted func(count int)
	// LaunchRequested fires when the launch confirmation opens.
	LaunchRequested func(course catalog.Course)
	// Launched fires once, when the launch is confirmed.
	Launched func(course catalog.Course)
}

// Outcome reports the effect of a dispatched action.
type Outcome struct {
	// Changed is false when the action was ignored.
	Changed bool
	// Err is set when a draft edit was rejected.
	Err error
}

// Controller owns the navigation state and the mounted optimize session.
type Controller struct {
	set   *fixture.Set
	hooks Hooks
	log   *zap.Logger

	page     Page
	selected *catalog.Course
	gate     *catalog.Course // course awaiting strategy approval
	session  *Session
}

// New creates a controller at the dashboard.
func New(set *fixture.Set, hooks Hooks, log *zap.Logger) *Controller {
	log = logging.OrNop(log)
	return &Controller{set: set, hooks: hooks, log: log, page: PageDashboard}
}

// Page returns the page to show. The optimize page is only reported with a
// selected course; otherwise the dashboard is shown.
func (c *Controller) Page() Page {
	if c.page == PageOptimizeCourse && (c.selected == nil || c.session == nil) {
		return PageDashboard
	}
	return c.page
}

// Selected returns the course being optimized.
func (c *Controller) Selected() (catalog.Course, bool) {
	if c.selected == nil {
		return catalog.Course{}, false
	}
	return *c.selected, true
}

// PendingApproval returns the course held by the open approval gate.
func (c *Controller) PendingApproval() (catalog.Course, bool) {
	if c.gate == nil {
		return catalog.Course{}, false
	}
	return *c.gate, true
}

// Session returns the mounted optimize session, or nil.
func (c *Controller) Session() *Session {
	return c.session
}

// Fixtures returns the seed data the controller was built from.
func (c *Controller) Fixtures() *fixture.Set {
	return c.set
}

// Dispatch applies a single action.
func (c *Controller) Dispatch(a Action) Outcome {
	// The approval gate is modal.
	if c.gate != nil {
		switch a.(type) {
		case ApproveStrategy, CancelStrategy:
		default:
			return c.ignore(a, "approval gate open")
		}
	}

	switch a := a.(type) {
	case Navigate:
		return c.navigate(a)
	case SelectForOptimize:
		return c.selectForOptimize(a)
	case ApproveStrategy:
		return c.approve(a)
	case CancelStrategy:
		if c.gate == nil {
			return c.ignore(a, "no approval pending")
		}
		c.gate = nil
		return changed()
	case Back:
		return c.back(a)
	case AcceptSuggestion, DismissSuggestion, AcceptAll, DismissAll,
		RequestLaunch, CancelLaunch, ConfirmLaunch,
		OpenDraft, EditDraft, SaveDraft, CloseDraft:
		if c.session == nil || c.Page() != PageOptimizeCourse {
			return c.ignore(a, "no course being optimized")
		}
		return c.dispatchSession(a)
	}
	return c.ignore(a, "unknown action")
}

func (c *Controller) navigate(a Navigate) Outcome {
	if a.To != PageDashboard && a.To != PageFilteredCourses {
		return c.ignore(a, "not a navigable page")
	}
	if c.Page() == a.To {
		return c.ignore(a, "already there")
	}
	if c.Page() == PageOptimizeCourse {
		return c.ignore(a, "leave the optimize page with back")
	}
	c.page = a.To
	return changed()
}

func (c *Controller) selectForOptimize(a SelectForOptimize) Outcome {
	if c.Page() != PageFilteredCourses {
		return c.ignore(a, "courses are selected from the filtered list")
	}
	course, ok := c.set.Course(a.CourseID)
	if !ok {
		return c.ignore(a, "unknown course")
	}
	c.gate = &course
	return changed()
}

func (c *Controller) approve(a ApproveStrategy) Outcome {
	if c.gate == nil {
		return c.ignore(a, "no approval pending")
	}
	course := *c.gate
	c.gate = nil
	c.selected = &course
	c.session = newSession(course, c.set.SuggestionsFor(course), c.set.Outline, c.onAccepted, c.log)
	c.page = PageOptimizeCourse
	c.log.Debug("optimize session mounted", zap.Int("course", course.ID))
	return changed()
}

func (c *Controller) back(a Back) Outcome {
	switch c.Page() {
	case PageOptimizeCourse:
		c.unmount()
		c.page = PageFilteredCourses
		return changed()
	case PageFilteredCourses:
		c.page = PageDashboard
		return changed()
	}
	return c.ignore(a, "nothing to go back to")
}

func (c *Controller) unmount() {
	c.selected = nil
	c.session = nil
}

func (c *Controller) onAccepted(n int) {
	if c.hooks.ItemsAccepted != nil {
		c.hooks.ItemsAccepted(n)
	}
}

func (c *Controller) dispatchSession(a Action) Outcome {
	s := c.session
	switch a := a.(type) {
	case AcceptSuggestion:
		return result(s.Store.Accept(a.ID))
	case DismissSuggestion:
		return result(s.Store.Dismiss(a.ID))
	case AcceptAll:
		return result(s.Store.AcceptAll() > 0)
	case DismissAll:
		return result(s.Store.DismissAll() > 0)

	case RequestLaunch:
		if !s.CanLaunch() || s.confirmOpen {
			return c.ignore(a, "launch not available")
		}
		s.confirmOpen = true
		if c.hooks.LaunchRequested != nil {
			c.hooks.LaunchRequested(s.Course)
		}
		return changed()
	case CancelLaunch:
		if !s.confirmOpen {
			return c.ignore(a, "confirmation not open")
		}
		s.confirmOpen = false
		return changed()
	case ConfirmLaunch:
		if !s.confirmOpen || s.launched {
			return c.ignore(a, "confirmation not open")
		}
		s.confirmOpen = false
		s.launched = true
		s.outline = outline.ApplyLaunch(s.outline)
		s.Store.Seal()
		c.log.Debug("course launched", zap.Int("course", s.Course.ID))
		if c.hooks.Launched != nil {
			c.hooks.Launched(s.Course)
		}
		return changed()

	case OpenDraft:
		return c.openDraft(a)
	case EditDraft:
		if s.draft == nil {
			return c.ignore(a, "no draft open")
		}
		prev, _ := s.draft.Get(a.Field)
		if err := s.draft.Set(a.Field, a.Value); err != nil {
			return Outcome{Err: err}
		}
		return result(prev != a.Value)
	case SaveDraft:
		return c.saveDraft(a)
	case CloseDraft:
		if s.draft == nil {
			return c.ignore(a, "no draft open")
		}
		s.draft = nil
		return changed()
	}
	return c.ignore(a, "unknown action")
}
