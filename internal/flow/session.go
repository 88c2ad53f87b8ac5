package flow

import (
	"go.uber.org/zap"

	"github.com/blackwell-systems/coursecoach/internal/catalog"
	"github.com/blackwell-systems/coursecoach/internal/draft"
	"github.com/blackwell-systems/coursecoach/internal/outline"
	"github.com/blackwell-systems/coursecoach/internal/review"
)

// Session is the state of the optimize screen for one course. It is
// created when the strategy is approved and discarded on Back.
type Session struct {
	Course catalog.Course
	Store  *review.Store

	outline     outline.Outline
	launched    bool
	confirmOpen bool
	draft       *draft.Draft
	edits       map[int]map[string]string
}

func newSession(c catalog.Course, seed []catalog.Suggestion, o outline.Outline, onAccepted review.AcceptedObserver, log *zap.Logger) *Session {
	return &Session{
		Course: c,
		Store: review.New(seed,
			review.WithAcceptedObserver(onAccepted),
			review.WithLogger(log.Named("review")),
		),
		outline: o.Clone(),
		edits:   make(map[int]map[string]string),
	}
}

// Outline returns the course outline, including the launched content once
// the course has been launched.
func (s *Session) Outline() outline.Outline {
	return s.outline
}

// Launched reports whether the course has been launched.
func (s *Session) Launched() bool {
	return s.launched
}

// ConfirmOpen reports whether the launch confirmation is showing.
func (s *Session) ConfirmOpen() bool {
	return s.confirmOpen
}

// CanLaunch reports whether a launch may be requested: every suggestion is
// decided and the course is not launched yet.
func (s *Session) CanLaunch() bool {
	return !s.launched && s.Store.AllHandled()
}

// Draft returns the open draft, or nil.
func (s *Session) Draft() *draft.Draft {
	return s.draft
}

// Edits returns the fields changed in the draft a suggestion was saved
// from, if any.
func (s *Session) Edits(id int) (map[string]string, bool) {
	e, ok := s.edits[id]
	return e, ok
}

// EditedCount returns how many suggestions were saved with edits.
func (s *Session) EditedCount() int {
	return len(s.edits)
}
