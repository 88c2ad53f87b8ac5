// Package review holds the suggestion lifecycle for the course being
// optimized. Suggestions move from pending or review to accepted or
// dismissed and never back; nothing is ever removed from the collection.
//
// A Store is owned by a single caller and is not safe for concurrent use.
package review

import (
	"go.uber.org/zap"

	"github.com/blackwell-systems/coursecoach/internal/catalog"
	"github.com/blackwell-systems/coursecoach/internal/metrics"
)

// AcceptedObserver receives the number of suggestions accepted by a single
// operation.
type AcceptedObserver func(count int)

// Store owns the suggestions for one course.
type Store struct {
	suggestions []catalog.Suggestion
	index       map[int]int // suggestion id -> position
	total       int
	sealed      bool

	onAccepted AcceptedObserver
	log        *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithAcceptedObserver registers fn to be told how many items each accept
// operation transitioned.
func WithAcceptedObserver(fn AcceptedObserver) Option {
	return func(s *Store) { s.onAccepted = fn }
}

// WithLogger sets the logger used for transition and ignored-operation
// events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a store seeded with a copy of seed. Seed records without a
// status start as pending.
func New(seed []catalog.Suggestion, opts ...Option) *Store {
	s := &Store{
		suggestions: make([]catalog.Suggestion, len(seed)),
		index:       make(map[int]int, len(seed)),
		total:       len(seed),
		log:         zap.NewNop(),
	}
	for i, sg := range seed {
		s.suggestions[i] = sg.Normalize()
		if _, dup := s.index[sg.ID]; !dup {
			s.index[sg.ID] = i
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Accept marks an undecided suggestion accepted and notifies the observer
// with a count of 1. Unknown or already decided ids are ignored.
func (s *Store) Accept(id int) bool {
	if !s.transition(id, catalog.StatusAccepted, "accept") {
		return false
	}
	s.notifyAccepted(1)
	return true
}

// Dismiss marks an undecided suggestion dismissed. Unknown or already
// decided ids are ignored.
func (s *Store) Dismiss(id int) bool {
	return s.transition(id, catalog.StatusDismissed, "dismiss")
}

// AcceptAll accepts every pending suggestion (suggestions in review are
// left alone) and reports the total to the observer once. It returns the
// number accepted; the observer is not called when that is 0.
func (s *Store) AcceptAll() int {
	if s.ignoreIfSealed("accept_all", 0) {
		return 0
	}
	n := 0
	for i := range s.suggestions {
		if s.suggestions[i].Status == catalog.StatusPending {
			s.suggestions[i].Status = catalog.StatusAccepted
			n++
		}
	}
	s.log.Debug("accept all", zap.Int("accepted", n))
	if n > 0 {
		s.notifyAccepted(n)
	}
	return n
}

// DismissAll dismisses every pending or review suggestion and returns the
// number dismissed.
func (s *Store) DismissAll() int {
	if s.ignoreIfSealed("dismiss_all", 0) {
		return 0
	}
	n := 0
	for i := range s.suggestions {
		if s.suggestions[i].Status.Active() {
			s.suggestions[i].Status = catalog.StatusDismissed
			n++
		}
	}
	s.log.Debug("dismiss all", zap.Int("dismissed", n))
	return n
}

// Seal freezes the store; every later mutation is ignored. It is called
// once the course has been launched.
func (s *Store) Seal() {
	s.sealed = true
}

// Sealed reports whether Seal has been called.
func (s *Store) Sealed() bool {
	return s.sealed
}

func (s *Store) transition(id int, to catalog.Status, op string) bool {
	if s.ignoreIfSealed(op, id) {
		return false
	}
	i, ok := s.index[id]
	if !ok {
		s.log.Debug("ignored: unknown suggestion", zap.String("op", op), zap.Int("id", id))
		return false
	}
	from := s.suggestions[i].Status
	if !from.Active() {
		s.log.Debug("ignored: suggestion already decided",
			zap.String("op", op), zap.Int("id", id), zap.String("status", string(from)))
		return false
	}
	s.suggestions[i].Status = to
	s.log.Debug("suggestion transition",
		zap.Int("id", id), zap.String("from", string(from)), zap.String("to", string(to)))
	return true
}

func (s *Store) ignoreIfSealed(op string, id int) bool {
	if !s.sealed {
		return false
	}
	s.log.Debug("ignored: store sealed after launch", zap.String("op", op), zap.Int("id", id))
	return true
}

func (s *Store) notifyAccepted(n int) {
	if s.onAccepted != nil {
		s.onAccepted(n)
	}
}

// Counts tallies suggestions by status.
type Counts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Review    int `json:"review"`
	Accepted  int `json:"accepted"`
	Dismissed int `json:"dismissed"`
}

// Counts returns the current status tally. Total is the seeded count.
func (s *Store) Counts() Counts {
	c := Counts{Total: s.total}
	for _, sg := range s.suggestions {
		switch sg.Status {
		case catalog.StatusPending:
			c.Pending++
		case catalog.StatusReview:
			c.Review++
		case catalog.StatusAccepted:
			c.Accepted++
		case catalog.StatusDismissed:
			c.Dismissed++
		}
	}
	return c
}

// AllHandled reports whether every seeded suggestion has been accepted or
// dismissed.
func (s *Store) AllHandled() bool {
	c := s.Counts()
	return c.Accepted+c.Dismissed == s.total
}

// ProgressPercent is accepted/total × 100, or 0 for an empty store.
func (s *Store) ProgressPercent() float64 {
	return metrics.ProgressPercent(s.Counts().Accepted, s.total)
}

// HasPending reports whether AcceptAll would accept anything.
func (s *Store) HasPending() bool {
	for _, sg := range s.suggestions {
		if sg.Status == catalog.StatusPending {
			return true
		}
	}
	return false
}

// Get returns the suggestion with the given id.
func (s *Store) Get(id int) (catalog.Suggestion, bool) {
	i, ok := s.index[id]
	if !ok {
		return catalog.Suggestion{}, false
	}
	return s.suggestions[i], true
}

// Suggestions returns a copy of every suggestion in seed order.
func (s *Store) Suggestions() []catalog.Suggestion {
	out := make([]catalog.Suggestion, len(s.suggestions))
	copy(out, s.suggestions)
	return out
}

// Accepted returns the accepted suggestions in seed order.
func (s *Store) Accepted() []catalog.Suggestion {
	var out []catalog.Suggestion
	for _, sg := range s.suggestions {
		if sg.Status == catalog.StatusAccepted {
			out = append(out, sg)
		}
	}
	return out
}

// ModuleGroup is the undecided suggestions of one module.
type ModuleGroup struct {
	Module      int                  `json:"module"`
	Suggestions []catalog.Suggestion `json:"suggestions"`
}

// Grouped returns the undecided suggestions grouped by module number, with
// modules in the order they first appear in the seed. Modules without
// undecided suggestions are omitted.
func (s *Store) Grouped() []ModuleGroup {
	return GroupActive(s.suggestions)
}

// GroupActive groups the pending and review suggestions by module number,
// in first-encountered module order.
func GroupActive(suggestions []catalog.Suggestion) []ModuleGroup {
	var groups []ModuleGroup
	pos := make(map[int]int)
	for _, sg := range suggestions {
		i, seen := pos[sg.ModuleNumber]
		if !seen {
			i = len(groups)
			pos[sg.ModuleNumber] = i
			groups = append(groups, ModuleGroup{Module: sg.ModuleNumber})
		}
		if sg.Status.Active() {
			groups[i].Suggestions = append(groups[i].Suggestions, sg)
		}
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g.Suggestions) > 0 {
			out = append(out, g)
		}
	}
	return out
}
