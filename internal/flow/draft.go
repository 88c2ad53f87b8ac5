package flow

import (
	"go.uber.org/zap"

	"github.com/blackwell-systems/coursecoach/internal/draft"
)

func (c *Controller) openDraft(a OpenDraft) Outcome {
	s := c.session
	if s.draft != nil {
		return c.ignore(a, "a draft is already open")
	}
	sg, ok := s.Store.Get(a.ID)
	if !ok || !sg.Status.Active() {
		return c.ignore(a, "suggestion not open for review")
	}
	if s.Store.Sealed() && !a.ReadOnly {
		return c.ignore(a, "course already launched")
	}
	s.draft = draft.Open(sg, a.ReadOnly)
	return changed()
}

// saveDraft accepts the drafted suggestion. Edits are kept only when the
// accept went through.
func (c *Controller) saveDraft(a SaveDraft) Outcome {
	s := c.session
	d := s.draft
	if d == nil {
		return c.ignore(a, "no draft open")
	}
	if d.ReadOnly {
		return Outcome{Err: draft.ErrReadOnly}
	}
	s.draft = nil
	if s.Store.Accept(d.Suggestion.ID) {
		if e := d.Changes(); len(e) > 0 {
			s.edits[d.Suggestion.ID] = e
		}
	}
	return changed()
}

func (c *Controller) ignore(a Action, reason string) Outcome {
	c.log.Debug("ignored action",
		zap.String("action", a.Name()),
		zap.String("target", Target(a)),
		zap.String("page", string(c.Page())),
		zap.String("reason", reason))
	return Outcome{}
}

func changed() Outcome { return Outcome{Changed: true} }

func result(ok bool) Outcome { return Outcome{Changed: ok} }
