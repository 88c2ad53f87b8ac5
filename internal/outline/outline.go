// Package outline models the published structure of a course and the
// one-time content change applied when an optimization is launched.
package outline

import "github.com/blackwell-systems/coursecoach/internal/catalog"

// Block kinds.
const (
	KindDescription        = "description"
	KindLearningObjectives = "learning_objectives"
	KindSection            = "section"
	KindLesson             = "lesson"
)

// SuggestedContentTitle is the title of the placeholder sections that hold
// not-yet-launched suggestions.
const SuggestedContentTitle = "Suggested Content"

// LaunchAnchorTitle is the module 1 section that receives launched items.
const LaunchAnchorTitle = "Get started with the certificate program"

// launchModule is the module whose content receives launched items.
const launchModule = 1

// Outline is the content structure of one course.
type Outline struct {
	Title   string   `json:"title"`
	Modules []Module `json:"modules"`
}

// Module is one numbered unit of a course.
type Module struct {
	Number   int     `json:"number"`
	Title    string  `json:"title"`
	Duration string  `json:"duration"`
	Blocks   []Block `json:"content"`
}

// Block is a piece of module content. Which fields are set depends on Kind.
type Block struct {
	Kind       string      `json:"type"`
	Title      string      `json:"title,omitempty"`
	Text       string      `json:"text,omitempty"`
	Number     int         `json:"number,omitempty"`
	Objectives []Objective `json:"objectives,omitempty"`
	Items      []Item      `json:"items,omitempty"`
}

// Objective is a learning objective listed in a module.
type Objective struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Assigned bool   `json:"assigned"`
}

// Item is a content item inside a section.
type Item struct {
	Kind              string                 `json:"type"`
	Title             string                 `json:"title"`
	AssignmentType    catalog.SuggestionType `json:"assignmentType,omitempty"`
	Status            string                 `json:"status,omitempty"`
	Duration          string                 `json:"duration,omitempty"`
	Questions         int                    `json:"questions,omitempty"`
	QuestionBank      int                    `json:"questionBank,omitempty"`
	IntegrityFeatures int                    `json:"integrityFeatures,omitempty"`
	IsSuggestion      bool                   `json:"isSuggestion,omitempty"`
	IsLaunched        bool                   `json:"isLaunched,omitempty"`
}

// LaunchedItems returns the finalized items published into module 1 on
// launch.
func LaunchedItems() []Item {
	return []Item{
		{Kind: "assignment", Title: "New Practice Assignment", AssignmentType: catalog.TypePracticeAssignment, Status: "New", Questions: 12, IsLaunched: true},
		{Kind: "assignment", Title: "New Graded Assignment", AssignmentType: catalog.TypeGradedAssignment, Status: "New", QuestionBank: 30, IntegrityFeatures: 2, IsLaunched: true},
		{Kind: "dialogue", Title: "New Dialogue", AssignmentType: catalog.TypeDialogue, Status: "New", Duration: "30 min", IsLaunched: true},
	}
}

// ApplyLaunch returns a copy of o with the launch change applied: the
// finalized items are appended to module 1's anchor section and every
// Suggested Content section is removed. o itself is left untouched.
//
// When module 1 has no anchor section the items go to its first section,
// and when it has no section at all a new one titled LaunchAnchorTitle is
// appended.
func ApplyLaunch(o Outline) Outline {
	out := o.Clone()
	for mi := range out.Modules {
		m := &out.Modules[mi]
		if m.Number == launchModule {
			appendLaunched(m)
		}
		kept := m.Blocks[:0]
		for _, b := range m.Blocks {
			if b.Kind == KindSection && b.Title == SuggestedContentTitle {
				continue
			}
			kept = append(kept, b)
		}
		m.Blocks = kept
	}
	return out
}

func appendLaunched(m *Module) {
	target := -1
	for i, b := range m.Blocks {
		if b.Kind != KindSection || b.Title == SuggestedContentTitle {
			continue
		}
		if b.Title == LaunchAnchorTitle {
			target = i
			break
		}
		if target < 0 {
			target = i
		}
	}
	if target < 0 {
		m.Blocks = append(m.Blocks, Block{Kind: KindSection, Title: LaunchAnchorTitle})
		target = len(m.Blocks) - 1
	}
	m.Blocks[target].Items = append(m.Blocks[target].Items, LaunchedItems()...)
}

// Clone returns a deep copy of o.
func (o Outline) Clone() Outline {
	out := Outline{Title: o.Title, Modules: make([]Module, len(o.Modules))}
	for i, m := range o.Modules {
		cm := m
		cm.Blocks = make([]Block, len(m.Blocks))
		for j, b := range m.Blocks {
			cb := b
			cb.Objectives = append([]Objective(nil), b.Objectives...)
			cb.Items = append([]Item(nil), b.Items...)
			cm.Blocks[j] = cb
		}
		out.Modules[i] = cm
	}
	return out
}

// Suggested returns the placeholder suggestion items across all modules,
// keyed by module number.
func (o Outline) Suggested() map[int][]Item {
	out := make(map[int][]Item)
	for _, m := range o.Modules {
		for _, b := range m.Blocks {
			if b.Kind == KindSection && b.Title == SuggestedContentTitle {
				out[m.Number] = append(out[m.Number], b.Items...)
			}
		}
	}
	return out
}
