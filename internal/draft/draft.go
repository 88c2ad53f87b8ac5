// Package draft holds the transient edit form opened for a suggestion.
// A draft never touches the lifecycle store; the caller decides what to do
// with its fields when the author saves.
package draft

import (
	"errors"
	"fmt"
	"maps"
	"sort"
	"strconv"

	"github.com/blackwell-systems/coursecoach/internal/catalog"
)

// Draft errors.
var (
	ErrReadOnly     = errors.New("draft is read-only")
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("invalid value")
)

// Field names shared by every suggestion type.
const (
	FieldTitle      = "title"
	FieldLinkedLO   = "linkedLO"
	FieldDuration   = "duration"
	FieldDifficulty = "difficulty"
	FieldTone       = "tone"
)

// Allowed values for the constrained fields.
var (
	Difficulties = []string{"Beginner", "Intermediate", "Advanced"}
	Tones        = []string{"Instructional", "Conversational", "Scenario-based"}
)

// template is the starting content for one suggestion type.
type template struct {
	duration   string
	difficulty string
	tone       string
	fields     map[string]string
}

var templates = map[catalog.SuggestionType]template{
	catalog.TypePracticeAssignment: {
		duration: "60", difficulty: "Intermediate", tone: "Instructional",
		fields: map[string]string{
			"description": "In this assignment, you will analyze a provided dataset of customer transactions to identify trends in purchasing behavior. You will be expected to use basic data manipulation and visualization techniques learned in this module.",
		},
	},
	catalog.TypeGradedAssignment: {
		duration: "90", difficulty: "Advanced", tone: "Instructional",
		fields: map[string]string{
			"description": "This case study requires you to evaluate the ethical implications of using a predictive AI model for loan applications. You should refer to the ethical frameworks discussed in Module 1 and provide a detailed analysis.",
		},
	},
	catalog.TypeDialogue: {
		duration: "45", difficulty: "Beginner", tone: "Conversational",
		fields: map[string]string{
			"description":   "Post your initial project proposal (max 200 words) in the forum. Then, review at least two proposals from your peers and provide constructive feedback focusing on the clarity of the research question and the feasibility of the proposed methodology.",
			"aiPersona":     "Coach AI",
			"numberOfTurns": "5",
		},
	},
	catalog.TypeRolePlay: {
		duration: "30", difficulty: "Intermediate", tone: "Scenario-based",
		fields: map[string]string{
			"scenario":   "Act as a project manager presenting a project update to a stakeholder.",
			"personas":   "Persona 1: Project Manager (You)\nPersona 2: Skeptical Stakeholder (Peer)",
			"assessment": "Clarity of communication\nHandling of objections\nProfessionalism",
		},
	},
	catalog.TypeToolsLab: {
		duration: "75", difficulty: "Intermediate", tone: "Instructional",
		fields: map[string]string{
			"toolEnv":      "Jupyter Notebook",
			"starterFiles": "/path/to/customer_data.csv",
			"deliverable":  "A dashboard that effectively communicates insights from the provided sales data.",
		},
	},
}

// Draft is an open edit or preview form for one suggestion.
type Draft struct {
	Suggestion catalog.Suggestion
	ReadOnly   bool

	fields map[string]string
	orig   map[string]string
	dirty  bool
}

// Open builds a draft for s from its type's template. A read-only draft is
// a preview and rejects every edit.
func Open(s catalog.Suggestion, readOnly bool) *Draft {
	tpl, ok := templates[s.Type]
	if !ok {
		tpl = template{duration: "30", difficulty: "Intermediate", tone: "Instructional"}
	}
	fields := map[string]string{
		FieldTitle:      s.Title,
		FieldLinkedLO:   s.LearningObjective,
		FieldDuration:   tpl.duration,
		FieldDifficulty: tpl.difficulty,
		FieldTone:       tpl.tone,
	}
	for k, v := range tpl.fields {
		fields[k] = v
	}
	return &Draft{Suggestion: s, ReadOnly: readOnly, fields: fields, orig: maps.Clone(fields)}
}

// Set changes a field. Only fields present in the draft can be set.
func (d *Draft) Set(field, value string) error {
	if d.ReadOnly {
		return ErrReadOnly
	}
	if _, ok := d.fields[field]; !ok {
		return fmt.Errorf("%w %q for %s", ErrUnknownField, field, d.Suggestion.Type)
	}
	if err := validate(field, value); err != nil {
		return err
	}
	if d.fields[field] != value {
		d.fields[field] = value
		d.dirty = true
	}
	return nil
}

func validate(field, value string) error {
	switch field {
	case FieldDuration, "numberOfTurns":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive number, got %q", ErrInvalidValue, field, value)
		}
	case FieldDifficulty:
		if !contains(Difficulties, value) {
			return fmt.Errorf("%w: difficulty must be one of %v", ErrInvalidValue, Difficulties)
		}
	case FieldTone:
		if !contains(Tones, value) {
			return fmt.Errorf("%w: tone must be one of %v", ErrInvalidValue, Tones)
		}
	case FieldTitle:
		if value == "" {
			return fmt.Errorf("%w: title must not be empty", ErrInvalidValue)
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Get returns a field value.
func (d *Draft) Get(field string) (string, bool) {
	v, ok := d.fields[field]
	return v, ok
}

// Dirty reports whether any field was changed since Open.
func (d *Draft) Dirty() bool {
	return d.dirty
}

// Fields returns a copy of the current field values.
func (d *Draft) Fields() map[string]string {
	out := make(map[string]string, len(d.fields))
	for k, v := range d.fields {
		out[k] = v
	}
	return out
}

// Changes returns the fields whose value differs from the template.
func (d *Draft) Changes() map[string]string {
	out := make(map[string]string)
	for k, v := range d.fields {
		if d.orig[k] != v {
			out[k] = v
		}
	}
	return out
}

// FieldNames returns the draft's field names, sorted.
func (d *Draft) FieldNames() []string {
	names := make([]string, 0, len(d.fields))
	for k := range d.fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
