// Package catalog defines the course and suggestion entities shared by the
// rest of coursecoach.
package catalog

import (
	"errors"
	"fmt"
)

// CourseStatusLive is the only status a course carries.
const CourseStatusLive = "Live"

// ErrInvalid is wrapped by every validation failure in this package.
var ErrInvalid = errors.New("invalid record")

// Course is a read-only course record from the fixture source.
type Course struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	Enrollments     int      `json:"enrollments"`
	Session         string   `json:"session"`
	SessionDate     string   `json:"sessionDate"`
	Status          string   `json:"status"`
	AssociatedWith  string   `json:"associatedWith"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	Engagement      *float64 `json:"engagement,omitempty"`
	Completion      *float64 `json:"completion,omitempty"`
	PotentialLift   *float64 `json:"potentialLift,omitempty"`
	EngagementTrend *float64 `json:"engagementTrend,omitempty"`
}

// Lift returns the potential lift, or 0 when the course has none.
func (c Course) Lift() float64 {
	if c.PotentialLift == nil {
		return 0
	}
	return *c.PotentialLift
}

// Trend returns the engagement trend, or 0 when the course has none.
func (c Course) Trend() float64 {
	if c.EngagementTrend == nil {
		return 0
	}
	return *c.EngagementTrend
}

// Validate checks the course invariants.
func (c Course) Validate() error {
	if c.Enrollments < 0 {
		return fmt.Errorf("%w: course %d has negative enrollments (%d)", ErrInvalid, c.ID, c.Enrollments)
	}
	if c.Status != CourseStatusLive {
		return fmt.Errorf("%w: course %d has status %q, want %q", ErrInvalid, c.ID, c.Status, CourseStatusLive)
	}
	if !inPercentRange(c.Engagement) {
		return fmt.Errorf("%w: course %d engagement %.1f outside [0,100]", ErrInvalid, c.ID, *c.Engagement)
	}
	if !inPercentRange(c.Completion) {
		return fmt.Errorf("%w: course %d completion %.1f outside [0,100]", ErrInvalid, c.ID, *c.Completion)
	}
	return nil
}

func inPercentRange(v *float64) bool {
	return v == nil || (*v >= 0 && *v <= 100)
}

// Status is the review state of a suggestion.
type Status string

// Suggestion statuses. Pending and review are undecided; accepted and
// dismissed are terminal.
const (
	StatusPending   Status = "pending"
	StatusReview    Status = "review"
	StatusAccepted  Status = "accepted"
	StatusDismissed Status = "dismissed"
)

// Active reports whether the suggestion still awaits a decision.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusReview
}

// Terminal reports whether the suggestion has been decided.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusDismissed
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s.Active() || s.Terminal()
}

// Suggestion is a proposed content addition to a course module.
type Suggestion struct {
	ID                int            `json:"id"`
	Type              SuggestionType `json:"type"`
	Title             string         `json:"title"`
	LearningObjective string         `json:"learningObjective,omitempty"`
	EngagementLift    float64        `json:"engagementLift"`
	QualityScore      int            `json:"qualityScore"`
	Rationale         string         `json:"rationale"`
	RationaleTooltip  string         `json:"rationaleTooltip"`
	DefaultOpen       bool           `json:"defaultOpen,omitempty"`
	Status            Status         `json:"status,omitempty"`
	ModuleNumber      int            `json:"moduleNumber"`
	ModelConfidence   *float64       `json:"modelConfidence,omitempty"`
}

// Validate checks the suggestion invariants. A blank status is accepted and
// treated as pending by Normalize.
func (s Suggestion) Validate() error {
	if !s.Type.Valid() {
		return fmt.Errorf("%w: suggestion %d has unknown type %q", ErrInvalid, s.ID, s.Type)
	}
	if s.Status != "" && !s.Status.Valid() {
		return fmt.Errorf("%w: suggestion %d has unknown status %q", ErrInvalid, s.ID, s.Status)
	}
	if s.QualityScore < 0 || s.QualityScore > 100 {
		return fmt.Errorf("%w: suggestion %d quality score %d outside [0,100]", ErrInvalid, s.ID, s.QualityScore)
	}
	if s.ModelConfidence != nil && (*s.ModelConfidence < 0 || *s.ModelConfidence > 1) {
		return fmt.Errorf("%w: suggestion %d model confidence %.2f outside [0,1]", ErrInvalid, s.ID, *s.ModelConfidence)
	}
	return nil
}

// Normalize fills defaults for seed records: a missing status is pending.
func (s Suggestion) Normalize() Suggestion {
	if s.Status == "" {
		s.Status = StatusPending
	}
	return s
}

// QualityLabel buckets a 0-100 quality score.
func QualityLabel(score int) string {
	switch {
	case score >= 80:
		return "Good"
	case score >= 60:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}

// ConfidenceDotCount is the number of dots in a confidence indicator.
const ConfidenceDotCount = 4

// ConfidenceDots returns how many of the ConfidenceDotCount dots are filled
// for a model confidence in [0,1].
func ConfidenceDots(confidence float64) int {
	n := int(confidence*ConfidenceDotCount + 0.5)
	if n < 0 {
		return 0
	}
	if n > ConfidenceDotCount {
		return ConfidenceDotCount
	}
	return n
}
