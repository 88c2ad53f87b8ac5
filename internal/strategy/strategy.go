// Package strategy describes the optimization plan an author approves
// before reviewing individual suggestions.
package strategy

import "github.com/blackwell-systems/coursecoach/internal/catalog"

// Plan is the set of proposed additions, one per targeted module.
type Plan struct {
	Items    []Item                            `json:"items"`
	Tooltips map[catalog.SuggestionType]string `json:"tooltips"`
}

// Item is a single proposed addition and the evidence behind it.
type Item struct {
	Module    int                    `json:"module"`
	Type      catalog.SuggestionType `json:"type"`
	Rationale string                 `json:"rationale"`
	Lift      float64                `json:"lift"`
	Insights  Insights               `json:"insights"`
}

// Insights are the learner-behavior observations supporting an item.
type Insights struct {
	Title  string   `json:"title"`
	Points []string `json:"points"`
}

// TotalLift sums the predicted lift of every item.
func (p Plan) TotalLift() float64 {
	var sum float64
	for _, it := range p.Items {
		sum += it.Lift
	}
	return sum
}

// Tooltip returns the evidence blurb for a suggestion type, or "" if the
// plan has none.
func (p Plan) Tooltip(t catalog.SuggestionType) string {
	return p.Tooltips[t]
}

// Modules returns the targeted module numbers in plan order.
func (p Plan) Modules() []int {
	out := make([]int, 0, len(p.Items))
	for _, it := range p.Items {
		out = append(out, it.Module)
	}
	return out
}
