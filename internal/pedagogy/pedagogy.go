// Package pedagogy holds the pedagogy checks run against a suggested item.
package pedagogy

// CheckStatus is the outcome of a single check.
type CheckStatus string

// Check outcomes.
const (
	StatusPassed   CheckStatus = "passed"
	StatusWarning  CheckStatus = "warning"
	StatusCritical CheckStatus = "critical"
)

// Check is one pedagogy finding.
type Check struct {
	Status  CheckStatus `json:"status"`
	Message string      `json:"message"`
	AIFix   bool        `json:"aiFix,omitempty"`
}

// Category groups the checks of one pedagogy dimension.
type Category struct {
	Name   string  `json:"name"`
	Checks []Check `json:"checks"`
}

// Report is the full set of checks, categories in display order.
type Report struct {
	Categories []Category `json:"categories"`
}

// Tally counts checks by outcome.
type Tally struct {
	Passed   int `json:"passed"`
	Warning  int `json:"warning"`
	Critical int `json:"critical"`
}

// Tally counts every check in the report by outcome.
func (r Report) Tally() Tally {
	var t Tally
	for _, c := range r.Categories {
		for _, chk := range c.Checks {
			switch chk.Status {
			case StatusPassed:
				t.Passed++
			case StatusWarning:
				t.Warning++
			case StatusCritical:
				t.Critical++
			}
		}
	}
	return t
}

// Fixable returns the checks that offer an AI fix.
func (r Report) Fixable() []Check {
	var out []Check
	for _, c := range r.Categories {
		for _, chk := range c.Checks {
			if chk.AIFix {
				out = append(out, chk)
			}
		}
	}
	return out
}
