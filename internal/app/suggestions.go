package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/coursecoach/internal/catalog"
	"github.com/blackwell-systems/coursecoach/internal/metrics"
	"github.com/blackwell-systems/coursecoach/internal/output"
	"github.com/blackwell-systems/coursecoach/internal/review"
)

var suggestionsFlagJSON bool

var suggestionsCmd = &cobra.Command{
	Use:   "suggestions",
	Short: "Show the content suggestions awaiting review",
	Long: `Show the suggestions that have not been accepted or dismissed yet,
grouped by course module. Each carries its predicted engagement lift, a
quality score and, when available, the model's confidence.`,
	RunE: runSuggestions,
}

func init() {
	suggestionsCmd.Flags().BoolVar(&suggestionsFlagJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(suggestionsCmd)
}

// suggestionsJSON is the --json shape of the suggestions command.
type suggestionsJSON struct {
	Modules       []review.ModuleGroup `json:"modules"`
	Counts        review.Counts        `json:"counts"`
	AggregateLift float64              `json:"aggregateLift"`
}

func runSuggestions(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	st := review.New(e.set.Suggestions, review.WithLogger(e.log.Named("review")))
	w := cmd.OutOrStdout()
	if suggestionsFlagJSON || flagJSON {
		return writeJSON(w, suggestionsJSON{
			Modules:       st.Grouped(),
			Counts:        st.Counts(),
			AggregateLift: metrics.AggregateLift(activeOnly(st.Suggestions())),
		})
	}

	fmt.Fprintln(w, output.Section("Suggestions"))
	renderGroups(w, st.Grouped(), e.cfg.Output.Width)
	fmt.Fprintln(w)
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Potential lift"),
		output.StyleSuccess.Render(fmt.Sprintf("+%g%%", metrics.AggregateLift(activeOnly(st.Suggestions())))))
	return nil
}

func activeOnly(list []catalog.Suggestion) []catalog.Suggestion {
	var out []catalog.Suggestion
	for _, s := range list {
		if s.Status.Active() {
			out = append(out, s)
		}
	}
	return out
}
