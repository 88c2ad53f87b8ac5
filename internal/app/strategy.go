package app

import (
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/coursecoach/internal/pedagogy"
	"github.com/blackwell-systems/coursecoach/internal/strategy"
)

var strategyCmd = &cobra.Command{
	Use:   "strategy",
	Short: "Show the optimization strategy and pedagogy checks",
	Long: `Show the optimization plan an author approves before reviewing
suggestions: one proposed activity per module with its rationale, the
evidence behind it and the predicted lift, followed by the pedagogy checks
for the course.`,
	RunE: runStrategy,
}

func init() {
	rootCmd.AddCommand(strategyCmd)
}

// strategyJSON is the --json shape of the strategy command.
type strategyJSON struct {
	Plan      strategy.Plan   `json:"plan"`
	TotalLift float64         `json:"totalLift"`
	Pedagogy  pedagogy.Report `json:"pedagogy"`
	Tally     pedagogy.Tally  `json:"tally"`
}

func runStrategy(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, strategyJSON{
			Plan:      e.set.Strategy,
			TotalLift: e.set.Strategy.TotalLift(),
			Pedagogy:  e.set.Pedagogy,
			Tally:     e.set.Pedagogy.Tally(),
		})
	}
	renderStrategy(w, e.set.Strategy, e.cfg.Output.Width)
	renderPedagogy(w, e.set.Pedagogy)
	return nil
}
