// Package app contains the Cobra command tree for coursecoach.
package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/coursecoach/internal/config"
	"github.com/blackwell-systems/coursecoach/internal/fixture"
	"github.com/blackwell-systems/coursecoach/internal/logging"
	"github.com/blackwell-systems/coursecoach/internal/metrics"
	"github.com/blackwell-systems/coursecoach/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor  bool
	flagJSON     bool
	flagVerbose  bool
	flagConfig   string
	flagFixtures string
)

var rootCmd = &cobra.Command{
	Use:   "coursecoach",
	Short: "Review and launch AI-suggested course improvements",
	Long: `coursecoach helps course authors act on content suggestions. It ranks
the courses that would gain most from optimization, shows the suggested
activities per module, and walks through approving the strategy, reviewing
each suggestion and launching the result.

Run 'coursecoach' with no arguments to see the dashboard, or
'coursecoach session' for the interactive review.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDashboard,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/coursecoach/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Log every state transition to stderr")
	rootCmd.PersistentFlags().StringVar(&flagFixtures, "fixtures", "", "Directory overriding the embedded fixture files")
}

// env is what every command needs before it can render.
type env struct {
	cfg *config.Config
	log *zap.Logger
	set *fixture.Set
}

// loadEnv reads the config, sets up color and logging, and loads the
// fixtures. Flags take precedence over config values.
func loadEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if flagNoColor || !cfg.Output.Color || !isTerminal(cmd.OutOrStdout()) {
		output.SetNoColor(true)
	}

	log := logging.New(flagVerbose, cmd.ErrOrStderr())

	dir := cfg.FixturesDir
	if flagFixtures != "" {
		dir = flagFixtures
	}
	set, err := fixture.Load(cmd.Context(), dir)
	if err != nil {
		return nil, fmt.Errorf("loading fixtures: %w", err)
	}
	log.Debug("fixtures loaded",
		zap.String("dir", dir),
		zap.Int("courses", len(set.Courses.Filtered)),
		zap.Int("suggestions", len(set.Suggestions)))

	return &env{cfg: cfg, log: log, set: set}, nil
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// dashboardJSON is the --json shape of the dashboard.
type dashboardJSON struct {
	RecentlyVisited []courseRow     `json:"recentlyVisited"`
	All             []courseRow     `json:"all"`
	ReadyCount      int             `json:"readyForOptimization"`
	Summary         metrics.Summary `json:"summary"`
}

func runDashboard(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, dashboardJSON{
			RecentlyVisited: toCourseRows(e.set.Courses.RecentlyVisited),
			All:             toCourseRows(e.set.Courses.All),
			ReadyCount:      len(e.set.Courses.Filtered),
			Summary:         metrics.Summarize(e.set.Courses.Filtered),
		})
	}
	fmt.Fprintf(w, "coursecoach %s\n", appVersion)
	renderDashboard(w, e.set)
	return nil
}
