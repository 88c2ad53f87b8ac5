package app

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/coursecoach/internal/journal"
	"github.com/blackwell-systems/coursecoach/internal/notify"
)

var sessionFlagScript string

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Review and launch suggestions interactively",
	Long: `Start an interactive review session. The session begins at the
dashboard; open the course list, pick a course to optimize, approve its
strategy, then accept or dismiss each suggestion. Once every suggestion is
handled the course can be launched.

Nothing is saved: the session ends with the process.

Examples:
  coursecoach session                      # interactive prompt
  coursecoach session --script review.txt  # replay commands from a file
  echo "courses" | coursecoach session     # read commands from stdin

Type 'help' inside the session for the command list.`,
	RunE: runSession,
}

func init() {
	sessionCmd.Flags().StringVar(&sessionFlagScript, "script", "", "Read session commands from a file")
	rootCmd.AddCommand(sessionCmd)
}

func runSession(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	in := cmd.InOrStdin()
	if sessionFlagScript != "" {
		f, err := os.Open(sessionFlagScript)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		in = f
	}

	j, err := journal.Open()
	if err != nil {
		return fmt.Errorf("opening session journal: %w", err)
	}
	defer j.Close()

	out := cmd.OutOrStdout()
	ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals...)
	defer stop()

	sh := newShell(e.set, out, toastSink(out, e.cfg.Notify.Desktop), j, e.cfg.Output.Width, e.log)
	sh.prompt = sessionFlagScript == "" && isTerminal(in) && isTerminal(out)
	return sh.run(ctx, in)
}

// toastSink prints toasts to out and, when enabled, also raises a desktop
// notification.
func toastSink(out io.Writer, desktop bool) notify.Sink {
	term := notify.TerminalSink{W: out}
	if !desktop {
		return term
	}
	// Failed desktop delivery is already covered by the terminal line.
	return notify.Multi(term, notify.DesktopSink{Fallback: notify.Multi()})
}
