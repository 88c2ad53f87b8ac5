package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/blackwell-systems/coursecoach/internal/catalog"
	"github.com/blackwell-systems/coursecoach/internal/fixture"
	"github.com/blackwell-systems/coursecoach/internal/flow"
	"github.com/blackwell-systems/coursecoach/internal/journal"
	"github.com/blackwell-systems/coursecoach/internal/logging"
	"github.com/blackwell-systems/coursecoach/internal/notify"
	"github.com/blackwell-systems/coursecoach/internal/output"
)

// historyLimit is how many journal entries 'history' shows.
const historyLimit = 20

var errUsage = errors.New("usage")

// shell reads session commands line by line and turns them into flow
// actions.
type shell struct {
	ctl     *flow.Controller
	journal *journal.Journal
	toaster *notify.Toaster
	out     io.Writer
	width   int
	prompt  bool
	log     *zap.Logger
}

func newShell(set *fixture.Set, out io.Writer, sink notify.Sink, j *journal.Journal, width int, log *zap.Logger) *shell {
	log = logging.OrNop(log)
	sh := &shell{
		journal: j,
		toaster: notify.NewToaster(sink),
		out:     out,
		width:   width,
		log:     log,
	}
	sh.ctl = flow.New(set, flow.Hooks{
		ItemsAccepted: func(n int) {
			sh.toast(notify.ItemsAcceptedMessage(n), notify.LevelSuccess)
		},
		LaunchRequested: func(c catalog.Course) {
			fmt.Fprintf(sh.out, " Launch the optimization of %s? Type 'confirm' to publish or 'cancel' to keep reviewing.\n",
				output.StyleBold.Render(c.Title))
		},
		Launched: func(catalog.Course) {
			sh.toast(notify.LaunchMessage, notify.LevelInfo)
		},
	}, log.Named("flow"))
	return sh
}

func (sh *shell) toast(msg string, level notify.Level) {
	if err := sh.toaster.Show(msg, level); err != nil {
		sh.log.Warn("toast delivery failed", zap.Error(err))
	}
}

// run reads commands from in until quit, EOF or ctx is cancelled. The
// reader runs in its own goroutine so a cancel is seen at an idle prompt.
func (sh *shell) run(ctx context.Context, in io.Reader) error {
	defer sh.toaster.Dismiss()

	lines := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errCh <- sc.Err()
	}()

	sh.printPrompt()
	for {
		select {
		case <-ctx.Done():
			sh.log.Debug("session interrupted")
			return nil
		case raw, ok := <-lines:
			if !ok {
				select {
				case err := <-errCh:
					return err
				default:
					return nil
				}
			}
			line := strings.TrimSpace(raw)
			if line == "" || strings.HasPrefix(line, "#") {
				sh.printPrompt()
				continue
			}
			quit, err := sh.exec(ctx, line)
			if err != nil {
				fmt.Fprintf(sh.out, " %s %v\n", output.StyleError.Render("error:"), err)
			}
			if quit {
				return nil
			}
			sh.printPrompt()
		}
	}
}

func (sh *shell) printPrompt() {
	if !sh.prompt {
		return
	}
	fmt.Fprintf(sh.out, "%s> ", sh.ctl.Page())
}

// exec runs one command line. It reports whether the session should end.
func (sh *shell) exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	switch name {
	case "help", "?":
		sh.help()
	case "quit", "exit":
		return true, nil

	case "dashboard", "courses":
		to := flow.PageDashboard
		if name == "courses" {
			to = flow.PageFilteredCourses
		}
		if sh.ctl.Page() != to && !sh.dispatch(ctx, flow.Navigate{To: to}).Changed {
			if sh.ctl.Page() == flow.PageOptimizeCourse {
				sh.say("Leave the review with 'back' first.")
			}
			return false, nil
		}
		if to == flow.PageDashboard {
			renderDashboard(sh.out, sh.ctl.Fixtures())
		} else {
			renderCourses(sh.out, "Courses Ready for Optimization", sh.ctl.Fixtures().Courses.Filtered)
		}
	case "back":
		if sh.dispatch(ctx, flow.Back{}).Changed {
			sh.say("Now at %s.", sh.ctl.Page())
		}

	case "optimize":
		id, err := intArg(args, "optimize <course-id>")
		if err != nil {
			return false, err
		}
		if !sh.dispatch(ctx, flow.SelectForOptimize{CourseID: id}).Changed {
			if sh.ctl.Page() != flow.PageFilteredCourses {
				sh.say("Open the course list with 'courses' first.")
			}
			return false, nil
		}
		renderStrategy(sh.out, sh.ctl.Fixtures().Strategy, sh.width)
		renderPedagogy(sh.out, sh.ctl.Fixtures().Pedagogy)
		sh.say("Type 'approve' to start reviewing suggestions or 'cancel' to go back.")
	case "approve":
		if sh.dispatch(ctx, flow.ApproveStrategy{}).Changed {
			c, _ := sh.ctl.Selected()
			sh.say("Optimizing %s.", output.StyleBold.Render(c.Title))
			sh.list()
		}
	case "cancel":
		return false, sh.cancel(ctx)

	case "list":
		if sh.ctl.Session() == nil {
			sh.say("No course is being optimized.")
			return false, nil
		}
		sh.list()
	case "accept", "dismiss":
		id, err := intArg(args, name+" <suggestion-id>")
		if err != nil {
			return false, err
		}
		var a flow.Action = flow.AcceptSuggestion{ID: id}
		if name == "dismiss" {
			a = flow.DismissSuggestion{ID: id}
		}
		if sh.dispatch(ctx, a).Changed {
			if name == "dismiss" {
				sh.say("Suggestion #%d dismissed.", id)
			}
			sh.afterDecision()
		}
	case "accept-all":
		if s := sh.ctl.Session(); s != nil && !s.Store.HasPending() {
			sh.say("No pending suggestions to accept.")
			return false, nil
		}
		if sh.dispatch(ctx, flow.AcceptAll{}).Changed {
			sh.afterDecision()
		}
	case "dismiss-all":
		if sh.dispatch(ctx, flow.DismissAll{}).Changed {
			sh.say("Remaining suggestions dismissed.")
			sh.afterDecision()
		}

	case "preview", "edit":
		id, err := intArg(args, name+" <suggestion-id>")
		if err != nil {
			return false, err
		}
		if sh.dispatch(ctx, flow.OpenDraft{ID: id, ReadOnly: name == "preview"}).Changed {
			renderDraft(sh.out, sh.ctl.Session().Draft())
		}
	case "set":
		if len(args) < 2 {
			return false, fmt.Errorf("%w: set <field> <value>", errUsage)
		}
		value := strings.Join(args[1:], " ")
		out := sh.dispatch(ctx, flow.EditDraft{Field: args[0], Value: value})
		if out.Err != nil {
			return false, out.Err
		}
		if out.Changed {
			sh.say("%s = %s", args[0], value)
		}
	case "save":
		out := sh.dispatch(ctx, flow.SaveDraft{})
		if out.Err != nil {
			return false, out.Err
		}
		if out.Changed {
			sh.say("Draft saved.")
			sh.afterDecision()
		}
	case "close":
		if sh.dispatch(ctx, flow.CloseDraft{}).Changed {
			sh.say("Draft closed; edits discarded.")
		}

	case "launch":
		if !sh.dispatch(ctx, flow.RequestLaunch{}).Changed {
			sh.explainLaunch()
		}
	case "confirm":
		if sh.dispatch(ctx, flow.ConfirmLaunch{}).Changed {
			renderOutline(sh.out, sh.ctl.Session().Outline())
		}
	case "outline":
		if s := sh.ctl.Session(); s != nil {
			renderOutline(sh.out, s.Outline())
		} else {
			renderOutline(sh.out, sh.ctl.Fixtures().Outline)
		}

	case "status":
		sh.status()
	case "history":
		return false, sh.history(ctx)

	default:
		return false, fmt.Errorf("unknown command %q (type 'help')", name)
	}
	return false, nil
}

// dispatch applies a to the controller and journals it.
func (sh *shell) dispatch(ctx context.Context, a flow.Action) flow.Outcome {
	page := sh.ctl.Page()
	out := sh.ctl.Dispatch(a)
	if sh.journal != nil {
		_, err := sh.journal.Record(ctx, journal.Entry{
			Action:  a.Name(),
			Target:  flow.Target(a),
			Page:    string(page),
			Changed: out.Changed,
		})
		if err != nil {
			sh.log.Warn("journal write failed", zap.Error(err))
		}
	}
	if !out.Changed && out.Err == nil {
		sh.say("%s", output.StyleMuted.Render("Nothing to do."))
	}
	return out
}

// cancel closes whichever dialog is open: the approval gate, the launch
// confirmation or a draft.
func (sh *shell) cancel(ctx context.Context) error {
	if _, ok := sh.ctl.PendingApproval(); ok {
		sh.dispatch(ctx, flow.CancelStrategy{})
		sh.say("Strategy not approved.")
		return nil
	}
	s := sh.ctl.Session()
	switch {
	case s != nil && s.ConfirmOpen():
		sh.dispatch(ctx, flow.CancelLaunch{})
		sh.say("Launch cancelled.")
	case s != nil && s.Draft() != nil:
		sh.dispatch(ctx, flow.CloseDraft{})
		sh.say("Draft closed; edits discarded.")
	default:
		sh.say("Nothing to cancel.")
	}
	return nil
}

func (sh *shell) list() {
	s := sh.ctl.Session()
	renderGroups(sh.out, s.Store.Grouped(), sh.width)
	fmt.Fprintln(sh.out)
	renderProgress(sh.out, s.Store)
	if s.Store.HasPending() {
		sh.say("Type 'accept-all' to accept every pending suggestion.")
	}
}

func (sh *shell) afterDecision() {
	s := sh.ctl.Session()
	if s == nil {
		return
	}
	fmt.Fprintf(sh.out, " %s %s\n", output.StyleLabel.Render("Progress"), output.ProgressBar(s.Store.ProgressPercent(), 20))
	if s.CanLaunch() {
		sh.say("All suggestions handled. Type 'launch' to publish.")
	}
}

func (sh *shell) explainLaunch() {
	s := sh.ctl.Session()
	switch {
	case s == nil:
	case s.Launched():
		sh.say("Already launched.")
	case s.ConfirmOpen():
		sh.say("Type 'confirm' to publish or 'cancel' to keep reviewing.")
	case !s.Store.AllHandled():
		c := s.Store.Counts()
		sh.say("Accept or dismiss every suggestion first (%d still open).", c.Pending+c.Review)
	}
}

func (sh *shell) status() {
	w := sh.out
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Page"), sh.ctl.Page())
	if c, ok := sh.ctl.PendingApproval(); ok {
		fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Awaiting approval"), c.Title)
	}
	if c, ok := sh.ctl.Selected(); ok {
		fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Optimizing"), c.Title)
	}
	if s := sh.ctl.Session(); s != nil {
		renderProgress(w, s.Store)
		launched := "no"
		if s.Launched() {
			launched = "yes"
		}
		fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Launched"), launched)
		if d := s.Draft(); d != nil {
			fmt.Fprintf(w, " %s #%d\n", output.StyleLabel.Render("Open draft"), d.Suggestion.ID)
		}
		if s.EditedCount() > 0 {
			fmt.Fprintf(w, " %s %d\n", output.StyleLabel.Render("Saved with edits"), s.EditedCount())
			for _, sg := range s.Store.Accepted() {
				if e, ok := s.Edits(sg.ID); ok {
					fmt.Fprintf(w, "   #%d %s\n", sg.ID, formatEdits(e))
				}
			}
		}
	}
	if t, ok := sh.toaster.Current(); ok {
		fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Notification"), t.Message)
	}
}

func (sh *shell) history(ctx context.Context) error {
	if sh.journal == nil {
		sh.say("No journal for this session.")
		return nil
	}
	entries, err := sh.journal.Recent(ctx, historyLimit)
	if err != nil {
		return err
	}
	stats, err := sh.journal.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(sh.out, output.Section("Session History"))
	fmt.Fprintln(sh.out)
	tbl := output.NewTable("#", "Time", "Page", "Action", "Target", "Result")
	for _, e := range entries {
		result := output.StyleSuccess.Render("applied")
		if !e.Changed {
			result = output.StyleMuted.Render("ignored")
		}
		tbl.AddRow(strconv.FormatInt(e.ID, 10), e.At.Local().Format("15:04:05"), e.Page, e.Action, e.Target, result)
	}
	tbl.Fprint(sh.out)
	fmt.Fprintf(sh.out, "\n %d actions, %d applied, %d ignored\n", stats.Total, stats.Changed, stats.Ignored)
	return nil
}

func (sh *shell) say(format string, args ...any) {
	fmt.Fprintf(sh.out, " "+format+"\n", args...)
}

func (sh *shell) help() {
	fmt.Fprint(sh.out, `
 Navigation
   dashboard            show the dashboard
   courses              list the courses ready for optimization
   optimize <id>        open the strategy for a course
   approve | cancel     approve the strategy, or close the open dialog
   back                 go back one page

 Review
   list                 show open suggestions and progress
   accept <id>          accept a suggestion
   dismiss <id>         dismiss a suggestion
   accept-all           accept every pending suggestion (while any are pending)
   dismiss-all          dismiss every open suggestion
   preview <id>         view a suggestion's details
   edit <id>            edit a suggestion before accepting it
   set <field> <value>  change a field of the open draft
   save | close         accept with edits, or discard the draft

 Launch
   launch               ask to publish once every suggestion is handled
   confirm              publish the optimized course
   outline              show the course outline

 Session
   status               show where you are and which drafts were edited
   history              list the actions taken this session
   quit                 end the session
`)
}

func intArg(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %q is not a number", errUsage, usage, args[0])
	}
	return n, nil
}
