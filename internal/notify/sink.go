package notify

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/blackwell-systems/coursecoach/internal/output"
)

// TerminalSink prints toasts as a styled line.
type TerminalSink struct {
	W io.Writer
}

// Deliver writes the toast to the sink's writer.
func (s TerminalSink) Deliver(t Toast) error {
	style := output.StyleSuccess
	if t.Level == LevelInfo {
		style = output.StyleHeader
	}
	_, err := fmt.Fprintf(s.W, " %s\n", style.Render(t.Message))
	return err
}

// DesktopSink sends toasts as desktop notifications. On macOS it uses
// osascript, on Linux notify-send; anywhere else, or when those fail, it
// falls back to Fallback (stderr when nil).
type DesktopSink struct {
	Fallback Sink
}

// Deliver sends the toast as a desktop notification.
func (s DesktopSink) Deliver(t Toast) error {
	switch runtime.GOOS {
	case "darwin":
		return s.deliverMacOS(t)
	case "linux":
		return s.deliverLinux(t)
	default:
		return s.fallback(t)
	}
}

func (s DesktopSink) deliverMacOS(t Toast) error {
	script := fmt.Sprintf(`display notification %q with title "coursecoach"`, t.Message)
	if err := exec.Command("osascript", "-e", script).Run(); err != nil {
		return s.fallback(t)
	}
	return nil
}

func (s DesktopSink) deliverLinux(t Toast) error {
	if _, err := exec.LookPath("notify-send"); err != nil {
		return s.fallback(t)
	}
	if err := exec.Command("notify-send", "coursecoach", t.Message).Run(); err != nil {
		return s.fallback(t)
	}
	return nil
}

func (s DesktopSink) fallback(t Toast) error {
	if s.Fallback != nil {
		return s.Fallback.Deliver(t)
	}
	_, err := fmt.Fprintf(os.Stderr, "[%s] %s\n", t.Level, t.Message)
	return err
}

// Multi delivers every toast to each sink in order and returns the first
// error encountered.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

type multiSink []Sink

func (m multiSink) Deliver(t Toast) error {
	var first error
	for _, s := range m {
		if err := s.Deliver(t); err != nil && first == nil {
			first = err
		}
	}
	return first
}
