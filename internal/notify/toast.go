// Package notify delivers the transient messages shown after an author acts
// on suggestions or launches a course.
package notify

import (
	"fmt"
	"sync"
	"time"
)

// ToastDuration is how long a toast stays visible before it is dismissed
// automatically.
const ToastDuration = 4 * time.Second

// LaunchMessage is shown once a course optimization is launched.
const LaunchMessage = "🚀 Optimization successfully published. New activities will appear to learners starting tomorrow."

// ItemsAcceptedMessage returns the toast text for n accepted items, or ""
// when n is not positive.
func ItemsAcceptedMessage(n int) string {
	switch {
	case n <= 0:
		return ""
	case n == 1:
		return "Item accepted ✓ Saved to draft branch."
	default:
		return fmt.Sprintf("%d items accepted ✓ Saved to draft branch.", n)
	}
}

// Level is the severity of a toast.
type Level string

// Toast levels.
const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
)

// Toast is a transient message.
type Toast struct {
	Message string
	Level   Level
	Shown   time.Time
}

// Sink delivers a toast to the author.
type Sink interface {
	Deliver(Toast) error
}

// Toaster keeps the most recent toast visible for ToastDuration. Showing a
// new toast replaces the current one and restarts the timer.
//
// The timer goroutine only clears the visible toast; nothing else depends
// on it.
type Toaster struct {
	mu       sync.Mutex
	sink     Sink
	current  *Toast
	gen      uint64
	timer    *time.Timer
	duration time.Duration
	now      func() time.Time
}

// NewToaster creates a Toaster delivering through sink. A nil sink only
// tracks the visible toast.
func NewToaster(sink Sink) *Toaster {
	return &Toaster{sink: sink, duration: ToastDuration, now: time.Now}
}

// Show makes msg the visible toast and delivers it. Empty messages are
// ignored.
func (t *Toaster) Show(msg string, level Level) error {
	if msg == "" {
		return nil
	}
	t.mu.Lock()
	toast := Toast{Message: msg, Level: level, Shown: t.now()}
	t.current = &toast
	t.gen++
	gen := t.gen
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.duration, func() { t.expire(gen) })
	sink := t.sink
	t.mu.Unlock()

	if sink == nil {
		return nil
	}
	return sink.Deliver(toast)
}

func (t *Toaster) expire(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gen == gen {
		t.current = nil
	}
}

// Current returns the visible toast, if any.
func (t *Toaster) Current() (Toast, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return Toast{}, false
	}
	return *t.current, true
}

// Dismiss hides the visible toast immediately.
func (t *Toaster) Dismiss() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = nil
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
