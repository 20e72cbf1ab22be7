// Package pomodoro holds the focus-timer session tracker: a pure countdown
// state machine, a ticker driver, and the recorder that reacts to a completed
// focus interval by persisting the task's session counter.
package pomodoro

import (
	"context"
	"log"
	"time"
)

type Mode string

const (
	ModeFocus Mode = "FOCUS"
	ModeShort Mode = "SHORT"
	ModeLong  Mode = "LONG"
)

// Duration returns the interval length of a mode in seconds.
func (m Mode) Duration() int {
	switch m {
	case ModeShort:
		return 5 * 60
	case ModeLong:
		return 15 * 60
	default:
		return 25 * 60
	}
}

type State int

const (
	Idle State = iota
	Running
	Completed
)

// Completion describes a countdown that reached zero. Only focus intervals
// count toward the task's session counter.
type Completion struct {
	Mode          Mode
	CountsSession bool
}

// Timer is the countdown state machine. It has no clock of its own: Tick
// advances it by one second and the caller owns the schedule. Not safe for
// concurrent use.
type Timer struct {
	mode      Mode
	state     State
	remaining int
}

func NewTimer() *Timer {
	return &Timer{mode: ModeFocus, state: Idle, remaining: ModeFocus.Duration()}
}

func (t *Timer) Mode() Mode     { return t.mode }
func (t *Timer) State() State   { return t.state }
func (t *Timer) Remaining() int { return t.remaining }

// Start begins or resumes the countdown. Starting from Completed restarts the
// current mode from its full duration.
func (t *Timer) Start() {
	if t.state == Running {
		return
	}
	if t.state == Completed || t.remaining <= 0 {
		t.remaining = t.mode.Duration()
	}
	t.state = Running
}

// Pause halts the countdown, preserving the remaining time.
func (t *Timer) Pause() {
	if t.state == Running {
		t.state = Idle
	}
}

// Reset stops the countdown and restores the current mode's full duration.
func (t *Timer) Reset() {
	t.state = Idle
	t.remaining = t.mode.Duration()
}

// SwitchMode stops the countdown and rearms the timer with the new mode's
// default duration.
func (t *Timer) SwitchMode(m Mode) {
	t.mode = m
	t.state = Idle
	t.remaining = m.Duration()
}

// Tick advances a running countdown by one second. When the countdown reaches
// zero the timer transitions to Completed and the completion is returned.
func (t *Timer) Tick() (Completion, bool) {
	if t.state != Running {
		return Completion{}, false
	}

	t.remaining--
	if t.remaining > 0 {
		return Completion{}, false
	}

	t.remaining = 0
	t.state = Completed

	return Completion{Mode: t.mode, CountsSession: t.mode == ModeFocus}, true
}

// Drive ticks the timer once per interval until it completes, stops running,
// or the context ends. The ticker is always torn down on exit, so no ticks
// outlive the countdown.
func Drive(ctx context.Context, t *Timer, interval time.Duration, completed func(Completion)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if t.State() != Running {
				return
			}
			if c, done := t.Tick(); done {
				if completed != nil {
					completed(c)
				}

				return
			}
		}
	}
}

// SessionStore is the slice of the client state store the recorder needs.
type SessionStore interface {
	IncrementTaskSessions(ctx context.Context, taskID string) (int, error)
}

// Chime plays the completion cue.
type Chime interface {
	Play() error
}

// Recorder subscribes to timer completions and performs their side effects:
// persisting the session counter for focus intervals and sounding the cue.
// A failed cue is logged and otherwise ignored.
type Recorder struct {
	Sessions SessionStore
	Cue      Chime
	Sound    bool
}

// Record handles one completion for the given task. It returns the task's new
// session count; for non-focus intervals the counter is untouched and zero is
// returned.
func (r *Recorder) Record(ctx context.Context, taskID string, c Completion) (int, error) {
	if r.Sound && r.Cue != nil {
		if err := r.Cue.Play(); err != nil {
			log.Printf("pomodoro: completion cue failed: %v", err)
		}
	}

	if !c.CountsSession {
		return 0, nil
	}

	return r.Sessions.IncrementTaskSessions(ctx, taskID)
}
