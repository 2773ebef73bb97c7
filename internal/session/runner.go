// Package session implements the guided workout state machine that walks an
// effective plan, alternating exercise and rest phases.
package session

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyPlan         = errors.New("plan has no exercises")
	ErrInvalidTransition = errors.New("transition not allowed in current phase")
)

// Phase of a workout session.
type Phase int

const (
	NotStarted Phase = iota
	Exercising
	Resting
	Completed
	Abandoned
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not started"
	case Exercising:
		return "exercising"
	case Resting:
		return "resting"
	case Completed:
		return "completed"
	case Abandoned:
		return "abandoned"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Runner tracks the position in a plan of N entries and the elapsed seconds of
// the current phase.
//
// The owner drives the clock: every phase change bumps Generation, and a tick
// is only accepted when it carries the current generation. A timer loop that
// reschedules itself only after an accepted tick therefore leaves exactly one
// live timer per session. Runner is not safe for concurrent use.
type Runner struct {
	total   int
	phase   Phase
	index   int
	elapsed int
	started bool
	gen     uint64
}

// NewRunner returns a runner for a plan of total entries. An empty plan never
// reaches NotStarted.
func NewRunner(total int) (*Runner, error) {
	if total <= 0 {
		return nil, ErrEmptyPlan
	}
	return &Runner{total: total}, nil
}

func (r *Runner) Phase() Phase { return r.phase }
func (r *Runner) Index() int { return r.index }
func (r *Runner) Total() int { return r.total }
func (r *Runner) Elapsed() int { return r.elapsed }
func (r *Runner) HasStarted() bool { return r.started }
func (r *Runner) Generation() uint64 { return r.gen }
func (r *Runner) Running() bool { return r.phase == Exercising || r.phase == Resting }
func (r *Runner) IsLast() bool { return r.index == r.total-1 }
func (r *Runner) Done() bool { return r.phase == Completed || r.phase == Abandoned }

// Start moves NotStarted to Exercising(0).
func (r *Runner) Start() error {
	if r.phase != NotStarted {
		return ErrInvalidTransition
	}
	r.started = true
	r.enter(Exercising, 0)
	return nil
}

// Tick advances the counter by one second. It reports false, and changes
// nothing, when gen is stale or no phase is running; the caller must then stop
// rescheduling.
func (r *Runner) Tick(gen uint64) bool {
	if gen != r.gen || !r.Running() {
		return false
	}
	r.elapsed++
	return true
}

// FinishExercise moves Exercising(i) to Resting(i).
func (r *Runner) FinishExercise() error {
	if r.phase != Exercising {
		return ErrInvalidTransition
	}
	r.enter(Resting, r.index)
	return nil
}

// Next moves Resting(i) to Exercising(i+1), or to Completed after the last
// entry. While exercising it behaves like FinishExercise so that rest is never
// skipped.
func (r *Runner) Next() error {
	switch r.phase {
	case Exercising:
		return r.FinishExercise()
	case Resting:
		if r.index+1 >= r.total {
			r.enter(Completed, r.index)
			return nil
		}
		r.enter(Exercising, r.index+1)
		return nil
	}
	return ErrInvalidTransition
}

// Previous moves Exercising(i) to Exercising(i-1). While resting it cancels
// the rest and returns to Exercising(i).
func (r *Runner) Previous() error {
	switch r.phase {
	case Exercising:
		if r.index == 0 {
			return ErrInvalidTransition
		}
		r.enter(Exercising, r.index-1)
		return nil
	case Resting:
		r.enter(Exercising, r.index)
		return nil
	}
	return ErrInvalidTransition
}

// Reset zeroes the counter of the current exercise. Rest cannot be reset.
func (r *Runner) Reset() error {
	if r.phase != Exercising {
		return ErrInvalidTransition
	}
	r.elapsed = 0
	return nil
}

// NeedsExitConfirm reports whether leaving must be confirmed first.
func (r *Runner) NeedsExitConfirm() bool {
	return r.started && !r.Done()
}

// Abandon discards the session. No progress is kept.
func (r *Runner) Abandon() {
	r.enter(Abandoned, r.index)
}

func (r *Runner) enter(p Phase, index int) {
	r.phase = p
	r.index = index
	r.elapsed = 0
	r.gen++
}

// FormatElapsed renders seconds as m:ss.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
