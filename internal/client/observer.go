package client

import (
	"sync"

	"alcyxob/gym-coach/internal/domain"
)

// DetailObserver holds the exercise detail a screen displays and the live
// updates pushed for it. While an edit is open, pushed updates are parked
// instead of overwriting the draft; the newest parked update is applied once
// the edit closes. Safe for use from the stream goroutine and the UI.
type DetailObserver struct {
	mu      sync.Mutex
	current ExerciseDetail
	loaded  bool
	editing bool
	draft   domain.Exercise
	pending *ExerciseDetail
}

// Apply records a pushed update and reports whether it is visible now.
func (o *DetailObserver) Apply(d ExerciseDetail) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.editing {
		o.pending = &d
		return false
	}
	o.current, o.loaded = d, true
	return true
}

// Current returns the displayed detail and whether anything arrived yet.
func (o *DetailObserver) Current() (ExerciseDetail, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current, o.loaded
}

func (o *DetailObserver) Editing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.editing
}

// BeginEdit opens an edit session seeded from the displayed exercise.
func (o *DetailObserver) BeginEdit() domain.Exercise {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.editing {
		o.editing = true
		o.draft = o.current.Exercise
	}
	return o.draft
}

// SetDraft replaces the draft of the open edit session.
func (o *DetailObserver) SetDraft(ex domain.Exercise) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.editing {
		o.draft = ex
	}
}

func (o *DetailObserver) Draft() domain.Exercise {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.draft
}

// CancelEdit drops the draft and catches up on parked updates.
func (o *DetailObserver) CancelEdit() ExerciseDetail {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.close()
	return o.current
}

// Commit closes the edit session and returns the draft for saving. Parked
// updates are applied; the save's own push arrives after them.
func (o *DetailObserver) Commit() domain.Exercise {
	o.mu.Lock()
	defer o.mu.Unlock()
	draft := o.draft
	o.close()
	return draft
}

func (o *DetailObserver) close() {
	o.editing = false
	o.draft = domain.Exercise{}
	if o.pending != nil {
		o.current, o.loaded = *o.pending, true
		o.pending = nil
	}
}
