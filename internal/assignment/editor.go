// Package assignment holds the trainer-side editing session for a student's
// assigned exercises.
package assignment

import (
	"alcyxob/gym-coach/internal/domain"
)

// ExitDecision tells the caller what leaving the editor requires.
type ExitDecision int

const (
	ExitSilently ExitDecision = iota
	ExitNeedsConfirm
)

// SaveRequest is what a save must persist. ClearField means the field is
// removed from the student document instead of being written empty.
type SaveRequest struct {
	Set        domain.AssignmentSet
	ClearField bool
}

// Editor keeps the set as loaded next to a working copy that toggles mutate.
// It is not safe for concurrent use.
type Editor struct {
	original domain.AssignmentSet
	working  domain.AssignmentSet
}

// NewEditor starts an editing session from the persisted set. A nil set is
// treated as empty.
func NewEditor(loaded domain.AssignmentSet) *Editor {
	return &Editor{
		original: loaded.Normalize(),
		working:  loaded.Normalize(),
	}
}

// Toggle flips (bodyPartID, index) in the working copy.
func (e *Editor) Toggle(bodyPartID string, index int) {
	e.working.Toggle(bodyPartID, index)
}

// Selected reports whether (bodyPartID, index) is in the working copy.
func (e *Editor) Selected(bodyPartID string, index int) bool {
	return e.working.Contains(bodyPartID, index)
}

// Count is the number of selected exercises under a body part.
func (e *Editor) Count(bodyPartID string) int {
	return len(e.working[bodyPartID])
}

// Working returns a copy of the working set.
func (e *Editor) Working() domain.AssignmentSet {
	return e.working.Clone()
}

// Dirty reports whether the working copy differs from what was loaded.
// Index order is ignored: selecting and unselecting back is not a change.
func (e *Editor) Dirty() bool {
	return !e.working.Equal(e.original)
}

// Exit reports whether leaving now would discard changes.
func (e *Editor) Exit() ExitDecision {
	if e.Dirty() {
		return ExitNeedsConfirm
	}
	return ExitSilently
}

// SaveRequest describes the write a save performs.
func (e *Editor) SaveRequest() SaveRequest {
	if e.working.IsEmpty() {
		return SaveRequest{ClearField: true}
	}
	return SaveRequest{Set: e.working.Clone()}
}

// MarkSaved makes the working copy the new baseline.
func (e *Editor) MarkSaved() {
	e.original = e.working.Clone()
}

// DeleteAll empties both copies after the field was removed from storage.
func (e *Editor) DeleteAll() {
	e.original = domain.AssignmentSet{}
	e.working = domain.AssignmentSet{}
}
