// Package plan builds a student's effective plan from the catalog, the
// assignment set and the trainer-chosen exercise order.
package plan

import (
	"errors"

	"alcyxob/gym-coach/internal/domain"
)

var ErrIndexOutOfRange = errors.New("plan index out of range")

// Plan is the ordered, enriched list of exercises a student performs.
type Plan []domain.PlanEntry

// Reconcile materializes the effective plan.
//
// Order entries come first, in order, keeping only pairs that are still
// assigned and still exist in the catalog; duplicates keep their first
// position. Assigned pairs missing from the order are then appended, walking
// the catalog in its listed order and each body part's indices in stored order.
// The persisted order itself is never modified here.
func Reconcile(order domain.ExerciseOrder, assigned domain.AssignmentSet, catalog []domain.BodyPart) Plan {
	byID := make(map[string]*domain.BodyPart, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}

	out := Plan{}
	seen := make(map[string]struct{})
	add := func(bp *domain.BodyPart, index int) {
		key := domain.ExerciseKey(bp.ID, index)
		if _, dup := seen[key]; dup {
			return
		}
		ex, ok := bp.Exercise(index)
		if !ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, domain.PlanEntry{
			ID:            key,
			BodyPartID:    bp.ID,
			ExerciseIndex: index,
			BodyPartName:  bp.Name,
			Exercise:      ex,
		})
	}

	for _, entry := range order {
		if !assigned.Contains(entry.BodyPartID, entry.ExerciseIndex) {
			continue // stale
		}
		if bp, ok := byID[entry.BodyPartID]; ok {
			add(bp, entry.ExerciseIndex)
		}
	}

	for i := range catalog {
		bp := &catalog[i]
		for _, index := range assigned[bp.ID] {
			add(bp, index)
		}
	}
	return out
}

// Order strips the plan down to its persisted (body part, index) pairs.
func (p Plan) Order() domain.ExerciseOrder {
	order := make(domain.ExerciseOrder, len(p))
	for i, entry := range p {
		order[i] = entry.OrderEntry()
	}
	return order
}

// Keys returns the composite keys in plan order.
func (p Plan) Keys() []string {
	keys := make([]string, len(p))
	for i, entry := range p {
		keys[i] = entry.ID
	}
	return keys
}

// Move relocates the entry at from to position to, shifting the entries in
// between. The receiver is left untouched.
func Move(p Plan, from, to int) (Plan, error) {
	if from < 0 || from >= len(p) || to < 0 || to >= len(p) {
		return nil, ErrIndexOutOfRange
	}
	out := make(Plan, 0, len(p))
	moved := p[from]
	for i, entry := range p {
		if i == from {
			continue
		}
		out = append(out, entry)
	}
	out = append(out[:to], append(Plan{moved}, out[to:]...)...)
	return out, nil
}
