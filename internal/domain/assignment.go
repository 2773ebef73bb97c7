package domain

import "sort"

// AssignmentSet maps a body part id to the exercise indices assigned to a student.
// A key never maps to an empty list: the key is removed instead.
// A nil or empty set means "no assignments".
type AssignmentSet map[string][]int

// Contains reports whether (bodyPartID, index) is assigned.
func (a AssignmentSet) Contains(bodyPartID string, index int) bool {
	for _, idx := range a[bodyPartID] {
		if idx == index {
			return true
		}
	}
	return false
}

// Toggle flips membership of index under bodyPartID, in place.
// Adding to a missing key creates it; removing the last index deletes the key.
func (a AssignmentSet) Toggle(bodyPartID string, index int) {
	current := a[bodyPartID]
	for i, idx := range current {
		if idx != index {
			continue
		}
		updated := make([]int, 0, len(current)-1)
		updated = append(updated, current[:i]...)
		updated = append(updated, current[i+1:]...)
		if len(updated) == 0 {
			delete(a, bodyPartID)
		} else {
			a[bodyPartID] = updated
		}
		return
	}
	a[bodyPartID] = append(append([]int(nil), current...), index)
}

// IsEmpty reports whether nothing is assigned.
func (a AssignmentSet) IsEmpty() bool {
	for _, indices := range a {
		if len(indices) > 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy. The clone of nil is an empty, non-nil set.
func (a AssignmentSet) Clone() AssignmentSet {
	out := make(AssignmentSet, len(a))
	for k, v := range a {
		out[k] = append([]int(nil), v...)
	}
	return out
}

// Normalize drops empty keys and duplicate indices, keeping first-seen order.
func (a AssignmentSet) Normalize() AssignmentSet {
	out := make(AssignmentSet, len(a))
	for k, v := range a {
		seen := make(map[int]struct{}, len(v))
		var kept []int
		for _, idx := range v {
			if _, dup := seen[idx]; dup {
				continue
			}
			seen[idx] = struct{}{}
			kept = append(kept, idx)
		}
		if len(kept) > 0 {
			out[k] = kept
		}
	}
	return out
}

// Equal compares two sets ignoring index order within a body part.
func (a AssignmentSet) Equal(b AssignmentSet) bool {
	na, nb := a.Normalize(), b.Normalize()
	if len(na) != len(nb) {
		return false
	}
	for k, va := range na {
		vb, ok := nb[k]
		if !ok || len(va) != len(vb) {
			return false
		}
		sa := append([]int(nil), va...)
		sb := append([]int(nil), vb...)
		sort.Ints(sa)
		sort.Ints(sb)
		for i := range sa {
			if sa[i] != sb[i] {
				return false
			}
		}
	}
	return true
}

// OrderEntry is one (body part, exercise index) pair of a trainer-chosen sequence.
type OrderEntry struct {
	BodyPartID    string `bson:"bodyPartId" json:"bodyPartId"`
	ExerciseIndex int    `bson:"exerciseIndex" json:"exerciseIndex"`
}

// Key returns the composite key of the entry.
func (o OrderEntry) Key() string {
	return ExerciseKey(o.BodyPartID, o.ExerciseIndex)
}

// ExerciseOrder is the persisted, trainer-chosen workout sequence.
// It may contain stale entries; those are dropped whenever a plan is built.
type ExerciseOrder []OrderEntry

// PlanEntry is one materialized row of an effective plan.
type PlanEntry struct {
	ID            string `json:"id"` // ExerciseKey(BodyPartID, ExerciseIndex)
	BodyPartID    string `json:"bodyPartId"`
	ExerciseIndex int    `json:"exerciseIndex"`
	BodyPartName  string `json:"bodyPartName"`
	Exercise
}

// OrderEntry strips the enriched fields.
func (p PlanEntry) OrderEntry() OrderEntry {
	return OrderEntry{BodyPartID: p.BodyPartID, ExerciseIndex: p.ExerciseIndex}
}
