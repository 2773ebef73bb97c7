// internal/domain/exercise.go
package domain

import (
	"fmt"
	"strings"
)

// Exercise is an entry embedded in a BodyPart's exercise list.
// It has no id of its own: it is identified by (body part id, index).
type Exercise struct {
	Name             string `bson:"name" json:"name"`
	Difficulty       string `bson:"difficulty" json:"difficulty"`
	Equipment        string `bson:"equipment" json:"equipment"`
	Target           string `bson:"target" json:"target"`                     // Target muscle
	SecondaryMuscles string `bson:"secondaryMuscles" json:"secondaryMuscles"` // Free text, e.g. "glutes, hamstrings"
	Description      string `bson:"description" json:"description"`
	Instructions     string `bson:"instructions" json:"instructions"` // Sentences delimited by ". "
	MediaURL         string `bson:"gifUrl" json:"gifUrl"`             // Image, gif or short video reference
}

// Steps splits the free-text instructions into sentences.
func (e Exercise) Steps() []string {
	if strings.TrimSpace(e.Instructions) == "" {
		return nil
	}
	parts := strings.Split(e.Instructions, ". ")
	steps := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			steps = append(steps, p)
		}
	}
	return steps
}

// BodyPart groups exercises of the catalog. Documents live in the BodyParts collection.
//
// Exercise indices are only stable while the list is append-only or edited in
// place. Removing or reordering entries would silently re-point every
// student's AssignmentSet and ExerciseOrder; no migration exists for that.
type BodyPart struct {
	ID        string     `bson:"_id" json:"id"`
	Name      string     `bson:"bodyPart" json:"bodyPart"` // Display name
	ImgURL    string     `bson:"imgUrl" json:"imgUrl"`     // Cover image reference
	Exercises []Exercise `bson:"exercises" json:"exercises"`
}

// Exercise returns the exercise stored at index, if any.
func (b *BodyPart) Exercise(index int) (Exercise, bool) {
	if b == nil || index < 0 || index >= len(b.Exercises) {
		return Exercise{}, false
	}
	return b.Exercises[index], true
}

// ExerciseKey is the composite list identity "{bodyPartId}-{exerciseIndex}".
func ExerciseKey(bodyPartID string, index int) string {
	return fmt.Sprintf("%s-%d", bodyPartID, index)
}

// MediaKind tells the renderer whether a media reference is a video loop or a still.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

var videoSuffixes = []string{".mp4", ".mov"}

// MediaKindOf classifies a media reference by its filename suffix.
// Query strings and fragments (presigned URLs carry both) are ignored.
func MediaKindOf(ref string) MediaKind {
	p := ref
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.ToLower(p)
	for _, s := range videoSuffixes {
		if strings.HasSuffix(p, s) {
			return MediaVideo
		}
	}
	return MediaImage
}
