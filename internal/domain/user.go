package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleAdmin   Role = "admin"   // Trainer; membership comes from the Admins collection
	RoleStudent Role = "student" // Trainee
)

// User is a document of the Users collection. Students carry their training
// plan state (assignments + order) directly on this document.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"` // Should be unique
	Name         string             `bson:"name" json:"name"`
	ImgURL       string             `bson:"imgUrl" json:"imgUrl"`
	PasswordHash string             `bson:"passwordHash,omitempty" json:"-"` // Never expose this via JSON
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	LastLogin    *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	LastUpdated  *time.Time         `bson:"lastUpdated,omitempty" json:"lastUpdated,omitempty"`

	// --- Student-specific ---
	Boarding          *Boarding     `bson:"boarding,omitempty" json:"boarding,omitempty"`
	AssignedExercises AssignmentSet `bson:"assignedExercises,omitempty" json:"assignedExercises,omitempty"`
	ExerciseOrder     ExerciseOrder `bson:"exerciseOrder,omitempty" json:"exerciseOrder,omitempty"`
}

// Admin is a document of the Admins collection, used only as a membership test.
type Admin struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email string             `bson:"email" json:"email"`
}

// OnboardingSlide is ordered onboarding content. Order is the numeric "id" field.
type OnboardingSlide struct {
	DocID       string `bson:"_id" json:"docId"`
	Order       int    `bson:"id" json:"id"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	ImgURL      string `bson:"imgUrl" json:"imgUrl"`
}
