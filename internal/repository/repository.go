package repository

import (
	"context"
	"time"

	"alcyxob/gym-coach/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrConflict     = RepositoryError("already exists")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository covers the Users collection. Trainers and students share it.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	ListExcludingEmail(ctx context.Context, email string) ([]domain.User, error)
	RecordLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
	UpdateBoarding(ctx context.Context, id primitive.ObjectID, boarding domain.Boarding, at time.Time) error
}

// AssignmentRepository reads and writes the assignedExercises field of a
// student document.
type AssignmentRepository interface {
	Get(ctx context.Context, studentID primitive.ObjectID) (domain.AssignmentSet, error)
	Set(ctx context.Context, studentID primitive.ObjectID, set domain.AssignmentSet, at time.Time) error
	// Clear removes the field entirely; an empty map is never written.
	Clear(ctx context.Context, studentID primitive.ObjectID, at time.Time) error
}

// OrderRepository reads and overwrites the exerciseOrder field of a student document.
type OrderRepository interface {
	Get(ctx context.Context, studentID primitive.ObjectID) (domain.ExerciseOrder, error)
	Set(ctx context.Context, studentID primitive.ObjectID, order domain.ExerciseOrder, at time.Time) error
}

// BodyPartRepository covers the catalog.
type BodyPartRepository interface {
	// List returns body parts in the store's natural order.
	List(ctx context.Context) ([]domain.BodyPart, error)
	GetByID(ctx context.Context, id string) (*domain.BodyPart, error)
	UpdateExercise(ctx context.Context, bodyPartID string, index int, exercise domain.Exercise) error
	AppendExercise(ctx context.Context, bodyPartID string, exercise domain.Exercise) (int, error)
	SetExerciseMedia(ctx context.Context, bodyPartID string, index int, mediaURL string) error
	// Watch streams the full document after every change until ctx is done.
	Watch(ctx context.Context, bodyPartID string) (<-chan domain.BodyPart, error)
}

// AdminRepository is a membership test against the Admins collection.
type AdminRepository interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// OnboardingRepository lists onboarding slides.
type OnboardingRepository interface {
	List(ctx context.Context) ([]domain.OnboardingSlide, error)
}
