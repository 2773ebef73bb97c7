package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/gym-coach/internal/domain"
	"alcyxob/gym-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const assignedExercisesField = "assignedExercises"

// mongoAssignmentRepository implements repository.AssignmentRepository on the
// assignedExercises field of Users documents.
type mongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new Assignment repository backed by MongoDB.
func NewMongoAssignmentRepository(db *mongo.Database) repository.AssignmentRepository {
	return &mongoAssignmentRepository{
		collection: db.Collection(userCollectionName),
	}
}

// Get returns the student's assignment set. A missing field yields an empty set.
func (r *mongoAssignmentRepository) Get(ctx context.Context, studentID primitive.ObjectID) (domain.AssignmentSet, error) {
	var doc struct {
		Assigned domain.AssignmentSet `bson:"assignedExercises"`
	}
	opts := options.FindOne().SetProjection(bson.M{assignedExercisesField: 1})

	err := r.collection.FindOne(ctx, bson.M{"_id": studentID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.Assigned.Normalize(), nil
}

// Set overwrites the whole assignment set. Empty sets are routed to Clear so
// the field never holds an empty map.
func (r *mongoAssignmentRepository) Set(ctx context.Context, studentID primitive.ObjectID, set domain.AssignmentSet, at time.Time) error {
	set = set.Normalize()
	if len(set) == 0 {
		return r.Clear(ctx, studentID, at)
	}
	update := bson.M{"$set": bson.M{
		assignedExercisesField: set,
		"lastUpdated":          at.UTC(),
	}}
	return r.update(ctx, studentID, update)
}

// Clear deletes the assignedExercises field.
func (r *mongoAssignmentRepository) Clear(ctx context.Context, studentID primitive.ObjectID, at time.Time) error {
	update := bson.M{
		"$unset": bson.M{assignedExercisesField: ""},
		"$set":   bson.M{"lastUpdated": at.UTC()},
	}
	return r.update(ctx, studentID, update)
}

func (r *mongoAssignmentRepository) update(ctx context.Context, studentID primitive.ObjectID, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": studentID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
