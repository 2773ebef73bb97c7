package mongo

import (
	"context"
	"errors"
	"fmt"

	"alcyxob/gym-coach/internal/domain"
	"alcyxob/gym-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bodyPartCollectionName = "BodyParts"

// mongoBodyPartRepository implements repository.BodyPartRepository.
// Exercises are embedded in their body part and addressed by array index.
type mongoBodyPartRepository struct {
	collection *mongo.Collection
}

// NewMongoBodyPartRepository creates a new BodyPart repository backed by MongoDB.
func NewMongoBodyPartRepository(db *mongo.Database) repository.BodyPartRepository {
	return &mongoBodyPartRepository{
		collection: db.Collection(bodyPartCollectionName),
	}
}

// List returns all body parts in natural order. No sort is applied: that
// order is what unordered assignments are appended by.
func (r *mongoBodyPartRepository) List(ctx context.Context) ([]domain.BodyPart, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bodyParts := []domain.BodyPart{}
	if err = cursor.All(ctx, &bodyParts); err != nil {
		return nil, err
	}
	return bodyParts, nil
}

// GetByID retrieves a body part with its exercises.
func (r *mongoBodyPartRepository) GetByID(ctx context.Context, id string) (*domain.BodyPart, error) {
	var bodyPart domain.BodyPart
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&bodyPart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &bodyPart, nil
}

// UpdateExercise replaces the editable fields of the exercise at index. The
// media reference is left as is; SetExerciseMedia owns it.
func (r *mongoBodyPartRepository) UpdateExercise(ctx context.Context, bodyPartID string, index int, exercise domain.Exercise) error {
	prefix := exercisePath(index)
	return r.updateExercise(ctx, bodyPartID, index, bson.M{
		prefix + ".name":             exercise.Name,
		prefix + ".difficulty":       exercise.Difficulty,
		prefix + ".equipment":        exercise.Equipment,
		prefix + ".target":           exercise.Target,
		prefix + ".secondaryMuscles": exercise.SecondaryMuscles,
		prefix + ".description":      exercise.Description,
		prefix + ".instructions":     exercise.Instructions,
	})
}

// SetExerciseMedia points the exercise at a new media reference.
func (r *mongoBodyPartRepository) SetExerciseMedia(ctx context.Context, bodyPartID string, index int, mediaURL string) error {
	return r.updateExercise(ctx, bodyPartID, index, bson.M{
		exercisePath(index) + ".gifUrl": mediaURL,
	})
}

func (r *mongoBodyPartRepository) updateExercise(ctx context.Context, bodyPartID string, index int, fields bson.M) error {
	if index < 0 {
		return repository.ErrNotFound
	}
	filter := bson.M{
		"_id":                bodyPartID,
		exercisePath(index): bson.M{"$exists": true},
	}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AppendExercise pushes exercise to the end of the list and returns its index.
func (r *mongoBodyPartRepository) AppendExercise(ctx context.Context, bodyPartID string, exercise domain.Exercise) (int, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"exercises": 1})

	var updated domain.BodyPart
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": bodyPartID},
		bson.M{"$push": bson.M{"exercises": exercise}},
		opts,
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, repository.ErrNotFound
		}
		return 0, err
	}
	return len(updated.Exercises) - 1, nil
}

// Watch opens a change stream on one body part and emits the post-image of
// every insert, update or replace. The channel is closed when ctx is done or
// the stream fails.
func (r *mongoBodyPartRepository) Watch(ctx context.Context, bodyPartID string) (<-chan domain.BodyPart, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "documentKey._id", Value: bodyPartID}}}},
	}
	stream, err := r.collection.Watch(ctx, pipeline, options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, err
	}

	out := make(chan domain.BodyPart)
	go func() {
		defer close(out)
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			var event struct {
				FullDocument *domain.BodyPart `bson:"fullDocument"`
			}
			if err := stream.Decode(&event); err != nil || event.FullDocument == nil {
				continue // deletes carry no post-image
			}
			select {
			case out <- *event.FullDocument:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func exercisePath(index int) string {
	return fmt.Sprintf("exercises.%d", index)
}
