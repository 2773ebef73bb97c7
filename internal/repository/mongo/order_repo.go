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

const exerciseOrderField = "exerciseOrder"

// mongoOrderRepository implements repository.OrderRepository on the
// exerciseOrder field of Users documents.
type mongoOrderRepository struct {
	collection *mongo.Collection
}

// NewMongoOrderRepository creates a new order repository.
func NewMongoOrderRepository(db *mongo.Database) repository.OrderRepository {
	return &mongoOrderRepository{
		collection: db.Collection(userCollectionName),
	}
}

// Get returns the persisted order, stale entries included. A missing field is
// an empty order.
func (r *mongoOrderRepository) Get(ctx context.Context, studentID primitive.ObjectID) (domain.ExerciseOrder, error) {
	var doc struct {
		Order domain.ExerciseOrder `bson:"exerciseOrder"`
	}
	opts := options.FindOne().SetProjection(bson.M{exerciseOrderField: 1})

	err := r.collection.FindOne(ctx, bson.M{"_id": studentID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if doc.Order == nil {
		return domain.ExerciseOrder{}, nil
	}
	return doc.Order, nil
}

// Set overwrites the order. It is never cleared on its own.
func (r *mongoOrderRepository) Set(ctx context.Context, studentID primitive.ObjectID, order domain.ExerciseOrder, at time.Time) error {
	if order == nil {
		order = domain.ExerciseOrder{}
	}
	update := bson.M{"$set": bson.M{
		exerciseOrderField: order,
		"lastUpdated":      at.UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": studentID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
