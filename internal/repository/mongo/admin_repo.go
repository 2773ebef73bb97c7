package mongo

import (
	"context"

	"alcyxob/gym-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const adminCollectionName = "Admins"

// mongoAdminRepository implements repository.AdminRepository
type mongoAdminRepository struct {
	collection *mongo.Collection
}

// NewMongoAdminRepository creates a new Admin repository backed by MongoDB.
func NewMongoAdminRepository(db *mongo.Database) repository.AdminRepository {
	return &mongoAdminRepository{
		collection: db.Collection(adminCollectionName),
	}
}

// IsAdmin reports whether an Admins document carries this email.
func (r *mongoAdminRepository) IsAdmin(ctx context.Context, email string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// EnsureAdminIndexes creates the unique email index of the Admins collection.
func EnsureAdminIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(adminCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
