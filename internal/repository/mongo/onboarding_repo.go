package mongo

import (
	"context"

	"alcyxob/gym-coach/internal/domain"
	"alcyxob/gym-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const onboardingCollectionName = "Onboarding"

// mongoOnboardingRepository implements repository.OnboardingRepository
type mongoOnboardingRepository struct {
	collection *mongo.Collection
}

// NewMongoOnboardingRepository creates a new Onboarding repository.
func NewMongoOnboardingRepository(db *mongo.Database) repository.OnboardingRepository {
	return &mongoOnboardingRepository{
		collection: db.Collection(onboardingCollectionName),
	}
}

// List returns all slides sorted by their numeric id.
func (r *mongoOnboardingRepository) List(ctx context.Context) ([]domain.OnboardingSlide, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	slides := []domain.OnboardingSlide{}
	if err = cursor.All(ctx, &slides); err != nil {
		return nil, err
	}
	return slides, nil
}
