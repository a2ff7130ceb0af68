package repository

import (
	"campussafety/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LocationRepo reads an account's schools and sites
type LocationRepo interface {
	GetByAccount(ctx context.Context, accountID string) ([]model.Location, error)
	Upsert(ctx context.Context, location *model.Location) error
}

type locationRepo struct {
	collection *mongo.Collection
}

func NewLocationRepo(db *mongo.Database) LocationRepo {
	repo := &locationRepo{
		collection: db.Collection("locations"),
	}
	createIndex(context.Background(), repo.collection, bson.D{{Key: "accountId", Value: 1}, {Key: "locationName", Value: 1}}, false)
	return repo
}

// GetByAccount lists locations sorted by name
func (r *locationRepo) GetByAccount(ctx context.Context, accountID string) ([]model.Location, error) {
	opts := options.Find().SetSort(bson.D{{Key: "locationName", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"accountId": accountID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	locations := []model.Location{}
	if err := cursor.All(ctx, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// Upsert writes a location keyed by its id
func (r *locationRepo) Upsert(ctx context.Context, location *model.Location) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": location.ID}, location, opts)
	return err
}
