package repository

import (
	"campussafety/internal/model"
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CompletionRepo stores submitted assignments
type CompletionRepo interface {
	Create(ctx context.Context, completion *model.Completion) (string, error)
	GetByID(ctx context.Context, id string) (*model.Completion, error)
	GetByAssignment(ctx context.Context, assignmentID, account string) ([]*model.Completion, error)
}

type completionRepo struct {
	collection *mongo.Collection
}

func NewCompletionRepo(db *mongo.Database) CompletionRepo {
	repo := &completionRepo{
		collection: db.Collection("completions"),
	}
	createIndex(context.Background(), repo.collection, bson.D{{Key: "assignmentId", Value: 1}, {Key: "submittedAt", Value: -1}}, false)
	return repo
}

func (r *completionRepo) Create(ctx context.Context, completion *model.Completion) (string, error) {
	if completion.ID == "" {
		completion.ID = uuid.NewString()
	}
	if completion.SubmittedAt.IsZero() {
		completion.SubmittedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, completion); err != nil {
		return "", err
	}
	return completion.ID, nil
}

func (r *completionRepo) GetByID(ctx context.Context, id string) (*model.Completion, error) {
	var completion model.Completion
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&completion)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &completion, nil
}

// GetByAssignment lists an account's completions of one assignment, newest first
func (r *completionRepo) GetByAssignment(ctx context.Context, assignmentID, account string) ([]*model.Completion, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"assignmentId": assignmentID, "account": account}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	completions := []*model.Completion{}
	if err := cursor.All(ctx, &completions); err != nil {
		return nil, err
	}
	return completions, nil
}
