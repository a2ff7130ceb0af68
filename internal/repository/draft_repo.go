package repository

import (
	"campussafety/internal/model"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DraftRepo keeps one saved draft per assignment and account
type DraftRepo interface {
	Save(ctx context.Context, draft *model.Draft) error
	Get(ctx context.Context, assignmentID, account string) (*model.Draft, error)
	Delete(ctx context.Context, assignmentID, account string) error
}

type draftRepo struct {
	collection *mongo.Collection
}

func NewDraftRepo(db *mongo.Database) DraftRepo {
	repo := &draftRepo{
		collection: db.Collection("drafts"),
	}
	createIndex(context.Background(), repo.collection, bson.D{{Key: "assignmentId", Value: 1}, {Key: "account", Value: 1}}, true)
	return repo
}

func draftFilter(assignmentID, account string) bson.M {
	return bson.M{"assignmentId": assignmentID, "account": account}
}

func (r *draftRepo) Save(ctx context.Context, draft *model.Draft) error {
	draft.ID = ""
	draft.SavedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, draftFilter(draft.AssignmentID, draft.Account), draft, opts)
	return err
}

func (r *draftRepo) Get(ctx context.Context, assignmentID, account string) (*model.Draft, error) {
	var draft model.Draft
	err := r.collection.FindOne(ctx, draftFilter(assignmentID, account)).Decode(&draft)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *draftRepo) Delete(ctx context.Context, assignmentID, account string) error {
	_, err := r.collection.DeleteOne(ctx, draftFilter(assignmentID, account))
	return err
}
