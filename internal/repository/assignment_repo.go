package repository

import (
	"campussafety/internal/model"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AssignmentRepo handles MongoDB operations for assignments
type AssignmentRepo interface {
	Create(ctx context.Context, assignment *model.Assignment) (string, error)
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	GetByAccount(ctx context.Context, account string, page, perPage int) ([]*model.Assignment, int64, error)
	Update(ctx context.Context, assignment *model.Assignment) error
	Delete(ctx context.Context, id string) error
}

type assignmentRepo struct {
	collection *mongo.Collection
}

// NewAssignmentRepo creates a new assignment repository
func NewAssignmentRepo(db *mongo.Database) AssignmentRepo {
	repo := &assignmentRepo{
		collection: db.Collection("assignments"),
	}
	createIndex(context.Background(), repo.collection, bson.D{{Key: "account", Value: 1}, {Key: "createdAt", Value: -1}}, false)
	return repo
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.Assignment) (string, error) {
	assignment.ID = ""
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	assignment.ID = oid.Hex()
	return assignment.ID, nil
}

// GetByID returns nil, nil when the id is unknown or malformed
func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var assignment model.Assignment
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&assignment)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	assignment.ID = id
	return &assignment, nil
}

// GetByAccount returns one page of an account's assignments, newest first,
// plus the account's total count
func (r *assignmentRepo) GetByAccount(ctx context.Context, account string, page, perPage int) ([]*model.Assignment, int64, error) {
	filter := bson.M{"account": account}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage)).
		SetProjection(bson.M{"questions": 0})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	assignments := []*model.Assignment{}
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, 0, err
	}
	return assignments, total, nil
}

func (r *assignmentRepo) Update(ctx context.Context, assignment *model.Assignment) error {
	oid, err := primitive.ObjectIDFromHex(assignment.ID)
	if err != nil {
		return err
	}

	assignment.UpdatedAt = time.Now()
	id := assignment.ID
	assignment.ID = "" // _id is immutable, keep it out of the replacement
	_, err = r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, assignment)
	assignment.ID = id
	return err
}

func (r *assignmentRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
