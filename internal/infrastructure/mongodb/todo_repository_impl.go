package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aditpras/taskboard/internal/domain/entity"
	"github.com/aditpras/taskboard/internal/domain/repository"
)

type TodoRepository struct {
	coll *mongo.Collection
}

func NewTodoRepository(db *mongo.Database) *TodoRepository {
	return &TodoRepository{coll: db.Collection(TodosCollection)}
}

func (r *TodoRepository) Create(ctx context.Context, t *entity.Todo) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	res, err := r.coll.InsertOne(ctx, t)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		t.ID = oid
	}
	return nil
}

func (r *TodoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Todo, error) {
	t := &entity.Todo{}
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *TodoRepository) ListAll(ctx context.Context) ([]entity.Todo, error) {
	return r.list(ctx, bson.M{})
}

func (r *TodoRepository) ListByOwner(ctx context.Context, userID primitive.ObjectID) ([]entity.Todo, error) {
	return r.list(ctx, bson.M{"user": userID})
}

func (r *TodoRepository) list(ctx context.Context, filter bson.M) ([]entity.Todo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()
	todos := []entity.Todo{}
	if err := cur.All(ctx, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (r *TodoRepository) Update(ctx context.Context, t *entity.Todo) error {
	t.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TodoRepository) DeleteByOwner(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"user": userID})
	return err
}

var _ repository.TodoRepository = (*TodoRepository)(nil)
