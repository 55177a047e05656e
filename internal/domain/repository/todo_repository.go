package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aditpras/taskboard/internal/domain/entity"
)

// TodoRepository defines the interface for todo persistence.
type TodoRepository interface {
	Create(ctx context.Context, t *entity.Todo) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Todo, error)
	ListAll(ctx context.Context) ([]entity.Todo, error)
	ListByOwner(ctx context.Context, userID primitive.ObjectID) ([]entity.Todo, error)
	Update(ctx context.Context, t *entity.Todo) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DeleteByOwner removes every todo owned by the given user. Used to
	// cascade user deletion.
	DeleteByOwner(ctx context.Context, userID primitive.ObjectID) error
}
