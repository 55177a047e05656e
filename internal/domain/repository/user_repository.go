package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aditpras/taskboard/internal/domain/entity"
)

var (
	// ErrNotFound is returned when the referenced record is absent.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when a user create violates the unique
	// email index.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// ListByIDs returns the users whose ids appear in the given set.
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.User, error)
	// ListNonAdmins returns every user whose role is not admin.
	ListNonAdmins(ctx context.Context) ([]entity.User, error)
}
