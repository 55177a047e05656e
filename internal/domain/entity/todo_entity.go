package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Priority of a todo item.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func IsValidPriority(p string) bool {
	return p == string(PriorityLow) || p == string(PriorityMedium) || p == string(PriorityHigh)
}

// Todo is a task assigned to exactly one owning user.
// Its only lifecycle states are incomplete and completed, driven by the
// Completed flag.
type Todo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user" json:"user"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Completed   bool               `bson:"completed" json:"completed"`
	Priority    Priority           `bson:"priority" json:"priority"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// TodoOwner is the owner profile attached to admin listings.
type TodoOwner struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
}

// TodoWithOwner decorates a todo with its owner's profile fields.
type TodoWithOwner struct {
	Todo
	Owner *TodoOwner `json:"owner,omitempty"`
}
