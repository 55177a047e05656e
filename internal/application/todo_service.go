package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aditpras/taskboard/internal/domain/entity"
	"github.com/aditpras/taskboard/internal/domain/policy"
	repo "github.com/aditpras/taskboard/internal/domain/repository"
	"github.com/aditpras/taskboard/pkg/helpers"
)

var (
	ErrTodoNotFound  = errors.New("task not found")
	ErrInvalidUserID = errors.New("invalid userId format")
)

// TodoEvent is published to the activity queue on todo mutations.
type TodoEvent struct {
	Event     string    `json:"event"` // created, updated, deleted
	TodoID    string    `json:"todo_id"`
	OwnerID   string    `json:"owner_id"`
	ActorID   string    `json:"actor_id"`
	Completed bool      `json:"completed"`
	At        time.Time `json:"at"`
}

type TodoService struct {
	Repo   repo.TodoRepository
	Users  repo.UserRepository
	Logger *logrus.Logger
	Pub    *helpers.RabbitPublisher
}

func NewTodoService(todos repo.TodoRepository, users repo.UserRepository, logger *logrus.Logger, pub *helpers.RabbitPublisher) *TodoService {
	return &TodoService{
		Repo:   todos,
		Users:  users,
		Logger: logger,
		Pub:    pub,
	}
}

func (s *TodoService) publish(ctx context.Context, event string, t *entity.Todo, actor *entity.User) {
	if s.Pub == nil {
		return
	}
	ev := TodoEvent{
		Event:     event,
		TodoID:    t.ID.Hex(),
		OwnerID:   t.UserID.Hex(),
		ActorID:   actor.ID.Hex(),
		Completed: t.Completed,
		At:        time.Now().UTC(),
	}
	if err := s.Pub.PublishJSON(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("todo_id", ev.TodoID).Warn("todo event publish failed")
	}
}

type CreateTodoInput struct {
	UserID      string
	Title       string
	Description string
	Priority    string
}

// Create creates a todo on behalf of the target user. Admin only. The todo
// starts incomplete with the given or default priority.
func (s *TodoService) Create(ctx context.Context, actor *entity.User, in CreateTodoInput) (*entity.Todo, error) {
	if !policy.CanCreateTodo(actor.Role) {
		return nil, ErrForbidden
	}
	ownerID, err := primitive.ObjectIDFromHex(in.UserID)
	if err != nil {
		return nil, ErrInvalidUserID
	}
	if _, err := s.Users.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	priority := entity.PriorityMedium
	if in.Priority != "" {
		priority = entity.Priority(in.Priority)
	}
	t := &entity.Todo{
		UserID:      ownerID,
		Title:       in.Title,
		Description: in.Description,
		Completed:   false,
		Priority:    priority,
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.publish(ctx, "created", t, actor)
	return t, nil
}

// List returns every todo with its owner's profile for admins, and only the
// actor's own todos otherwise.
func (s *TodoService) List(ctx context.Context, actor *entity.User) ([]entity.TodoWithOwner, error) {
	if !actor.IsAdmin() {
		todos, err := s.Repo.ListByOwner(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		out := make([]entity.TodoWithOwner, 0, len(todos))
		for _, t := range todos {
			out = append(out, entity.TodoWithOwner{Todo: t})
		}
		return out, nil
	}

	todos, err := s.Repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	ownerIDs := make([]primitive.ObjectID, 0, len(todos))
	seen := map[primitive.ObjectID]bool{}
	for _, t := range todos {
		if !seen[t.UserID] {
			seen[t.UserID] = true
			ownerIDs = append(ownerIDs, t.UserID)
		}
	}
	owners, err := s.Users.ListByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*entity.TodoOwner, len(owners))
	for i := range owners {
		byID[owners[i].ID] = &entity.TodoOwner{Fullname: owners[i].Fullname, Email: owners[i].Email}
	}
	out := make([]entity.TodoWithOwner, 0, len(todos))
	for _, t := range todos {
		out = append(out, entity.TodoWithOwner{Todo: t, Owner: byID[t.UserID]})
	}
	return out, nil
}

type UpdateTodoInput struct {
	Title       string
	Description string
	Priority    string
	UserID      string
	Completed   *bool
}

// Update applies the supplied fields to a todo. Admins may additionally
// reassign the owner; a userId supplied by a non-admin is ignored. Empty
// string fields are left unchanged.
func (s *TodoService) Update(ctx context.Context, actor *entity.User, todoID string, in UpdateTodoInput) (*entity.Todo, error) {
	oid, err := primitive.ObjectIDFromHex(todoID)
	if err != nil {
		return nil, ErrTodoNotFound
	}
	t, err := s.Repo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}

	perms := policy.ForTodo(actor.Role, t.UserID == actor.ID)
	if !perms.View {
		return nil, ErrForbidden
	}

	if in.UserID != "" && perms.Reassign {
		ownerID, err := primitive.ObjectIDFromHex(in.UserID)
		if err != nil {
			return nil, ErrInvalidUserID
		}
		if _, err := s.Users.GetByID(ctx, ownerID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		t.UserID = ownerID
	}
	if in.Completed != nil && perms.SetCompleted {
		t.Completed = *in.Completed
	}
	if perms.EditFields {
		if in.Title != "" {
			t.Title = in.Title
		}
		if in.Description != "" {
			t.Description = in.Description
		}
		if in.Priority != "" {
			t.Priority = entity.Priority(in.Priority)
		}
	}

	if err := s.Repo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.publish(ctx, "updated", t, actor)
	return t, nil
}

// Delete removes a todo. Allowed for admins and the owning user.
func (s *TodoService) Delete(ctx context.Context, actor *entity.User, todoID string) error {
	oid, err := primitive.ObjectIDFromHex(todoID)
	if err != nil {
		return ErrTodoNotFound
	}
	t, err := s.Repo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrTodoNotFound
		}
		return err
	}

	perms := policy.ForTodo(actor.Role, t.UserID == actor.ID)
	if !perms.Delete {
		return ErrForbidden
	}
	if err := s.Repo.Delete(ctx, t.ID); err != nil {
		return err
	}
	s.publish(ctx, "deleted", t, actor)
	return nil
}
