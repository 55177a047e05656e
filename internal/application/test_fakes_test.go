package application

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aditpras/taskboard/internal/domain/entity"
	"github.com/aditpras/taskboard/internal/domain/repository"
	"github.com/aditpras/taskboard/pkg/helpers"
)

/*
Fakes for the repository interfaces
*/

type fakeUserRepo struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]entity.User

	// injected errors (if set, method returns error)
	createErr error
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[primitive.ObjectID]entity.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.byID {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[u.ID]; !ok {
		return repository.ErrNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUserRepo) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []entity.User{}
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ListNonAdmins(ctx context.Context) ([]entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []entity.User{}
	for _, u := range f.byID {
		if u.Role != entity.RoleAdmin {
			out = append(out, u)
		}
	}
	return out, nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

type fakeTodoRepo struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]entity.Todo

	createErr error
}

func newFakeTodoRepo() *fakeTodoRepo {
	return &fakeTodoRepo{byID: map[primitive.ObjectID]entity.Todo{}}
}

func (f *fakeTodoRepo) Create(ctx context.Context, t *entity.Todo) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	f.byID[t.ID] = *t
	return nil
}

func (f *fakeTodoRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := t
	return &cp, nil
}

func (f *fakeTodoRepo) ListAll(ctx context.Context) ([]entity.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []entity.Todo{}
	for _, t := range f.byID {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTodoRepo) ListByOwner(ctx context.Context, userID primitive.ObjectID) ([]entity.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []entity.Todo{}
	for _, t := range f.byID {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTodoRepo) Update(ctx context.Context, t *entity.Todo) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[t.ID]; !ok {
		return repository.ErrNotFound
	}
	t.UpdatedAt = time.Now().UTC()
	f.byID[t.ID] = *t
	return nil
}

func (f *fakeTodoRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeTodoRepo) DeleteByOwner(ctx context.Context, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, t := range f.byID {
		if t.UserID == userID {
			delete(f.byID, id)
		}
	}
	return nil
}

var _ repository.TodoRepository = (*fakeTodoRepo)(nil)

/*
Construction helpers
*/

func newTestJWT() *helpers.JWTManager {
	return helpers.NewJWTManager("test-secret", time.Hour)
}

func newUserSvcForTest() (*UserService, *fakeUserRepo, *fakeTodoRepo) {
	users := newFakeUserRepo()
	todos := newFakeTodoRepo()
	return NewUserService(users, todos, newTestJWT(), nil), users, todos
}

func newTodoSvcForTest() (*TodoService, *fakeTodoRepo, *fakeUserRepo) {
	users := newFakeUserRepo()
	todos := newFakeTodoRepo()
	return NewTodoService(todos, users, nil, nil), todos, users
}

func seedUser(f *fakeUserRepo, fullname, email string, role entity.Role) *entity.User {
	hash, _ := helpers.HashPassword("password123")
	u := &entity.User{
		Fullname: fullname,
		Email:    email,
		Password: hash,
		Role:     role,
	}
	_ = f.Create(context.Background(), u)
	return u
}

func seedTodo(f *fakeTodoRepo, owner primitive.ObjectID, title string, priority entity.Priority) *entity.Todo {
	t := &entity.Todo{
		UserID:   owner,
		Title:    title,
		Priority: priority,
	}
	_ = f.Create(context.Background(), t)
	return t
}
