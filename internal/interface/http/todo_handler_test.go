package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aditpras/taskboard/internal/application"
	"github.com/aditpras/taskboard/internal/domain/entity"
	"github.com/aditpras/taskboard/internal/domain/repository"
	"github.com/aditpras/taskboard/internal/interface/middleware"
	"github.com/aditpras/taskboard/pkg/helpers"
	"github.com/aditpras/taskboard/pkg/validation"
)

/*
In-memory repositories backing the full HTTP stack
*/

type memUsers struct {
	byID map[primitive.ObjectID]entity.User
}

func (m *memUsers) Create(ctx context.Context, u *entity.User) error {
	for _, e := range m.byID {
		if e.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) Update(ctx context.Context, u *entity.User) error {
	if _, ok := m.byID[u.ID]; !ok {
		return repository.ErrNotFound
	}
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memUsers) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.User, error) {
	out := []entity.User{}
	for _, id := range ids {
		if u, ok := m.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) ListNonAdmins(ctx context.Context) ([]entity.User, error) {
	out := []entity.User{}
	for _, u := range m.byID {
		if u.Role != entity.RoleAdmin {
			out = append(out, u)
		}
	}
	return out, nil
}

type memTodos struct {
	byID map[primitive.ObjectID]entity.Todo
}

func (m *memTodos) Create(ctx context.Context, t *entity.Todo) error {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	m.byID[t.ID] = *t
	return nil
}

func (m *memTodos) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Todo, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := t
	return &cp, nil
}

func (m *memTodos) ListAll(ctx context.Context) ([]entity.Todo, error) {
	out := []entity.Todo{}
	for _, t := range m.byID {
		out = append(out, t)
	}
	return out, nil
}

func (m *memTodos) ListByOwner(ctx context.Context, userID primitive.ObjectID) ([]entity.Todo, error) {
	out := []entity.Todo{}
	for _, t := range m.byID {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTodos) Update(ctx context.Context, t *entity.Todo) error {
	if _, ok := m.byID[t.ID]; !ok {
		return repository.ErrNotFound
	}
	m.byID[t.ID] = *t
	return nil
}

func (m *memTodos) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memTodos) DeleteByOwner(ctx context.Context, userID primitive.ObjectID) error {
	for id, t := range m.byID {
		if t.UserID == userID {
			delete(m.byID, id)
		}
	}
	return nil
}

var (
	_ repository.UserRepository = (*memUsers)(nil)
	_ repository.TodoRepository = (*memTodos)(nil)

	initOnce sync.Once
)

func newAPIRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	initOnce.Do(validation.Init)

	users := &memUsers{byID: map[primitive.ObjectID]entity.User{}}
	todos := &memTodos{byID: map[primitive.ObjectID]entity.Todo{}}
	jwt := &helpers.JWTManager{Secret: []byte("test-secret"), TTL: time.Hour}
	logger := logrus.New()

	userSvc := application.NewUserService(users, todos, jwt, nil)
	todoSvc := application.NewTodoService(todos, users, nil, nil)
	userH := NewUserHandler(userSvc, logger)
	todoH := NewTodoHandler(todoSvc, logger)

	r := gin.New()
	u := r.Group("/user")
	u.POST("/register", userH.Register)
	u.POST("/login", userH.Login)
	auth := u.Group("")
	auth.Use(middleware.Auth(users, jwt))
	auth.GET("/profile", userH.Profile)
	auth.PUT("/:id", userH.Update)
	auth.DELETE("/:id", middleware.AdminOnly(), userH.Delete)
	auth.GET("/admin/users", middleware.AdminOnly(), userH.ListNonAdmins)

	td := r.Group("/todo")
	td.Use(middleware.Auth(users, jwt))
	td.POST("", middleware.AdminOnly(), todoH.Create)
	td.GET("", todoH.List)
	td.PUT("/:id", todoH.Update)
	td.DELETE("/:id", todoH.Delete)
	return r
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v (%s)", err, w.Body.String())
		}
	}
	return w, env
}

func registerAccount(t *testing.T, r *gin.Engine, fullname, email, role string) (id, token string) {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/user/register", "", gin.H{
		"fullname": fullname,
		"email":    email,
		"password": "password123",
		"role":     role,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", email, w.Code, w.Body.String())
	}
	var data struct {
		User  struct{ ID string `json:"id"` } `json:"user"`
		Token string                          `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode register data: %v", err)
	}
	return data.User.ID, data.Token
}

func TestRegisterValidation(t *testing.T) {
	r := newAPIRouter(t)

	w, env := doJSON(t, r, http.MethodPost, "/user/register", "", gin.H{
		"fullname": "Short Pass",
		"email":    "short@example.com",
		"password": "short",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if env.Success {
		t.Fatalf("expected failure envelope")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := newAPIRouter(t)
	registerAccount(t, r, "First", "dup@example.com", "")

	w, _ := doJSON(t, r, http.MethodPost, "/user/register", "", gin.H{
		"fullname": "Second",
		"email":    "dup@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	r := newAPIRouter(t)
	registerAccount(t, r, "Alice", "alice@example.com", "")

	w, env := doJSON(t, r, http.MethodPost, "/user/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if env.Message != "invalid credentials" {
		t.Fatalf("unexpected message: %q", env.Message)
	}

	// Unknown email reads identically.
	_, env2 := doJSON(t, r, http.MethodPost, "/user/login", "", gin.H{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	if env2.Message != env.Message {
		t.Fatalf("messages must match: %q vs %q", env2.Message, env.Message)
	}
}

func TestTodoCreateRequiresAdmin(t *testing.T) {
	r := newAPIRouter(t)
	userID, userToken := registerAccount(t, r, "Alice", "alice@example.com", "")

	w, _ := doJSON(t, r, http.MethodPost, "/todo", userToken, gin.H{
		"title":  "nope",
		"userId": userID,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestTodoAssignAndComplete(t *testing.T) {
	r := newAPIRouter(t)
	_, adminToken := registerAccount(t, r, "Root", "root@example.com", "admin")
	aliceID, aliceToken := registerAccount(t, r, "Alice", "alice@example.com", "")

	w, env := doJSON(t, r, http.MethodPost, "/todo", adminToken, gin.H{
		"title":    "Quarterly report",
		"priority": "high",
		"userId":   aliceID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created entity.Todo
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode created todo: %v", err)
	}
	if created.Completed {
		t.Fatalf("new todo must start incomplete")
	}
	if created.Priority != entity.PriorityHigh {
		t.Fatalf("expected priority high, got %q", created.Priority)
	}

	w, env = doJSON(t, r, http.MethodPut, "/todo/"+created.ID.Hex(), aliceToken, gin.H{
		"completed": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated entity.Todo
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("decode updated todo: %v", err)
	}
	if !updated.Completed {
		t.Fatalf("expected completed=true")
	}
	if updated.Title != "Quarterly report" || updated.Priority != entity.PriorityHigh {
		t.Fatalf("other fields must be unchanged: %+v", updated)
	}
}

func TestTodoListScopedToOwner(t *testing.T) {
	r := newAPIRouter(t)
	_, adminToken := registerAccount(t, r, "Root", "root@example.com", "admin")
	aliceID, aliceToken := registerAccount(t, r, "Alice", "alice@example.com", "")
	bobID, _ := registerAccount(t, r, "Bob", "bob@example.com", "")

	for _, owner := range []string{aliceID, bobID} {
		w, _ := doJSON(t, r, http.MethodPost, "/todo", adminToken, gin.H{
			"title":  "chore",
			"userId": owner,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("seed todo: %d", w.Code)
		}
	}

	w, env := doJSON(t, r, http.MethodGet, "/todo", aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var list []entity.TodoWithOwner
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 todo, got %d", len(list))
	}
	if list[0].UserID.Hex() != aliceID {
		t.Fatalf("leaked todo owned by %s", list[0].UserID.Hex())
	}

	// Admin sees both, with owner profiles attached.
	_, env = doJSON(t, r, http.MethodGet, "/todo", adminToken, nil)
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode admin list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 todos, got %d", len(list))
	}
	for _, item := range list {
		if item.Owner == nil || item.Owner.Email == "" {
			t.Fatalf("expected owner profile on %s", item.ID.Hex())
		}
	}
}

func TestTodoDeleteOwnerAndStranger(t *testing.T) {
	r := newAPIRouter(t)
	_, adminToken := registerAccount(t, r, "Root", "root@example.com", "admin")
	aliceID, aliceToken := registerAccount(t, r, "Alice", "alice@example.com", "")
	_, bobToken := registerAccount(t, r, "Bob", "bob@example.com", "")

	w, env := doJSON(t, r, http.MethodPost, "/todo", adminToken, gin.H{
		"title":  "hers",
		"userId": aliceID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("seed todo: %d", w.Code)
	}
	var created entity.Todo
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode created todo: %v", err)
	}

	if w, _ := doJSON(t, r, http.MethodDelete, "/todo/"+created.ID.Hex(), bobToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("stranger delete: expected 403, got %d", w.Code)
	}
	if w, _ := doJSON(t, r, http.MethodDelete, "/todo/"+created.ID.Hex(), aliceToken, nil); w.Code != http.StatusOK {
		t.Fatalf("owner delete: expected 200, got %d", w.Code)
	}
	if w, _ := doJSON(t, r, http.MethodDelete, "/todo/"+created.ID.Hex(), aliceToken, nil); w.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", w.Code)
	}
}

func TestUserDeleteAdminOnlyRoute(t *testing.T) {
	r := newAPIRouter(t)
	_, adminToken := registerAccount(t, r, "Root", "root@example.com", "admin")
	aliceID, aliceToken := registerAccount(t, r, "Alice", "alice@example.com", "")

	if w, _ := doJSON(t, r, http.MethodDelete, "/user/"+aliceID, aliceToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("self delete: expected 403, got %d", w.Code)
	}
	if w, _ := doJSON(t, r, http.MethodDelete, "/user/"+aliceID, adminToken, nil); w.Code != http.StatusOK {
		t.Fatalf("admin delete: expected 200, got %d", w.Code)
	}

	// The deleted account's token no longer resolves.
	if w, _ := doJSON(t, r, http.MethodGet, "/user/profile", aliceToken, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("deleted user token: expected 401, got %d", w.Code)
	}
}
