package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aditpras/taskboard/internal/domain/entity"
	"github.com/aditpras/taskboard/internal/domain/policy"
	repo "github.com/aditpras/taskboard/internal/domain/repository"
	"github.com/aditpras/taskboard/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrForbidden          = errors.New("forbidden")
)

type UserService struct {
	Repo   repo.UserRepository
	Todos  repo.TodoRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewUserService(users repo.UserRepository, todos repo.TodoRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *UserService {
	return &UserService{
		Repo:   users,
		Todos:  todos,
		JWT:    jwt,
		Logger: logger,
	}
}

type RegisterInput struct {
	Fullname string
	Email    string
	Password string
	Role     string
}

// Register persists a new user with a bcrypt-hashed password and issues a
// session token. The role defaults to "user" when not supplied.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, string, error) {
	if _, err := s.Repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, "", err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}
	role := entity.RoleUser
	if in.Role != "" {
		role = entity.Role(in.Role)
	}
	u := &entity.User{
		Fullname: in.Fullname,
		Email:    in.Email,
		Password: hash,
		Role:     role,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		// The unique index closes the gap between the email check above and
		// the insert.
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, _, err := s.JWT.Generate(u.ID.Hex(), string(u.Role))
	if err != nil {
		return nil, "", err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID.Hex(), "role": u.Role}).Info("user registered")
	}
	return u, token, nil
}

// Login validates email/password and issues a session token. Unknown email
// and wrong password both yield ErrInvalidCredentials so callers cannot tell
// which field was wrong.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", ErrInvalidCredentials
	}
	token, _, err := s.JWT.Generate(u.ID.Hex(), string(u.Role))
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

type UpdateUserInput struct {
	Fullname string
	Email    string
	Password string
	Role     string
}

// Update applies the supplied fields to the target user. Admins may update
// anyone including the role; other actors only themselves, and their role
// field is ignored. Empty fields are left unchanged.
func (s *UserService) Update(ctx context.Context, actor *entity.User, targetID string, in UpdateUserInput) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	target, err := s.Repo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	perms := policy.ForUser(actor.Role, actor.ID == target.ID)
	if !perms.Update {
		return nil, ErrForbidden
	}

	if in.Fullname != "" {
		target.Fullname = in.Fullname
	}
	if in.Email != "" {
		target.Email = in.Email
	}
	if in.Password != "" {
		hash, err := helpers.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		target.Password = hash
	}
	if in.Role != "" && perms.ChangeRole {
		target.Role = entity.Role(in.Role)
	}

	if err := s.Repo.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// Delete removes a user. Admin only; the user's todos are deleted with them
// rather than left with a dangling owner reference.
func (s *UserService) Delete(ctx context.Context, actor *entity.User, targetID string) error {
	oid, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return ErrUserNotFound
	}
	target, err := s.Repo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	perms := policy.ForUser(actor.Role, actor.ID == target.ID)
	if !perms.Delete {
		return ErrForbidden
	}

	if err := s.Todos.DeleteByOwner(ctx, target.ID); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, target.ID); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": target.ID.Hex(), "actor": actor.ID.Hex()}).Info("user deleted with owned todos")
	}
	return nil
}

// ListNonAdmins returns every non-admin user. Route access is admin-gated by
// the middleware; the policy check here guards direct service use.
func (s *UserService) ListNonAdmins(ctx context.Context, actor *entity.User) ([]entity.User, error) {
	if !policy.CanListUsers(actor.Role) {
		return nil, ErrForbidden
	}
	return s.Repo.ListNonAdmins(ctx)
}
