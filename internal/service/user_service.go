package service

import (
	"context"
	"go-admin-console/internal/data"
	"go-admin-console/internal/validation"
	"time"
)

// UserRepository defines the interface for database operations on users.
type UserRepository interface {
	GetAllUsers(ctx context.Context) ([]*data.User, error)
	GetUserByID(ctx context.Context, id int64) (*data.User, error)
	CreateUser(ctx context.Context, user *data.User) error
	UpdateUser(ctx context.Context, user *data.User) error
	DeleteUser(ctx context.Context, id int64) error
}

// UserServicer defines the interface for interacting with users.
type UserServicer interface {
	GetAll(ctx context.Context) ([]*data.User, error)
	Get(ctx context.Context, id int64) (*data.User, error)
	Create(ctx context.Context, in validation.UserInput) (*data.User, error)
	Update(ctx context.Context, id int64, in validation.UserInput) (*data.User, error)
	Delete(ctx context.Context, id int64) error
}

// UserService provides business logic for managing users.
type UserService struct {
	repo      UserRepository
	validator *validation.Validator
	list      snapshot
	now       func() time.Time
}

// NewUserService creates a new UserService. c may be nil to disable list caching.
func NewUserService(repo UserRepository, v *validation.Validator, c ListCache) *UserService {
	return &UserService{
		repo:      repo,
		validator: v,
		list:      snapshot{cache: c, key: "users:all"},
		now:       clock,
	}
}

// GetAll returns every user.
func (s *UserService) GetAll(ctx context.Context) ([]*data.User, error) {
	var users []*data.User
	if s.list.load(&users) {
		return users, nil
	}
	users, err := s.repo.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	s.list.store(users)
	return users, nil
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id int64) (*data.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// Create validates in and stores a new user. Role defaults to "user" and
// status to "active".
func (s *UserService) Create(ctx context.Context, in validation.UserInput) (*data.User, error) {
	if in.Role == "" {
		in.Role = string(data.RoleUser)
	}
	if in.Status == "" {
		in.Status = string(data.UserActive)
	}
	if err := s.validator.User(in); err != nil {
		return nil, err
	}

	user := &data.User{
		Username:  in.Username,
		Email:     in.Email,
		Role:      data.Role(in.Role),
		Status:    data.UserStatus(in.Status),
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.list.invalidate()
	return user, nil
}

// Update validates in and overwrites the editable fields of user id.
func (s *UserService) Update(ctx context.Context, id int64, in validation.UserInput) (*data.User, error) {
	if err := s.validator.User(in); err != nil {
		return nil, err
	}
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Username = in.Username
	user.Email = in.Email
	user.Role = data.Role(in.Role)
	user.Status = data.UserStatus(in.Status)

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	s.list.invalidate()
	return user, nil
}

// Delete removes user id.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.list.invalidate()
	return nil
}
