package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/taskdesk/internal/access"
	"github.com/hongminglow/taskdesk/internal/auth"
	"github.com/hongminglow/taskdesk/internal/models"
	"github.com/hongminglow/taskdesk/internal/storage"
)

// UserService administers identities. Every operation is Admin only.
type UserService struct {
	users  storage.UserStore
	hasher *auth.PasswordHasher
}

// NewUserService constructs the service.
func NewUserService(users storage.UserStore, hasher *auth.PasswordHasher) *UserService {
	return &UserService{users: users, hasher: hasher}
}

// List returns all users. Password hashes never leave the service.
func (s *UserService) List(ctx context.Context, id auth.Identity) ([]models.User, error) {
	if err := access.Authorize(id, access.OpManageUsers, access.Resource{}); err != nil {
		return nil, err
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// Create registers a new identity with a hashed password.
func (s *UserService) Create(ctx context.Context, id auth.Identity, in NewUser) (models.User, error) {
	if err := access.Authorize(id, access.OpManageUsers, access.Resource{}); err != nil {
		return models.User{}, err
	}

	if _, err := s.users.FindUser(ctx, in.UserID); err == nil {
		return models.User{}, fmt.Errorf("user %s: %w", in.UserID, ErrConflict)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, fmt.Errorf("find user %s: %w", in.UserID, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.User{}, err
	}
	created, err := s.users.CreateUser(ctx, models.User{
		UserID:       in.UserID,
		Name:         in.Name,
		Email:        in.Email,
		Role:         in.Role,
		Department:   in.Department,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.User{}, fmt.Errorf("user %s: %w", in.UserID, ErrConflict)
		}
		return models.User{}, fmt.Errorf("create user %s: %w", in.UserID, err)
	}
	created.PasswordHash = ""
	return created, nil
}

// Update applies patch to the user identified by userID.
func (s *UserService) Update(ctx context.Context, id auth.Identity, userID string, patch UserPatch) (models.User, error) {
	if err := access.Authorize(id, access.OpManageUsers, access.Resource{}); err != nil {
		return models.User{}, err
	}

	user, err := s.users.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return models.User{}, fmt.Errorf("find user %s: %w", userID, err)
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Department != nil {
		user.Department = *patch.Department
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if patch.Password != nil {
		hash, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return models.User{}, err
		}
		user.PasswordHash = hash
	}

	updated, err := s.users.UpdateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return models.User{}, fmt.Errorf("update user %s: %w", userID, err)
	}
	updated.PasswordHash = ""
	return updated, nil
}

// Delete removes the user identified by userID.
func (s *UserService) Delete(ctx context.Context, id auth.Identity, userID string) error {
	if err := access.Authorize(id, access.OpManageUsers, access.Resource{}); err != nil {
		return err
	}
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("delete user %s: %w", userID, err)
	}
	return nil
}
