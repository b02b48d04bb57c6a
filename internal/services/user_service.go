// Package services orchestrates validation, storage access, caching and
// logging for each entity. Constraint violations still surface from the
// storage layer; the validation here is the first line of defense, never
// the only one.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"expenses/internal/auth"
	"expenses/internal/core"
	"expenses/internal/log"
	"expenses/internal/storage"
)

var (
	// ErrInvalidCredentials covers unknown logins, wrong passwords and
	// deactivated accounts alike, so callers cannot probe which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrWeakPassword = errors.New("password too short (min 8 characters)")
)

// UserService manages account lifecycle and authentication.
type UserService struct {
	storage *storage.Repository
	logger  *log.Logger
}

func NewUserService(storage *storage.Repository, logger *log.Logger) *UserService {
	return &UserService{
		storage: storage,
		logger:  logger.WithComponent(log.ComponentUser),
	}
}

// Register validates and creates a new account. The password is hashed
// before it ever reaches storage; a duplicate username or email surfaces
// as core.ErrDuplicate from the unique indexes.
func (s *UserService) Register(ctx context.Context, username, email, password, fullName string) (*core.User, error) {
	u := core.User{Username: username, Email: email, FullName: fullName}
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("validate user: %w", err)
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.storage.CreateUser(ctx, username, email, hash, fullName)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User registered",
		log.FieldUserID, created.ID,
		log.FieldUsername, created.Username)
	return created, nil
}

// Authenticate resolves the login (username or email) and verifies the
// password. Deactivated accounts are rejected.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (*core.User, error) {
	u, err := s.storage.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id int64) (*core.User, error) {
	return s.storage.GetUser(ctx, id)
}

// UpdateProfile changes full name and email. A duplicate email surfaces
// as core.ErrDuplicate.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, fullName, email string) error {
	if email == "" || !strings.Contains(email, "@") {
		return core.ErrEmptyEmail
	}
	return s.storage.UpdateUserProfile(ctx, id, fullName, email)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	u, err := s.storage.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.VerifyPassword(u.PasswordHash, oldPassword); err != nil {
		return ErrInvalidCredentials
	}
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.storage.UpdateUserPassword(ctx, id, hash); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Password changed", log.FieldUserID, id)
	return nil
}

// Deactivate flips the soft-delete flag; the account and its records stay.
func (s *UserService) Deactivate(ctx context.Context, id int64) error {
	if err := s.storage.SetUserActive(ctx, id, false); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "User deactivated", log.FieldUserID, id)
	return nil
}

// Delete removes the account; the engine cascades to the user's expenses
// and budgets.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.storage.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "User deleted", log.FieldUserID, id)
	return nil
}
