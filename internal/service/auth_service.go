package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/sqlconfig"
)

// AuthService handles registration, login and profile management.
type AuthService struct {
	storage    *storage.Storage
	tokens     tokenIssuer
	bcryptCost int
}

func NewAuthService(store *storage.Storage, tokens tokenIssuer, bcryptCost int) *AuthService {
	return &AuthService{
		storage:    store,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register creates a user and returns a fresh token with the public profile.
func (s *AuthService) Register(ctx context.Context, registration Registration) (*AuthResult, error) {
	existing, err := s.storage.Users.FindByEmail(ctx, registration.Email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if existing != nil {
		return nil, ErrConflict
	}

	hash, err := auth.HashPassword(registration.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	row, err := s.storage.Users.Insert(ctx, &sqlconfig.UserCreate{
		Name:         registration.Name,
		Email:        registration.Email,
		PasswordHash: hash,
		Dob:          registration.Dob,
		Phone:        registration.Phone,
	})
	if errors.Is(err, sqlconfig.ErrDuplicateEmail) {
		// Lost a race with a concurrent signup for the same email.
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return s.authenticated(row)
}

// Login verifies the credentials. An unknown email and a wrong password
// return the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	row, err := s.storage.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if row == nil || !auth.CheckPassword(password, row.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.authenticated(row)
}

func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	row, err := s.storage.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if row == nil {
		return nil, ErrNotFound
	}

	profile := profileFromRow(row)
	return &profile, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch ProfilePatch) (*Profile, error) {
	row, err := s.storage.Users.UpdateProfile(ctx, userID, &sqlconfig.UserSetter{
		Name:  patch.Name,
		Dob:   patch.Dob,
		Phone: patch.Phone,
	})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if row == nil {
		return nil, ErrNotFound
	}

	profile := profileFromRow(row)
	return &profile, nil
}

func (s *AuthService) authenticated(row *sqlconfig.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(row.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &AuthResult{
		Token:   token,
		Profile: profileFromRow(row),
	}, nil
}
