// Package services – AccountService
//
// This file implements AccountService, which owns signup, login, and
// account removal. It hashes credentials, checks them on login, and issues
// access tokens through the injected TokenService. Login failures for an
// unknown email and for a wrong password are identical by design.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"

	"github.com/postboard/go-post-backend/internal/auth"
	"github.com/postboard/go-post-backend/internal/cache"
	"github.com/postboard/go-post-backend/internal/domain"
)

// MinPasswordLen is the minimum accepted password length at signup.
const MinPasswordLen = 8

// UserRepo defines the repository contract required by AccountService.
type UserRepo interface {
	// CreateUser inserts a new user row with a hashed password.
	CreateUser(ctx context.Context, db *gorm.DB, email, passwordHash string) (*domain.User, error)

	// GetUserByEmail fetches a user by login handle.
	GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error)

	// DeleteUser removes the user and all owned posts transactionally.
	DeleteUser(ctx context.Context, db *gorm.DB, userID string) error
}

// AccountService provides registration, authentication, and account
// deletion. Tokens issued here carry the user id as subject.
type AccountService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the user repository used by this service.
	Repo UserRepo
	// Tokens issues access tokens after signup and login.
	Tokens *auth.TokenService
	// Cache, when set, is dropped for the owner on account deletion.
	Cache *cache.PostCache
}

// Signup registers a new account and returns the created user together
// with a fresh access token. The email is normalized to lowercase; a
// duplicate registration fails with ErrEmailTaken and a short password
// with ErrWeakPassword.
func (s *AccountService) Signup(ctx context.Context, email, password string) (*domain.User, string, error) {
	tr := otel.Tracer("services/AccountService")
	ctx, span := tr.Start(ctx, "Signup")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < MinPasswordLen {
		return nil, "", ErrWeakPassword
	}

	if _, err := s.Repo.GetUserByEmail(ctx, s.DB, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	u, err := s.Repo.CreateUser(ctx, s.DB, email, hash)
	if err != nil {
		return nil, "", err
	}

	token, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies the credentials and returns a fresh access token.
// Unknown email and wrong password both yield ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	tr := otel.Tracer("services/AccountService")
	ctx, span := tr.Start(ctx, "Login")
	defer span.End()

	u, err := s.Repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	return s.Tokens.Issue(u.ID)
}

// DeleteAccount removes the user and every owned post in one transaction,
// then drops the owner's cache entry. Returns ErrUserNotFound when the
// account no longer exists.
func (s *AccountService) DeleteAccount(ctx context.Context, userID string) error {
	tr := otel.Tracer("services/AccountService")
	ctx, span := tr.Start(ctx, "DeleteAccount")
	defer span.End()

	if err := s.Repo.DeleteUser(ctx, s.DB, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if s.Cache != nil {
		s.Cache.Drop(userID)
	}
	return nil
}
