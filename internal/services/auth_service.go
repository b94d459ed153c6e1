// Package services orchestrates the application operations across storage,
// AMQP, and the report aggregator.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	ErrEmptyName    = errors.New("full name cannot be empty")
)

// AuthService registers users and issues session tokens.
type AuthService struct {
	storage *storage.SQLiteRepository
	tokens  *auth.TokenIssuer
}

func NewAuthService(storage *storage.SQLiteRepository, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{storage: storage, tokens: tokens}
}

// Session is the result of a successful register or login.
type Session struct {
	Token string
	User  core.User
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.ContainsAny(email, " \t")
}

func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return Session{}, ErrInvalidEmail
	}
	if len(password) < 8 {
		return Session{}, ErrWeakPassword
	}
	if strings.TrimSpace(fullName) == "" {
		return Session{}, ErrEmptyName
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	user := core.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
		IsActive:     true,
	}
	if err := s.storage.CreateUser(ctx, user); err != nil {
		return Session{}, err
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return Session{}, fmt.Errorf("generate token: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "user_id", user.ID, "email", user.Email)
	return Session{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.storage.GetUserByEmail(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		// Same error as a bad password so probes cannot enumerate accounts.
		return Session{}, core.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return Session{}, core.ErrInvalidCredentials
	}
	if !user.IsActive {
		return Session{}, core.ErrAccountDisabled
	}

	now := time.Now().UTC()
	if err := s.storage.UpdateLastLogin(ctx, user.ID, now); err != nil {
		slog.WarnContext(ctx, "Failed to update last login", "user_id", user.ID, "error", err)
	} else {
		user.LastLogin = now
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return Session{}, fmt.Errorf("generate token: %w", err)
	}

	slog.InfoContext(ctx, "User logged in", "user_id", user.ID)
	return Session{Token: token, User: user}, nil
}

// CurrentUser resolves the user behind a validated token subject.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (core.User, error) {
	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return core.User{}, err
	}
	if !user.IsActive {
		return core.User{}, core.ErrAccountDisabled
	}
	return user, nil
}
