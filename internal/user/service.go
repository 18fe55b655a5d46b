package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/storefront/internal/auth"
)

const minPasswordLength = 6

// Repository is the storage contract for user accounts.
// Insert must return ErrEmailTaken when the email is already used.
type Repository interface {
	Insert(ctx context.Context, u User) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u User) (User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// Service manages registration, login, and account maintenance.
type Service struct {
	repo   Repository
	tokens *auth.Service
	log    *slog.Logger
}

func NewService(repo Repository, tokens *auth.Service, log *slog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, log: log}
}

// Register creates an account and returns it with a fresh access
// token. Emails are stored lowercase so lookups are case-insensitive.
func (s *Service) Register(ctx context.Context, name, email, password string) (User, string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return User{}, "", fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, ", "))
	}
	if !strings.Contains(email, "@") {
		return User{}, "", fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(password) < minPasswordLength {
		return User{}, "", fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, "", err
	}

	u, err := s.repo.Insert(ctx, User{Name: name, Email: email, Password: hash})
	if err != nil {
		return User{}, "", err
	}

	token, err := s.tokens.Issue(u.ID, u.IsAdmin)
	if err != nil {
		return User{}, "", err
	}
	return u, token, nil
}

// Login verifies credentials and returns the account with a fresh
// access token. A missing account and a wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	u, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return User{}, "", ErrInvalidCredentials
	}
	if !auth.VerifyPassword(u.Password, password) {
		return User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.IsAdmin)
	if err != nil {
		return User{}, "", err
	}
	return u, token, nil
}

// Get returns the full account record.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// GetProfile returns the public projection of an account.
func (s *Service) GetProfile(ctx context.Context, id string) (Profile, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email}, nil
}

// Update patches an account. Only the account owner or an admin may
// update it; the admin flag itself can only be changed by an admin.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput, requester auth.Identity) (User, error) {
	if requester.UserID != id && !requester.IsAdmin {
		return User{}, ErrNotAuthorized
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	if email := normalizeEmail(in.Email); email != "" {
		if !strings.Contains(email, "@") {
			return User{}, fmt.Errorf("%w: invalid email", ErrValidation)
		}
		u.Email = email
	}
	if in.Password != "" {
		if len(in.Password) < minPasswordLength {
			return User{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
		}
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return User{}, err
		}
		u.Password = hash
	}
	if in.IsAdmin != nil && requester.IsAdmin {
		u.IsAdmin = *in.IsAdmin
	}

	return s.repo.Update(ctx, u)
}

// Delete removes an account. Only the owner or an admin may delete it.
func (s *Service) Delete(ctx context.Context, id string, requester auth.Identity) error {
	if requester.UserID != id && !requester.IsAdmin {
		return ErrNotAuthorized
	}
	return s.repo.Delete(ctx, id)
}

// List returns every account for the admin dashboard.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.FindAll(ctx)
}

// Count returns the total number of accounts.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
