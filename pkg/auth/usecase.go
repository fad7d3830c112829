package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/artem13815/accounts/pkg/security/password"
)

// AuthUseCase describes registration, login and identity lookup behavior.
type AuthUseCase interface {
	Register(ctx context.Context, email, plaintext string, name *string) (AuthResult, error)
	Login(ctx context.Context, email, plaintext string) (AuthResult, error)
	Identify(ctx context.Context, userID string) (User, error)
}

type AuthResult struct {
	User  User
	Token string
}

// dummyDigest is a bcrypt digest of an unguessable throwaway value. Login
// verifies against it when the email is unknown so that "no such user" and
// "wrong password" take comparable time.
const dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type authService struct {
	repo   UserRepository
	tokens TokenGenerator
}

// NewAuthService returns default implementation of AuthUseCase.
func NewAuthService(repo UserRepository, tokens TokenGenerator) AuthUseCase {
	return &authService{repo: repo, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, email, plaintext string, name *string) (AuthResult, error) {
	if strings.TrimSpace(email) == "" || plaintext == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	digest, err := password.Hash(plaintext)
	if err != nil {
		return AuthResult{}, err
	}

	// No existence pre-check: the store's unique index on email is the
	// authoritative duplicate signal, so concurrent registrations cannot
	// race past each other.
	user, err := s.repo.Create(ctx, User{
		Email:        email,
		PasswordHash: digest,
		Name:         name,
		Provider:     ProviderEmail,
	})
	if err != nil {
		return AuthResult{}, err
	}

	token, err := s.tokens.Generate(ctx, user)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: user, Token: token}, nil
}

func (s *authService) Login(ctx context.Context, email, plaintext string) (AuthResult, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Only a confirmed missing record is a credential failure; store
		// outages and other faults must keep their own identity so the
		// boundary does not report them as a 401.
		if errors.Is(err, ErrNotFound) {
			password.Verify(plaintext, dummyDigest)
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	if !password.Verify(plaintext, user.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}
	token, err := s.tokens.Generate(ctx, user)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: user, Token: token}, nil
}

// Identify resolves a verified token subject to the current user record.
// The subject existed when the token was issued, so an absent record means
// the account has since been removed.
func (s *authService) Identify(ctx context.Context, userID string) (User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return User{}, ErrUserNotFound
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return user, nil
}
