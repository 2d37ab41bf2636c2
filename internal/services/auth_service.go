package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
)

// TokenIssuer issues identity tokens.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// AuthService handles registration and login.
type AuthService struct {
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
	tokens   TokenIssuer
	// decoyDigest is verified against when the email is unknown so both
	// login failures cost one hash comparison.
	decoyDigest string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, hasher auth.PasswordHasher, tokens TokenIssuer) *AuthService {
	// A failed hash leaves the decoy empty; Verify then rejects it without hashing.
	decoy, _ := hasher.Hash("decoy-password")
	return &AuthService{
		userRepo:    userRepo,
		hasher:      hasher,
		tokens:      tokens,
		decoyDigest: decoy,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Phone    string
	Password string
}

// Register creates a new user. No token is issued; the caller logs in separately.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := normalizeEmail(input.Email)
	phone := strings.TrimSpace(input.Phone)

	switch {
	case username == "":
		return nil, invalid("username", "is required")
	case email == "":
		return nil, invalid("email", "is required")
	case phone == "":
		return nil, invalid("phone", "is required")
	case input.Password == "":
		return nil, invalid("password", "is required")
	case len(input.Password) > constants.MaxPasswordBytes:
		return nil, invalid("password", "is too long")
	}

	exists, err := s.userRepo.ExistsByEmailOrPhone(ctx, email, phone)
	if err != nil {
		return nil, storageError("check existing user", err)
	}
	if exists {
		return nil, ErrConflict
	}

	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		Phone:        phone,
		PasswordHash: digest,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, storageError("create user", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns a signed token for the user.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify(input.Password, s.decoyDigest)
			return "", ErrInvalidCredentials
		}
		return "", storageError("find user", err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
