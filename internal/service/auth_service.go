package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"leadflow/internal/auth"
	"leadflow/internal/errors"
	"leadflow/internal/model"
	"leadflow/internal/repository"
)

const bcryptCost = 10

// AuthService handles authentication operations.
type AuthService interface {
	// Signup is the bootstrap path: the very first account becomes an admin,
	// every later one an agent.
	Signup(ctx context.Context, name, email, password string) (*model.User, *auth.IssuedToken, error)
	Login(ctx context.Context, email, password string) (*model.User, *auth.IssuedToken, error)
	Logout(ctx context.Context, identity *Identity) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	now        func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		now:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *authService) Signup(ctx context.Context, name, email, password string) (*model.User, *auth.IssuedToken, error) {
	email = normalizeEmail(email)
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, nil, fmt.Errorf("email already registered: %w", errors.ErrConflict)
	} else if !repository.IsNotFound(err) {
		return nil, nil, fmt.Errorf("check user existence: %w", err)
	}

	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("count users: %w", err)
	}
	role := model.RoleAgent
	if count == 0 {
		role = model.RoleAdmin
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, nil, err
	}
	user := &model.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
		Status:       model.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, nil, fmt.Errorf("email already registered: %w", errors.ErrConflict)
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.Issue(user.ID, user.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Login authenticates a user and returns a signed access token.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, *auth.IssuedToken, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, errors.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, errors.ErrInvalidCredentials
	}
	if !user.Active() {
		return nil, nil, errors.ErrAccountInactive
	}

	token, err := s.jwtService.Issue(user.ID, user.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Logout revokes the caller's token for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, identity *Identity) error {
	ttl := identity.ExpiresAt.Sub(s.now())
	return s.tokenStore.Revoke(ctx, identity.TokenID, ttl)
}
