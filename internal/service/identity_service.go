package service

import (
	"context"
	"fmt"
	"time"

	"leadflow/internal/auth"
	"leadflow/internal/cache"
	"leadflow/internal/errors"
	"leadflow/internal/model"
	"leadflow/internal/repository"
)

// Identity is a resolved, active caller.
type Identity struct {
	Principal auth.Principal
	User      *model.User
	TokenID   string
	ExpiresAt time.Time
}

// IdentityService turns a bearer credential into an Identity. It has no side
// effects and runs before every other component.
type IdentityService interface {
	Resolve(ctx context.Context, token string) (*Identity, error)
}

type identityService struct {
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	users      *userLookup
}

// NewIdentityService creates the identity resolver. User rows are cached for
// userCacheTTL; zero disables caching.
func NewIdentityService(
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	userRepo repository.UserRepository,
	cache *cache.Client,
	userCacheTTL time.Duration,
) IdentityService {
	return &identityService{
		jwtService: jwtService,
		tokenStore: tokenStore,
		users:      newUserLookup(userRepo, cache, userCacheTTL),
	}
}

// Resolve verifies token, rejects revoked tokens, and loads the current user.
// The returned principal carries the stored role, not the one in the token.
func (s *identityService) Resolve(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, errors.ErrUnauthenticated
	}
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, errors.ErrUnauthenticated
	}
	principal, err := claims.Principal()
	if err != nil {
		return nil, errors.ErrUnauthenticated
	}

	revoked, err := s.tokenStore.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, errors.ErrUnauthenticated
	}

	user, err := s.users.get(ctx, principal.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrUnauthenticated
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !user.Active() {
		return nil, errors.ErrAccountInactive
	}

	principal.Role = user.Role
	identity := &Identity{
		Principal: principal,
		User:      user,
		TokenID:   claims.ID,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}
