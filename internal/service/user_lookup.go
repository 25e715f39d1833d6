package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"leadflow/internal/cache"
	"leadflow/internal/model"
	"leadflow/internal/repository"
)

// userLookup is a read-through cache over the credential store. Callers that
// mutate a user must call invalidate.
type userLookup struct {
	repo  repository.UserRepository
	cache *cache.Client
	ttl   time.Duration
}

func newUserLookup(repo repository.UserRepository, cache *cache.Client, ttl time.Duration) *userLookup {
	return &userLookup{repo: repo, cache: cache, ttl: ttl}
}

func (l *userLookup) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

// get returns the user, or the repository's error untouched so callers can
// tell a missing row from a failed query.
func (l *userLookup) get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var cached cachedUser
	if l.ttl > 0 && l.cache.GetJSON(ctx, l.cacheKey(id), &cached) {
		return cached.toModel(), nil
	}

	user, err := l.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.ttl > 0 {
		_ = l.cache.SetJSON(ctx, l.cacheKey(id), newCachedUser(user), l.ttl)
	}
	return user, nil
}

func (l *userLookup) invalidate(ctx context.Context, id uuid.UUID) {
	_ = l.cache.Delete(ctx, l.cacheKey(id))
}

// cachedUser is the cache encoding of a User; model.User hides its password
// hash from JSON, which is what we want here too.
type cachedUser struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Role      model.Role       `json:"role"`
	Status    model.UserStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func newCachedUser(u *model.User) cachedUser {
	return cachedUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (c cachedUser) toModel() *model.User {
	return &model.User{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Role:      c.Role,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
