package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"leadflow/internal/auth"
	"leadflow/internal/cache"
	"leadflow/internal/errors"
	"leadflow/internal/model"
	"leadflow/internal/policy"
	"leadflow/internal/repository"
)

// CreateUserInput is the payload for creating a team member.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Status   string
}

// UpdateUserInput carries the fields to change; nil means unchanged.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
	Status   *string
}

// UserService exposes user management operations.
type UserService interface {
	ListUsers(ctx context.Context, p auth.Principal) ([]model.User, error)
	CreateUser(ctx context.Context, p auth.Principal, in CreateUserInput) (*model.User, error)
	GetUser(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.User, error)
	UpdateUser(ctx context.Context, p auth.Principal, id uuid.UUID, in UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, p auth.Principal, id uuid.UUID) error
}

type userService struct {
	repo     repository.UserRepository
	leadRepo repository.LeadRepository
	users    *userLookup
	logger   *zap.Logger
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(
	repo repository.UserRepository,
	leadRepo repository.LeadRepository,
	cache *cache.Client,
	cacheTTL time.Duration,
	logger *zap.Logger,
) UserService {
	return &userService{
		repo:     repo,
		leadRepo: leadRepo,
		users:    newUserLookup(repo, cache, cacheTTL),
		logger:   logger,
	}
}

func (s *userService) ListUsers(ctx context.Context, p auth.Principal) ([]model.User, error) {
	if err := policy.Authorize(p, policy.ActionRead, policy.UserDirectory{}); err != nil {
		return nil, err
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateUser creates a user. Managers may only create agents; an omitted role
// defaults to agent for everyone.
func (s *userService) CreateUser(ctx context.Context, p auth.Principal, in CreateUserInput) (*model.User, error) {
	role := model.RoleAgent
	if in.Role != "" {
		parsed, ok := model.ParseRole(in.Role)
		if !ok {
			return nil, errors.NewValidationError("role", "must be one of admin, manager, agent")
		}
		role = parsed
	}
	status := model.UserStatusActive
	if in.Status != "" {
		parsed, ok := model.ParseUserStatus(in.Status)
		if !ok {
			return nil, errors.NewValidationError("status", "must be active or inactive")
		}
		status = parsed
	}
	if err := policy.Authorize(p, policy.ActionCreate, policy.User{Role: role}); err != nil {
		return nil, err
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hashed,
		Role:         role,
		Status:       status,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, fmt.Errorf("email already registered: %w", errors.ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.User, error) {
	if err := policy.Authorize(p, policy.ActionRead, policy.User{ID: id}); err != nil {
		return nil, err
	}
	user, err := s.users.get(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("user: %w", errors.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateUser merges in into the stored user. Only admins may change role or
// status. Demoting an agent releases the leads assigned to them, since leads
// may only be assigned to agents.
func (s *userService) UpdateUser(ctx context.Context, p auth.Principal, id uuid.UUID, in UpdateUserInput) (*model.User, error) {
	var role model.Role
	if in.Role != nil {
		parsed, ok := model.ParseRole(*in.Role)
		if !ok {
			return nil, errors.NewValidationError("role", "must be one of admin, manager, agent")
		}
		role = parsed
	}
	var status model.UserStatus
	if in.Status != nil {
		parsed, ok := model.ParseUserStatus(*in.Status)
		if !ok {
			return nil, errors.NewValidationError("status", "must be active or inactive")
		}
		status = parsed
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, errors.NewValidationError("name", "must not be empty")
	}

	res := policy.User{ID: id, SetsRole: in.Role != nil, SetsStatus: in.Status != nil}
	if err := policy.Authorize(p, policy.ActionUpdate, res); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("user: %w", errors.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	wasAgent := user.Role == model.RoleAgent
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		user.Email = normalizeEmail(*in.Email)
	}
	if in.Password != nil {
		hashed, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}
	if in.Role != nil {
		user.Role = role
	}
	if in.Status != nil {
		user.Status = status
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, fmt.Errorf("email already registered: %w", errors.ErrConflict)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.users.invalidate(ctx, id)

	if wasAgent && user.Role != model.RoleAgent {
		s.releaseLeads(ctx, id)
	}
	return user, nil
}

// DeleteUser removes a user. Admin only, and never the caller's own account.
func (s *userService) DeleteUser(ctx context.Context, p auth.Principal, id uuid.UUID) error {
	if err := policy.Authorize(p, policy.ActionDelete, policy.User{ID: id}); err != nil {
		return err
	}
	if id == p.UserID {
		return errors.NewValidationError("id", "cannot delete your own account")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return fmt.Errorf("user: %w", errors.ErrNotFound)
		}
		return fmt.Errorf("get user: %w", err)
	}
	released, err := s.repo.Delete(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return fmt.Errorf("user: %w", errors.ErrNotFound)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	s.users.invalidate(ctx, id)
	if released > 0 {
		s.logger.Info("unassigned leads", zap.String("user_id", id.String()), zap.Int64("count", released))
	}
	return nil
}

func (s *userService) releaseLeads(ctx context.Context, userID uuid.UUID) {
	n, err := s.leadRepo.UnassignAll(ctx, userID)
	if err != nil {
		s.logger.Error("failed to unassign leads", zap.String("user_id", userID.String()), zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("unassigned leads", zap.String("user_id", userID.String()), zap.Int64("count", n))
	}
}
