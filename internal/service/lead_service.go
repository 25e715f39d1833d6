package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"leadflow/internal/auth"
	"leadflow/internal/errors"
	"leadflow/internal/model"
	"leadflow/internal/policy"
	"leadflow/internal/repository"
)

// CreateLeadInput is the payload for lead intake.
type CreateLeadInput struct {
	Name         string
	Email        string
	Phone        string
	Company      string
	Source       string
	Status       string
	AssignedTo   string
	Date         *time.Time
	NextFollowUp *time.Time
	Value        *decimal.Decimal
	// Note, when non-empty, is stored as the lead's first note.
	Note string
}

// UpdateLeadInput carries a partial lead update. Nil pointers and unset
// optionals leave the stored value alone.
type UpdateLeadInput struct {
	Name         *string
	Email        *string
	Phone        *string
	Company      *string
	Source       *string
	Status       *string
	AssignedTo   OptionalString
	NextFollowUp NullableTime
	Date         *time.Time
	Value        *decimal.Decimal
	// Version, when set, must match the stored version.
	Version *int64
}

// LeadService is the lifecycle engine: the only writer of a lead's status and
// assignee.
type LeadService interface {
	ListLeads(ctx context.Context, p auth.Principal) ([]model.Lead, error)
	GetLead(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.Lead, error)
	CreateLead(ctx context.Context, p auth.Principal, in CreateLeadInput) (*model.Lead, error)
	UpdateLead(ctx context.Context, p auth.Principal, id uuid.UUID, in UpdateLeadInput) (*model.Lead, error)
	DeleteLead(ctx context.Context, p auth.Principal, id uuid.UUID) error
}

type leadService struct {
	leadRepo repository.LeadRepository
	userRepo repository.UserRepository
	notes    *noteService
	notifier *Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewLeadService creates the lifecycle engine.
func NewLeadService(
	leadRepo repository.LeadRepository,
	noteRepo repository.NoteRepository,
	userRepo repository.UserRepository,
	notifier *Notifier,
	logger *zap.Logger,
) LeadService {
	return &leadService{
		leadRepo: leadRepo,
		userRepo: userRepo,
		notes: &noteService{
			leadRepo: leadRepo,
			noteRepo: noteRepo,
			userRepo: userRepo,
			notifier: notifier,
		},
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func parseStatus(s string) (model.LeadStatus, error) {
	st, ok := model.ParseLeadStatus(s)
	if !ok {
		return "", errors.NewValidationError("status",
			"must be one of new, contacted, qualified, proposal, negotiation, converted, lost")
	}
	return st, nil
}

func parseAssignee(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, errors.NewValidationError("assignedTo", "must be a user id")
	}
	return id, nil
}

// requireAgent checks that id names an existing agent.
func (s *leadService) requireAgent(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("assignee: %w", errors.ErrNotFound)
		}
		return nil, fmt.Errorf("get assignee: %w", err)
	}
	if user.Role != model.RoleAgent {
		return nil, fmt.Errorf("assignee is not an agent: %w", errors.ErrNotFound)
	}
	return user, nil
}

func (s *leadService) loadLead(ctx context.Context, id uuid.UUID) (*model.Lead, error) {
	return s.notes.loadLead(ctx, id)
}

// actor loads the caller for notification wording; failures only cost the name.
func (s *leadService) actor(ctx context.Context, p auth.Principal) *model.User {
	user, err := s.userRepo.FindByID(ctx, p.UserID)
	if err != nil {
		return nil
	}
	return user
}

// ListLeads returns the leads p may see, newest first.
func (s *leadService) ListLeads(ctx context.Context, p auth.Principal) ([]model.Lead, error) {
	leads, err := s.leadRepo.List(ctx, repository.LeadFilter{AssignedTo: policy.LeadScope(p)})
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return leads, nil
}

func (s *leadService) GetLead(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.Lead, error) {
	lead, err := s.loadLead(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(p, policy.ActionRead, policy.LeadFor(lead)); err != nil {
		return nil, err
	}
	return lead, nil
}

// CreateLead stores a new lead. Agents who leave assignedTo empty own the lead;
// for everyone else it stays unassigned unless a target agent is named.
func (s *leadService) CreateLead(ctx context.Context, p auth.Principal, in CreateLeadInput) (*model.Lead, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.NewValidationError("name", "must not be empty")
	}
	status := model.LeadStatusNew
	if in.Status != "" {
		st, err := parseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		status = st
	}

	var assignee *uuid.UUID
	switch {
	case strings.TrimSpace(in.AssignedTo) != "":
		id, err := parseAssignee(in.AssignedTo)
		if err != nil {
			return nil, err
		}
		assignee = &id
	case p.Role == model.RoleAgent:
		id := p.UserID
		assignee = &id
	}

	if err := policy.Authorize(p, policy.ActionCreate, policy.Lead{AssignedTo: assignee}); err != nil {
		return nil, err
	}
	if assignee != nil {
		if _, err := s.requireAgent(ctx, *assignee); err != nil {
			return nil, err
		}
	}

	date := s.now()
	if in.Date != nil {
		date = *in.Date
	}
	lead := &model.Lead{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		Company:      strings.TrimSpace(in.Company),
		Source:       strings.TrimSpace(in.Source),
		AssignedToID: assignee,
		Value:        in.Value,
		Date:         date,
		NextFollowUp: in.NextFollowUp,
	}
	lead.SetStatus(status, s.now())
	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}

	// The initial note is a separate write; a failure leaves the lead in place.
	if note := strings.TrimSpace(in.Note); note != "" {
		if _, err := s.notes.create(ctx, lead, p.UserID, note); err != nil {
			s.logger.Error("initial note failed", zap.String("lead_id", lead.ID.String()), zap.Error(err))
		}
	}
	if assignee != nil && *assignee != p.UserID {
		s.notifier.LeadAssigned(ctx, lead, *assignee, s.actor(ctx, p))
	}

	created, err := s.leadRepo.FindByID(ctx, lead.ID)
	if err != nil {
		return nil, fmt.Errorf("reload lead: %w", err)
	}
	return created, nil
}

// UpdateLead merges in into the lead. Any status may follow any other.
func (s *leadService) UpdateLead(ctx context.Context, p auth.Principal, id uuid.UUID, in UpdateLeadInput) (*model.Lead, error) {
	var status model.LeadStatus
	if in.Status != nil {
		st, err := parseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		status = st
	}
	var target *uuid.UUID
	if in.AssignedTo.Set && !in.AssignedTo.Cleared() {
		tid, err := parseAssignee(*in.AssignedTo.Value)
		if err != nil {
			return nil, err
		}
		target = &tid
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, errors.NewValidationError("name", "must not be empty")
	}

	lead, err := s.loadLead(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(p, policy.ActionUpdate, policy.LeadFor(lead)); err != nil {
		return nil, err
	}
	if in.Version != nil && *in.Version != lead.Version {
		return nil, fmt.Errorf("lead version %d is stale: %w", *in.Version, errors.ErrConflict)
	}

	reassigned := in.AssignedTo.Set && !sameAssignee(lead.AssignedToID, target)
	if reassigned {
		if err := policy.Authorize(p, policy.ActionReassign, policy.LeadFor(lead)); err != nil {
			return nil, err
		}
		if target != nil {
			if _, err := s.requireAgent(ctx, *target); err != nil {
				return nil, err
			}
		}
		lead.AssignedToID = target
	}

	if in.Name != nil {
		lead.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		lead.Email = normalizeEmail(*in.Email)
	}
	if in.Phone != nil {
		lead.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Company != nil {
		lead.Company = strings.TrimSpace(*in.Company)
	}
	if in.Source != nil {
		lead.Source = strings.TrimSpace(*in.Source)
	}
	if in.Status != nil {
		lead.SetStatus(status, s.now())
	}
	if in.NextFollowUp.Set {
		lead.NextFollowUp = in.NextFollowUp.Value
	}
	if in.Date != nil {
		lead.Date = *in.Date
	}
	if in.Value != nil {
		lead.Value = in.Value
	}

	if err := s.leadRepo.UpdateVersioned(ctx, lead); err != nil {
		if repository.IsStale(err) {
			return nil, fmt.Errorf("lead changed concurrently: %w", errors.ErrConflict)
		}
		return nil, fmt.Errorf("update lead: %w", err)
	}

	if reassigned && target != nil && *target != p.UserID {
		s.notifier.LeadAssigned(ctx, lead, *target, s.actor(ctx, p))
	}

	updated, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload lead: %w", err)
	}
	return updated, nil
}

// DeleteLead removes a lead and its notes. Admin only.
func (s *leadService) DeleteLead(ctx context.Context, p auth.Principal, id uuid.UUID) error {
	lead, err := s.loadLead(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(p, policy.ActionDelete, policy.LeadFor(lead)); err != nil {
		return err
	}
	if err := s.leadRepo.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return fmt.Errorf("lead: %w", errors.ErrNotFound)
		}
		return fmt.Errorf("delete lead: %w", err)
	}
	return nil
}

func sameAssignee(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
