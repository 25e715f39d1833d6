package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"leadflow/internal/auth"
	"leadflow/internal/errors"
	"leadflow/internal/model"
	"leadflow/internal/policy"
	"leadflow/internal/repository"
)

// NoteService creates and lists notes on leads.
type NoteService interface {
	ListNotes(ctx context.Context, p auth.Principal, leadID uuid.UUID) ([]model.Note, error)
	CreateNote(ctx context.Context, p auth.Principal, leadID uuid.UUID, content string) (*model.Note, error)
}

type noteService struct {
	leadRepo repository.LeadRepository
	noteRepo repository.NoteRepository
	userRepo repository.UserRepository
	notifier *Notifier
}

// NewNoteService creates a note service.
func NewNoteService(
	leadRepo repository.LeadRepository,
	noteRepo repository.NoteRepository,
	userRepo repository.UserRepository,
	notifier *Notifier,
) NoteService {
	return &noteService{
		leadRepo: leadRepo,
		noteRepo: noteRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

func (s *noteService) loadLead(ctx context.Context, id uuid.UUID) (*model.Lead, error) {
	lead, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("lead: %w", errors.ErrNotFound)
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

// ListNotes returns the lead's notes newest first.
func (s *noteService) ListNotes(ctx context.Context, p auth.Principal, leadID uuid.UUID) ([]model.Note, error) {
	lead, err := s.loadLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(p, policy.ActionRead, policy.NoteOn(lead)); err != nil {
		return nil, err
	}
	notes, err := s.noteRepo.ListByLead(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// CreateNote stores a note and then notifies every admin. The notification
// step cannot fail the call.
func (s *noteService) CreateNote(ctx context.Context, p auth.Principal, leadID uuid.UUID, content string) (*model.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.NewValidationError("content", "must not be empty")
	}
	lead, err := s.loadLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(p, policy.ActionCreate, policy.NoteOn(lead)); err != nil {
		return nil, err
	}
	return s.create(ctx, lead, p.UserID, content)
}

// create persists a note on an already authorized lead.
func (s *noteService) create(ctx context.Context, lead *model.Lead, authorID uuid.UUID, content string) (*model.Note, error) {
	note := &model.Note{
		Content:  content,
		LeadID:   lead.ID,
		AuthorID: authorID,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	author, err := s.userRepo.FindByID(ctx, authorID)
	if err == nil {
		note.Author = author
	}
	s.notifier.NoteAdded(ctx, lead, note.Author)
	return note, nil
}
