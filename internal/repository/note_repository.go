package repository

import (
	"context"

	"github.com/google/uuid"

	"leadflow/internal/db"
	"leadflow/internal/model"
)

// NoteRepository defines note persistence operations. Notes are immutable, so
// there is no update path; deletion happens only through LeadRepository.Delete.
type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]model.Note, error)
}

type noteRepository struct {
	conn db.Conn
}

// NewNoteRepository creates a new note repository.
func NewNoteRepository(conn db.Conn) NoteRepository {
	return &noteRepository{conn: conn}
}

func (r *noteRepository) Create(ctx context.Context, note *model.Note) error {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	return gormDB.Omit("Author", "Lead").Create(note).Error
}

// ListByLead returns a lead's notes newest first with authors joined.
func (r *noteRepository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]model.Note, error) {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var notes []model.Note
	if err := gormDB.Preload("Author").Where("lead_id = ?", leadID).
		Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}
