package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note is an immutable comment left on a Lead.
type Note struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	LeadID    uuid.UUID `json:"lead" gorm:"column:lead_id;type:char(36);not null;index"`
	AuthorID  uuid.UUID `json:"-" gorm:"column:author_id;type:char(36);not null;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`

	// Relations
	// Notes outlive their author, so the author reference is unconstrained.
	Author *User `json:"-" gorm:"foreignKey:AuthorID;constraint:-"`
	Lead   *Lead `json:"-" gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// NoteAuthor is the author view attached to a returned Note.
type NoteAuthor struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role Role      `json:"role"`
}

// AuthorView returns the joined author of n, falling back to the bare id when
// the relation was not loaded or the author has since been deleted.
func (n *Note) AuthorView() NoteAuthor {
	if n.Author == nil {
		return NoteAuthor{ID: n.AuthorID}
	}
	return NoteAuthor{ID: n.Author.ID, Name: n.Author.Name, Role: n.Author.Role}
}
