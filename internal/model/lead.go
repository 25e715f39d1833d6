package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Lead represents a prospective customer tracked through the sales pipeline.
type Lead struct {
	ID           uuid.UUID        `gorm:"type:char(36);primaryKey"`
	Name         string           `gorm:"size:255;not null"`
	Email        string           `gorm:"size:255;index"`
	Phone        string           `gorm:"size:50"`
	Company      string           `gorm:"size:255"`
	Source       string           `gorm:"size:100;index"`
	Status       LeadStatus       `gorm:"type:varchar(20);not null;default:'new';index"`
	AssignedToID *uuid.UUID       `gorm:"column:assigned_to;type:char(36);index"`
	Value        *decimal.Decimal `gorm:"type:decimal(20,2)"`
	Date         time.Time        `gorm:"not null"`
	NextFollowUp *time.Time       `gorm:"index"`
	ConvertedAt  *time.Time       `gorm:"index"`
	Version      int64            `gorm:"not null;default:1"`
	CreatedAt    time.Time        `gorm:"index"`
	UpdatedAt    time.Time

	// Relations
	// The agent-only rule is checked on write, so no database constraint.
	Assignee *User `gorm:"foreignKey:AssignedToID;constraint:-"`
}

// BeforeCreate sets UUID before creating the record.
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Version == 0 {
		l.Version = 1
	}
	return nil
}

// AssignedTo reports whether the lead is owned by userID.
func (l *Lead) AssignedTo(userID uuid.UUID) bool {
	return l.AssignedToID != nil && *l.AssignedToID == userID
}

// SetStatus moves the lead to st, stamping ConvertedAt when it enters
// converted and clearing it when it leaves.
func (l *Lead) SetStatus(st LeadStatus, at time.Time) {
	switch {
	case st == LeadStatusConverted && l.Status != LeadStatusConverted:
		l.ConvertedAt = &at
	case st != LeadStatusConverted:
		l.ConvertedAt = nil
	}
	l.Status = st
}

// LeadView is the JSON shape of a Lead, with its assignee joined as a
// UserSummary.
type LeadView struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	Phone        string           `json:"phone"`
	Company      string           `json:"company"`
	Source       string           `json:"source"`
	Status       LeadStatus       `json:"status"`
	AssignedTo   *UserSummary     `json:"assignedTo"`
	Value        *decimal.Decimal `json:"value,omitempty" swaggertype:"string" example:"1250.50"`
	Date         time.Time        `json:"date"`
	NextFollowUp *time.Time       `json:"nextFollowUp"`
	ConvertedAt  *time.Time       `json:"convertedAt,omitempty"`
	Version      int64            `json:"version"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// View returns the JSON shape of l.
func (l Lead) View() LeadView {
	return LeadView{
		ID:           l.ID,
		Name:         l.Name,
		Email:        l.Email,
		Phone:        l.Phone,
		Company:      l.Company,
		Source:       l.Source,
		Status:       l.Status,
		AssignedTo:   l.Assignee.Summary(),
		Value:        l.Value,
		Date:         l.Date,
		NextFollowUp: l.NextFollowUp,
		ConvertedAt:  l.ConvertedAt,
		Version:      l.Version,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

// MarshalJSON renders the lead as its LeadView.
func (l Lead) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.View())
}
