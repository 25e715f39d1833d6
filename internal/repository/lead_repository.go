package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"leadflow/internal/db"
	"leadflow/internal/model"
)

// LeadFilter narrows lead queries. A nil AssignedTo means every lead.
type LeadFilter struct {
	AssignedTo *uuid.UUID
}

func (f LeadFilter) apply(q *gorm.DB) *gorm.DB {
	if f.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *f.AssignedTo)
	}
	return q
}

// LeadStats is the raw rollup behind the analytics endpoint.
type LeadStats struct {
	Total              int64
	ByStatus           map[model.LeadStatus]int64
	PendingFollowUps   int64
	ConvertedThisMonth int64
	NewThisWeek        int64
	PipelineValue      decimal.Decimal
}

// LeadRepository defines lead persistence operations.
type LeadRepository interface {
	Create(ctx context.Context, lead *model.Lead) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Lead, error)
	List(ctx context.Context, filter LeadFilter) ([]model.Lead, error)
	// UpdateVersioned writes lead only if its stored version still equals
	// lead.Version, then bumps lead.Version. It returns ErrStaleVersion otherwise.
	UpdateVersioned(ctx context.Context, lead *model.Lead) error
	// Delete removes the lead and every note attached to it.
	Delete(ctx context.Context, id uuid.UUID) error
	// UnassignAll clears the assignee on every lead owned by userID.
	UnassignAll(ctx context.Context, userID uuid.UUID) (int64, error)
	Stats(ctx context.Context, filter LeadFilter, now time.Time) (*LeadStats, error)
}

type leadRepository struct {
	conn db.Conn
}

// NewLeadRepository creates a new lead repository.
func NewLeadRepository(conn db.Conn) LeadRepository {
	return &leadRepository{conn: conn}
}

// Create creates a new lead record.
func (r *leadRepository) Create(ctx context.Context, lead *model.Lead) error {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	return gormDB.Omit("Assignee").Create(lead).Error
}

// FindByID finds a lead by ID with its assignee joined.
func (r *leadRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Lead, error) {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var lead model.Lead
	if err := gormDB.Preload("Assignee").Where("id = ?", id).First(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// List returns leads newest first with assignees joined.
func (r *leadRepository) List(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var leads []model.Lead
	q := filter.apply(gormDB.Model(&model.Lead{})).Preload("Assignee").Order("created_at DESC")
	if err := q.Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// UpdateVersioned performs a compare-and-swap on the version column.
func (r *leadRepository) UpdateVersioned(ctx context.Context, lead *model.Lead) error {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	res := gormDB.Model(&model.Lead{}).
		Where("id = ? AND version = ?", lead.ID, lead.Version).
		Updates(map[string]interface{}{
			"name":           lead.Name,
			"email":          lead.Email,
			"phone":          lead.Phone,
			"company":        lead.Company,
			"source":         lead.Source,
			"status":         lead.Status,
			"assigned_to":    lead.AssignedToID,
			"value":          lead.Value,
			"date":           lead.Date,
			"next_follow_up": lead.NextFollowUp,
			"converted_at":   lead.ConvertedAt,
			"version":        lead.Version + 1,
			"updated_at":     now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	lead.Version++
	lead.UpdatedAt = now
	return nil
}

// Delete removes notes then the lead in one transaction.
func (r *leadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	return gormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lead_id = ?", id).Delete(&model.Note{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Lead{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// UnassignAll clears assigned_to for userID's leads and bumps their versions so
// in-flight versioned writes against them fail.
func (r *leadRepository) UnassignAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return 0, err
	}
	res := gormDB.Model(&model.Lead{}).
		Where("assigned_to = ?", userID).
		Updates(map[string]interface{}{
			"assigned_to": nil,
			"version":     gorm.Expr("version + 1"),
			"updated_at":  time.Now(),
		})
	return res.RowsAffected, res.Error
}

// Stats computes the analytics rollup for the leads matching filter.
func (r *leadRepository) Stats(ctx context.Context, filter LeadFilter, now time.Time) (*LeadStats, error) {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	scoped := func() *gorm.DB {
		return filter.apply(gormDB.Model(&model.Lead{}))
	}

	stats := &LeadStats{ByStatus: make(map[model.LeadStatus]int64, len(model.LeadStatuses))}
	for _, st := range model.LeadStatuses {
		stats.ByStatus[st] = 0
	}

	var rows []struct {
		Status model.LeadStatus
		Count  int64
	}
	if err := scoped().Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
	}

	if err := scoped().Where("next_follow_up IS NOT NULL AND next_follow_up <= ?", now).
		Count(&stats.PendingFollowUps).Error; err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := scoped().Where("status = ? AND converted_at >= ?", model.LeadStatusConverted, monthStart).
		Count(&stats.ConvertedThisMonth).Error; err != nil {
		return nil, err
	}

	if err := scoped().Where("created_at >= ?", now.AddDate(0, 0, -7)).
		Count(&stats.NewThisWeek).Error; err != nil {
		return nil, err
	}

	var pipeline decimal.NullDecimal
	if err := scoped().Select("SUM(value)").
		Where("status NOT IN ?", terminalStatuses()).
		Row().Scan(&pipeline); err != nil {
		return nil, err
	}
	if pipeline.Valid {
		stats.PipelineValue = pipeline.Decimal
	}
	return stats, nil
}

func terminalStatuses() []model.LeadStatus {
	var out []model.LeadStatus
	for _, st := range model.LeadStatuses {
		if st.Terminal() {
			out = append(out, st)
		}
	}
	return out
}
