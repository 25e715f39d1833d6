package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"leadflow/internal/model"
)

// dryConn hands out a session that renders SQL without touching a server.
type dryConn struct {
	db *gorm.DB
}

func (c dryConn) DB(ctx context.Context) (*gorm.DB, error) {
	return c.db.WithContext(ctx), nil
}

func newDryConn(t *testing.T) dryConn {
	t.Helper()
	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:password@tcp(127.0.0.1:1)/leadflow",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DisableAutomaticPing: true, DryRun: true})
	require.NoError(t, err)
	return dryConn{db: gormDB}
}

func TestLeadFilter_ScopesByAssignee(t *testing.T) {
	conn := newDryConn(t)
	agentID := uuid.New()

	scoped := conn.db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var leads []model.Lead
		return LeadFilter{AssignedTo: &agentID}.apply(tx.Model(&model.Lead{})).Order("created_at DESC").Find(&leads)
	})
	assert.Contains(t, scoped, "assigned_to = ")
	assert.Contains(t, scoped, agentID.String())
	assert.Contains(t, scoped, "ORDER BY created_at DESC")

	global := conn.db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var leads []model.Lead
		return LeadFilter{}.apply(tx.Model(&model.Lead{})).Find(&leads)
	})
	assert.NotContains(t, global, "assigned_to =")
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsNotFound(gorm.ErrRecordNotFound))
	assert.True(t, IsDuplicate(gorm.ErrDuplicatedKey))
	assert.False(t, IsStale(gorm.ErrRecordNotFound))
}
