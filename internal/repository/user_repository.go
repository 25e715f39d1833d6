package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leadflow/internal/db"
	"leadflow/internal/model"
)

// UserRepository defines persistence operations for the credential store.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	// Delete removes the user and, in the same transaction, unassigns every
	// lead they owned. It returns the number of leads released.
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
	Count(ctx context.Context) (int64, error)
	CountAgents(ctx context.Context) (total, active int64, err error)
}

type userRepository struct {
	conn db.Conn
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(conn db.Conn) UserRepository {
	return &userRepository{conn: conn}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	return gormDB.Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	return gormDB.Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return 0, err
	}
	var released int64
	err = gormDB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Lead{}).
			Where("assigned_to = ?", id).
			Updates(map[string]interface{}{
				"assigned_to": nil,
				"version":     gorm.Expr("version + 1"),
				"updated_at":  time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		released = res.RowsAffected

		res = tx.Where("id = ?", id).Delete(&model.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return released, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := gormDB.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := gormDB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var users []model.User
	if err := gormDB.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var users []model.User
	if err := gormDB.Where("role = ?", role).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	err = gormDB.Model(&model.User{}).Count(&n).Error
	return n, err
}

func (r *userRepository) CountAgents(ctx context.Context) (total, active int64, err error) {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return 0, 0, err
	}
	if err := gormDB.Model(&model.User{}).Where("role = ?", model.RoleAgent).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := gormDB.Model(&model.User{}).
		Where("role = ? AND status = ?", model.RoleAgent, model.UserStatusActive).
		Count(&active).Error; err != nil {
		return 0, 0, err
	}
	return total, active, nil
}
