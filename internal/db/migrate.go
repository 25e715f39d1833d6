package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"leadflow/internal/model"
)

// Models lists every table owned by the service, parents first.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Lead{},
		&model.Note{},
		&model.Notification{},
	}
}

// Migrate brings the schema up to date. With reset set, existing tables are
// dropped first, children before parents.
func Migrate(ctx context.Context, conn Conn, reset bool, logger *zap.Logger) error {
	gormDB, err := conn.DB(ctx)
	if err != nil {
		return err
	}

	models := Models()
	if reset {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		for i := len(models) - 1; i >= 0; i-- {
			if err := gormDB.Migrator().DropTable(models[i]); err != nil {
				logger.Warn("failed to drop table (may not exist)", zap.Error(err))
			}
		}
	}

	if err := gormDB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
