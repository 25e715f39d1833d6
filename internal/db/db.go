package db

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Supported values for the DB_DRIVER setting.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Conn hands out the shared database handle.
type Conn interface {
	DB(ctx context.Context) (*gorm.DB, error)
}

// Provider opens the database on first use and hands the same handle to every
// later caller. A failed open is not remembered, so the next call tries again.
type Provider struct {
	driver string
	dsn    string
	logger *zap.Logger
	open   func(driver, dsn string) (*gorm.DB, error)

	mu sync.Mutex
	db *gorm.DB
}

var _ Conn = (*Provider)(nil)

// NewProvider returns an unopened Provider for driver and dsn.
func NewProvider(driver, dsn string, logger *zap.Logger) *Provider {
	return &Provider{
		driver: driver,
		dsn:    dsn,
		logger: logger,
		open:   Open,
	}
}

// DB returns the shared handle bound to ctx, opening it if needed.
func (p *Provider) DB(ctx context.Context) (*gorm.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		db, err := p.open(p.driver, p.dsn)
		if err != nil {
			return nil, err
		}
		p.logger.Info("database connection established", zap.String("driver", p.driver))
		p.db = db
	}
	return p.db.WithContext(ctx), nil
}

// Close releases the pool if it was ever opened.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return nil
	}
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	p.db = nil
	return sqlDB.Close()
}

// Open returns a connected GORM DB instance for driver.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	case DriverPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	return db, nil
}
