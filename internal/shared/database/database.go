package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps both GORM and the underlying sql.DB
type DB struct {
	*sql.DB
	GORM *gorm.DB
}

// Options tunes the pool. The bot writes one history row per message, so
// the defaults are small.
type Options struct {
	MaxOpenConns  int
	MaxIdleConns  int
	ConnLifetime  time.Duration
	SlowThreshold time.Duration
	Debug         bool
}

func DefaultOptions() Options {
	return Options{
		MaxOpenConns:  10,
		MaxIdleConns:  2,
		ConnLifetime:  30 * time.Minute,
		SlowThreshold: 500 * time.Millisecond,
	}
}

// NewDB opens the postgres database used for the history log and the
// postgres tabular backend.
func NewDB(connStr string, debug bool) (*DB, error) {
	if connStr == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	opts := DefaultOptions()
	opts.Debug = debug
	return Open(postgres.Open(connStr), opts)
}

// Open connects through any GORM dialector and applies the pool options
func Open(dialector gorm.Dialector, opts Options) (*DB, error) {
	level := logger.Warn
	if opts.Debug {
		level = logger.Info
	}
	gormLogger := logger.New(log.New(os.Stdout, "", log.LstdFlags), logger.Config{
		SlowThreshold:             opts.SlowThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(opts.ConnLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connected (GORM)!")
	return &DB{DB: sqlDB, GORM: gormDB}, nil
}

func (db *DB) Close() error {
	log.Println("🔌 Closing database connection...")
	return db.DB.Close()
}
