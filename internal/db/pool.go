package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Pool owns the database handle used by the job and cache stores.
type Pool struct {
	gdb *gorm.DB
}

// PoolOptions tunes connection pooling.
type PoolOptions struct {
	MinConns int32
	MaxConns int32
}

// NewPool opens a Postgres connection, applies pool limits, and runs
// schema migration for the translation tables.
func NewPool(ctx context.Context, databaseURL string, opts PoolOptions) (*Pool, error) {
	dsn := strings.TrimSpace(databaseURL)
	if dsn == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}

	maxConns := int(opts.MaxConns)
	if maxConns < 1 {
		maxConns = 8
	}
	minConns := int(opts.MinConns)
	if minConns < 0 {
		minConns = 0
	}
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(minConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := gdb.WithContext(ctx).AutoMigrate(autoMigrateModels()...); err != nil {
		return nil, fmt.Errorf("gorm auto-migrate models: %w", err)
	}

	return &Pool{gdb: gdb}, nil
}

func (p *Pool) Close() {
	if p == nil || p.gdb == nil {
		return
	}
	if sqlDB, err := p.gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func autoMigrateModels() []any {
	return []any{
		&DocumentJob{},
		&DocumentChunk{},
		&CachedTranslation{},
	}
}
