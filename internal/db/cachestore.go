package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CacheStore is a Postgres-backed translation cache store with per-key
// expiry. It satisfies the translation package's Store interface.
type CacheStore struct {
	pool *Pool
	now  func() time.Time
}

func NewCacheStore(pool *Pool) *CacheStore {
	return &CacheStore{pool: pool, now: time.Now}
}

func (s *CacheStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s == nil || s.pool == nil || s.pool.gdb == nil {
		return nil, false, fmt.Errorf("cache store is not initialized")
	}

	var row CachedTranslation
	err := s.pool.gdb.WithContext(ctx).
		First(&row, "fingerprint = ? AND expires_at > ?", key, s.now()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("query cached translation: %w", err)
	}

	return row.Payload, true, nil
}

func (s *CacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s == nil || s.pool == nil || s.pool.gdb == nil {
		return fmt.Errorf("cache store is not initialized")
	}
	if ttl <= 0 {
		return nil
	}

	row := CachedTranslation{
		Fingerprint: key,
		Payload:     append([]byte(nil), value...),
		ExpiresAt:   s.now().Add(ttl),
	}

	err := s.pool.gdb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "fingerprint"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "expires_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert cached translation: %w", err)
	}
	return nil
}

// PruneExpired removes expired cache rows and returns how many were
// deleted. Intended for a periodic maintenance call.
func (s *CacheStore) PruneExpired(ctx context.Context) (int64, error) {
	if s == nil || s.pool == nil || s.pool.gdb == nil {
		return 0, fmt.Errorf("cache store is not initialized")
	}

	result := s.pool.gdb.WithContext(ctx).
		Where("expires_at <= ?", s.now()).
		Delete(&CachedTranslation{})
	if result.Error != nil {
		return 0, fmt.Errorf("prune cached translations: %w", result.Error)
	}
	return result.RowsAffected, nil
}
