package translation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Store is the key-value backend behind the translation cache. Any store
// with per-key expiry can serve; values are opaque serialized results.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache wraps a Store with result serialization. The cache is a
// performance optimization, never a correctness dependency: read failures
// degrade to misses and write failures are logged and swallowed.
type Cache struct {
	store  Store
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCache(store Store, ttl time.Duration, logger zerolog.Logger) *Cache {
	return &Cache{store: store, ttl: ttl, logger: logger}
}

// Fingerprint derives the deterministic cache key for a translation
// request. Options are serialized in sorted key order so identical option
// sets collide regardless of map iteration order.
func Fingerprint(text, sourceLang, targetLang, provider string, options map[string]string) string {
	keys := make([]string, 0, len(options))
	for key := range options {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(text)
	b.WriteByte(0)
	b.WriteString(sourceLang)
	b.WriteByte(0)
	b.WriteString(targetLang)
	b.WriteByte(0)
	b.WriteString(provider)
	for _, key := range keys {
		b.WriteByte(0)
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(options[key])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return "translation:" + hex.EncodeToString(sum[:])
}

// Get returns the cached result for key, or false on miss. Store errors
// count as misses.
func (c *Cache) Get(ctx context.Context, key string) (*Result, bool) {
	if c == nil || c.store == nil {
		return nil, false
	}

	payload, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("translation cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("translation cache entry is malformed")
		return nil, false
	}
	return &result, true
}

// Put stores a result under key with the configured TTL. Failures are
// logged and swallowed.
func (c *Cache) Put(ctx context.Context, key string, result *Result) {
	if c == nil || c.store == nil || result == nil {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("marshal translation cache entry failed")
		return
	}
	if err := c.store.Set(ctx, key, payload, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("translation cache write failed")
	}
}
