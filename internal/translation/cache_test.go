package translation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFingerprintDeterministic(t *testing.T) {
	t.Parallel()

	first := Fingerprint("hello", "en", "zh", "openai", map[string]string{"style": "formal", "model": "gpt-4o"})
	second := Fingerprint("hello", "en", "zh", "openai", map[string]string{"model": "gpt-4o", "style": "formal"})
	if first != second {
		t.Fatalf("option key order changed the fingerprint: %q vs %q", first, second)
	}

	other := Fingerprint("hello", "en", "zh", "anthropic", map[string]string{"style": "formal", "model": "gpt-4o"})
	if first == other {
		t.Fatalf("different providers produced the same fingerprint")
	}

	if Fingerprint("hello", "en", "zh", "openai", nil) == first {
		t.Fatalf("dropping options did not change the fingerprint")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return current }

	if err := store.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); !ok {
		t.Fatalf("expected hit before expiry")
	}

	current = current.Add(time.Minute)
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after expiry")
	}

	if err := store.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatalf("set without ttl: %v", err)
	}
	current = current.Add(1000 * time.Hour)
	if _, ok, _ := store.Get(ctx, "forever"); !ok {
		t.Fatalf("entries without ttl must not expire")
	}
}

type failingStore struct {
	getErr error
	setErr error
}

func (s *failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, s.getErr
}

func (s *failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return s.setErr
}

func TestCacheDegradesOnStoreFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := NewCache(&failingStore{
		getErr: errors.New("connection refused"),
		setErr: errors.New("connection refused"),
	}, time.Hour, zerolog.Nop())

	if _, ok := cache.Get(ctx, "k"); ok {
		t.Fatalf("read failure must degrade to a miss")
	}
	// Put must swallow backend failures.
	cache.Put(ctx, "k", &Result{Provider: "openai", TranslatedText: "你好"})
}

func TestCacheRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := NewCache(NewMemoryStore(), time.Hour, zerolog.Nop())

	stored := &Result{
		Provider:       "openai",
		Model:          "gpt-4o",
		TranslatedText: "你好世界",
		SourceLang:     "en",
		TargetLang:     "zh",
		QualityScore:   91.5,
	}
	cache.Put(ctx, "k", stored)

	got, ok := cache.Get(ctx, "k")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if got.TranslatedText != stored.TranslatedText || got.QualityScore != stored.QualityScore {
		t.Fatalf("cached result mismatch: %+v", got)
	}

	if _, ok := cache.Get(ctx, "other"); ok {
		t.Fatalf("expected miss for unknown key")
	}

	var nilCache *Cache
	if _, ok := nilCache.Get(ctx, "k"); ok {
		t.Fatalf("nil cache must behave as a miss")
	}
	nilCache.Put(ctx, "k", stored)
}
