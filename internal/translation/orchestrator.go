package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"horse.fit/polyglot/internal/langdetect"
	"horse.fit/polyglot/internal/language"
	"horse.fit/polyglot/internal/quality"
)

const (
	// DefaultMaxTextLength bounds accepted translation input, in runes.
	DefaultMaxTextLength = 10000
	// DefaultCompareTimeout bounds one whole comparison fan-out.
	DefaultCompareTimeout = 60 * time.Second
)

// Comparison holds the outcome of a multi-provider comparison. One
// provider failing never aborts the others; callers always receive
// whatever succeeded plus per-provider error messages.
type Comparison struct {
	SourceText string             `json:"source_text"`
	SourceLang string             `json:"source_lang"`
	TargetLang string             `json:"target_lang"`
	Results    map[string]*Result `json:"results"`
	Errors     map[string]string  `json:"errors"`
	Best       *Result            `json:"best,omitempty"`
}

// OrchestratorOptions tunes an Orchestrator.
type OrchestratorOptions struct {
	MaxTextLength  int
	CompareTimeout time.Duration
	// Detector overrides the language detector; nil uses langdetect.
	Detector func(ctx context.Context, text string) (string, float64)
}

// Orchestrator composes the provider registry, cache, quality scorer, and
// language detector. It is stateless per call: all state lives in the
// cache and in caller-owned job records.
type Orchestrator struct {
	registry       *Registry
	cache          *Cache
	logger         zerolog.Logger
	maxTextLength  int
	compareTimeout time.Duration
	detect         func(ctx context.Context, text string) (string, float64)
}

func NewOrchestrator(registry *Registry, cache *Cache, logger zerolog.Logger, opts OrchestratorOptions) *Orchestrator {
	maxTextLength := opts.MaxTextLength
	if maxTextLength <= 0 {
		maxTextLength = DefaultMaxTextLength
	}
	compareTimeout := opts.CompareTimeout
	if compareTimeout <= 0 {
		compareTimeout = DefaultCompareTimeout
	}
	detect := opts.Detector
	if detect == nil {
		detect = langdetect.DetectContext
	}
	return &Orchestrator{
		registry:       registry,
		cache:          cache,
		logger:         logger,
		maxTextLength:  maxTextLength,
		compareTimeout: compareTimeout,
		detect:         detect,
	}
}

// Translate runs one single-provider translation. The requested provider
// falls back to any available provider when it is not registered; no
// provider at all fails with ErrNoProvider. Adapter failures surface as
// *ProviderError without retries.
func (o *Orchestrator) Translate(ctx context.Context, req Request) (*Result, error) {
	if o == nil || o.registry == nil {
		return nil, fmt.Errorf("translation orchestrator is not initialized")
	}

	text, err := o.validateText(req.Text)
	if err != nil {
		return nil, err
	}
	req.Text = text

	req.SourceLang = o.resolveSourceLang(ctx, req.SourceLang, text)

	provider, err := o.registry.Provider(req.Provider)
	if err != nil {
		if errors.Is(err, ErrNoProvider) {
			return nil, ErrNoProvider
		}
		fallback, ok := o.registry.AnyProvider()
		if !ok {
			return nil, ErrNoProvider
		}
		o.logger.Debug().
			Str("requested", req.Provider).
			Str("fallback", fallback.Name()).
			Msg("requested provider unavailable, using fallback")
		provider = fallback
	}

	return o.translateWith(ctx, provider, req)
}

// Compare translates text with several providers concurrently and selects
// the best result by quality score. The source language is resolved once
// so every provider is compared against the same resolved code.
func (o *Orchestrator) Compare(ctx context.Context, text, sourceLang, targetLang string, providerIDs []string) (*Comparison, error) {
	if o == nil || o.registry == nil {
		return nil, fmt.Errorf("translation orchestrator is not initialized")
	}

	trimmed, err := o.validateText(text)
	if err != nil {
		return nil, err
	}

	resolvedSource := o.resolveSourceLang(ctx, sourceLang, trimmed)

	if len(providerIDs) == 0 {
		providerIDs = o.registry.ProviderNames()
	}

	// Dedupe while preserving caller order; the fold order below gives
	// ties a reproducible first-seen winner.
	selected := make([]string, 0, len(providerIDs))
	seen := make(map[string]struct{}, len(providerIDs))
	for _, id := range providerIDs {
		name := normalizeProviderName(id)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if _, exists := o.registry.providers[name]; exists {
			selected = append(selected, name)
		}
	}

	comparison := &Comparison{
		SourceText: trimmed,
		SourceLang: resolvedSource,
		TargetLang: targetLang,
		Results:    make(map[string]*Result, len(selected)),
		Errors:     make(map[string]string),
	}
	if len(selected) == 0 {
		return comparison, nil
	}

	fanCtx, cancel := context.WithTimeout(ctx, o.compareTimeout)
	defer cancel()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	outcomes := make(map[string]*Result, len(selected))
	failures := make(map[string]string)

	for _, name := range selected {
		provider := o.registry.providers[name]
		wg.Add(1)
		go func(name string, provider Provider) {
			defer wg.Done()

			result, err := o.translateWith(fanCtx, provider, Request{
				Text:       trimmed,
				SourceLang: resolvedSource,
				TargetLang: targetLang,
				Provider:   name,
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[name] = compareErrorMessage(err)
				return
			}
			outcomes[name] = result
		}(name, provider)
	}
	wg.Wait()

	// All providers have settled; fold in caller order.
	var bestScore float64
	for _, name := range selected {
		if result, ok := outcomes[name]; ok {
			comparison.Results[name] = result
			if comparison.Best == nil || result.QualityScore > bestScore {
				comparison.Best = result
				bestScore = result.QualityScore
			}
			continue
		}
		if msg, ok := failures[name]; ok {
			comparison.Errors[name] = msg
			o.logger.Error().Str("provider", name).Str("error", msg).Msg("comparison translation failed")
		}
	}

	return comparison, nil
}

// translateWith runs cache lookup, the provider call, quality scoring, and
// the cache write-back for one resolved provider.
func (o *Orchestrator) translateWith(ctx context.Context, provider Provider, req Request) (*Result, error) {
	options := cacheOptions(req)
	fingerprint := Fingerprint(req.Text, req.SourceLang, req.TargetLang, provider.Name(), options)

	if cached, ok := o.cache.Get(ctx, fingerprint); ok {
		return cached, nil
	}

	result, err := provider.Translate(ctx, req)
	if err != nil {
		return nil, &ProviderError{Provider: provider.Name(), Err: err}
	}

	scored := *result
	scored.QualityScore = quality.Score(req.Text, scored.TranslatedText, scored.SourceLang, scored.TargetLang)
	if scored.Metadata == nil {
		scored.Metadata = make(map[string]any, 2)
	}
	if stats := quality.Readability(scored.TranslatedText, scored.TargetLang); len(stats) > 0 {
		scored.Metadata["readability"] = stats
	}
	if keywords := quality.Keywords(req.Text, 10); len(keywords) > 0 {
		scored.Metadata["keywords"] = keywords
	}

	o.cache.Put(ctx, fingerprint, &scored)
	return &scored, nil
}

func (o *Orchestrator) validateText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", &ValidationError{Field: "text", Reason: "must not be empty"}
	}
	if length := utf8.RuneCountInString(trimmed); length > o.maxTextLength {
		return "", &ValidationError{
			Field:  "text",
			Reason: fmt.Sprintf("length %d exceeds maximum of %d characters", length, o.maxTextLength),
		}
	}
	return trimmed, nil
}

func (o *Orchestrator) resolveSourceLang(ctx context.Context, sourceLang, text string) string {
	normalized := language.Canonicalize(sourceLang)
	if strings.EqualFold(strings.TrimSpace(sourceLang), "auto") || normalized == "" {
		detected, _ := o.detect(ctx, text)
		return detected
	}
	return normalized
}

func cacheOptions(req Request) map[string]string {
	options := make(map[string]string, len(req.Options)+2)
	for key, value := range req.Options {
		options[key] = value
	}
	if model := strings.TrimSpace(req.Model); model != "" {
		options["model"] = model
	}
	options["style"] = normalizeStyle(req.Style)
	return options
}

func compareErrorMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return err.Error()
}
