package translation

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

// Provider translates free-form text via one external translation backend.
type Provider interface {
	Translate(ctx context.Context, req Request) (*Result, error)
	Name() string
	// Confidence is the provider's static self-reported confidence heuristic.
	Confidence() float64
}

// Request describes one translation request.
type Request struct {
	Text       string
	SourceLang string // ISO 639-1, or "auto" for detection
	TargetLang string
	Provider   string
	Model      string
	Style      string
	Options    map[string]string
}

// Result contains translated text, scoring, and provider metadata.
// A Result is immutable once produced.
type Result struct {
	Provider         string         `json:"provider"`
	Model            string         `json:"model"`
	TranslatedText   string         `json:"translated_text"`
	SourceLang       string         `json:"source_lang"`
	TargetLang       string         `json:"target_lang"`
	QualityScore     float64        `json:"quality_score"`
	ConfidenceScore  float64        `json:"confidence_score"`
	ProcessingTimeMS int64          `json:"processing_time_ms"`
	WordCount        int            `json:"word_count"`
	CharacterCount   int            `json:"character_count"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// newResult fills the fields every adapter reports the same way.
func newResult(provider Provider, model, translated, sourceLang, targetLang, sourceText string, started time.Time) *Result {
	return &Result{
		Provider:         provider.Name(),
		Model:            model,
		TranslatedText:   translated,
		SourceLang:       sourceLang,
		TargetLang:       targetLang,
		ConfidenceScore:  provider.Confidence(),
		ProcessingTimeMS: time.Since(started).Milliseconds(),
		WordCount:        len(strings.Fields(sourceText)),
		CharacterCount:   utf8.RuneCountInString(sourceText),
	}
}
