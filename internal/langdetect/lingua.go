package langdetect

import (
	"context"
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"

	"horse.fit/polyglot/internal/language"
)

// FallbackLanguage is returned whenever detection cannot produce a code.
const FallbackLanguage = "en"

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// Detect identifies the language of text, returning a canonical ISO 639-1
// code. It never fails: empty or undetectable input yields FallbackLanguage.
func Detect(text string) string {
	code, _ := DetectWithConfidence(text)
	return code
}

// DetectWithConfidence identifies the language of text along with a
// probability in [0,1]. Failures yield (FallbackLanguage, 0).
func DetectWithConfidence(text string) (string, float64) {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return FallbackLanguage, 0
	}

	letterCount := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letterCount++
		}
	}
	if letterCount < 6 {
		return FallbackLanguage, 0
	}

	detected, exists := getDetector().DetectLanguageOf(sample)
	if !exists {
		return FallbackLanguage, 0
	}

	code := language.Canonicalize(strings.ToLower(detected.IsoCode639_1().String()))
	if len(code) != 2 {
		return FallbackLanguage, 0
	}

	confidence := getDetector().ComputeLanguageConfidence(sample, detected)
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return code, confidence
}

// DetectContext runs detection on its own goroutine so callers holding a
// deadline are not stalled by first-use model loading. When ctx ends first,
// the fallback language is returned and the detection result is discarded.
func DetectContext(ctx context.Context, text string) (string, float64) {
	type detection struct {
		code       string
		confidence float64
	}

	done := make(chan detection, 1)
	go func() {
		code, confidence := DetectWithConfidence(text)
		done <- detection{code: code, confidence: confidence}
	}()

	select {
	case result := <-done:
		return result.code, result.confidence
	case <-ctx.Done():
		return FallbackLanguage, 0
	}
}

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithPreloadedLanguageModels().
			Build()
	})
	return detector
}
