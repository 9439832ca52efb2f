package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"horse.fit/polyglot/internal/language"
)

const (
	// DefaultGoogleEndpoint is the Cloud Translation v2 endpoint.
	DefaultGoogleEndpoint = "https://translation.googleapis.com/language/translate/v2"

	googleModelName  = "translate-v2"
	googleConfidence = 0.85
)

// GoogleOptions configures the Google Translate provider.
type GoogleOptions struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// GoogleProvider translates text through the Cloud Translation REST API.
type GoogleProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewGoogleProvider(opts GoogleOptions) *GoogleProvider {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = DefaultGoogleEndpoint
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GoogleProvider{
		apiKey:   strings.TrimSpace(opts.APIKey),
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (p *GoogleProvider) Name() string {
	return "google"
}

func (p *GoogleProvider) Confidence() float64 {
	return googleConfidence
}

func (p *GoogleProvider) Translate(ctx context.Context, req Request) (*Result, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	form := url.Values{}
	form.Set("q", text)
	form.Set("target", language.NormalizeCode(req.TargetLang))
	form.Set("format", "text")
	form.Set("key", p.apiKey)
	if source := language.NormalizeCode(req.SourceLang); source != "" && source != "auto" {
		form.Set("source", source)
	}

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build translation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send translation request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read translation response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errPayload googleErrorResponse
		if unmarshalErr := json.Unmarshal(respBody, &errPayload); unmarshalErr == nil {
			if msg := strings.TrimSpace(errPayload.Error.Message); msg != "" {
				return nil, fmt.Errorf("translation endpoint status %d: %s", resp.StatusCode, msg)
			}
		}
		return nil, fmt.Errorf("translation endpoint status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed googleTranslateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode translation response: %w", err)
	}
	if len(parsed.Data.Translations) == 0 {
		return nil, fmt.Errorf("translation response missing translations")
	}

	entry := parsed.Data.Translations[0]
	translated := strings.TrimSpace(entry.TranslatedText)
	if translated == "" {
		return nil, fmt.Errorf("translation response was empty")
	}

	resolvedSource := language.Canonicalize(entry.DetectedSourceLanguage)
	if resolvedSource == "" {
		resolvedSource = language.NormalizeCode(req.SourceLang)
	}

	result := newResult(p, googleModelName, translated, resolvedSource, req.TargetLang, text, started)
	if entry.DetectedSourceLanguage != "" {
		result.Metadata = map[string]any{"detected_language": resolvedSource}
	}
	return result, nil
}

type googleTranslateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage"`
		} `json:"translations"`
	} `json:"data"`
}

type googleErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
