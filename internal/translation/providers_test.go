package translation

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIProviderTranslate(t *testing.T) {
	t.Parallel()

	var captured chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  你好，世界。\n"}},
			},
			"usage": map[string]any{"prompt_tokens": 20, "completion_tokens": 8, "total_tokens": 28},
		})
	}))
	defer server.Close()

	provider := NewOpenAIProvider(OpenAIOptions{APIKey: "sk-test", Endpoint: server.URL})
	result, err := provider.Translate(context.Background(), Request{
		Text:       "Hello, world.",
		SourceLang: "en",
		TargetLang: "zh",
		Style:      "formal",
	})
	if err != nil {
		t.Fatalf("translate: %v", err)
	}

	if result.TranslatedText != "你好，世界。" {
		t.Fatalf("unexpected translation: %q", result.TranslatedText)
	}
	if result.Model != DefaultOpenAIModel {
		t.Fatalf("unexpected model: %q", result.Model)
	}
	if result.CharacterCount != 13 {
		t.Fatalf("expected source rune count 13, got %d", result.CharacterCount)
	}
	if result.WordCount != 2 {
		t.Fatalf("expected source word count 2, got %d", result.WordCount)
	}
	if result.ConfidenceScore != openAIConfidence {
		t.Fatalf("unexpected confidence: %v", result.ConfidenceScore)
	}
	if captured.Model != DefaultOpenAIModel || len(captured.Messages) != 2 {
		t.Fatalf("unexpected upstream request: %+v", captured)
	}
	if captured.Messages[0].Role != "system" {
		t.Fatalf("expected system prompt first, got %q", captured.Messages[0].Role)
	}
	if !strings.Contains(captured.Messages[1].Content, "Hello, world.") {
		t.Fatalf("prompt does not carry the source text: %q", captured.Messages[1].Content)
	}
	if !strings.Contains(captured.Messages[1].Content, styleDescriptions["formal"]) {
		t.Fatalf("prompt does not carry the requested style: %q", captured.Messages[1].Content)
	}
}

func TestOpenAIProviderErrorPayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit exceeded"}}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider(OpenAIOptions{APIKey: "sk-test", Endpoint: server.URL})
	_, err := provider.Translate(context.Background(), Request{Text: "Hello", SourceLang: "en", TargetLang: "zh"})
	if err == nil || !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Fatalf("expected upstream error message to surface, got %v", err)
	}
}

func TestAnthropicProviderTranslate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "sk-ant" {
			t.Errorf("unexpected api key header: %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got == "" {
			t.Errorf("missing anthropic-version header")
		}
		_, _ = w.Write([]byte(`{
			"content": [{"type": "text", "text": "你好，世界。"}],
			"usage": {"input_tokens": 21, "output_tokens": 9}
		}`))
	}))
	defer server.Close()

	provider := NewAnthropicProvider(AnthropicOptions{APIKey: "sk-ant", Endpoint: server.URL})
	result, err := provider.Translate(context.Background(), Request{Text: "Hello, world.", SourceLang: "en", TargetLang: "zh"})
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if result.TranslatedText != "你好，世界。" {
		t.Fatalf("unexpected translation: %q", result.TranslatedText)
	}
	if result.Provider != "anthropic" {
		t.Fatalf("unexpected provider name: %q", result.Provider)
	}
}

func TestGoogleProviderTranslate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.Form.Get("q"); got != "Hello, world." {
			t.Errorf("unexpected q: %q", got)
		}
		if got := r.Form.Get("source"); got != "" {
			t.Errorf("auto source must omit the source parameter, got %q", got)
		}
		_, _ = w.Write([]byte(`{
			"data": {"translations": [{"translatedText": "你好，世界。", "detectedSourceLanguage": "en"}]}
		}`))
	}))
	defer server.Close()

	provider := NewGoogleProvider(GoogleOptions{APIKey: "g-key", Endpoint: server.URL})
	result, err := provider.Translate(context.Background(), Request{Text: "Hello, world.", SourceLang: "auto", TargetLang: "zh"})
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if result.TranslatedText != "你好，世界。" {
		t.Fatalf("unexpected translation: %q", result.TranslatedText)
	}
	if result.SourceLang != "en" {
		t.Fatalf("expected detected source en, got %q", result.SourceLang)
	}
}

func TestBaiduProviderSignsRequests(t *testing.T) {
	t.Parallel()

	const (
		appID  = "app-123"
		secret = "secret-456"
		salt   = "40000"
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		text := r.Form.Get("q")
		sum := md5.Sum([]byte(appID + text + salt + secret))
		if got := r.Form.Get("sign"); got != hex.EncodeToString(sum[:]) {
			t.Errorf("bad signature: %q", got)
		}
		if got := r.Form.Get("from"); got != "auto" {
			t.Errorf("expected from=auto, got %q", got)
		}
		_, _ = w.Write([]byte(`{
			"trans_result": [{"src": "Hello", "dst": "你好"}, {"src": "world", "dst": "世界"}]
		}`))
	}))
	defer server.Close()

	provider := NewBaiduProvider(BaiduOptions{AppID: appID, SecretKey: secret, Endpoint: server.URL})
	provider.salt = func() string { return salt }

	result, err := provider.Translate(context.Background(), Request{Text: "Hello\nworld", TargetLang: "zh"})
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if result.TranslatedText != "你好\n世界" {
		t.Fatalf("expected multi-segment join, got %q", result.TranslatedText)
	}
	if result.Model != baiduModelName {
		t.Fatalf("unexpected model: %q", result.Model)
	}
}

func TestBaiduProviderUpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error_code": "54003", "error_msg": "Invalid Access Limit"}`))
	}))
	defer server.Close()

	provider := NewBaiduProvider(BaiduOptions{AppID: "a", SecretKey: "s", Endpoint: server.URL})
	_, err := provider.Translate(context.Background(), Request{Text: "Hello", TargetLang: "zh"})
	if err == nil || !strings.Contains(err.Error(), "54003") {
		t.Fatalf("expected error code to surface, got %v", err)
	}
}
