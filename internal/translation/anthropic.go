package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultAnthropicEndpoint is the messages endpoint.
	DefaultAnthropicEndpoint = "https://api.anthropic.com/v1/messages"
	// DefaultAnthropicModel is used when no model is configured or requested.
	DefaultAnthropicModel = "claude-3-haiku-20240307"

	anthropicVersion    = "2023-06-01"
	anthropicConfidence = 0.88
)

// AnthropicOptions configures the Anthropic provider.
type AnthropicOptions struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

// AnthropicProvider translates text through the Anthropic messages API.
type AnthropicProvider struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

func NewAnthropicProvider(opts AnthropicOptions) *AnthropicProvider {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultAnthropicModel
	}
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = DefaultAnthropicEndpoint
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &AnthropicProvider{
		apiKey:   strings.TrimSpace(opts.APIKey),
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

func (p *AnthropicProvider) Confidence() float64 {
	return anthropicConfidence
}

func (p *AnthropicProvider) Translate(ctx context.Context, req Request) (*Result, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = p.model
	}

	maxTokens := 3 * len(text)
	if maxTokens < 1024 {
		maxTokens = 1024
	}

	body, err := json.Marshal(anthropicMessageRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: 0.3,
		Messages: []chatMessage{
			{Role: "user", Content: buildStylePrompt(text, req.SourceLang, req.TargetLang, req.Style)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal translation request: %w", err)
	}

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build translation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

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
		var errPayload anthropicErrorResponse
		if unmarshalErr := json.Unmarshal(respBody, &errPayload); unmarshalErr == nil {
			if msg := strings.TrimSpace(errPayload.Error.Message); msg != "" {
				return nil, fmt.Errorf("translation endpoint status %d: %s", resp.StatusCode, msg)
			}
		}
		return nil, fmt.Errorf("translation endpoint status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed anthropicMessageResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode translation response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return nil, fmt.Errorf("translation response missing content")
	}

	translated := strings.TrimSpace(parsed.Content[0].Text)
	if translated == "" {
		return nil, fmt.Errorf("translation response was empty")
	}

	result := newResult(p, model, translated, req.SourceLang, req.TargetLang, text, started)
	result.Metadata = map[string]any{"style": normalizeStyle(req.Style)}
	if parsed.Usage != nil {
		result.Metadata["usage"] = map[string]int{
			"input_tokens":  parsed.Usage.InputTokens,
			"output_tokens": parsed.Usage.OutputTokens,
		}
	}
	return result, nil
}

type anthropicMessageRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature,omitempty"`
	Messages    []chatMessage `json:"messages"`
}

type anthropicMessageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Usage *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type anthropicErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
