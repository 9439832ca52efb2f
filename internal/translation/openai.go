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
	// DefaultOpenAIEndpoint is the chat completions endpoint.
	DefaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"
	// DefaultOpenAIModel is used when no model is configured or requested.
	DefaultOpenAIModel = "gpt-3.5-turbo"

	openAIConfidence = 0.9
)

// OpenAIOptions configures the OpenAI provider.
type OpenAIOptions struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

// OpenAIProvider translates text through the OpenAI chat completions API.
type OpenAIProvider struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

func NewOpenAIProvider(opts OpenAIOptions) *OpenAIProvider {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultOpenAIModel
	}
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = DefaultOpenAIEndpoint
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OpenAIProvider{
		apiKey:   strings.TrimSpace(opts.APIKey),
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Confidence() float64 {
	return openAIConfidence
}

func (p *OpenAIProvider) Translate(ctx context.Context, req Request) (*Result, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = p.model
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildStylePrompt(text, req.SourceLang, req.TargetLang, req.Style)},
		},
		Temperature: 0.3,
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
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	translated, usage, err := doChatCompletion(p.client, httpReq)
	if err != nil {
		return nil, err
	}

	result := newResult(p, model, translated, req.SourceLang, req.TargetLang, text, started)
	result.Metadata = map[string]any{"style": normalizeStyle(req.Style)}
	if usage != nil {
		result.Metadata["usage"] = *usage
	}
	return result, nil
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *chatCompletionUsage `json:"usage"`
}

type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func doChatCompletion(client *http.Client, httpReq *http.Request) (string, *chatCompletionUsage, error) {
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", nil, fmt.Errorf("send translation request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read translation response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errPayload chatErrorResponse
		if unmarshalErr := json.Unmarshal(respBody, &errPayload); unmarshalErr == nil {
			if msg := strings.TrimSpace(errPayload.Error.Message); msg != "" {
				return "", nil, fmt.Errorf("translation endpoint status %d: %s", resp.StatusCode, msg)
			}
		}
		return "", nil, fmt.Errorf("translation endpoint status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", nil, fmt.Errorf("decode translation response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil, fmt.Errorf("translation response missing choices")
	}

	translated := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if translated == "" {
		return "", nil, fmt.Errorf("translation response was empty")
	}
	return translated, parsed.Usage, nil
}

func normalizeStyle(style string) string {
	normalized := strings.ToLower(strings.TrimSpace(style))
	if _, ok := styleDescriptions[normalized]; ok {
		return normalized
	}
	return DefaultStyle
}
