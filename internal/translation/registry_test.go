package translation

import (
	"context"
	"errors"
	"testing"

	"horse.fit/polyglot/internal/config"
	"horse.fit/polyglot/internal/engineconfig"
)

type stubProvider struct {
	name       string
	confidence float64
	calls      int
	resp       *Result
	err        error
	block      bool
}

func (p *stubProvider) Translate(ctx context.Context, req Request) (*Result, error) {
	p.calls++
	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if p.err != nil {
		return nil, p.err
	}
	resp := *p.resp
	if resp.Provider == "" {
		resp.Provider = p.name
	}
	if resp.SourceLang == "" {
		resp.SourceLang = req.SourceLang
	}
	if resp.TargetLang == "" {
		resp.TargetLang = req.TargetLang
	}
	return &resp, nil
}

func (p *stubProvider) Name() string {
	return p.name
}

func (p *stubProvider) Confidence() float64 {
	return p.confidence
}

func TestRegistryResolvesProviders(t *testing.T) {
	t.Parallel()

	registry := NewRegistry("Beta")
	if err := registry.Register(&stubProvider{name: "Alpha"}); err != nil {
		t.Fatalf("register alpha: %v", err)
	}
	if err := registry.Register(&stubProvider{name: "beta"}); err != nil {
		t.Fatalf("register beta: %v", err)
	}

	provider, err := registry.Provider(" ALPHA ")
	if err != nil {
		t.Fatalf("resolve alpha: %v", err)
	}
	if provider.Name() != "Alpha" {
		t.Fatalf("unexpected provider: %q", provider.Name())
	}

	provider, err = registry.Provider("")
	if err != nil {
		t.Fatalf("resolve default: %v", err)
	}
	if provider.Name() != "beta" {
		t.Fatalf("expected default provider beta, got %q", provider.Name())
	}

	if _, err := registry.Provider("missing"); err == nil {
		t.Fatalf("expected error for unregistered provider")
	}

	names := registry.ProviderNames()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Fatalf("unexpected provider names: %v", names)
	}
}

func TestRegistryEmpty(t *testing.T) {
	t.Parallel()

	registry := NewRegistry("")
	if _, err := registry.Provider("anything"); !errors.Is(err, ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}
	if _, ok := registry.AnyProvider(); ok {
		t.Fatalf("expected no provider from empty registry")
	}
}

func TestNewRegistryFromConfigSkipsMissingCredentials(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		OpenAIAPIKey: "sk-test",
		BaiduAppID:   "app",
		// Baidu secret missing: credentials incomplete, provider absent.
	}
	registry := NewRegistryFromConfig(cfg, nil)

	names := registry.ProviderNames()
	if len(names) != 1 || names[0] != "openai" {
		t.Fatalf("expected only openai to be registered, got %v", names)
	}
	if registry.DefaultProvider() != "openai" {
		t.Fatalf("expected openai as default, got %q", registry.DefaultProvider())
	}
}

func TestNewRegistryFromConfigHonorsEngineTable(t *testing.T) {
	t.Parallel()

	engines, err := engineconfig.Parse([]byte(`{
		"engines": {
			"openai": {"enabled": false},
			"anthropic": {"enabled": true, "api_key": "sk-ant", "model": "claude-3-5-haiku-latest"}
		}
	}`))
	if err != nil {
		t.Fatalf("parse engine config: %v", err)
	}

	cfg := &config.Config{OpenAIAPIKey: "sk-test"}
	registry := NewRegistryFromConfig(cfg, engines)

	names := registry.ProviderNames()
	if len(names) != 1 || names[0] != "anthropic" {
		t.Fatalf("expected engine table to disable openai and enable anthropic, got %v", names)
	}
}
