package translation

import (
	"fmt"
	"sort"
	"strings"

	"horse.fit/polyglot/internal/config"
	"horse.fit/polyglot/internal/engineconfig"
)

// Registry stores the available translation providers and resolves a
// default provider.
type Registry struct {
	providers       map[string]Provider
	defaultProvider string
}

func NewRegistry(defaultProvider string) *Registry {
	return &Registry{
		providers:       make(map[string]Provider),
		defaultProvider: normalizeProviderName(defaultProvider),
	}
}

// NewRegistryFromConfig builds the provider registry from application
// settings plus an optional engine configuration table. Providers without
// credentials are left unregistered rather than registered broken.
func NewRegistryFromConfig(cfg *config.Config, engines *engineconfig.Config) *Registry {
	registry := NewRegistry(cfg.DefaultProvider)

	openAIKey := cfg.OpenAIAPIKey
	anthropicKey := cfg.AnthropicAPIKey
	googleKey := cfg.GoogleAPIKey
	baiduAppID := cfg.BaiduAppID
	baiduSecret := cfg.BaiduSecretKey

	var openAIModel, anthropicModel string
	if engines != nil {
		if engine, ok := engines.Engine("openai"); ok {
			if !engine.Enabled {
				openAIKey = ""
			} else if engine.APIKey != "" {
				openAIKey = engine.APIKey
			}
			openAIModel = engine.Model
		}
		if engine, ok := engines.Engine("anthropic"); ok {
			if !engine.Enabled {
				anthropicKey = ""
			} else if engine.APIKey != "" {
				anthropicKey = engine.APIKey
			}
			anthropicModel = engine.Model
		}
		if engine, ok := engines.Engine("google"); ok {
			if !engine.Enabled {
				googleKey = ""
			} else if engine.APIKey != "" {
				googleKey = engine.APIKey
			}
		}
		if engine, ok := engines.Engine("baidu"); ok {
			if !engine.Enabled {
				baiduAppID = ""
			} else {
				if engine.AppID != "" {
					baiduAppID = engine.AppID
				}
				if engine.SecretKey != "" {
					baiduSecret = engine.SecretKey
				}
			}
		}
	}

	if strings.TrimSpace(openAIKey) != "" {
		_ = registry.Register(NewOpenAIProvider(OpenAIOptions{APIKey: openAIKey, Model: openAIModel}))
	}
	if strings.TrimSpace(anthropicKey) != "" {
		_ = registry.Register(NewAnthropicProvider(AnthropicOptions{APIKey: anthropicKey, Model: anthropicModel}))
	}
	if strings.TrimSpace(googleKey) != "" {
		_ = registry.Register(NewGoogleProvider(GoogleOptions{APIKey: googleKey}))
	}
	if strings.TrimSpace(baiduAppID) != "" && strings.TrimSpace(baiduSecret) != "" {
		_ = registry.Register(NewBaiduProvider(BaiduOptions{AppID: baiduAppID, SecretKey: baiduSecret}))
	}

	if _, exists := registry.providers[registry.defaultProvider]; !exists {
		registry.defaultProvider = ""
		for _, name := range registry.ProviderNames() {
			registry.defaultProvider = name
			break
		}
	}

	return registry
}

// Register adds one provider.
func (r *Registry) Register(provider Provider) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}
	if provider == nil {
		return fmt.Errorf("provider is nil")
	}
	name := normalizeProviderName(provider.Name())
	if name == "" {
		return fmt.Errorf("provider name is required")
	}
	r.providers[name] = provider
	return nil
}

// Provider resolves a provider by name. Empty names use the configured
// default provider.
func (r *Registry) Provider(name string) (Provider, error) {
	if r == nil {
		return nil, fmt.Errorf("registry is nil")
	}
	if len(r.providers) == 0 {
		return nil, ErrNoProvider
	}

	resolvedName := normalizeProviderName(name)
	if resolvedName == "" {
		resolvedName = r.defaultProvider
	}
	if provider, ok := r.providers[resolvedName]; ok {
		return provider, nil
	}

	return nil, fmt.Errorf("translation provider %q is not registered (available: %s)", resolvedName, strings.Join(r.ProviderNames(), ", "))
}

// AnyProvider returns an arbitrary available provider (the first by sorted
// name), or false when none is registered.
func (r *Registry) AnyProvider() (Provider, bool) {
	if r == nil || len(r.providers) == 0 {
		return nil, false
	}
	names := r.ProviderNames()
	return r.providers[names[0]], true
}

func (r *Registry) DefaultProvider() string {
	if r == nil {
		return ""
	}
	return r.defaultProvider
}

func (r *Registry) ProviderNames() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeProviderName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
