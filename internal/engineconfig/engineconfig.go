// Package engineconfig loads the optional JSON engine-registry table:
// which translation engines are enabled, their credentials, and their
// default models and options. The table is read-only configuration
// consumed by registry construction, never mutated by the core.
package engineconfig

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed engines.schema.json
var enginesSchemaJSON string

// Engine configures one translation backend.
type Engine struct {
	Enabled   bool              `json:"enabled"`
	APIKey    string            `json:"api_key,omitempty"`
	AppID     string            `json:"app_id,omitempty"`
	SecretKey string            `json:"secret_key,omitempty"`
	Model     string            `json:"model,omitempty"`
	Options   map[string]string `json:"options,omitempty"`
}

// Config is the typed engine-registry table.
type Config struct {
	Engines map[string]Engine `json:"engines"`
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// LoadFile reads and validates an engine configuration file. A blank path
// or a missing file yields an empty config (no engines configured).
func LoadFile(path string) (*Config, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return &Config{}, nil
	}

	payload, err := os.ReadFile(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read engine config: %w", err)
	}

	return Parse(payload)
}

// Parse validates raw JSON against the embedded schema and decodes it.
func Parse(payload []byte) (*Config, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode engine config JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load engine config schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("engine config validation failed: %w", err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize engine config JSON: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(normalized, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal engine config: %w", err)
	}
	return &cfg, nil
}

// Engine looks up one engine entry by normalized id.
func (c *Config) Engine(id string) (Engine, bool) {
	if c == nil || len(c.Engines) == 0 {
		return Engine{}, false
	}
	engine, ok := c.Engines[strings.ToLower(strings.TrimSpace(id))]
	return engine, ok
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("engines.schema.json", strings.NewReader(enginesSchemaJSON)); err != nil {
			compiledSchemaErr = err
			return
		}
		compiledSchema, compiledSchemaErr = compiler.Compile("engines.schema.json")
	})
	return compiledSchema, compiledSchemaErr
}

func decodeStrictJSON(payload []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if err := decoder.Decode(new(any)); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON document")
	}
	return value, nil
}
