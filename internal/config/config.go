package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	DBMinConns  int32  `envconfig:"DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"8"`

	// Provider credentials. A provider without credentials is simply
	// absent from the registry.
	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY" default:""`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY" default:""`
	GoogleAPIKey    string `envconfig:"GOOGLE_API_KEY" default:""`
	BaiduAppID      string `envconfig:"BAIDU_APP_ID" default:""`
	BaiduSecretKey  string `envconfig:"BAIDU_SECRET_KEY" default:""`

	EngineConfigPath string `envconfig:"ENGINE_CONFIG_PATH" default:""`

	MaxTranslationLength  int    `envconfig:"MAX_TRANSLATION_LENGTH" default:"10000"`
	DefaultSourceLanguage string `envconfig:"DEFAULT_SOURCE_LANGUAGE" default:"auto"`
	DefaultTargetLanguage string `envconfig:"DEFAULT_TARGET_LANGUAGE" default:"zh"`
	DefaultProvider       string `envconfig:"TRANSLATION_PROVIDER" default:""`

	TranslationCacheTTLSeconds int `envconfig:"TRANSLATION_CACHE_TTL" default:"86400"`
	CompareTimeoutSeconds      int `envconfig:"COMPARE_TIMEOUT_SECONDS" default:"60"`

	ChunkSize int `envconfig:"DOCUMENT_CHUNK_SIZE" default:"1000"`
}

// Load reads an optional .env file, then processes environment variables.
func Load() (*Config, error) {
	loadDotEnv()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func loadDotEnv() {
	if custom := strings.TrimSpace(os.Getenv("POLYGLOT_ENV_FILE")); custom != "" {
		if err := godotenv.Overload(custom); err == nil {
			return
		}
	}
	_ = godotenv.Load()
}

func (c *Config) Validate() error {
	if c.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) cannot exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.MaxTranslationLength < 1 {
		return fmt.Errorf("MAX_TRANSLATION_LENGTH must be >= 1")
	}
	if strings.TrimSpace(c.DefaultTargetLanguage) == "" {
		return fmt.Errorf("DEFAULT_TARGET_LANGUAGE is required")
	}
	if c.TranslationCacheTTLSeconds < 0 {
		return fmt.Errorf("TRANSLATION_CACHE_TTL must be >= 0")
	}
	if c.CompareTimeoutSeconds < 1 {
		return fmt.Errorf("COMPARE_TIMEOUT_SECONDS must be >= 1")
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("DOCUMENT_CHUNK_SIZE must be >= 1")
	}
	return nil
}
