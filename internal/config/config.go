package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/proposal-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8000"`

	// OpenAPI document served under /docs
	DocsSpecPath string `env:"DOCS_SPEC_PATH" envDefault:"docs/swagger.yaml"`

	// Overall deadline for one proposal pipeline run
	PipelineTimeout time.Duration `env:"PIPELINE_TIMEOUT" envDefault:"10m"`

	// External service configurations
	LLMConnectorCfg      LLMConnectorConfig      `envPrefix:"LLM_"`
	CallbackConnectorCfg CallbackConnectorConfig `envPrefix:"CALLBACK_"`

	// Document rendering configuration
	RenderCfg RenderConfig `envPrefix:"RENDER_"`

	// Request validation configuration
	ValidationCfg ValidationConfig `envPrefix:"VALIDATION_"`

	// Per-client throttling of proposal generation
	RateLimitCfg RateLimitConfig `envPrefix:"RATE_LIMIT_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	Model            string   `env:"MODEL" envDefault:"gemini-2.5-flash"`
	GenerateEndpoint string   `env:"GENERATE_ENDPOINT" envDefault:"/v1beta/models/{model}:generateContent"`
	Temperature      *float64 `env:"TEMPERATURE"`
	MaxOutputTokens  int      `env:"MAX_OUTPUT_TOKENS" envDefault:"0"`
}

type CallbackConnectorConfig struct {
	HTTPClientConfig
	Retry pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"180s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"180s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

// RenderConfig holds document rendering settings
type RenderConfig struct {
	FontPath     string `env:"FONT_PATH"`
	BusinessName string `env:"BUSINESS_NAME"`
	PageSize     string `env:"PAGE_SIZE" envDefault:"A4"`

	// Metered unioffice key; docx downloads are refused without it
	UniofficeLicenseKey string `env:"UNIOFFICE_LICENSE_KEY"`
}

// ValidationConfig holds request boundary limits
type ValidationConfig struct {
	APIKeyPrefix       string `env:"API_KEY_PREFIX" envDefault:"AIza"`
	APIKeyMinLength    int    `env:"API_KEY_MIN_LENGTH" envDefault:"20"`
	UserInputMinLength int    `env:"USER_INPUT_MIN_LENGTH" envDefault:"10"`
	UserInputMaxLength int    `env:"USER_INPUT_MAX_LENGTH" envDefault:"20000"`
}

// RateLimitConfig holds per-client limits for proposal generation.
// PerMinute of 0 disables the limiter.
type RateLimitConfig struct {
	PerMinute int `env:"PER_MINUTE" envDefault:"10"`
	Burst     int `env:"BURST" envDefault:"3"`
}

const defaultGeminiURL = "https://generativelanguage.googleapis.com"

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if cfg.LLMConnectorCfg.Url == "" {
		cfg.LLMConnectorCfg.Url = defaultGeminiURL
	}

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if cfg.PipelineTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("PIPELINE_TIMEOUT must be at least 1s, got %s", cfg.PipelineTimeout))
	}

	if cfg.LLMConnectorCfg.Model == "" {
		errors = append(errors, "LLM_MODEL must not be empty")
	}

	if t := cfg.LLMConnectorCfg.Temperature; t != nil && (*t < 0 || *t > 2) {
		errors = append(errors, fmt.Sprintf("LLM_TEMPERATURE must be between 0 and 2, got %v", *t))
	}

	if cfg.ValidationCfg.APIKeyMinLength < 1 {
		errors = append(errors, fmt.Sprintf("VALIDATION_API_KEY_MIN_LENGTH must be positive, got %d", cfg.ValidationCfg.APIKeyMinLength))
	}

	// A max of 0 means no upper bound
	if minLen, maxLen := cfg.ValidationCfg.UserInputMinLength, cfg.ValidationCfg.UserInputMaxLength; minLen < 1 || maxLen < 0 || (maxLen > 0 && minLen > maxLen) {
		errors = append(errors, fmt.Sprintf("VALIDATION_USER_INPUT_MIN_LENGTH must be between 1 and VALIDATION_USER_INPUT_MAX_LENGTH(%d), got %d",
			maxLen, minLen))
	}

	if cfg.RateLimitCfg.PerMinute < 0 || cfg.RateLimitCfg.Burst < 0 {
		errors = append(errors, "RATE_LIMIT_PER_MINUTE and RATE_LIMIT_BURST must not be negative")
	}

	switch strings.ToUpper(cfg.RenderCfg.PageSize) {
	case "A4", "A3", "A5", "LETTER", "LEGAL":
	default:
		errors = append(errors, fmt.Sprintf("RENDER_PAGE_SIZE must be one of A3, A4, A5, Letter, Legal, got %q", cfg.RenderCfg.PageSize))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
