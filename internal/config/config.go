package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	pkgRetry "github.com/princehaifan/quran-memory-system/internal/pkg/retry"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr     string        `env:"SERVER_ADDR" envDefault:":8080"`
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"5m"`

	// Generative content provider
	GeminiCfg GeminiConfig

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// UI session configuration
	SessionCfg SessionConfig `envPrefix:"SESSION_"`

	// Document export configuration
	ExportCfg ExportConfig `envPrefix:"EXPORT_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// GeminiConfig holds the provider credential and call policy.
// API_KEY keeps its bare name so existing deployments keep working.
type GeminiConfig struct {
	APIKey string               `env:"API_KEY,notEmpty"`
	Model  string               `env:"GEMINI_MODEL" envDefault:"gemini-2.5-pro"`
	HTTP   HTTPClientConfig     `envPrefix:"GEMINI_HTTP_"`
	Retry  pkgRetry.RetryConfig `envPrefix:"GEMINI_RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"0s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"0s"`
	LogRequests           bool          `env:"LOG_REQUESTS" envDefault:"false"`
}

// SessionConfig controls how long idle UI sessions keep their study plan
type SessionConfig struct {
	TTL             time.Duration `env:"TTL" envDefault:"2h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
	CookieSecure    bool          `env:"COOKIE_SECURE" envDefault:"false"`
}

// ExportConfig controls downloadable documents
type ExportConfig struct {
	PDFFontPath      string `env:"PDF_FONT_PATH"`
	UnidocLicenseKey string `env:"UNIDOC_LICENSE_KEY"`
	MaxPlanBodyBytes int64  `env:"MAX_PLAN_BODY_BYTES" envDefault:"1048576"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"60"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int    `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int    `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment and validates it
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// ValidateTelegram checks the settings only the bot binary needs
func (c *Config) ValidateTelegram() error {
	if strings.TrimSpace(c.TelegramCfg.BotToken) == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	return nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if cfg.GeminiCfg.Retry.Attempts < 1 || cfg.GeminiCfg.Retry.Attempts > 5 {
		errors = append(errors, fmt.Sprintf("GEMINI_RETRY_ATTEMPTS must be between 1 and 5, got %d", cfg.GeminiCfg.Retry.Attempts))
	}

	if cfg.SessionCfg.TTL < time.Minute {
		errors = append(errors, fmt.Sprintf("SESSION_TTL must be at least 1m, got %s", cfg.SessionCfg.TTL))
	}

	if cfg.ExportCfg.MaxPlanBodyBytes < 1024 {
		errors = append(errors, fmt.Sprintf("EXPORT_MAX_PLAN_BODY_BYTES must be at least 1024, got %d", cfg.ExportCfg.MaxPlanBodyBytes))
	}

	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}

	if cfg.TelegramCfg.RateLimitBurst < 1 || cfg.TelegramCfg.RateLimitBurst > 20 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", cfg.TelegramCfg.RateLimitBurst))
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
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
