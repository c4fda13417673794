package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Reasoning ReasoningConfig
	Vision    VisionConfig
	Alerts    AlertsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// ReasoningConfig holds settings for the text-reasoning backend.
type ReasoningConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// VisionConfig holds settings for the vision-extraction backend. An
// empty APIKey disables photo ingestion.
type VisionConfig struct {
	BaseURL string
	Model   string
	APIKey  string
}

// AlertsConfig holds the scheduled inventory-alert settings. An empty
// recipient disables email alerts.
type AlertsConfig struct {
	CronSchedule         string
	DiscountCronSchedule string
	MinQuantity          int
	CredentialsPath      string
	From                 string
	To                   string
}

// Load reads environment variables (optionally from the provided file)
// and materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes
		// from the environment directly.
		_ = godotenv.Load()
	}

	timeoutSeconds, err := intEnv("REASONING_TIMEOUT_SECONDS", 180)
	if err != nil {
		return nil, err
	}
	minQuantity, err := intEnv("ALERT_MIN_QUANTITY", 50)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "ventura"),
		},
		Reasoning: ReasoningConfig{
			BaseURL: getenvWithDefault("OLLAMA_BASE_URL", "http://localhost:11434"),
			Model:   getenvWithDefault("OLLAMA_MODEL", "mistral"),
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
		Vision: VisionConfig{
			BaseURL: getenvWithDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Model:   getenvWithDefault("GEMINI_MODEL", "gemini-1.5-flash"),
			APIKey:  os.Getenv("GEMINI_API_KEY"),
		},
		Alerts: AlertsConfig{
			CronSchedule:         getenvWithDefault("ALERT_CRON_SCHEDULE", "0 8 * * *"),
			DiscountCronSchedule: getenvWithDefault("DISCOUNT_CRON_SCHEDULE", "0 6 * * *"),
			MinQuantity:          minQuantity,
			CredentialsPath:      os.Getenv("GMAIL_CREDENTIALS_PATH"),
			From:                 getenvWithDefault("ALERT_EMAIL_FROM", "me"),
			To:                   os.Getenv("ALERT_EMAIL_TO"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	switch {
	case c.Reasoning.BaseURL == "":
		return errors.New("OLLAMA_BASE_URL must not be empty")
	case c.Reasoning.Model == "":
		return errors.New("OLLAMA_MODEL must not be empty")
	case c.Reasoning.Timeout <= 0:
		return errors.New("REASONING_TIMEOUT_SECONDS must be positive")
	}

	if c.Alerts.To != "" && c.Alerts.CredentialsPath == "" {
		return errors.New("GMAIL_CREDENTIALS_PATH must be provided when ALERT_EMAIL_TO is set")
	}
	if c.Alerts.MinQuantity < 0 {
		return errors.New("ALERT_MIN_QUANTITY must not be negative")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
