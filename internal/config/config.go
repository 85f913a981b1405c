package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Inventory InventoryConfig
	Health    HealthConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig holds logger options.
type LogConfig struct {
	Level string
}

// InventoryConfig describes the inventory REST backend.
type InventoryConfig struct {
	BaseURL     string
	Timeout     time.Duration
	EscapeQuery bool
}

// HealthConfig holds the backend probe schedule.
type HealthConfig struct {
	CronSchedule string
}

// MongoDBConfig holds settings for the operation journal. An empty URI disables it.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration required to export results to Google Sheets.
// An empty SpreadsheetID disables the export.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	Range           string
}

// Enabled reports whether the journal should be wired.
func (c MongoDBConfig) Enabled() bool {
	return c.URI != ""
}

// Enabled reports whether results export should be wired.
func (c SheetsConfig) Enabled() bool {
	return c.SpreadsheetID != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	timeout, err := time.ParseDuration(getenvWithDefault("INVENTORY_API_TIMEOUT", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid INVENTORY_API_TIMEOUT: %w", err)
	}

	escape, err := strconv.ParseBool(getenvWithDefault("INVENTORY_QUERY_ESCAPE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid INVENTORY_QUERY_ESCAPE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Inventory: InventoryConfig{
			BaseURL:     getenvWithDefault("INVENTORY_API_BASE_URL", "http://localhost:8000"),
			Timeout:     timeout,
			EscapeQuery: escape,
		},
		Health: HealthConfig{
			CronSchedule: getenvWithDefault("HEALTH_CRON_SCHEDULE", "@every 30s"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "inventory_console"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_EXPORT_ID"),
			Range:           getenvWithDefault("GOOGLE_SHEET_EXPORT_RANGE", "Inventory!A1"),
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

	if c.Inventory.BaseURL == "" {
		return errors.New("INVENTORY_API_BASE_URL must be provided")
	}
	u, err := url.Parse(c.Inventory.BaseURL)
	if err != nil {
		return fmt.Errorf("INVENTORY_API_BASE_URL is invalid: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("INVENTORY_API_BASE_URL must be an http(s) origin, got %q", c.Inventory.BaseURL)
	}

	if c.Inventory.Timeout < 0 {
		return errors.New("INVENTORY_API_TIMEOUT must not be negative")
	}

	if c.Health.CronSchedule == "" {
		return errors.New("HEALTH_CRON_SCHEDULE must be provided")
	}

	if c.MongoDB.Enabled() && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
	}

	if c.Sheets.Enabled() {
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when GOOGLE_SHEET_EXPORT_ID is set")
		}
		if c.Sheets.Range == "" {
			return errors.New("GOOGLE_SHEET_EXPORT_RANGE must not be empty")
		}
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
