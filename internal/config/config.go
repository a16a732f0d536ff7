package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Supported data source drivers.
const (
	SourceMongoDB   = "mongodb"
	SourceSheets    = "sheets"
	SourcePostgREST = "postgrest"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Data      DataConfig
	Sheets    SheetsConfig
	PostgREST PostgRESTConfig
	MongoDB   MongoDBConfig
	Reporting ReportingConfig
	Analytics AnalyticsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig controls the zap logger level.
type LogConfig struct {
	Level string
}

// DataConfig selects where farm records are read from and how the engine fans out.
type DataConfig struct {
	Source      string
	ReadTimeout time.Duration
	Workers     int
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// PostgRESTConfig points at a PostgREST (Supabase) endpoint exposing the farm tables.
type PostgRESTConfig struct {
	BaseURL string
	APIKey  string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// ReportingConfig holds scheduler and rendering settings.
type ReportingConfig struct {
	Locale        string
	Timezone      string
	AccountIDs    []string
	DailyCron     string
	WeeklyCron    string
	MonthlyCron   string
	QuarterlyCron string
	AnalyticsPath string
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

	readTimeout, err := time.ParseDuration(getenvWithDefault("DATA_READ_TIMEOUT", "20s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DATA_READ_TIMEOUT: %w", err)
	}

	workers, err := strconv.Atoi(getenvWithDefault("ANALYTICS_WORKERS", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid ANALYTICS_WORKERS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			Source:      strings.ToLower(getenvWithDefault("DATA_SOURCE", SourceMongoDB)),
			ReadTimeout: readTimeout,
			Workers:     workers,
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		PostgREST: PostgRESTConfig{
			BaseURL: os.Getenv("POSTGREST_URL"),
			APIKey:  os.Getenv("POSTGREST_API_KEY"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "aquafarm"),
		},
		Reporting: ReportingConfig{
			Locale:        getenvWithDefault("REPORT_LOCALE", "fr"),
			Timezone:      getenvWithDefault("TIMEZONE", "Africa/Conakry"),
			AccountIDs:    splitList(os.Getenv("REPORT_ACCOUNT_IDS")),
			DailyCron:     getenvWithDefault("REPORT_DAILY_CRON", "0 20 * * *"),
			WeeklyCron:    getenvWithDefault("REPORT_WEEKLY_CRON", "0 20 * * 5"),
			MonthlyCron:   getenvWithDefault("REPORT_MONTHLY_CRON", "0 21 1 * *"),
			QuarterlyCron: getenvWithDefault("REPORT_QUARTERLY_CRON", "0 22 1 1,4,7,10 *"),
			AnalyticsPath: os.Getenv("ANALYTICS_CONFIG_PATH"),
		},
	}

	analytics, err := LoadAnalytics(cfg.Reporting.AnalyticsPath)
	if err != nil {
		return nil, err
	}
	cfg.Analytics = *analytics

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

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	if c.Data.ReadTimeout <= 0 {
		return errors.New("DATA_READ_TIMEOUT must be positive")
	}

	if c.Data.Workers <= 0 {
		return errors.New("ANALYTICS_WORKERS must be positive")
	}

	switch c.Data.Source {
	case SourceMongoDB:
	case SourceSheets:
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
		}
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
		}
	case SourcePostgREST:
		if c.PostgREST.BaseURL == "" {
			return errors.New("POSTGREST_URL must be provided")
		}
		if c.PostgREST.APIKey == "" {
			return errors.New("POSTGREST_API_KEY must be provided")
		}
	default:
		return fmt.Errorf("DATA_SOURCE %q is not supported", c.Data.Source)
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q is invalid: %w", c.Reporting.Timezone, err)
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
