package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the FieldScope server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	FSM      FSMConfig
	Scoring  ScoringConfig
	Report   ReportConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

type FSMConfig struct {
	Provider string
	Timeout  time.Duration
	Workiz   WorkizConfig
}

type WorkizConfig struct {
	BaseURL   string
	APIToken  string
	AccountID string
	PageSize  int
}

type ScoringConfig struct {
	GraceDays  int
	ShrinkageC float64
	MinJobs    int
}

type ReportConfig struct {
	CacheTTL  time.Duration
	VocabFile string
}

var validProviders = map[string]bool{
	"workiz": true,
	"mock":   true,
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("FIELDSCOPE_PORT", 8080),
			Env:  envString("FIELDSCOPE_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		FSM: FSMConfig{
			Provider: envString("FSM_PROVIDER", "workiz"),
			Timeout:  envDuration("FSM_TIMEOUT", 30*time.Second),
			Workiz: WorkizConfig{
				BaseURL:   os.Getenv("WORKIZ_BASE_URL"),
				APIToken:  os.Getenv("WORKIZ_API_TOKEN"),
				AccountID: envString("WORKIZ_ACCOUNT_ID", "default"),
				PageSize:  envInt("WORKIZ_PAGE_SIZE", 100),
			},
		},
		Scoring: ScoringConfig{
			GraceDays:  envInt("SCORING_GRACE_DAYS", 1),
			ShrinkageC: envFloat("SCORING_BAYESIAN_C", 10),
			MinJobs:    envInt("SCORING_MIN_JOBS", 10),
		},
		Report: ReportConfig{
			CacheTTL:  envDuration("REPORT_CACHE_TTL", 5*time.Minute),
			VocabFile: os.Getenv("FIELDSCOPE_VOCAB_FILE"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if !validProviders[c.FSM.Provider] {
		return fmt.Errorf("FSM_PROVIDER must be one of workiz, mock; got %q", c.FSM.Provider)
	}

	if c.FSM.Provider == "workiz" {
		if c.FSM.Workiz.BaseURL == "" {
			return fmt.Errorf("WORKIZ_BASE_URL is required when FSM_PROVIDER is workiz")
		}
		if !strings.HasPrefix(c.FSM.Workiz.BaseURL, "http://") && !strings.HasPrefix(c.FSM.Workiz.BaseURL, "https://") {
			return fmt.Errorf("WORKIZ_BASE_URL must start with http:// or https://, got %q", c.FSM.Workiz.BaseURL)
		}
		if c.FSM.Workiz.APIToken == "" {
			return fmt.Errorf("WORKIZ_API_TOKEN is required when FSM_PROVIDER is workiz")
		}
	}

	if c.Scoring.GraceDays < 0 {
		return fmt.Errorf("SCORING_GRACE_DAYS must not be negative")
	}
	if c.Scoring.ShrinkageC <= 0 {
		return fmt.Errorf("SCORING_BAYESIAN_C must be positive")
	}
	if c.Scoring.MinJobs < 0 {
		return fmt.Errorf("SCORING_MIN_JOBS must not be negative")
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
