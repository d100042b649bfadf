package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// NewsAPIKeyEnv is the one recognized environment variable supplying the news
// API credential. Its absence is a valid configuration state, not an error.
const NewsAPIKeyEnv = "NEWSAPI_KEY"

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Ingest      IngestConfig    `toml:"ingest"`
	News        NewsConfig      `toml:"news"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
	Host string `toml:"host" validate:"required"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"`
	ResetOnStartup bool   `toml:"reset_on_startup"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=trace debug info warn error"`
	Output []string `toml:"output"` // "stdout", "file"
}

// IngestConfig controls the disclosure page fetch.
type IngestConfig struct {
	SourceURL      string        `toml:"source_url" validate:"required,url"`
	UserAgent      string        `toml:"user_agent" validate:"required"`
	RequestTimeout time.Duration `toml:"request_timeout" validate:"gt=0"`
}

// NewsConfig controls news enrichment.
type NewsConfig struct {
	APIKey       string        `toml:"api_key"` // usually supplied via NEWSAPI_KEY
	WindowDays   int           `toml:"window_days" validate:"gte=0"`
	MaxHeadlines int           `toml:"max_headlines" validate:"gt=0"`
	PageSize     int           `toml:"page_size" validate:"gt=0"`
	Concurrency  int           `toml:"concurrency" validate:"gt=0"`
	CacheTTL     time.Duration `toml:"cache_ttl" validate:"gt=0"`
	RateLimit    int           `toml:"rate_limit" validate:"gt=0"` // requests per second
}

// SchedulerConfig controls the periodic refresh job.
type SchedulerConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // cron spec, e.g. "@every 10m"
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Ingest: IngestConfig{
			SourceURL:      "https://www.quiverquant.com/congresstrading",
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
			RequestTimeout: 20 * time.Second,
		},
		News: NewsConfig{
			WindowDays:   2,
			MaxHeadlines: 5,
			PageSize:     20,
			Concurrency:  4,
			CacheTTL:     time.Hour,
			RateLimit:    5,
		},
		Scheduler: SchedulerConfig{
			Enabled:  true,
			Schedule: "@every 10m",
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	// .env is optional; a missing file is a valid state
	_ = godotenv.Load()

	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate checks the configuration using go-playground/validator tags.
func (c *Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("VIGILO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("VIGILO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("VIGILO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if badgerPath := os.Getenv("VIGILO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	if level := os.Getenv("VIGILO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if sourceURL := os.Getenv("VIGILO_INGEST_SOURCE_URL"); sourceURL != "" {
		config.Ingest.SourceURL = sourceURL
	}
	if userAgent := os.Getenv("VIGILO_INGEST_USER_AGENT"); userAgent != "" {
		config.Ingest.UserAgent = userAgent
	}
	if timeout := os.Getenv("VIGILO_INGEST_REQUEST_TIMEOUT"); timeout != "" {
		if t, err := time.ParseDuration(timeout); err == nil {
			config.Ingest.RequestTimeout = t
		}
	}

	// The news credential comes from the canonical NEWSAPI_KEY variable.
	// A missing credential is handled downstream as a degraded mode.
	if apiKey := os.Getenv(NewsAPIKeyEnv); apiKey != "" {
		config.News.APIKey = apiKey
	}
	if windowDays := os.Getenv("VIGILO_NEWS_WINDOW_DAYS"); windowDays != "" {
		if w, err := strconv.Atoi(windowDays); err == nil {
			config.News.WindowDays = w
		}
	}
	if concurrency := os.Getenv("VIGILO_NEWS_CONCURRENCY"); concurrency != "" {
		if c, err := strconv.Atoi(concurrency); err == nil {
			config.News.Concurrency = c
		}
	}
	if cacheTTL := os.Getenv("VIGILO_NEWS_CACHE_TTL"); cacheTTL != "" {
		if t, err := time.ParseDuration(cacheTTL); err == nil {
			config.News.CacheTTL = t
		}
	}

	if schedule := os.Getenv("VIGILO_SCHEDULER_SCHEDULE"); schedule != "" {
		config.Scheduler.Schedule = schedule
	}
	if enabled := os.Getenv("VIGILO_SCHEDULER_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Scheduler.Enabled = e
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
