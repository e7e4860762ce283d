package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/thinkscotty/cfdash/internal/stats"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Logging    LoggingConfig    `yaml:"logging"`
	Codeforces CodeforcesConfig `yaml:"codeforces"`
	Cache      CacheConfig      `yaml:"cache"`
	Calendar   CalendarConfig   `yaml:"calendar"`
	Pagination PaginationConfig `yaml:"pagination"`
}

type ServerConfig struct {
	Host                string   `yaml:"host"`
	Port                int      `yaml:"port"`
	ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `yaml:"write_timeout_seconds"`
	AllowedOrigins      []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type CodeforcesConfig struct {
	BaseURL        string `yaml:"base_url"`
	UserAgent      string `yaml:"user_agent"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MinIntervalMs  int    `yaml:"min_interval_ms"`
}

type CacheConfig struct {
	Backend       string `yaml:"backend"` // "none", "memory" or "redis"
	TTLSeconds    int    `yaml:"ttl_seconds"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type CalendarConfig struct {
	// DayOffset is the UTC offset day boundaries are computed at, e.g. "+05:30".
	DayOffset string `yaml:"day_offset"`
}

type PaginationConfig struct {
	PageSize int `yaml:"page_size"`
}

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                8080,
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 60,
			AllowedOrigins:      []string{"*"},
		},
		Database: DatabaseConfig{
			Path: "./cfdash.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Codeforces: CodeforcesConfig{
			BaseURL:        "https://codeforces.com/api",
			UserAgent:      "cfdash/1.0 (+https://github.com/thinkscotty/cfdash)",
			TimeoutSeconds: 30,
		},
		Cache: CacheConfig{
			Backend:    "none",
			TTLSeconds: 600,
			RedisAddr:  "localhost:6379",
		},
		Calendar: CalendarConfig{
			DayOffset: "UTC",
		},
		Pagination: PaginationConfig{
			PageSize: stats.DefaultPageSize,
		},
	}
}

// Load reads a YAML config file and merges it over defaults, then applies
// CFDASH_* environment overrides (a .env file next to the binary is loaded
// first when present). A missing config file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
		slog.Info("No config file found, using defaults", "path", path)
	default:
		return cfg, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("CFDASH_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvAsInt("CFDASH_PORT", cfg.Server.Port)
	cfg.Database.Path = getEnv("CFDASH_DB_PATH", cfg.Database.Path)
	cfg.Logging.Level = getEnv("CFDASH_LOG_LEVEL", cfg.Logging.Level)
	cfg.Codeforces.BaseURL = getEnv("CFDASH_API_BASE_URL", cfg.Codeforces.BaseURL)
	cfg.Cache.Backend = getEnv("CFDASH_CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.RedisAddr = getEnv("CFDASH_REDIS_ADDR", cfg.Cache.RedisAddr)
	cfg.Cache.RedisPassword = getEnv("CFDASH_REDIS_PASSWORD", cfg.Cache.RedisPassword)
	cfg.Calendar.DayOffset = getEnv("CFDASH_DAY_OFFSET", cfg.Calendar.DayOffset)
}

// Validate rejects settings the rest of the program cannot work with.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if _, err := stats.ParseOffset(c.Calendar.DayOffset); err != nil {
		return fmt.Errorf("calendar.day_offset: %w", err)
	}
	switch c.Cache.Backend {
	case "", "none", "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Pagination.PageSize <= 0 {
		return fmt.Errorf("pagination.page_size must be positive")
	}
	return nil
}

// DayOffset returns the parsed calendar offset. Call after Validate.
func (c Config) DayOffset() time.Duration {
	d, _ := stats.ParseOffset(c.Calendar.DayOffset)
	return d
}

func (c CodeforcesConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c CodeforcesConfig) MinInterval() time.Duration {
	return time.Duration(c.MinIntervalMs) * time.Millisecond
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
