// config/config.go - Environment and event file configuration
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string
	AppEnv      string
	CORSOrigins string
	StaticDir   string

	// Store selects the snapshot store: "memory" or "postgres".
	Store       string
	DatabaseURL string

	JWTSecret         string
	TokenTTL          time.Duration
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string

	RateLimitEnabled    bool
	RateLimitMax        int
	RateLimitWindow     time.Duration
	AuthRateLimitMax    int
	AuthRateLimitWindow time.Duration

	Event EventConfig
}

// EventConfig holds the tunables of the event itself. It may be supplied as a
// YAML file through EVENT_CONFIG.
type EventConfig struct {
	WaveSize            int    `yaml:"wave_size"`
	DefaultMode         string `yaml:"default_mode"`
	PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
}

func DefaultEventConfig() EventConfig {
	return EventConfig{
		WaveSize:            3,
		DefaultMode:         "2m1f",
		PollIntervalSeconds: 3,
	}
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8001"),
		AppEnv:              getEnv("APP_ENV", "development"),
		CORSOrigins:         getEnv("CORS_ORIGINS", "*"),
		StaticDir:           getEnv("STATIC_DIR", "./static"),
		Store:               strings.ToLower(getEnv("STORE", "memory")),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		TokenTTL:            time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		AdminUsername:       getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash:   os.Getenv("ADMIN_PASSWORD_HASH"),
		RateLimitEnabled:    !isFalse(os.Getenv("RATE_LIMIT_ENABLED")),
		RateLimitMax:        getEnvInt("RATE_LIMIT_MAX_REQUESTS", 600),
		RateLimitWindow:     time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MS", 60000)) * time.Millisecond,
		AuthRateLimitMax:    getEnvInt("AUTH_RATE_LIMIT_MAX", 5),
		AuthRateLimitWindow: time.Duration(getEnvInt("AUTH_RATE_LIMIT_WINDOW_MS", 300000)) * time.Millisecond,
		Event:               DefaultEventConfig(),
	}

	if path := os.Getenv("EVENT_CONFIG"); path != "" {
		ev, err := LoadEventConfig(path)
		if err != nil {
			return nil, err
		}
		cfg.Event = ev
	}
	if n := getEnvInt("WAVE_SIZE", 0); n > 0 {
		cfg.Event.WaveSize = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEventConfig reads a YAML event file; unset fields keep their defaults.
func LoadEventConfig(path string) (EventConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EventConfig{}, fmt.Errorf("failed to read event config: %w", err)
	}
	ev := DefaultEventConfig()
	if err := yaml.Unmarshal(data, &ev); err != nil {
		return EventConfig{}, fmt.Errorf("failed to parse event config: %w", err)
	}
	return ev, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must be set"))
	} else if len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters long"))
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set"))
	}
	switch c.Store {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL must be set when STORE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE %q (use memory or postgres)", c.Store))
	}
	if c.Event.WaveSize <= 0 {
		errs = append(errs, fmt.Errorf("wave_size must be positive, got %d", c.Event.WaveSize))
	}
	if c.Event.DefaultMode != "2m1f" && c.Event.DefaultMode != "random" {
		errs = append(errs, fmt.Errorf("default_mode must be 2m1f or random, got %q", c.Event.DefaultMode))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return def
}

func isFalse(val string) bool {
	val = strings.ToLower(strings.TrimSpace(val))
	return val == "false" || val == "0" || val == "no"
}
