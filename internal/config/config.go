package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-category-cache/cache"
)

const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

var portPattern = regexp.MustCompile(`^[0-9]{1,5}$`)

// Config holds every setting of the category daemon.
type Config struct {
	Env      string
	HTTPPort string
	LogLevel string

	Source        string
	SourceURL     string
	SourceTimeout time.Duration
	DatabaseURL   string
	CategoryQuery string

	CacheTTL time.Duration

	RateLimitLimit  int64
	RateLimitPeriod time.Duration

	ShutdownTimeout time.Duration
}

// Load reads .env when present, then the environment, and validates the
// result.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		logrus.WithError(err).Debug("config: .env not loaded, using process environment")
	}

	env := getEnv("APP_ENV", "development")
	defaultLevel := "info"
	if env == "development" {
		defaultLevel = "debug"
	}

	cfg := &Config{
		Env:           env,
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", defaultLevel),
		Source:        strings.ToLower(getEnv("CATEGORY_SOURCE", SourceHTTP)),
		SourceURL:     getEnv("CATEGORY_SOURCE_URL", ""),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		CategoryQuery: getEnv("CATEGORY_QUERY", ""),
	}

	var errs validation.Errors = map[string]error{}
	cfg.SourceTimeout = parseDuration(errs, "CATEGORY_SOURCE_TIMEOUT", "10s")
	cfg.CacheTTL = parseDuration(errs, "CATEGORY_CACHE_TTL", cache.DefaultTTL.String())
	cfg.RateLimitPeriod = parseDuration(errs, "RATE_LIMIT_PERIOD", "1m")
	cfg.ShutdownTimeout = parseDuration(errs, "SHUTDOWN_TIMEOUT", "10s")
	cfg.RateLimitLimit = parseInt64(errs, "RATE_LIMIT_LIMIT", "10")

	if len(errs) > 0 {
		return nil, goerrors.FromOzzoValidation(errs, "invalid configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that depend on each other.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.HTTPPort, validation.Required, validation.Match(portPattern)),
		validation.Field(&c.Source, validation.Required, validation.In(SourceHTTP, SourcePostgres)),
		validation.Field(&c.SourceURL, validation.When(c.Source == SourceHTTP, validation.Required)),
		validation.Field(&c.DatabaseURL, validation.When(c.Source == SourcePostgres, validation.Required)),
		validation.Field(&c.SourceTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.CacheTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.RateLimitLimit, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.RateLimitPeriod, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.ShutdownTimeout, validation.Required),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid configuration")
	}
	return nil
}

// IsDevelopment reports whether the daemon runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// CacheConfig returns the cache configuration for the category store.
func (c *Config) CacheConfig() cache.Config {
	return cache.DefaultConfig().WithTTL(c.CacheTTL)
}

// getEnv returns the variable or fallback when unset.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func parseDuration(errs validation.Errors, key, fallback string) time.Duration {
	dur, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		errs[key] = validation.NewError("validation_is_duration", "must be a valid duration")
	}
	return dur
}

func parseInt64(errs validation.Errors, key, fallback string) int64 {
	num, err := strconv.ParseInt(getEnv(key, fallback), 10, 64)
	if err != nil {
		errs[key] = validation.NewError("validation_is_int", "must be an integer")
	}
	return num
}
