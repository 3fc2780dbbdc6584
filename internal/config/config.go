package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultIndicesToken      = "change-me-indices-token"
	defaultHotelTimezone     = "America/Santiago"
	defaultConfigCacheTTL    = "5m"
	defaultCombinationSize   = 3
	defaultCombinationLimit  = 10
	maxCombinationSize       = 4
	defaultSearchTimeout     = "2s"
	defaultRateLimitPerMin   = 300
	defaultMinimumNightlyFee = 100
)

type Config struct {
	AppEnv      string `mapstructure:"APP_ENV"`
	Port        string `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	JWTSecret          string `mapstructure:"JWT_SECRET"`
	IndicesIngestToken string `mapstructure:"INDICES_INGEST_TOKEN"`
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RateLimitPerMinute int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`

	HotelID       uint   `mapstructure:"HOTEL_ID"`
	HotelTimezone string `mapstructure:"HOTEL_TIMEZONE"`

	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisDB        int    `mapstructure:"REDIS_DB"`
	ConfigCacheTTL string `mapstructure:"CONFIG_CACHE_TTL"`

	CombinationMaxSize       int    `mapstructure:"COMBINATION_MAX_SIZE"`
	CombinationLimit         int    `mapstructure:"COMBINATION_LIMIT"`
	CombinationSearchTimeout string `mapstructure:"COMBINATION_SEARCH_TIMEOUT"`
	MinimumNightlyRate       int64  `mapstructure:"MINIMUM_NIGHTLY_RATE"`

	cacheTTL      time.Duration
	searchTimeout time.Duration
	location      *time.Location
}

// CacheTTL is the parsed CONFIG_CACHE_TTL.
func (c *Config) CacheTTL() time.Duration { return c.cacheTTL }

// SearchTimeout is the parsed COMBINATION_SEARCH_TIMEOUT.
func (c *Config) SearchTimeout() time.Duration { return c.searchTimeout }

// Location is the parsed HOTEL_TIMEZONE.
func (c *Config) Location() *time.Location { return c.location }

func (c *Config) IsProdLike() bool { return isProdLike(c.AppEnv) }

// Load reads .env (optional), then environment variables and an optional config.yaml.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", "hotel.db")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("INDICES_INGEST_TOKEN", defaultIndicesToken)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", defaultRateLimitPerMin)
	v.SetDefault("HOTEL_ID", 1)
	v.SetDefault("HOTEL_TIMEZONE", defaultHotelTimezone)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CONFIG_CACHE_TTL", defaultConfigCacheTTL)
	v.SetDefault("COMBINATION_MAX_SIZE", defaultCombinationSize)
	v.SetDefault("COMBINATION_LIMIT", defaultCombinationLimit)
	v.SetDefault("COMBINATION_SEARCH_TIMEOUT", defaultSearchTimeout)
	v.SetDefault("MINIMUM_NIGHTLY_RATE", defaultMinimumNightlyFee)
}

func (c *Config) finish() error {
	c.AppEnv = strings.ToLower(strings.TrimSpace(c.AppEnv))

	ttl, err := time.ParseDuration(strings.TrimSpace(c.ConfigCacheTTL))
	if err != nil {
		return fmt.Errorf("invalid CONFIG_CACHE_TTL value %q: %w", c.ConfigCacheTTL, err)
	}
	c.cacheTTL = ttl

	timeout, err := time.ParseDuration(strings.TrimSpace(c.CombinationSearchTimeout))
	if err != nil {
		return fmt.Errorf("invalid COMBINATION_SEARCH_TIMEOUT value %q: %w", c.CombinationSearchTimeout, err)
	}
	c.searchTimeout = timeout

	loc, err := time.LoadLocation(strings.TrimSpace(c.HotelTimezone))
	if err != nil {
		return fmt.Errorf("invalid HOTEL_TIMEZONE value %q: %w", c.HotelTimezone, err)
	}
	c.location = loc

	return validateConfig(c)
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.HotelID == 0 {
		return fmt.Errorf("HOTEL_ID must be > 0")
	}
	if cfg.cacheTTL <= 0 {
		return fmt.Errorf("CONFIG_CACHE_TTL must be > 0")
	}
	if cfg.CombinationMaxSize < 2 || cfg.CombinationMaxSize > maxCombinationSize {
		return fmt.Errorf("COMBINATION_MAX_SIZE must be between 2 and %d", maxCombinationSize)
	}
	if cfg.CombinationLimit <= 0 {
		return fmt.Errorf("COMBINATION_LIMIT must be > 0")
	}
	if cfg.searchTimeout <= 0 {
		return fmt.Errorf("COMBINATION_SEARCH_TIMEOUT must be > 0")
	}
	if cfg.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be > 0")
	}
	if cfg.MinimumNightlyRate <= 0 {
		return fmt.Errorf("MINIMUM_NIGHTLY_RATE must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.IndicesIngestToken, defaultIndicesToken) {
			return fmt.Errorf("in prod/release INDICES_INGEST_TOKEN must be set and not default")
		}
	}

	return nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS.
func (c *Config) AllowedOrigins() []string {
	out := []string{}
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
