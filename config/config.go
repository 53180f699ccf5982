package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values. It is constructed once at process start
// via Load and passed by reference to every component that needs thresholds.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Env         string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB     int    `mapstructure:"REDIS_CACHE_DB"`
	RedisTaskQueueDB int    `mapstructure:"REDIS_TASK_QUEUE_DB"`

	// Upstream scheduling provider.
	UpstreamBaseURL        string  `mapstructure:"UPSTREAM_BASE_URL"`
	UpstreamAPIKey         string  `mapstructure:"UPSTREAM_API_KEY"`
	UpstreamRatePerSecond  float64 `mapstructure:"UPSTREAM_RATE_PER_SECOND"`
	UpstreamMaxRetries     int     `mapstructure:"UPSTREAM_MAX_RETRIES"`
	UpstreamTimeoutSeconds int     `mapstructure:"UPSTREAM_TIMEOUT_SECONDS"`

	// Availability cache tuning.
	AvailabilityTTLMinutes int `mapstructure:"AVAILABILITY_TTL_MINUTES"`
	WarmWindowDays         int `mapstructure:"WARM_WINDOW_DAYS"`
	WarmConcurrency        int `mapstructure:"WARM_CONCURRENCY"`
	WarmIntervalMinutes    int `mapstructure:"WARM_INTERVAL_MINUTES"`

	// Query engine tuning.
	SimilarityThreshold   float64 `mapstructure:"SIMILARITY_THRESHOLD"`
	ClinicCacheTTLMinutes int     `mapstructure:"CLINIC_CACHE_TTL_MINUTES"`

	// Staleness monitoring.
	FailureThreshold        int `mapstructure:"FAILURE_THRESHOLD"`
	FailureWindowMinutes    int `mapstructure:"FAILURE_WINDOW_MINUTES"`
	MonitoringRetentionDays int `mapstructure:"MONITORING_RETENTION_DAYS"`

	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`
}

// Load reads config.yaml (current or ./config directory) plus environment
// variables and returns the populated Config.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_TASK_QUEUE_DB", 1)
	viper.SetDefault("UPSTREAM_BASE_URL", "")
	viper.SetDefault("UPSTREAM_API_KEY", "")
	viper.SetDefault("UPSTREAM_RATE_PER_SECOND", 2.0)
	viper.SetDefault("UPSTREAM_MAX_RETRIES", 3)
	viper.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 15)
	viper.SetDefault("AVAILABILITY_TTL_MINUTES", 15)
	viper.SetDefault("WARM_WINDOW_DAYS", 7)
	viper.SetDefault("WARM_CONCURRENCY", 5)
	viper.SetDefault("WARM_INTERVAL_MINUTES", 10)
	viper.SetDefault("SIMILARITY_THRESHOLD", 0.3)
	viper.SetDefault("CLINIC_CACHE_TTL_MINUTES", 60)
	viper.SetDefault("FAILURE_THRESHOLD", 3)
	viper.SetDefault("FAILURE_WINDOW_MINUTES", 5)
	viper.SetDefault("MONITORING_RETENTION_DAYS", 7)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; environment variables and defaults apply.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// AvailabilityTTL returns the cache entry lifetime.
func (c *Config) AvailabilityTTL() time.Duration {
	return time.Duration(c.AvailabilityTTLMinutes) * time.Minute
}

// FailureWindow returns the trailing window used when clustering booking failures.
func (c *Config) FailureWindow() time.Duration {
	return time.Duration(c.FailureWindowMinutes) * time.Minute
}

// ClinicCacheTTL returns the lifetime of cached dialed-number lookups.
func (c *Config) ClinicCacheTTL() time.Duration {
	return time.Duration(c.ClinicCacheTTLMinutes) * time.Minute
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
