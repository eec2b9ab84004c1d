package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server    ServerConfig
	Providers ProvidersConfig
	Cache     CacheConfig
	Logging   LoggingConfig
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// ProvidersConfig holds upstream provider configuration. Base URLs are
// overridable so tests and proxies can redirect the adapters.
type ProvidersConfig struct {
	Timeout         time.Duration
	BinanceURL      string
	AlphaVantageURL string
	AlphaVantageKey string
	FrankfurterURL  string
	MetalsURL       string
	YahooURL        string
}

// CacheConfig holds the Redis snapshot cache configuration. An empty URL
// disables caching.
type CacheConfig struct {
	RedisURL string
	TTL      time.Duration
}

// LoggingConfig holds logging specific configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads the configuration from file and environment variables.
// A missing config file is not an error; defaults plus environment apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file when present
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "30s")
	v.SetDefault("server.idleTimeout", "120s")

	// Provider defaults
	v.SetDefault("providers.timeout", "10s")
	v.SetDefault("providers.binanceURL", "")
	v.SetDefault("providers.alphaVantageURL", "")
	v.SetDefault("providers.alphaVantageKey", "")
	v.SetDefault("providers.frankfurterURL", "")
	v.SetDefault("providers.metalsURL", "")
	v.SetDefault("providers.yahooURL", "")

	// Cache defaults (empty redisURL disables the cache)
	v.SetDefault("cache.redisURL", "")
	v.SetDefault("cache.ttl", "30s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
