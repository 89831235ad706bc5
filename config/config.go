package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Dataset       DatasetConfig
	SharedStore   SharedStoreConfig
	OpenFoodFacts OpenFoodFactsConfig
	Cache         CacheConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds the local sqlite store configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// DatasetConfig points at the bundled standard foods file
type DatasetConfig struct {
	Path string `mapstructure:"path"`
}

// SharedStoreConfig holds the crowd-sourced product store configuration
type SharedStoreConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// OpenFoodFactsConfig holds the barcode nutrition API configuration
type OpenFoodFactsConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// .env is optional and never overrides variables already set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/nutrilog/")

	v.SetEnvPrefix("NUTRILOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("database.path", "nutrilog.db")
	v.SetDefault("dataset.path", "data/standard_foods.json")

	v.SetDefault("sharedstore.base_url", "https://shared.nutrilog.app")

	v.SetDefault("openfoodfacts.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("openfoodfacts.user_agent", "NutriLog/1.0")

	v.SetDefault("cache.ttl", "24h")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Database.Path == "" {
		return fmt.Errorf("database path is required (set NUTRILOG_DATABASE_PATH)")
	}
	if config.SharedStore.BaseURL == "" {
		return fmt.Errorf("shared store base URL is required (set NUTRILOG_SHAREDSTORE_BASE_URL)")
	}
	if config.OpenFoodFacts.BaseURL == "" {
		return fmt.Errorf("Open Food Facts base URL is required (set NUTRILOG_OPENFOODFACTS_BASE_URL)")
	}
	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", config.Cache.TTL)
	}
	return nil
}
