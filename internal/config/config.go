// Package config handles configuration loading for dividup.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Data     DataConfig     `mapstructure:"data"     yaml:"data"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// AnalysisConfig holds the defaults applied to analysis requests that leave
// a parameter unset.
type AnalysisConfig struct {
	DefaultYears        int     `mapstructure:"default_years"         yaml:"default_years"`         // 5, 10, 15 or 20
	DefaultInterval     string  `mapstructure:"default_interval"      yaml:"default_interval"`      // "1d" or "1mo"
	DefaultDesiredYield float64 `mapstructure:"default_desired_yield" yaml:"default_desired_yield"` // percent
}

// DataConfig holds market-data fetching settings.
type DataConfig struct {
	QuoteCacheTTLSec     int  `mapstructure:"quote_cache_ttl_sec"     yaml:"quote_cache_ttl_sec"`
	StatementCacheTTLSec int  `mapstructure:"statement_cache_ttl_sec" yaml:"statement_cache_ttl_sec"`
	NewsLimit            int  `mapstructure:"news_limit"              yaml:"news_limit"`
	ResolveLogos         bool `mapstructure:"resolve_logos"           yaml:"resolve_logos"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.dividup/config.yaml (home directory)
//  3. /etc/dividup/config.yaml (system)
//
// Environment variables override config file values.
// Format: DIVIDUP_<SECTION>_<KEY>, e.g., DIVIDUP_API_PORT
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".dividup"))
	v.AddConfigPath("/etc/dividup")

	v.SetEnvPrefix("DIVIDUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("DIVIDUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the pipeline would refuse at request time.
func (c *Config) Validate() error {
	switch c.Analysis.DefaultYears {
	case 5, 10, 15, 20:
	default:
		return fmt.Errorf("analysis.default_years must be 5, 10, 15 or 20, got %d", c.Analysis.DefaultYears)
	}
	if c.Analysis.DefaultInterval != "1d" && c.Analysis.DefaultInterval != "1mo" {
		return fmt.Errorf("analysis.default_interval must be 1d or 1mo, got %q", c.Analysis.DefaultInterval)
	}
	if c.Analysis.DefaultDesiredYield <= 0 || c.Analysis.DefaultDesiredYield > 100 {
		return fmt.Errorf("analysis.default_desired_yield must be in (0, 100], got %g", c.Analysis.DefaultDesiredYield)
	}
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port must be 1-65535, got %d", c.API.Port)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("analysis.default_years", 10)
	v.SetDefault("analysis.default_interval", "1d")
	v.SetDefault("analysis.default_desired_yield", 4.0)

	v.SetDefault("data.quote_cache_ttl_sec", 900)      // 15 minutes
	v.SetDefault("data.statement_cache_ttl_sec", 21600) // 6 hours
	v.SetDefault("data.news_limit", 10)
	v.SetDefault("data.resolve_logos", true)

	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
