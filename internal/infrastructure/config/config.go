// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/nutrilens/v1/internal/domain/assessment"
	"github.com/nutrilens/v1/internal/infrastructure/cache"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Evidence   EvidenceConfig   `mapstructure:"evidence"`
	Assessment AssessmentConfig `mapstructure:"assessment"`
	Products   ProductsConfig   `mapstructure:"products"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CacheConfig selects and tunes the evidence cache backend.
type CacheConfig struct {
	// Backend is "memory" or "redis".
	Backend string            `mapstructure:"backend"`
	MaxSize int               `mapstructure:"max_size"`
	Redis   cache.RedisConfig `mapstructure:"redis"`
}

// EvidenceConfig tunes the additive evidence resolver.
type EvidenceConfig struct {
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	SearchTimeout time.Duration `mapstructure:"search_timeout"`
	MaxResults    int           `mapstructure:"max_results"`
	SearchAPIKey  string        `mapstructure:"search_api_key"`
	SearchBaseURL string        `mapstructure:"search_base_url"`
	SearchRPS     float64       `mapstructure:"search_rps"`
	// SeverityOverrides pins additive severities per deployment,
	// keyed by additive name or E-code.
	SeverityOverrides map[string]string `mapstructure:"severity_overrides"`
}

// AssessmentConfig tunes the score curve and classification bands.
type AssessmentConfig struct {
	ScoreFloor      float64 `mapstructure:"score_floor"`
	RiskSaturation  float64 `mapstructure:"risk_saturation"`
	FavorableMin    float64 `mapstructure:"favorable_min"`
	CautionMin      float64 `mapstructure:"caution_min"`
	MaxTraceEntries int     `mapstructure:"max_trace_entries"`
}

// ProductsConfig configures the product metadata collaborator.
type ProductsConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/nutrilens")
	}

	v.SetEnvPrefix("NUTRILENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults and env cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "nutrilens")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Cache defaults
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.max_size", 10000)
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.database", 0)
	v.SetDefault("cache.redis.pool_size", 10)
	v.SetDefault("cache.redis.min_idle_conns", 2)
	v.SetDefault("cache.redis.dial_timeout", "5s")
	v.SetDefault("cache.redis.read_timeout", "3s")
	v.SetDefault("cache.redis.write_timeout", "3s")

	// Evidence resolver defaults
	v.SetDefault("evidence.cache_ttl", "720h")
	v.SetDefault("evidence.search_timeout", "10s")
	v.SetDefault("evidence.max_results", 5)
	v.SetDefault("evidence.search_base_url", "https://api.tavily.com")
	v.SetDefault("evidence.search_rps", 1.0)

	// Assessment defaults
	v.SetDefault("assessment.score_floor", 5.0)
	v.SetDefault("assessment.risk_saturation", 60.0)
	v.SetDefault("assessment.favorable_min", 70.0)
	v.SetDefault("assessment.caution_min", 40.0)
	v.SetDefault("assessment.max_trace_entries", 5)

	// Product lookup defaults
	v.SetDefault("products.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("products.timeout", "10s")
	v.SetDefault("products.user_agent", "nutrilens/1.0 (+https://github.com/nutrilens)")
}

// Validate checks that the configuration is complete and consistent
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend: %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Host == "" {
		return fmt.Errorf("redis host is required for the redis cache backend")
	}

	if c.Evidence.CacheTTL <= 0 {
		return fmt.Errorf("evidence cache TTL must be positive")
	}
	if c.Evidence.SearchTimeout <= 0 {
		return fmt.Errorf("evidence search timeout must be positive")
	}
	for name, sev := range c.Evidence.SeverityOverrides {
		if assessment.Severity(sev).Rank() < 0 || assessment.Severity(sev) == assessment.SeverityCritical {
			return fmt.Errorf("invalid severity override for %q: %q", name, sev)
		}
	}

	if err := c.ScoreCurve().Validate(); err != nil {
		return fmt.Errorf("assessment curve: %w", err)
	}
	if err := c.ClassifierConfig().Validate(); err != nil {
		return fmt.Errorf("assessment bands: %w", err)
	}
	return nil
}

// ScoreCurve builds the domain score curve from configuration.
func (c *Config) ScoreCurve() assessment.ScoreCurve {
	return assessment.ScoreCurve{
		Floor:      c.Assessment.ScoreFloor,
		Saturation: c.Assessment.RiskSaturation,
	}
}

// ClassifierConfig builds the domain classifier configuration. Tier
// bands come from configuration; contraindications use the built-in
// table.
func (c *Config) ClassifierConfig() assessment.ClassifierConfig {
	cfg := assessment.DefaultClassifierConfig()
	cfg.FavorableMin = c.Assessment.FavorableMin
	cfg.CautionMin = c.Assessment.CautionMin
	cfg.MaxTrace = c.Assessment.MaxTraceEntries
	return cfg
}

// SeverityOverrides converts the configured overrides into domain
// severities. Validate has already rejected unknown values.
func (c *Config) SeverityOverrides() map[string]assessment.Severity {
	out := make(map[string]assessment.Severity, len(c.Evidence.SeverityOverrides))
	for name, sev := range c.Evidence.SeverityOverrides {
		out[name] = assessment.Severity(sev)
	}
	return out
}

// IsDevelopment returns true when running in the development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true when running in the production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
