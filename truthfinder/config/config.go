package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	internal "github.com/hamzaahmed987/truthfinder/truthfinder"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Generation   GenerationConfig   `mapstructure:"generation"`
	Lookup       LookupConfig       `mapstructure:"lookup"`
	Store        StoreConfig        `mapstructure:"store"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator"`
	Server       ServerConfig       `mapstructure:"server"`
}

// AppConfig stores process-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"` // zerolog level string
	LogJSON  bool   `mapstructure:"log_json"`  // false = console writer
}

// GenerationConfig stores text-generation service settings.
type GenerationConfig struct {
	BaseURL string        `mapstructure:"base_url"` // generative-language endpoint
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"` // per-call request timeout

	// Rate limiting toward the generation service
	RateLimitEnabled    bool          `mapstructure:"rate_limit_enabled"`
	RateLimitCapacity   int           `mapstructure:"rate_limit_capacity"`
	RateLimitRefillRate time.Duration `mapstructure:"rate_limit_refill_rate"`
}

// LookupConfig stores social-post search service settings.
type LookupConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	BearerToken string        `mapstructure:"bearer_token"`
	Timeout     time.Duration `mapstructure:"timeout"`

	// Topic cache (spares the rate-limited search API)
	CacheEnabled    bool `mapstructure:"cache_enabled"`
	CacheCapacity   int  `mapstructure:"cache_capacity"`
	CacheTTLSeconds int  `mapstructure:"cache_ttl_seconds"`
}

// StoreConfig stores conversation store settings.
type StoreConfig struct {
	DatabasePath string `mapstructure:"database_path"` // embedded libsql file
}

// OrchestratorConfig stores orchestration policy settings.
type OrchestratorConfig struct {
	HistoryFetchLimit int `mapstructure:"history_fetch_limit"` // turns fetched from the store
	HistoryFoldLimit  int `mapstructure:"history_fold_limit"`  // turns folded into a prompt
	HistoryCharBudget int `mapstructure:"history_char_budget"` // hard cap on folded history size
	LookupMaxResults  int `mapstructure:"lookup_max_results"`  // posts per live-event lookup

	EnableTracing bool `mapstructure:"enable_tracing"`
}

// ServerConfig stores HTTP boundary settings.
type ServerConfig struct {
	ListenAddr     string        `mapstructure:"listen_addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"` // overall deadline per chat request
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		viper.AddConfigPath(internal.DefaultConfigPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(strings.ToUpper(internal.DefaultAppName))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// App defaults
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.log_json", true)

	// Generation defaults
	viper.SetDefault("generation.base_url", "https://generativelanguage.googleapis.com")
	viper.SetDefault("generation.model", "gemini-2.5-flash")
	viper.SetDefault("generation.timeout", "15s")
	viper.SetDefault("generation.rate_limit_enabled", false)
	viper.SetDefault("generation.rate_limit_capacity", 10)
	viper.SetDefault("generation.rate_limit_refill_rate", "1s")

	// Lookup defaults
	viper.SetDefault("lookup.base_url", "https://api.twitter.com")
	viper.SetDefault("lookup.timeout", "10s")
	viper.SetDefault("lookup.cache_enabled", true)
	viper.SetDefault("lookup.cache_capacity", 256)
	viper.SetDefault("lookup.cache_ttl_seconds", 60)

	// Store defaults
	viper.SetDefault("store.database_path", internal.DefaultDatabasePath)

	// Orchestrator defaults
	viper.SetDefault("orchestrator.history_fetch_limit", 50)
	viper.SetDefault("orchestrator.history_fold_limit", 20)
	viper.SetDefault("orchestrator.history_char_budget", 8000)
	viper.SetDefault("orchestrator.lookup_max_results", 10)
	viper.SetDefault("orchestrator.enable_tracing", true)

	// Server defaults
	viper.SetDefault("server.listen_addr", internal.DefaultListenAddr)
	viper.SetDefault("server.request_timeout", "60s")
	viper.SetDefault("server.allowed_origins", []string{"*"})

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine, defaults + env apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate clamps or rejects out-of-range values.
func (c *Config) Validate() error {
	if c.Generation.Timeout <= 0 {
		return fmt.Errorf("generation.timeout must be positive: %s", c.Generation.Timeout)
	}
	if c.Orchestrator.HistoryFetchLimit <= 0 {
		return fmt.Errorf("orchestrator.history_fetch_limit must be positive: %d", c.Orchestrator.HistoryFetchLimit)
	}
	if c.Orchestrator.HistoryFoldLimit > c.Orchestrator.HistoryFetchLimit {
		c.Orchestrator.HistoryFoldLimit = c.Orchestrator.HistoryFetchLimit
	}
	if c.Orchestrator.LookupMaxResults <= 0 {
		c.Orchestrator.LookupMaxResults = 10
	}
	return nil
}
