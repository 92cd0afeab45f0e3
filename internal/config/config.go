// Package config provides configuration management for the Value Hunter
// tools.
package config

import "time"

// Config represents the complete application configuration
type Config struct {
	App     AppConfig     `mapstructure:"app" validate:"required"`
	Scraper ScraperConfig `mapstructure:"scraper" validate:"required"`
	Output  OutputConfig  `mapstructure:"output" validate:"required"`
	Scoring ScoringConfig `mapstructure:"scoring" validate:"required"`
	Poller  PollerConfig  `mapstructure:"poller"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Health  HealthConfig  `mapstructure:"health"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ScraperConfig represents netkeiba endpoint and transport configuration
type ScraperConfig struct {
	RaceCardURL            string  `mapstructure:"race_card_url" validate:"required,url"`
	NewspaperURL           string  `mapstructure:"newspaper_url" validate:"required,url"`
	OddsAPIURL             string  `mapstructure:"odds_api_url" validate:"required,url"`
	UserAgent              string  `mapstructure:"user_agent" validate:"required"`
	ProxyURL               string  `mapstructure:"proxy_url" validate:"omitempty,url"`
	RequestTimeoutSeconds  int     `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	RequestIntervalSeconds float64 `mapstructure:"request_interval_seconds" validate:"required,gt=0"`
	MaxRetries             int     `mapstructure:"max_retries" validate:"gte=0"`
	OddsCacheTTLSeconds    int     `mapstructure:"odds_cache_ttl_seconds" validate:"gte=0"`
}

// OutputConfig represents output file configuration
type OutputConfig struct {
	Dir            string `mapstructure:"dir" validate:"required"`
	ResultFile     string `mapstructure:"result_file" validate:"required"`
	EvaluationFile string `mapstructure:"evaluation_file" validate:"required"`
	Indent         int    `mapstructure:"indent" validate:"gte=0"`
}

// ScoringConfig represents the valuation blend weights. The point tables
// and grade thresholds keep their built-in defaults.
type ScoringConfig struct {
	FormWeight   float64 `mapstructure:"form_weight" validate:"gte=0,lte=1"`
	Last3FWeight float64 `mapstructure:"last3f_weight" validate:"gte=0,lte=1"`
	UpsetWeight  float64 `mapstructure:"upset_weight" validate:"gte=0,lte=1"`
	VenueWeight  float64 `mapstructure:"venue_weight" validate:"gte=0,lte=1"`
}

// PollerConfig represents the periodic extraction daemon configuration
type PollerConfig struct {
	RaceIDs          []string `mapstructure:"race_ids" validate:"omitempty,dive,numeric"`
	Cron             string   `mapstructure:"cron" validate:"omitempty,cronexpr"`
	RaceDelaySeconds float64  `mapstructure:"race_delay_seconds" validate:"gte=0"`
	IncludeOdds      bool     `mapstructure:"include_odds"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// HealthConfig represents the health check server configuration
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// RequestTimeout returns the scraper request timeout as a duration
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Scraper.RequestTimeoutSeconds) * time.Second
}

// RequestRate converts the courtesy interval between requests into a
// requests-per-second rate for the limiter.
func (c *Config) RequestRate() float64 {
	if c.Scraper.RequestIntervalSeconds <= 0 {
		return 0.5
	}
	return 1.0 / c.Scraper.RequestIntervalSeconds
}

// OddsCacheTTL returns the odds response cache TTL as a duration
func (c *Config) OddsCacheTTL() time.Duration {
	return time.Duration(c.Scraper.OddsCacheTTLSeconds) * time.Second
}
