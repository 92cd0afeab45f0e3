// Package config provides configuration management for the Value Hunter
// tools.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "VALUE_HUNTER"

// Load reads and parses the configuration from file and environment
// variables. Environment variable placeholders in the YAML file (${VAR})
// are expanded before parsing.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with defaults for every optional
// field, so the tools run without a config file at all.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// Missing file: continue with defaults and environment variables.

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "value-hunter")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("scraper.race_card_url", "https://race.netkeiba.com/race/shutuba_past.html")
	v.SetDefault("scraper.newspaper_url", "https://race.netkeiba.com/race/newspaper.html")
	v.SetDefault("scraper.odds_api_url", "https://race.netkeiba.com/api/api_get_jra_odds.html")
	v.SetDefault("scraper.user_agent",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) "+
			"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("scraper.request_timeout_seconds", 30)
	v.SetDefault("scraper.request_interval_seconds", 2.0)
	v.SetDefault("scraper.max_retries", 3)
	v.SetDefault("scraper.odds_cache_ttl_seconds", 60)

	v.SetDefault("output.dir", "output")
	v.SetDefault("output.result_file", "result.json")
	v.SetDefault("output.evaluation_file", "value_hunter_result.json")
	v.SetDefault("output.indent", 2)

	v.SetDefault("scoring.form_weight", 0.30)
	v.SetDefault("scoring.last3f_weight", 0.30)
	v.SetDefault("scoring.upset_weight", 0.20)
	v.SetDefault("scoring.venue_weight", 0.20)

	v.SetDefault("poller.race_delay_seconds", 2.0)
	v.SetDefault("poller.include_odds", true)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("health.enabled", false)
	v.SetDefault("health.port", 8080)
}
