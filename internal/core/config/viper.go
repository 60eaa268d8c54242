package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*FlowAPIConfig, error) {
	v := viper.New()

	// Set defaults matching DefaultFlowAPIConfig
	v.SetDefault("flow_api.host", "0.0.0.0")
	v.SetDefault("flow_api.port", 8090)
	v.SetDefault("flow_api.request_timeout", "30s")
	v.SetDefault("flow_api.max_body_bytes", 1<<20)
	v.SetDefault("flow_api.database_url", "sqlite://./data/hq.db")

	// Bind environment variables with HQ_ prefix
	v.SetEnvPrefix("HQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Security check: reject secrets in config files
	// Secrets must be environment-only per 12-factor principles
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	cfg := &FlowAPIConfig{
		Host:           v.GetString("flow_api.host"),
		Port:           v.GetInt("flow_api.port"),
		RequestTimeout: v.GetDuration("flow_api.request_timeout"),
		MaxBodyBytes:   v.GetInt64("flow_api.max_body_bytes"),
		DatabaseURL:    v.GetString("flow_api.database_url"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks port range and positive values for timeout and body size.
func validateConfig(cfg *FlowAPIConfig) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", cfg.RequestTimeout)
	}
	if cfg.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", cfg.MaxBodyBytes)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database_url must be set")
	}
	return nil
}

// validateNoSecretsInConfig enforces environment-only secrets (12-factor principle).
func validateNoSecretsInConfig(v *viper.Viper) error {
	if v.IsSet("hmac_secret") || v.IsSet("flow_api.hmac_secret") {
		return fmt.Errorf("HMAC secrets not allowed in config files (use HQ_HMAC_SECRET environment variable)")
	}
	return nil
}
