package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config file. Environment variables take precedence over file values.
// Returns a populated Config struct or an error if loading or validation
// fails; callers must treat any error as fatal and refuse to serve.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults for everything that has a sensible one. Secrets
	// (database URL, JWT secret, classifier credentials) have none and
	// must be provided by the environment.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.token_lifetime_minutes", 7*24*60)
	v.SetDefault("classifier.provider", "huggingface")
	v.SetDefault("classifier.model", "j-hartmann/emotion-english-distilroberta-base")
	v.SetDefault("classifier.timeout_seconds", 60)

	// Optional config file in the working directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; the environment is authoritative anyway.
	}

	// Environment variables with the MOODLOG_ prefix, e.g.
	// MOODLOG_DATABASE_URL maps to database.url.
	v.SetEnvPrefix("MOODLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind keys explicitly so AutomaticEnv sees keys that appear in no
	// config file and have no default.
	for _, key := range []string{
		"database.url",
		"auth.jwt_secret",
		"classifier.api_token",
		"classifier.gemini_api_key",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
