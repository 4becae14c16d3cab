package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"   validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth"       validate:"required"`
	Classifier ClassifierConfig `mapstructure:"classifier" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// ClassifierConfig contains settings for the external emotion classifier.
//
// Provider selects the adapter: "huggingface" (default) calls the inference
// REST endpoint, "gemini" classifies through the Gemini API. The adapters
// validate their own provider-specific keys at construction time.
type ClassifierConfig struct {
	Provider       string `mapstructure:"provider"        validate:"required,oneof=huggingface gemini"`
	Model          string `mapstructure:"model"           validate:"required"`
	APIToken       string `mapstructure:"api_token"`
	GeminiAPIKey   string `mapstructure:"gemini_api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0,lte=60"`
}
