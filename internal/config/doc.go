// Package config defines the application configuration structure and
// loading logic. Configuration is read from environment variables (with the
// MOODLOG_ prefix) and an optional config file, then validated; the process
// refuses to start when a required setting is missing or invalid.
package config
