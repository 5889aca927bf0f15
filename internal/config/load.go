package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional config
// file. Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults keep local development friction low; secrets still have to be
	// provided explicitly.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.token_lifetime_minutes", 24*60)
	v.SetDefault("auth.bcrypt_cost", 0) // 0 selects the bcrypt default cost
	v.SetDefault("upload.max_avatar_bytes", 1_000_000)
	v.SetDefault("upload.avatar_size", 250)
	v.SetDefault("worker.count", 2)
	v.SetDefault("worker.queue_size", 100)

	// Optional config file in the working directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables: TASKDECK_SERVER_PORT, TASKDECK_DATABASE_URL, ...
	v.SetEnvPrefix("TASKDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults have to be bound explicitly, otherwise
	// AutomaticEnv never surfaces them through Unmarshal.
	bindEnvs := []struct {
		key    string
		envVar string
	}{
		{"database.url", "TASKDECK_DATABASE_URL"},
		{"auth.jwt_secret", "TASKDECK_AUTH_JWT_SECRET"},
		{"email.host", "TASKDECK_EMAIL_HOST"},
		{"email.port", "TASKDECK_EMAIL_PORT"},
		{"email.from", "TASKDECK_EMAIL_FROM"},
		{"email.user", "TASKDECK_EMAIL_USER"},
		{"email.pass", "TASKDECK_EMAIL_PASS"},
	}
	for _, env := range bindEnvs {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable %s: %w", env.envVar, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
