package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. HYPREST_AUTH_API_KEY for auth.api_key
const EnvPrefix = "HYPREST"

// Load loads the configuration from file. Without an explicit path a
// missing config file is not an error and the defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".hyprest"))
		}
		v.AddConfigPath("/etc/hyprest/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.url", "https://hypothes.is/api")
	v.SetDefault("api.timeout", "30s")

	// Registered so environment variables are picked up by Unmarshal
	v.SetDefault("auth.mode", AuthModeUnauthenticated)
	v.SetDefault("auth.api_key", "")
	v.SetDefault("auth.auth_client", "")
	v.SetDefault("auth.forwarded_user", "")

	v.SetDefault("output.format", "text")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.API.URL == "" {
		return fmt.Errorf("api.url is required")
	}
	if cfg.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}

	if err := validateAuth(cfg.Auth); err != nil {
		return err
	}

	for name, expression := range cfg.Filter.Presets {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filter.presets.%s must not be empty", name)
		}
	}

	validOutputs := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validOutputs[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s", cfg.Output.Format)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// validateAuth requires the credential of the selected mode and rejects
// credentials configured for any other mode
func validateAuth(auth AuthConfig) error {
	credentials := map[string]string{
		AuthModeAPIKey:                  auth.APIKey,
		AuthModeAuthClient:              auth.AuthClient,
		AuthModeAuthClientForwardedUser: auth.ForwardedUser,
	}

	switch auth.Mode {
	case AuthModeUnauthenticated, AuthModeAPIKey, AuthModeAuthClient, AuthModeAuthClientForwardedUser:
	default:
		return fmt.Errorf("invalid auth mode: %s", auth.Mode)
	}

	for mode, credential := range credentials {
		switch {
		case mode == auth.Mode && credential == "":
			return fmt.Errorf("auth.%s is required for auth mode %s", credentialKey(mode), mode)
		case mode != auth.Mode && credential != "":
			return fmt.Errorf("auth.%s is set but auth mode is %s", credentialKey(mode), auth.Mode)
		}
	}

	return nil
}

func credentialKey(mode string) string {
	if mode == AuthModeAuthClientForwardedUser {
		return "forwarded_user"
	}
	return mode
}
