package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds the Hypothesis API connection details
type APIConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Auth modes accepted by auth.mode
const (
	AuthModeUnauthenticated         = "unauthenticated"
	AuthModeAPIKey                  = "api_key"
	AuthModeAuthClient              = "auth_client"
	AuthModeAuthClientForwardedUser = "auth_client_forwarded_user"
)

// AuthConfig selects how requests are authenticated
type AuthConfig struct {
	Mode          string `mapstructure:"mode"`
	APIKey        string `mapstructure:"api_key"`
	AuthClient    string `mapstructure:"auth_client"`
	ForwardedUser string `mapstructure:"forwarded_user"`
}

// FilterConfig contains named filter expressions
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
}

// OutputConfig controls how command results are printed
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
