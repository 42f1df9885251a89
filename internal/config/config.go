package config

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultUpstreamTokenURL is the token endpoint the function talks to
// unless a deployment overrides it (e.g. a sandbox environment).
const DefaultUpstreamTokenURL = "https://api.commtech.io/oauth2/token"

// Config represents the complete configuration structure
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Upstream    UpstreamConfig    `yaml:"upstream"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	ReadTimeout     int    `yaml:"read_timeout"`     // seconds
	WriteTimeout    int    `yaml:"write_timeout"`    // seconds
	ShutdownTimeout int    `yaml:"shutdown_timeout"` // seconds
}

// UpstreamConfig describes the upstream token endpoint
type UpstreamConfig struct {
	TokenURL string `yaml:"token_url"` // full URL of the token endpoint
	Timeout  int    `yaml:"timeout"`   // request timeout in seconds
}

// CredentialsConfig holds the application key/secret used for the
// client_credentials exchange. Values are never logged.
type CredentialsConfig struct {
	Key    string `yaml:"key"`
	Secret string `yaml:"secret"`
}

// LoggingConfig contains logging-related settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Load reads the configuration from the path in CONFIG_PATH, falling
// back to config.yaml in the working directory.
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	return LoadConfig(path)
}

// LoadConfig loads configuration from a YAML file. A missing file is
// not an error: env vars and defaults can carry a deployment.
func LoadConfig(configPath string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&config)
	setDefaults(&config)

	return &config, nil
}

// applyEnvOverrides lets deployments source the secret values from the
// environment (typically injected by a secret manager) instead of the
// config file.
func applyEnvOverrides(config *Config) {
	if key := os.Getenv("APP_KEY"); key != "" {
		config.Credentials.Key = key
	}
	if secret := os.Getenv("APP_SECRET"); secret != "" {
		config.Credentials.Secret = secret
	}
	if tokenURL := os.Getenv("UPSTREAM_TOKEN_URL"); tokenURL != "" {
		config.Upstream.TokenURL = tokenURL
	}
}

// setDefaults sets default values for configuration
func setDefaults(config *Config) {
	if config.Server.Host == "" {
		config.Server.Host = "0.0.0.0"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 30
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 30
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = 5
	}
	if config.Upstream.TokenURL == "" {
		config.Upstream.TokenURL = DefaultUpstreamTokenURL
	}
	if config.Upstream.Timeout == 0 {
		config.Upstream.Timeout = 30
	}
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "text"
	}
}

// Validate checks that the configuration is complete enough to serve
func (c *Config) Validate() error {
	if c.Credentials.Key == "" {
		return fmt.Errorf("credentials key is required (set credentials.key or APP_KEY)")
	}
	if c.Credentials.Secret == "" {
		return fmt.Errorf("credentials secret is required (set credentials.secret or APP_SECRET)")
	}
	u, err := url.Parse(c.Upstream.TokenURL)
	if err != nil {
		return fmt.Errorf("invalid upstream token URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("upstream token URL must be http(s), got %q", c.Upstream.TokenURL)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	return nil
}
