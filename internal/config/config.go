// Package config loads the server configuration from defaults, an optional
// YAML file, and WC_-prefixed environment variables, in that order of
// priority.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "WC_CONFIG_PATH"

// DefaultConfigPaths lists where a config file is searched, first match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/whollycity/config.yaml",
}

// Config holds every tunable of the portal server.
type Config struct {
	Port       string `koanf:"port"`
	DataDir    string `koanf:"data_dir"`
	UploadsDir string `koanf:"uploads_dir"`

	// Domain enables automatic HTTPS via Let's Encrypt when set.
	Domain string `koanf:"domain"`

	// MapsAPIKey gates the map features on the client. An empty key means
	// the map-config endpoint reports maps as disabled; nothing fails hard.
	MapsAPIKey string `koanf:"maps_api_key"`

	// AdminEmails is the exact-match allow-list granting super_admin.
	AdminEmails []string `koanf:"admin_emails"`
	// AdminDomain grants plain admin to any email with this suffix.
	AdminDomain string `koanf:"admin_domain"`

	// FetchLimit caps every collection list read from the store.
	FetchLimit int `koanf:"fetch_limit"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
}

func defaultConfig() *Config {
	return &Config{
		Port:        "8080",
		DataDir:     "./pb_data",
		UploadsDir:  "./uploads",
		AdminEmails: []string{"admin@whollycity.com", "superadmin@whollycity.com"},
		AdminDomain: "whollycity.com",
		FetchLimit:  1000,
		LogLevel:    "info",
		LogFormat:   "json",
	}
}

// Load builds the configuration from the three layers.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// WC_MAPS_API_KEY -> maps_api_key
	envProvider := env.Provider("WC_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "WC_"))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// The allow-list arrives as a comma-separated string from the
	// environment; normalize it before unmarshalling.
	if raw := k.String("admin_emails"); raw != "" && strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		emails := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				emails = append(emails, trimmed)
			}
		}
		if err := k.Set("admin_emails", emails); err != nil {
			return nil, fmt.Errorf("failed to normalize admin_emails: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.FetchLimit <= 0 {
		return fmt.Errorf("fetch_limit must be positive, got %d", c.FetchLimit)
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

// MapsEnabled reports whether the client map features should activate.
func (c *Config) MapsEnabled() bool {
	return strings.TrimSpace(c.MapsAPIKey) != ""
}

func findConfigFile() string {
	// An explicit path wins outright; a missing explicit path means no file,
	// not a fallback scan.
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
		return ""
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
