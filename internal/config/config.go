// Package config loads client settings from ~/.leemaz/config.yaml and
// LEEMAZ_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file inside the data directory.
const FileName = "config.yaml"

// DefaultAPIURL is the production backend.
const DefaultAPIURL = "https://api.leemaz.com"

// Config holds runtime settings.
type Config struct {
	APIURL   string `yaml:"api_url"`
	DataDir  string `yaml:"-"`
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	BootstrapTimeout time.Duration `yaml:"bootstrap_timeout"`
	LoginTimeout     time.Duration `yaml:"login_timeout"`
	HTTPTimeout      time.Duration `yaml:"http_timeout"`
}

// DefaultDataDir returns ~/.leemaz, or .leemaz when the home directory
// is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".leemaz"
	}
	return filepath.Join(home, ".leemaz")
}

// Default returns the built-in settings for dataDir.
func Default(dataDir string) Config {
	return Config{
		APIURL:           DefaultAPIURL,
		DataDir:          dataDir,
		LogLevel:         "info",
		LogFile:          filepath.Join(dataDir, "leemaz.log"),
		BootstrapTimeout: 3 * time.Second,
		LoginTimeout:     5 * time.Second,
		HTTPTimeout:      15 * time.Second,
	}
}

// DataDir returns LEEMAZ_HOME, or DefaultDataDir when it is unset.
func DataDir() string {
	return EnvString("LEEMAZ_HOME", DefaultDataDir())
}

// Load calls LoadFrom on DataDir.
func Load() (Config, error) {
	return LoadFrom(DataDir())
}

// LoadFrom builds a Config from defaults, then the YAML file in dataDir,
// then environment overrides. A missing file is not an error.
func LoadFrom(dataDir string) (Config, error) {
	cfg, err := ReadFile(dataDir)
	if err != nil {
		return Config{}, err
	}

	cfg.APIURL = EnvString("LEEMAZ_API_URL", cfg.APIURL)
	cfg.LogLevel = EnvString("LEEMAZ_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = EnvString("LEEMAZ_LOG_FILE", cfg.LogFile)
	cfg.BootstrapTimeout = EnvDuration("LEEMAZ_BOOTSTRAP_TIMEOUT", cfg.BootstrapTimeout)
	cfg.LoginTimeout = EnvDuration("LEEMAZ_LOGIN_TIMEOUT", cfg.LoginTimeout)
	cfg.HTTPTimeout = EnvDuration("LEEMAZ_HTTP_TIMEOUT", cfg.HTTPTimeout)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ReadFile returns the defaults overlaid with dataDir/config.yaml, without
// environment overrides. This is the view Save writes back.
func ReadFile(dataDir string) (Config, error) {
	cfg := Default(dataDir)

	data, err := os.ReadFile(filepath.Join(dataDir, FileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

// Keys lists the settings Set accepts, in display order.
var Keys = []string{"api_url", "log_level", "log_file", "bootstrap_timeout", "login_timeout", "http_timeout"}

// Get returns the value of key formatted for display.
func (c Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_file":
		return c.LogFile, nil
	case "bootstrap_timeout":
		return c.BootstrapTimeout.String(), nil
	case "login_timeout":
		return c.LoginTimeout.String(), nil
	case "http_timeout":
		return c.HTTPTimeout.String(), nil
	}
	return "", fmt.Errorf("unknown setting %q", key)
}

// Set assigns key from its string form and validates the result. On error
// c is unchanged.
func (c *Config) Set(key, value string) error {
	next := *c
	switch key {
	case "api_url":
		next.APIURL = value
	case "log_level":
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "warning", "error":
			next.LogLevel = strings.ToLower(value)
		default:
			return fmt.Errorf("log_level %q must be debug, info, warn or error", value)
		}
	case "log_file":
		next.LogFile = value
	case "bootstrap_timeout", "login_timeout", "http_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		switch key {
		case "bootstrap_timeout":
			next.BootstrapTimeout = d
		case "login_timeout":
			next.LoginTimeout = d
		default:
			next.HTTPTimeout = d
		}
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Validate checks the settings.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_url %q must be an absolute http(s) URL", c.APIURL)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data dir must be set")
	}
	if c.BootstrapTimeout <= 0 || c.LoginTimeout <= 0 || c.HTTPTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

// Save writes the file-backed settings to dataDir/config.yaml.
func Save(cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.DataDir, FileName), data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
