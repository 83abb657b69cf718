// Package config loads pajajap settings from flags, environment, an optional
// config file and a .env file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/valpere/pajajap/internal/translator"
)

const (
	EnvPrefix = "PAJAJAP"

	DefaultAPIURL = "https://pat317495.onrender.com"
)

type Config struct {
	APIURL    string        `mapstructure:"api_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Locale    string        `mapstructure:"locale"`
	Fallback  string        `mapstructure:"fallback"`
	LogLevel  string        `mapstructure:"log_level"`
	LogFormat string        `mapstructure:"log_format"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("timeout", translator.DefaultTimeout)
	v.SetDefault("locale", "en")
	v.SetDefault("fallback", translator.PolicyPresence.String())
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")
}

// Load reads the configuration into v and validates it. configFile may be
// empty, in which case pajajap.yaml is looked up in the working directory
// and the user config directory.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	// .env is optional; variables may come from the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to load .env: %w", err)
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("pajajap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "pajajap"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	c.APIURL = strings.TrimSpace(c.APIURL)
	if c.APIURL == "" {
		return fmt.Errorf("config: api_url is required")
	}
	parsed, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("config: invalid api_url (%q): %w", c.APIURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("config: invalid api_url (%q): scheme must be http or https", c.APIURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("config: invalid api_url (%q): missing host", c.APIURL)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative, got %s", c.Timeout)
	}

	if _, err := translator.ParseFallbackPolicy(c.Fallback); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("config: unknown log_format %q", c.LogFormat)
	}

	return nil
}

// Policy returns the parsed fallback policy. Validate must have succeeded.
func (c *Config) Policy() translator.FallbackPolicy {
	p, _ := translator.ParseFallbackPolicy(c.Fallback)
	return p
}
