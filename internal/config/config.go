// Package config loads runtime settings from environment variables and an
// optional YAML file. Every key has a default, so the zero configuration
// (no file, no environment) is a fully working setup.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings holds the tunable behavior of the service. Environment variables
// use the upper-cased key name (e.g. DEFAULT_PER_PAGE, ENABLE_DEBUG).
type Settings struct {
	DefaultPerPage int  `mapstructure:"default_per_page"` // page size injected into paginated Canvas requests
	MaxPerPage     int  `mapstructure:"max_per_page"`     // upper bound accepted for a caller-supplied perPage
	RequestTimeout int  `mapstructure:"request_timeout"`  // Canvas request timeout in seconds
	EnableCaching  bool `mapstructure:"enable_caching"`   // reserved; no cache layer is wired yet
	EnableDebug    bool `mapstructure:"enable_debug"`     // exposes the /debug endpoints when true
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		DefaultPerPage: 100,
		MaxPerPage:     100,
		RequestTimeout: 30,
		EnableCaching:  false,
		EnableDebug:    false,
	}
}

// Load reads settings from the environment, overlaid on the optional config
// file at path. An empty path means environment and defaults only.
func Load(path string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault("default_per_page", defaults.DefaultPerPage)
	v.SetDefault("max_per_page", defaults.MaxPerPage)
	v.SetDefault("request_timeout", defaults.RequestTimeout)
	v.SetDefault("enable_caching", defaults.EnableCaching)
	v.SetDefault("enable_debug", defaults.EnableDebug)
}

// Validate performs basic sanity checks on configuration values.
func (s *Settings) Validate() error {
	if s.MaxPerPage < 1 {
		return fmt.Errorf("max_per_page must be >= 1, got %d", s.MaxPerPage)
	}

	if s.DefaultPerPage < 1 || s.DefaultPerPage > s.MaxPerPage {
		return fmt.Errorf("default_per_page must be between 1 and %d, got %d", s.MaxPerPage, s.DefaultPerPage)
	}

	if s.RequestTimeout < 1 {
		return fmt.Errorf("request_timeout must be >= 1, got %d", s.RequestTimeout)
	}

	return nil
}

// Timeout returns the Canvas request timeout as a duration.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}
