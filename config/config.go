// Package config loads wiki renderer settings from the environment.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/zoobzio/wikiz"
	"github.com/zoobzio/wikiz/i18n"
	"go.uber.org/zap/zapcore"
)

// Config holds the settings shared by every entrypoint.
type Config struct {
	Production    bool     `env:"WIKIZ_PRODUCTION" envDefault:"false"`
	Root          string   `env:"WIKIZ_ROOT" envDefault:"."`
	TemplatePaths []string `env:"WIKIZ_TEMPLATE_PATHS" envSeparator:":"`
	Locale        string   `env:"WIKIZ_LOCALE" envDefault:"en_US"`
	LocalePaths   []string `env:"WIKIZ_LOCALE_PATHS" envSeparator:":"`
	LogLevel      string   `env:"WIKIZ_LOG_LEVEL" envDefault:"info"`
	LogFile       string   `env:"WIKIZ_LOG_FILE"`
}

// Parse loads configuration from environment variables and applies
// defaults derived from Root.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// ParseFrom is Parse with an explicit environment, used by tests.
func ParseFrom(environment map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.TemplatePaths) == 0 && c.Root != "" {
		c.TemplatePaths = []string{filepath.Join(c.Root, "views")}
	}
	if len(c.LocalePaths) == 0 && c.Root != "" {
		c.LocalePaths = []string{filepath.Join(c.Root, "locale", i18n.Placeholder+".yml")}
	}
}

// Validate reports every violated precondition at once as a *wikiz.MultiError.
func (c Config) Validate() error {
	_, levelErr := zapcore.ParseLevel(c.LogLevel)
	return wikiz.Forbid(map[string]bool{
		"root directory is required":                     strings.TrimSpace(c.Root) == "",
		"at least one template path is required":         len(c.TemplatePaths) == 0,
		"locale is required":                             strings.TrimSpace(c.Locale) == "",
		"locale paths must contain the LANG placeholder": !allContain(c.LocalePaths, i18n.Placeholder),
		"log level is invalid":                           levelErr != nil,
	})
}

// Level returns the configured log level, defaulting to info.
func (c Config) Level() zapcore.Level {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func allContain(values []string, sub string) bool {
	for _, v := range values {
		if !strings.Contains(v, sub) {
			return false
		}
	}
	return true
}
