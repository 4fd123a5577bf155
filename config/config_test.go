package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/wikiz"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := ParseFrom(map[string]string{})
	require.NoError(t, err)

	assert.False(t, cfg.Production)
	assert.Equal(t, ".", cfg.Root)
	assert.Equal(t, "en_US", cfg.Locale)
	assert.Equal(t, []string{"views"}, cfg.TemplatePaths)
	assert.Equal(t, []string{filepath.Join("locale", "LANG.yml")}, cfg.LocalePaths)
	assert.Equal(t, zapcore.InfoLevel, cfg.Level())
	assert.NoError(t, cfg.Validate())
}

func TestParseEnvironment(t *testing.T) {
	cfg, err := ParseFrom(map[string]string{
		"WIKIZ_PRODUCTION":     "true",
		"WIKIZ_ROOT":           "/srv/wiki",
		"WIKIZ_TEMPLATE_PATHS": "/srv/custom:/srv/wiki/views",
		"WIKIZ_LOCALE":         "de_AT",
		"WIKIZ_LOCALE_PATHS":   "/srv/wiki/locale/LANG.yml:/srv/plugins/LANG.yml",
		"WIKIZ_LOG_LEVEL":      "debug",
	})
	require.NoError(t, err)

	assert.True(t, cfg.Production)
	assert.Equal(t, []string{"/srv/custom", "/srv/wiki/views"}, cfg.TemplatePaths)
	assert.Equal(t, []string{"/srv/wiki/locale/LANG.yml", "/srv/plugins/LANG.yml"}, cfg.LocalePaths)
	assert.Equal(t, "de_AT", cfg.Locale)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level())
	assert.NoError(t, cfg.Validate())
}

func TestParseRejectsMalformedBool(t *testing.T) {
	_, err := ParseFrom(map[string]string{"WIKIZ_PRODUCTION": "maybe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestValidateReportsAllViolations(t *testing.T) {
	cfg := Config{
		Root:        " ",
		Locale:      "",
		LocalePaths: []string{"locale/en.yml"},
		LogLevel:    "loud",
	}

	err := cfg.Validate()
	require.Error(t, err)

	var multi *wikiz.MultiError
	require.ErrorAs(t, err, &multi)
	assert.Equal(t, []string{
		"at least one template path is required",
		"locale is required",
		"locale paths must contain the LANG placeholder",
		"log level is invalid",
		"root directory is required",
	}, multi.Conditions)
	assert.Equal(t, zapcore.InfoLevel, cfg.Level())
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wikiz.log")
	cfg := Config{Production: true, LogLevel: "info", LogFile: path}

	logger := cfg.NewLogger()
	logger.Info("rendered", zap.String("name", "home"))
	logger.Debug("hidden")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"rendered"`)
	assert.Contains(t, string(data), `"name":"home"`)
	assert.NotContains(t, string(data), "hidden")
}
