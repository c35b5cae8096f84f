package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codeshape/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "codeshape.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, "2MB", cfg.Input.MaxFileSize)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "codeshape", cfg.Tracing.ServiceName)

	size, err := cfg.MaxFileSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000_000), size)

	overrides := cfg.StyleOverrides()
	assert.Nil(t, overrides.Quote)
	assert.Nil(t, overrides.TabWidth)
	assert.Nil(t, overrides.UseSemi)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
style:
  quote: single
  tab_width: 4
  semicolons: false
input:
  max_file_size: 512KiB
  dialect: tsx
logging:
  level: debug
  format: json
tracing:
  debug: true
  otlp_headers: "x-team=web"
metrics:
  textfile: /tmp/codeshape.prom
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	overrides := cfg.StyleOverrides()
	require.NotNil(t, overrides.Quote)
	assert.Equal(t, "single", *overrides.Quote)
	require.NotNil(t, overrides.TabWidth)
	assert.Equal(t, 4, *overrides.TabWidth)
	require.NotNil(t, overrides.UseSemi)
	assert.False(t, *overrides.UseSemi)
	assert.Nil(t, overrides.TrailingComma)

	size, err := cfg.MaxFileSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, uint64(512*1024), size)

	obsCfg := cfg.Observability("1.0.0")
	assert.Equal(t, slog.LevelDebug, obsCfg.LogLevel)
	assert.True(t, obsCfg.LogJSON)
	assert.True(t, obsCfg.DebugTrace)
	assert.Equal(t, "1.0.0", obsCfg.ServiceVersion)
	assert.Equal(t, map[string]string{"x-team": "web"}, obsCfg.OTLPHeaders)
	assert.Equal(t, "/tmp/codeshape.prom", obsCfg.MetricsTextfile)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("CODESHAPE_STYLE_QUOTE", "double")
	t.Setenv("CODESHAPE_STYLE_TRAILING_COMMA", "true")
	t.Setenv("CODESHAPE_LOGGING_LEVEL", "error")

	cfg, err := config.LoadConfig(writeConfig(t, "style:\n  quote: single\n"))
	require.NoError(t, err)

	overrides := cfg.StyleOverrides()
	require.NotNil(t, overrides.Quote)
	assert.Equal(t, "double", *overrides.Quote)
	require.NotNil(t, overrides.TrailingComma)
	assert.True(t, *overrides.TrailingComma)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"quote", "style:\n  quote: backtick\n", config.ErrInvalidQuote},
		{"arrow parens", "style:\n  arrow_parens: sometimes\n", config.ErrInvalidArrowParens},
		{"negative width", "style:\n  tab_width: -2\n", config.ErrInvalidWidth},
		{"file size", "input:\n  max_file_size: lots\n", config.ErrInvalidFileSize},
		{"zero file size", "input:\n  max_file_size: 0B\n", config.ErrInvalidFileSize},
		{"log level", "logging:\n  level: loud\n", config.ErrInvalidLogLevel},
		{"log format", "logging:\n  format: xml\n", config.ErrInvalidLogFormat},
		{"sample ratio", "tracing:\n  sample_ratio: 1.5\n", config.ErrInvalidSampleRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadConfigUnknownDialect(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "input:\n  dialect: coffeescript\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input.dialect")
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
