// Package config loads codeshape settings from .codeshape.yaml and
// CODESHAPE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/codeshape/pkg/codestyle"
	"github.com/Sumatoshi-tech/codeshape/pkg/jsparse"
	"github.com/Sumatoshi-tech/codeshape/pkg/observability"
)

// Sentinel validation errors.
var (
	ErrInvalidQuote       = errors.New("style.quote must be single or double")
	ErrInvalidArrowParens = errors.New("style.arrow_parens must be always or avoid")
	ErrInvalidWidth       = errors.New("width must not be negative")
	ErrInvalidFileSize    = errors.New("invalid input.max_file_size")
	ErrInvalidLogLevel    = errors.New("invalid logging.level")
	ErrInvalidLogFormat   = errors.New("logging.format must be text or json")
	ErrInvalidSampleRatio = errors.New("tracing.sample_ratio must be within [0, 1]")
)

const (
	configName = ".codeshape"
	configType = "yaml"
	envPrefix  = "CODESHAPE"

	formatText = "text"
	formatJSON = "json"
)

// styleKeys have no default: an absent key means "detect from source".
//
//nolint:gochecknoglobals // fixed key list.
var styleKeys = []string{
	"style.quote",
	"style.arrow_parens",
	"style.tab_width",
	"style.wrap_column",
	"style.use_tabs",
	"style.semicolons",
	"style.trailing_comma",
}

// Config holds all codeshape settings.
type Config struct {
	Style   StyleConfig   `mapstructure:"style"`
	Input   InputConfig   `mapstructure:"input"`
	Logging LoggingConfig `mapstructure:"logging"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// StyleConfig pins output style facets. Unset facets are detected.
type StyleConfig struct {
	Quote         string `mapstructure:"quote"`
	ArrowParens   string `mapstructure:"arrow_parens"`
	TabWidth      int    `mapstructure:"tab_width"`
	WrapColumn    int    `mapstructure:"wrap_column"`
	UseTabs       *bool  `mapstructure:"use_tabs"`
	Semicolons    *bool  `mapstructure:"semicolons"`
	TrailingComma *bool  `mapstructure:"trailing_comma"`
}

// InputConfig bounds what the CLI reads.
type InputConfig struct {
	MaxFileSize string `mapstructure:"max_file_size"`
	Dialect     string `mapstructure:"dialect"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TracingConfig holds OpenTelemetry trace settings.
type TracingConfig struct {
	ServiceName  string  `mapstructure:"service_name"`
	Environment  string  `mapstructure:"environment"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	Debug        bool    `mapstructure:"debug"`
}

// MetricsConfig holds metric export settings.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// LoadConfig reads configPath, or .codeshape.yaml from the working
// directory, $HOME or /etc/codeshape. A missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperCfg.AutomaticEnv()

	for _, key := range styleKeys {
		bindErr := viperCfg.BindEnv(key)
		if bindErr != nil {
			return nil, fmt.Errorf("bind %s: %w", key, bindErr)
		}
	}

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			viperCfg.AddConfigPath(home)
		}

		viperCfg.AddConfigPath("/etc/codeshape")
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&cfg)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &cfg, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("input.max_file_size", "2MB")
	viperCfg.SetDefault("input.dialect", "")

	viperCfg.SetDefault("logging.level", "warn")
	viperCfg.SetDefault("logging.format", formatText)

	viperCfg.SetDefault("tracing.service_name", "codeshape")
	viperCfg.SetDefault("tracing.environment", "")
	viperCfg.SetDefault("tracing.otlp_endpoint", "")
	viperCfg.SetDefault("tracing.otlp_headers", "")
	viperCfg.SetDefault("tracing.otlp_insecure", false)
	viperCfg.SetDefault("tracing.sample_ratio", 0.0)
	viperCfg.SetDefault("tracing.debug", false)

	viperCfg.SetDefault("metrics.textfile", "")
}

func validateConfig(cfg *Config) error {
	switch cfg.Style.Quote {
	case "", codestyle.QuoteSingle, codestyle.QuoteDouble:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidQuote, cfg.Style.Quote)
	}

	switch cfg.Style.ArrowParens {
	case "", codestyle.ArrowParensAlways, codestyle.ArrowParensAvoid:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidArrowParens, cfg.Style.ArrowParens)
	}

	if cfg.Style.TabWidth < 0 || cfg.Style.WrapColumn < 0 {
		return fmt.Errorf("%w: tab_width=%d wrap_column=%d", ErrInvalidWidth, cfg.Style.TabWidth, cfg.Style.WrapColumn)
	}

	if _, err := cfg.MaxFileSizeBytes(); err != nil {
		return err
	}

	if cfg.Input.Dialect != "" {
		if _, err := jsparse.ParseDialect(cfg.Input.Dialect); err != nil {
			return fmt.Errorf("input.dialect: %w", err)
		}
	}

	if _, err := cfg.LogLevel(); err != nil {
		return err
	}

	switch cfg.Logging.Format {
	case formatText, formatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, cfg.Logging.Format)
	}

	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, cfg.Tracing.SampleRatio)
	}

	return nil
}

// MaxFileSizeBytes parses input.max_file_size ("2MB", "512 KiB").
func (cfg *Config) MaxFileSizeBytes() (uint64, error) {
	size, err := humanize.ParseBytes(cfg.Input.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidFileSize, err)
	}

	if size == 0 {
		return 0, fmt.Errorf("%w: must be positive", ErrInvalidFileSize)
	}

	return size, nil
}

// LogLevel parses logging.level.
func (cfg *Config) LogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(cfg.Logging.Level))
	if err != nil {
		return level, fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.Logging.Level)
	}

	return level, nil
}

// StyleOverrides returns the pinned style facets.
func (cfg *Config) StyleOverrides() codestyle.Overrides {
	var overrides codestyle.Overrides

	if cfg.Style.Quote != "" {
		overrides.Quote = &cfg.Style.Quote
	}

	if cfg.Style.ArrowParens != "" {
		overrides.ArrowParens = &cfg.Style.ArrowParens
	}

	if cfg.Style.TabWidth > 0 {
		overrides.TabWidth = &cfg.Style.TabWidth
	}

	if cfg.Style.WrapColumn > 0 {
		overrides.WrapColumn = &cfg.Style.WrapColumn
	}

	overrides.UseTabs = cfg.Style.UseTabs
	overrides.UseSemi = cfg.Style.Semicolons
	overrides.TrailingComma = cfg.Style.TrailingComma

	return overrides
}

// Observability converts the logging, tracing and metrics sections.
func (cfg *Config) Observability(version string) observability.Config {
	obsCfg := observability.DefaultConfig()

	obsCfg.ServiceVersion = version
	obsCfg.Environment = cfg.Tracing.Environment
	obsCfg.OTLPEndpoint = cfg.Tracing.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Tracing.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Tracing.OTLPInsecure
	obsCfg.SampleRatio = cfg.Tracing.SampleRatio
	obsCfg.DebugTrace = cfg.Tracing.Debug
	obsCfg.MetricsTextfile = cfg.Metrics.Textfile
	obsCfg.LogJSON = cfg.Logging.Format == formatJSON

	if cfg.Tracing.ServiceName != "" {
		obsCfg.ServiceName = cfg.Tracing.ServiceName
	}

	if level, err := cfg.LogLevel(); err == nil {
		obsCfg.LogLevel = level
	}

	return obsCfg
}
