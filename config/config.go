// Package config loads the settings shared by the ohlcv tools: the series to
// build, the indicators to evaluate, where to journal and how to log.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/ohlcv/indicators"
	"github.com/rustyeddy/ohlcv/internal/logger"
	"github.com/rustyeddy/ohlcv/journal"
	"github.com/rustyeddy/ohlcv/market"
	"github.com/rustyeddy/ohlcv/num"
)

// EnvPrefix prefixes every environment override, e.g. OHLCV_SERIES_BACKEND.
const EnvPrefix = "OHLCV"

// Config represents the complete tool configuration
type Config struct {
	Series     SeriesConfig      `json:"series" yaml:"series"`
	Indicators []indicators.Spec `json:"indicators" yaml:"indicators" ignored:"true" validate:"dive"`
	Journal    JournalConfig     `json:"journal" yaml:"journal"`
	Log        LogConfig         `json:"log" yaml:"log"`
}

// SeriesConfig describes the bar series
type SeriesConfig struct {
	Name    string `json:"name" yaml:"name" validate:"required"`
	Backend string `json:"backend" yaml:"backend"` // decimal, fixed or float

	// Precision is the significant digits of the decimal backend, Digits the
	// fractional digits of the fixed backend. Zero selects the default.
	Precision int `json:"precision,omitempty" yaml:"precision,omitempty" validate:"min=0"`
	Digits    int `json:"digits,omitempty" yaml:"digits,omitempty" validate:"min=0,max=9"`

	Capacity  int    `json:"capacity,omitempty" yaml:"capacity,omitempty" validate:"min=0"`
	Window    int    `json:"window,omitempty" yaml:"window,omitempty" validate:"min=0"`
	MaxBars   int    `json:"max_bars,omitempty" yaml:"max_bars,omitempty" split_words:"true" validate:"min=0"`
	Timeframe string `json:"timeframe" yaml:"timeframe" validate:"required"` // e.g. "M1", "H1", "D1"
}

// JournalConfig selects the journal sink. An empty type disables journaling.
type JournalConfig struct {
	Type   string `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,oneof=none csv sqlite parquet"`
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty" split_words:"true" validate:"required_if=Type sqlite"`
}

// LogConfig configures the process logger
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format" validate:"omitempty,oneof=text json"`
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
}

// Load returns Default when path is empty and the file's contents otherwise,
// with environment overrides applied, then validated.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFromFile(path)
	}
	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	cfg.Indicators = nil

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from OHLCV_* environment variables. Unset
// variables leave fields alone.
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("config from env: %w", err)
	}
	return nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := checkTags(c); err != nil {
		return err
	}
	if _, err := c.Factory(); err != nil {
		return fmt.Errorf("series.backend: %w", err)
	}
	if _, err := c.Period(); err != nil {
		return fmt.Errorf("series.timeframe: %w", err)
	}
	for k, sp := range c.Indicators {
		if !validType(sp.Type) {
			return fmt.Errorf("indicators[%d]: unknown type %q", k, sp.Type)
		}
	}
	if err := logger.New().Configure(logger.Options{Level: c.Log.Level, Format: c.Log.Format}); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

var validate = newValidator()

// newValidator reports fields by their yaml names, e.g. series.max_bars.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkTags runs the validate struct tags and joins one message per failed
// field.
func checkTags(c *Config) error {
	err := validate.Struct(c)
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}
	errs := make([]error, 0, len(fields))
	for _, fe := range fields {
		errs = append(errs, errors.New(fieldMessage(fe)))
	}
	return errors.Join(errs...)
}

func fieldMessage(fe validator.FieldError) string {
	_, field, _ := strings.Cut(fe.Namespace(), ".")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "required_if":
		when, is, _ := strings.Cut(fe.Param(), " ")
		return fmt.Sprintf("%s is required when %s is %s", field, strings.ToLower(when), is)
	case "min":
		if fe.Param() == "0" {
			return field + " must not be negative"
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}

func validType(t string) bool {
	for _, known := range indicators.Types {
		if strings.EqualFold(t, known) {
			return true
		}
	}
	return false
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Series: SeriesConfig{
			Name:      "series",
			Backend:   "decimal",
			Timeframe: "D1",
		},
		Indicators: []indicators.Spec{
			{Type: "sma", Period: 20},
			{Type: "rsi", Period: 14},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Factory returns the numeric factory for the configured backend.
func (c *Config) Factory() (num.Factory, error) {
	k, err := num.ParseKind(c.Series.Backend)
	if err != nil {
		return nil, err
	}
	switch {
	case k == num.KindDecimal && c.Series.Precision > 0:
		return num.NewDecimalFactory(c.Series.Precision), nil
	case k == num.KindFixed && c.Series.Digits > 0:
		return num.NewFixedFactory(c.Series.Digits), nil
	}
	return num.ForKind(k)
}

// Period parses the timeframe. An empty timeframe is one day.
func (c *Config) Period() (time.Duration, error) {
	if c.Series.Timeframe == "" {
		return market.DefaultPeriod, nil
	}
	return market.ParseTimeframe(c.Series.Timeframe)
}

// NewSeries builds an empty series as configured.
func (c *Config) NewSeries() (*market.Series, error) {
	f, err := c.Factory()
	if err != nil {
		return nil, err
	}
	period, err := c.Period()
	if err != nil {
		return nil, err
	}
	opts := []market.Option{market.WithPeriod(period)}
	if c.Series.Capacity > 0 {
		opts = append(opts, market.WithCapacity(c.Series.Capacity))
	}
	if c.Series.Window > 0 {
		opts = append(opts, market.WithWindow(c.Series.Window))
	}
	if c.Series.MaxBars > 0 {
		opts = append(opts, market.WithMaxBars(c.Series.MaxBars))
	}
	return market.New(c.Series.Name, f, opts...), nil
}

// LogOptions maps the log section onto logger options.
func (c *Config) LogOptions() logger.Options {
	return logger.Options{Level: c.Log.Level, Format: c.Log.Format, File: c.Log.File}
}

// OpenJournal opens the configured sink, or returns nil when journaling is
// off.
func (c *Config) OpenJournal() (journal.Journal, error) {
	switch strings.ToLower(c.Journal.Type) {
	case "", "none":
		return nil, nil
	}
	return journal.Open(c.Journal.Type, c.Journal.Dir, c.Journal.DBPath)
}
