// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nikcich/ExpenseTrackerV2/internal/logging"
	"github.com/nikcich/ExpenseTrackerV2/internal/registry"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the application,
// e.g. EXPENSES_PROCESSING_WORKERS.
const EnvPrefix = "EXPENSES"

// LogConfig configures the application logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// CSVConfig configures delimited-text input.
type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// ProcessingConfig sizes the worker pool used for matching and parsing.
type ProcessingConfig struct {
	Workers   int `mapstructure:"workers" yaml:"workers"`
	ChunkSize int `mapstructure:"chunk_size" yaml:"chunk_size"`
}

// StoreConfig locates the expense store.
type StoreConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// ExportConfig configures CSV export. TagSeparator must stay equal to
// registry.TagSeparator: the migration_export layout splits tags on it when
// an export is imported again.
type ExportConfig struct {
	TagSeparator string `mapstructure:"tag_separator" yaml:"tag_separator"`
}

// Config represents the complete application configuration
type Config struct {
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	CSV        CSVConfig        `mapstructure:"csv" yaml:"csv"`
	Processing ProcessingConfig `mapstructure:"processing" yaml:"processing"`
	Store      StoreConfig      `mapstructure:"store" yaml:"store"`
	Export     ExportConfig     `mapstructure:"export" yaml:"export"`
}

// Delimiter returns the configured input delimiter as a rune.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// Load initializes Viper configuration with hierarchical loading:
// defaults, then a config file, then EXPENSES_* environment variables.
// When configFile is empty, config.yaml is searched for in
// $HOME/.expense-tracker, .expense-tracker and the working directory.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.expense-tracker")
		v.AddConfigPath(".expense-tracker")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("processing.workers", 4)
	v.SetDefault("processing.chunk_size", 64)

	v.SetDefault("store.file", "expenses.yaml")

	v.SetDefault("export.tag_separator", registry.TagSeparator)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if utf8.RuneCountInString(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}
	if d := config.CSV.Delimiter; d == "\"" || d == "\n" || d == "\r" {
		return fmt.Errorf("CSV delimiter cannot be a quote or a line break, got: %q", d)
	}

	if config.Processing.Workers < 1 {
		return fmt.Errorf("processing.workers must be at least 1, got: %d", config.Processing.Workers)
	}
	if config.Processing.ChunkSize < 1 {
		return fmt.Errorf("processing.chunk_size must be at least 1, got: %d", config.Processing.ChunkSize)
	}

	if strings.TrimSpace(config.Store.File) == "" {
		return fmt.Errorf("store.file must not be empty")
	}

	if config.Export.TagSeparator == "" {
		return fmt.Errorf("export.tag_separator must not be empty")
	}
	if config.Export.TagSeparator != registry.TagSeparator {
		return fmt.Errorf("export.tag_separator must be %q so exports can be imported again, got: %q",
			registry.TagSeparator, config.Export.TagSeparator)
	}

	return nil
}

// ConfigureLoggingFromConfig builds the application logger from config.
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logging.NewLogrusAdapterFromLogger(logger)
}
