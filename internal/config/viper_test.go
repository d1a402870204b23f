package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nikcich/ExpenseTrackerV2/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(originalDir))
	})
}

func isolate(t *testing.T) {
	t.Helper()
	clearTestEnvVars(t)
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
}

func TestInitializeConfig_Defaults(t *testing.T) {
	isolate(t)

	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, ',', config.Delimiter())
	assert.Equal(t, 4, config.Processing.Workers)
	assert.Equal(t, 64, config.Processing.ChunkSize)
	assert.Equal(t, "expenses.yaml", config.Store.File)
	assert.Equal(t, ";", config.Export.TagSeparator)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	isolate(t)

	testEnvVars := map[string]string{
		"EXPENSES_LOG_LEVEL":             "debug",
		"EXPENSES_LOG_FORMAT":            "json",
		"EXPENSES_CSV_DELIMITER":         ";",
		"EXPENSES_PROCESSING_WORKERS":    "8",
		"EXPENSES_PROCESSING_CHUNK_SIZE": "16",
		"EXPENSES_STORE_FILE":            "/tmp/other.yaml",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, ';', config.Delimiter())
	assert.Equal(t, 8, config.Processing.Workers)
	assert.Equal(t, 16, config.Processing.ChunkSize)
	assert.Equal(t, "/tmp/other.yaml", config.Store.File)
}

const fileConfig = `
log:
  level: "warn"
csv:
  delimiter: "|"
processing:
  workers: 2
store:
  file: "db/expenses.yaml"
`

func TestInitializeConfig_ConfigFile(t *testing.T) {
	isolate(t)
	dir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(fileConfig), 0600))

	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, '|', config.Delimiter())
	assert.Equal(t, 2, config.Processing.Workers)
	assert.Equal(t, 64, config.Processing.ChunkSize)
	assert.Equal(t, "db/expenses.yaml", config.Store.File)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	isolate(t)
	dir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(fileConfig), 0600))

	t.Setenv("EXPENSES_LOG_LEVEL", "error")
	t.Setenv("EXPENSES_PROCESSING_WORKERS", "6")

	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, 6, config.Processing.Workers)
}

func TestLoad_ExplicitFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fileConfig), 0600))

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", config.Log.Level)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicitly named file must exist")
}

func TestLoad_InvalidValueFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("EXPENSES_PROCESSING_WORKERS", "0")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "processing.workers")
}

func TestLoad_TagSeparatorMustMatchImportLayout(t *testing.T) {
	isolate(t)
	t.Setenv("EXPENSES_EXPORT_TAG_SEPARATOR", "|")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export.tag_separator")
}

func validConfig() *Config {
	return &Config{
		Log:        LogConfig{Level: "info", Format: "text"},
		CSV:        CSVConfig{Delimiter: ","},
		Processing: ProcessingConfig{Workers: 4, ChunkSize: 64},
		Store:      StoreConfig{File: "expenses.yaml"},
		Export:     ExportConfig{TagSeparator: ";"},
	}
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{"invalid log level", func(c *Config) { c.Log.Level = "invalid" }, "invalid log level"},
		{"invalid log format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"multi-char delimiter", func(c *Config) { c.CSV.Delimiter = "abc" }, "CSV delimiter must be a single character"},
		{"empty delimiter", func(c *Config) { c.CSV.Delimiter = "" }, "CSV delimiter must be a single character"},
		{"quote delimiter", func(c *Config) { c.CSV.Delimiter = "\"" }, "cannot be a quote"},
		{"zero workers", func(c *Config) { c.Processing.Workers = 0 }, "processing.workers"},
		{"zero chunk size", func(c *Config) { c.Processing.ChunkSize = 0 }, "processing.chunk_size"},
		{"empty store file", func(c *Config) { c.Store.File = " " }, "store.file"},
		{"empty tag separator", func(c *Config) { c.Export.TagSeparator = "" }, "export.tag_separator"},
		{"tag separator the import cannot split", func(c *Config) { c.Export.TagSeparator = "|" }, "so exports can be imported again"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}

	assert.NoError(t, validateConfig(validConfig()))
	tab := validConfig()
	tab.CSV.Delimiter = "\t"
	assert.NoError(t, validateConfig(tab))
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	for _, format := range []string{"text", "json"} {
		c := validConfig()
		c.Log.Format = format
		logger := ConfigureLoggingFromConfig(c)
		assert.NotNil(t, logger)
		_, ok := logger.(*logging.LogrusAdapter)
		assert.True(t, ok)
	}
}

func TestLoadEnv(t *testing.T) {
	isolate(t)
	dir, err := os.Getwd()
	require.NoError(t, err)

	assert.Empty(t, LoadEnv(logging.NewMockLogger()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("EXPENSES_TEST_DOTENV=loaded\n"), 0600))
	t.Setenv("EXPENSES_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("EXPENSES_TEST_DOTENV"))

	assert.Equal(t, ".env", LoadEnv(logging.NewMockLogger()))
	assert.Equal(t, "loaded", os.Getenv("EXPENSES_TEST_DOTENV"))
}

// clearTestEnvVars unsets every variable the application reads; t.Setenv
// restores them after the test.
func clearTestEnvVars(t *testing.T) {
	envVars := []string{
		"EXPENSES_LOG_LEVEL",
		"EXPENSES_LOG_FORMAT",
		"EXPENSES_CSV_DELIMITER",
		"EXPENSES_PROCESSING_WORKERS",
		"EXPENSES_PROCESSING_CHUNK_SIZE",
		"EXPENSES_STORE_FILE",
		"EXPENSES_EXPORT_TAG_SEPARATOR",
	}
	for _, envVar := range envVars {
		t.Setenv(envVar, "")
		require.NoError(t, os.Unsetenv(envVar))
	}
}
