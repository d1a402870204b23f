package container

import (
	"path/filepath"
	"testing"

	"github.com/nikcich/ExpenseTrackerV2/internal/config"
	"github.com/nikcich/ExpenseTrackerV2/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Log:        config.LogConfig{Level: "info", Format: "text"},
		CSV:        config.CSVConfig{Delimiter: ";"},
		Processing: config.ProcessingConfig{Workers: 2, ChunkSize: 8},
		Store:      config.StoreConfig{File: filepath.Join(t.TempDir(), "expenses.yaml")},
		Export:     config.ExportConfig{TagSeparator: ";"},
	}
}

func TestNewContainer(t *testing.T) {
	_, err := NewContainer(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration cannot be nil")

	cfg := testConfig(t)
	c, err := NewContainer(cfg)
	require.NoError(t, err)

	assert.Equal(t, cfg, c.GetConfig())
	assert.NotNil(t, c.GetLogger())
	assert.NotNil(t, c.GetEngine())
	assert.NotNil(t, c.GetReportGenerator())
	assert.Equal(t, ';', c.GetRowReader().Delimiter)
	assert.Equal(t, cfg.Store.File, c.GetStore().Path())
	assert.NoError(t, c.Close())
}

func TestNewContainerWithLogger(t *testing.T) {
	logger := logging.NewMockLogger()

	c, err := NewContainerWithLogger(testConfig(t), logger)
	require.NoError(t, err)

	assert.Equal(t, logger, c.GetLogger())
	assert.Equal(t, logger, c.GetEngine().GetLogger())
	assert.True(t, logger.HasEntry("DEBUG", "Container initialized successfully"))
}
