package match

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nikcich/ExpenseTrackerV2/internal/config"
	"github.com/nikcich/ExpenseTrackerV2/internal/container"
	"github.com/nikcich/ExpenseTrackerV2/internal/logging"
	"github.com/nikcich/ExpenseTrackerV2/internal/parsererror"
	"github.com/nikcich/ExpenseTrackerV2/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContainer(t *testing.T) *container.Container {
	t.Helper()
	cfg := &config.Config{
		Log:        config.LogConfig{Level: "info", Format: "text"},
		CSV:        config.CSVConfig{Delimiter: ","},
		Processing: config.ProcessingConfig{Workers: 2, ChunkSize: 2},
		Store:      config.StoreConfig{File: filepath.Join(t.TempDir(), "expenses.yaml")},
		Export:     config.ExportConfig{TagSeparator: ";"},
	}
	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	return c
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	wf := filepath.Join(dir, "wf.csv")
	unknown := filepath.Join(dir, "zz.csv")
	require.NoError(t, os.WriteFile(wf, []byte(`"01/15/2024","-45.67","*","","GROCERY STORE"`+"\n"), 0600))
	require.NoError(t, os.WriteFile(unknown, []byte("hello,world\n"), 0600))

	var out bytes.Buffer
	results, err := Run(context.Background(), newContainer(t), dir, &out)
	require.NoError(t, err)

	assert.Equal(t, []registry.Key{registry.WellsFargo}, results[wf])
	assert.Empty(t, results[unknown])
	assert.Contains(t, out.String(), "wells_fargo")
	assert.Contains(t, out.String(), "zz.csv: no matching definition found")
}

func TestRun_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,\"b\n"), 0600))

	var out bytes.Buffer
	_, err := Run(context.Background(), newContainer(t), path, &out)
	var fe *parsererror.FormatError
	assert.ErrorAs(t, err, &fe)
}
