package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nikcich/ExpenseTrackerV2/internal/fileutils"
)

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// OpenOutput returns a writer for path, or stdout when path is empty.
// Parent directories are created. The caller must Close the result.
func OpenOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return nil, err
	}
	f, err := os.Create(path) // #nosec G304 -- path chosen by the user
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}
