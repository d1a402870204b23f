// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nikcich/ExpenseTrackerV2/internal/fileutils"
	"github.com/nikcich/ExpenseTrackerV2/internal/logging"
	"github.com/nikcich/ExpenseTrackerV2/internal/parser"
	"github.com/nikcich/ExpenseTrackerV2/internal/registry"
)

// ResolveInputs expands input into the statement files to process: the
// file itself, or every .csv file under a directory.
func ResolveInputs(input string) ([]string, error) {
	if input == "" {
		return nil, fmt.Errorf("an input file or directory is required (--input)")
	}
	if fileutils.DirectoryExists(input) {
		files, err := fileutils.ListFilesWithExtension(input, fileutils.CSVExtension)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no %s files found in %s", fileutils.CSVExtension, input)
		}
		return files, nil
	}
	return []string{input}, nil
}

// ImportFile imports one statement file into sink and prints a one-line
// summary to out. When several definitions match, the candidates are
// printed so the user can pick one with --definition.
func ImportFile(ctx context.Context, engine *parser.Engine, src parser.RowSource, sink parser.Sink,
	path string, opts parser.ImportOptions, out io.Writer, log logging.Logger) (*parser.ImportResult, error) {
	log = log.WithField(logging.FieldInputFile, path)

	f, err := fileutils.OpenCSVFile(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	res, err := engine.Import(ctx, f, path, src, sink, opts)
	if err != nil {
		var amb *parser.AmbiguousMatchError
		if errors.As(err, &amb) {
			fmt.Fprintf(out, "%s matches several definitions, choose one with --definition:\n", path)
			PrintCandidates(out, amb.Candidates)
		}
		return res, err
	}

	if opts.DryRun {
		fmt.Fprintf(out, "%s: %d expenses parsed with %s (dry run)\n", path, len(res.Expenses), res.Definition)
	} else {
		fmt.Fprintf(out, "%s: %d stored, %d duplicates (%s)\n", path, res.Stored, res.Duplicates, res.Definition)
	}
	return res, nil
}

// PrintCandidates lists definition keys with their display names.
func PrintCandidates(out io.Writer, keys []registry.Key) {
	for _, k := range keys {
		name := string(k)
		if def, err := registry.Get(k); err == nil {
			name = def.Name
		}
		fmt.Fprintf(out, "  %-18s %s\n", k, name)
	}
}
