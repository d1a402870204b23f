// Package match reports which statement layouts a file fits
package match

import (
	"context"
	"fmt"
	"io"

	"github.com/nikcich/ExpenseTrackerV2/cmd/common"
	"github.com/nikcich/ExpenseTrackerV2/cmd/root"
	"github.com/nikcich/ExpenseTrackerV2/internal/container"
	"github.com/nikcich/ExpenseTrackerV2/internal/fileutils"
	"github.com/nikcich/ExpenseTrackerV2/internal/logging"
	"github.com/nikcich/ExpenseTrackerV2/internal/registry"

	"github.com/spf13/cobra"
)

// Cmd represents the match command
var Cmd = &cobra.Command{
	Use:   "match",
	Short: "Show which definitions a statement file matches",
	Long: `Read a CSV statement and print the key of every registered definition
whose layout each of its rows satisfies.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := common.OpenOutput(root.SharedFlags.Output, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer out.Close()
		_, err = Run(cmd.Context(), root.GetContainer(), root.SharedFlags.Input, out)
		return err
	},
}

// Run matches every statement under input and prints the result per file.
func Run(ctx context.Context, c *container.Container, input string, out io.Writer) (map[string][]registry.Key, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	files, err := common.ResolveInputs(input)
	if err != nil {
		return nil, err
	}

	log := c.GetLogger()
	results := make(map[string][]registry.Key, len(files))
	for _, path := range files {
		keys, err := matchFile(ctx, c, path)
		if err != nil {
			return results, err
		}
		results[path] = keys

		log.Info("Matched file",
			logging.Field{Key: logging.FieldInputFile, Value: path},
			logging.Field{Key: logging.FieldMatches, Value: keys})

		if len(keys) == 0 {
			fmt.Fprintf(out, "%s: no matching definition found\n", path)
			continue
		}
		fmt.Fprintf(out, "%s:\n", path)
		common.PrintCandidates(out, keys)
	}
	return results, nil
}

func matchFile(ctx context.Context, c *container.Container, path string) ([]registry.Key, error) {
	f, err := fileutils.OpenCSVFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := c.GetRowReader().ReadRows(f, path)
	if err != nil {
		return nil, err
	}
	return c.GetEngine().FindDefinitions(ctx, rows)
}
