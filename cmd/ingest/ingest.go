// Package ingest handles the import command: statement files are matched,
// parsed and added to the expense store
package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/nikcich/ExpenseTrackerV2/cmd/common"
	"github.com/nikcich/ExpenseTrackerV2/cmd/root"
	"github.com/nikcich/ExpenseTrackerV2/internal/container"
	"github.com/nikcich/ExpenseTrackerV2/internal/logging"
	"github.com/nikcich/ExpenseTrackerV2/internal/models"
	"github.com/nikcich/ExpenseTrackerV2/internal/parser"
	"github.com/nikcich/ExpenseTrackerV2/internal/registry"

	"github.com/spf13/cobra"
)

// Options are the import flags.
type Options struct {
	Input      string
	Output     string
	Definition string
	DryRun     bool
}

var (
	definitionKey string
	dryRun        bool
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import statement files into the expense store",
	Long: `Import one CSV statement, or every CSV file in a directory. The layout is
detected automatically; when several definitions fit, name one with --definition.
With --output the parsed expenses are also written as CSV.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := Run(cmd.Context(), root.GetContainer(), Options{
			Input:      root.SharedFlags.Input,
			Output:     root.SharedFlags.Output,
			Definition: definitionKey,
			DryRun:     dryRun,
		}, cmd.OutOrStdout())
		return err
	},
}

func init() {
	Cmd.Flags().StringVarP(&definitionKey, "definition", "d", "", "Definition key to use instead of detection (see 'definitions')")
	Cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse without storing anything")
}

// Run imports every statement under opts.Input. It stops at the first
// file that fails.
func Run(ctx context.Context, c *container.Container, opts Options, out io.Writer) ([]*parser.ImportResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	importOpts := parser.ImportOptions{DryRun: opts.DryRun}
	if opts.Definition != "" {
		key, err := registry.ParseKey(opts.Definition)
		if err != nil {
			return nil, err
		}
		importOpts.Definition = key
	}

	files, err := common.ResolveInputs(opts.Input)
	if err != nil {
		return nil, err
	}

	log := c.GetLogger()
	engine := c.GetEngine()
	var (
		results []*parser.ImportResult
		parsed  []models.Expense
	)
	for _, path := range files {
		res, err := common.ImportFile(ctx, engine, c.GetRowReader(), c.GetStore(), path, importOpts, out, log)
		if err != nil {
			return results, fmt.Errorf("import of %s failed: %w", path, err)
		}
		results = append(results, res)
		parsed = append(parsed, withIDs(res)...)
	}

	if opts.Output != "" {
		if err := engine.WriteToCSV(parsed, opts.Output, c.GetConfig().Export.TagSeparator); err != nil {
			return results, err
		}
	}

	log.Info("Import finished",
		logging.Field{Key: logging.FieldCount, Value: len(files)},
		logging.Field{Key: "dry_run", Value: opts.DryRun})
	return results, nil
}

// withIDs returns the parsed expenses carrying the IDs the store assigned.
// A dry run has no results, so its expenses keep an empty ID.
func withIDs(res *parser.ImportResult) []models.Expense {
	out := make([]models.Expense, len(res.Expenses))
	copy(out, res.Expenses)
	if len(res.Results) != len(out) {
		return out
	}
	for i, r := range res.Results {
		out[i].ID = r.ID
	}
	return out
}
