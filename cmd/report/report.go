// Package report prints a spending summary of the stored expenses
package report

import (
	"fmt"
	"io"

	"github.com/nikcich/ExpenseTrackerV2/cmd/common"
	"github.com/nikcich/ExpenseTrackerV2/cmd/root"
	"github.com/nikcich/ExpenseTrackerV2/internal/container"
	"github.com/nikcich/ExpenseTrackerV2/internal/dateutils"
	"github.com/nikcich/ExpenseTrackerV2/internal/report"

	"github.com/spf13/cobra"
)

// Options are the report flags.
type Options struct {
	Format string
	From   string
	To     string
}

var opts Options

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize stored expenses",
	Long: `Print totals, a month by month breakdown and spending per tag for the
stored expenses, optionally limited to a date range.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := common.OpenOutput(root.SharedFlags.Output, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer out.Close()
		_, err = Run(root.GetContainer(), opts, out)
		return err
	},
}

func init() {
	Cmd.Flags().StringVarP(&opts.Format, "format", "f", report.FormatJSON, "Output format (json or yaml)")
	Cmd.Flags().StringVar(&opts.From, "from", "", "Start date, inclusive (YYYY-MM-DD)")
	Cmd.Flags().StringVar(&opts.To, "to", "", "End date, inclusive (YYYY-MM-DD)")
}

// Run builds the summary and writes it to out in the requested format.
func Run(c *container.Container, o Options, out io.Writer) (report.Summary, error) {
	var (
		f   report.Filter
		err error
	)
	if f.From, err = dateutils.ParseISODate(o.From); err != nil {
		return report.Summary{}, err
	}
	if f.To, err = dateutils.ParseISODate(o.To); err != nil {
		return report.Summary{}, err
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return report.Summary{}, fmt.Errorf("--to %s is before --from %s", o.To, o.From)
	}

	expenses, err := c.GetStore().All()
	if err != nil {
		return report.Summary{}, err
	}

	s := report.Build(expenses, f)
	data, err := c.GetReportGenerator().GenerateReport(s, o.Format)
	if err != nil {
		return s, err
	}
	if _, err := out.Write(data); err != nil {
		return s, fmt.Errorf("failed to write report: %w", err)
	}
	return s, nil
}
