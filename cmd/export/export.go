// Package export writes the stored expenses as CSV
package export

import (
	"io"

	"github.com/nikcich/ExpenseTrackerV2/cmd/common"
	"github.com/nikcich/ExpenseTrackerV2/cmd/root"
	internalcommon "github.com/nikcich/ExpenseTrackerV2/internal/common"
	"github.com/nikcich/ExpenseTrackerV2/internal/container"
	"github.com/nikcich/ExpenseTrackerV2/internal/dateutils"
	"github.com/nikcich/ExpenseTrackerV2/internal/logging"
	"github.com/nikcich/ExpenseTrackerV2/internal/models"

	"github.com/spf13/cobra"
)

var from, to string

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored expenses as CSV",
	Long: `Write every stored expense, ordered by date, as CSV with the columns
ID,Date,Description,Amount,Tags. Output goes to stdout unless --output is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := common.OpenOutput(root.SharedFlags.Output, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer out.Close()
		_, err = Run(root.GetContainer(), from, to, out)
		return err
	},
}

func init() {
	Cmd.Flags().StringVar(&from, "from", "", "Only export expenses on or after this date (YYYY-MM-DD)")
	Cmd.Flags().StringVar(&to, "to", "", "Only export expenses on or before this date (YYYY-MM-DD)")
}

// Run writes the stored expenses dated between from and to to out and
// returns how many were written.
func Run(c *container.Container, from, to string, out io.Writer) (int, error) {
	fromDate, err := dateutils.ParseISODate(from)
	if err != nil {
		return 0, err
	}
	toDate, err := dateutils.ParseISODate(to)
	if err != nil {
		return 0, err
	}

	all, err := c.GetStore().All()
	if err != nil {
		return 0, err
	}
	selected := make([]models.Expense, 0, len(all))
	for _, e := range all {
		if dateutils.InRange(e.Date, fromDate, toDate) {
			selected = append(selected, e)
		}
	}

	if err := internalcommon.WriteExpenses(out, selected, c.GetConfig().Export.TagSeparator); err != nil {
		return 0, err
	}
	c.GetLogger().Info("Exported expenses", logging.Field{Key: logging.FieldCount, Value: len(selected)})
	return len(selected), nil
}
