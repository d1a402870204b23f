package main

import (
	"fmt"
	"os"

	"github.com/nikcich/ExpenseTrackerV2/cmd/definitions"
	"github.com/nikcich/ExpenseTrackerV2/cmd/export"
	"github.com/nikcich/ExpenseTrackerV2/cmd/ingest"
	"github.com/nikcich/ExpenseTrackerV2/cmd/match"
	"github.com/nikcich/ExpenseTrackerV2/cmd/report"
	"github.com/nikcich/ExpenseTrackerV2/cmd/root"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(definitions.Cmd)
	root.Cmd.AddCommand(match.Cmd)
	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(report.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
