// Package definitions lists the registered statement layouts
package definitions

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/nikcich/ExpenseTrackerV2/cmd/common"
	"github.com/nikcich/ExpenseTrackerV2/cmd/root"
	"github.com/nikcich/ExpenseTrackerV2/internal/definition"
	"github.com/nikcich/ExpenseTrackerV2/internal/registry"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var format string

// Cmd represents the definitions command
var Cmd = &cobra.Command{
	Use:   "definitions",
	Short: "List the supported statement layouts",
	Long:  `List every registered definition with its key, header flag and column layout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := common.OpenOutput(root.SharedFlags.Output, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer out.Close()
		return Print(out, format)
	},
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or yaml")
}

type columnView struct {
	Role     definition.Role     `yaml:"role"`
	Position int                 `yaml:"position"`
	Type     definition.DataType `yaml:"type"`
	Required bool                `yaml:"required"`
	Args     map[string]string   `yaml:"args,omitempty"`
}

type definitionView struct {
	Key       registry.Key `yaml:"key"`
	Name      string       `yaml:"name"`
	HasHeader bool         `yaml:"has_header"`
	Primary   []columnView `yaml:"primary"`
	Auxiliary []columnView `yaml:"auxiliary,omitempty"`
}

func columns(cols []definition.Column) []columnView {
	out := make([]columnView, 0, len(cols))
	for _, c := range cols {
		v := columnView{Role: c.Role, Position: c.Position, Type: c.Type, Required: c.Required}
		if args := c.Args(); len(args) > 0 {
			v.Args = make(map[string]string, len(args))
			for k, a := range args {
				v.Args[k.String()] = a
			}
		}
		out = append(out, v)
	}
	return out
}

func views() []definitionView {
	var out []definitionView
	for _, e := range registry.All() {
		out = append(out, definitionView{
			Key:       e.Key,
			Name:      e.Definition.Name,
			HasHeader: e.Definition.HasHeader,
			Primary:   columns(e.Definition.Primary),
			Auxiliary: columns(e.Definition.Auxiliary),
		})
	}
	return out
}

// Print writes the registry to w as a table or as YAML.
func Print(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views()); err != nil {
			return fmt.Errorf("failed to encode definitions: %w", err)
		}
		return enc.Close()
	case "text", "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tNAME\tHEADER\tCOLUMNS")
		for _, v := range views() {
			fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", v.Key, v.Name, v.HasHeader, describe(v))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func describe(v definitionView) string {
	var parts []string
	add := func(cols []columnView, aux bool) {
		for _, c := range cols {
			s := fmt.Sprintf("%s@%d:%s", c.Role, c.Position, c.Type)
			if !c.Required {
				s += "?"
			}
			if aux {
				s = "aux " + s
			}
			if len(c.Args) > 0 {
				keys := make([]string, 0, len(c.Args))
				for k := range c.Args {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				var args []string
				for _, k := range keys {
					args = append(args, fmt.Sprintf("%s=%q", k, c.Args[k]))
				}
				s += "[" + strings.Join(args, ",") + "]"
			}
			parts = append(parts, s)
		}
	}
	add(v.Primary, false)
	add(v.Auxiliary, true)
	return strings.Join(parts, " ")
}
