package main

import (
	"fmt"
	"io"
	"strings"

	"mercator-hq/huntquery/pkg/cli"
	"mercator-hq/huntquery/pkg/query/render"

	"github.com/spf13/cobra"
)

var patternsFlags struct {
	format string
}

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List available query patterns",
	Long: `List every threat-hunting pattern with its description and parameters.

Examples:
  huntquery patterns
  huntquery patterns --format json
  huntquery patterns --format csv`,
	Args: cobra.NoArgs,
	RunE: listPatterns,
}

func init() {
	rootCmd.AddCommand(patternsCmd)

	patternsCmd.Flags().StringVar(&patternsFlags.format, "format", "text", "output format: text, json, csv")
}

// patternList is the output of the patterns command.
type patternList []render.Descriptor

func (l patternList) RenderText(w io.Writer) error {
	for _, d := range l {
		params := "none"
		if len(d.Params) > 0 {
			params = strings.Join(d.Params, ", ")
		}
		if _, err := fmt.Fprintf(w, "%-34s %s\n%-34s params: %s\n", d.Name, d.Description, "", params); err != nil {
			return err
		}
	}
	return nil
}

func (l patternList) Header() []string {
	return []string{"name", "description", "params"}
}

func (l patternList) Rows() [][]string {
	rows := make([][]string, len(l))
	for i, d := range l {
		rows[i] = []string{string(d.Name), d.Description, strings.Join(d.Params, " ")}
	}
	return rows
}

func listPatterns(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(patternsFlags.format)
	if err != nil {
		return err
	}
	formatter, err := cli.NewFormatter(format)
	if err != nil {
		return err
	}
	return formatter.FormatTo(cmd.OutOrStdout(), patternList(render.Patterns()))
}
