package main

import (
	"fmt"

	"mercator-hq/huntquery/pkg/query"
	"mercator-hq/huntquery/pkg/query/render"

	"github.com/spf13/cobra"
)

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Print example queries for every pattern",
	Long: `Print one example query for each pattern, rendered with built-in defaults.

The network-from-application example watches chrome.exe and firefox.exe.`,
	Args: cobra.NoArgs,
	RunE: printExamples,
}

func init() {
	rootCmd.AddCommand(examplesCmd)
}

type example struct {
	title    string
	template render.Template
}

func exampleQueries() []example {
	return []example{
		{"Network from Specific App", render.DefaultNetworkFromApplication("chrome.exe", "firefox.exe")},
		{"Multi-Destination Beaconing", render.DefaultMultiDestinationBeaconing()},
		{"Multi-Parent Child Network", render.DefaultMultiParentChildNetwork()},
		{"Suspicious Child from Office", render.SuspiciousChildFromOfficeApp{}},
		{"Geographic Beaconing", render.DefaultGeographicBeaconing()},
	}
}

func printExamples(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for i, ex := range exampleQueries() {
		text, err := query.Render(ex.template)
		if err != nil {
			return fmt.Errorf("example %q: %w", ex.title, err)
		}
		fmt.Fprintf(out, "\n=== Query %d: %s ===\n%s\n", i+1, ex.title, text)
	}
	return nil
}
