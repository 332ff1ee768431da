package main

import (
	"fmt"
	"io"

	"mercator-hq/huntquery/pkg/cli"
	"mercator-hq/huntquery/pkg/config"
	"mercator-hq/huntquery/pkg/pack"
	"mercator-hq/huntquery/pkg/query/render"

	"github.com/spf13/cobra"
)

var renderFlags struct {
	appNames              []string
	window                windowValue
	childWindow           windowValue
	excludeSystemUser     bool
	excludeStandardPorts  bool
	minUniqueDestinations int
	minParentCount        int
	minCountries          int
	format                string
}

var renderCmd = &cobra.Command{
	Use:   "render <pattern>",
	Short: "Render a detection query",
	Long: `Render a detection query for one threat-hunting pattern.

Parameters not given on the command line come from the defaults section of
the config file, then from the pattern's built-in defaults.

Examples:
  # Connections from browsers within 10 seconds of launch
  huntquery render network-from-application --app chrome.exe --app firefox.exe

  # Beaconing to 8+ destinations in 5 minutes, keeping web ports
  huntquery render multi-destination-beaconing \
      --min-unique-destinations 8 --window 5m --exclude-standard-ports=false

  # JSON output
  huntquery render geographic-beaconing --format json`,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.PersistentFlags().StringVar(&renderFlags.format, "format", "text", "output format: text, json")

	for _, d := range render.Patterns() {
		renderCmd.AddCommand(newPatternCmd(d))
	}
}

// newPatternCmd builds the render subcommand for one pattern, registering a
// flag for each parameter the pattern accepts.
func newPatternCmd(d render.Descriptor) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(d.Name),
		Short: d.Description,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderPattern(cmd, d.Name)
		},
	}

	flags := cmd.Flags()
	for _, key := range d.Params {
		switch key {
		case render.ParamAppNames:
			flags.StringArrayVar(&renderFlags.appNames, "app", nil, "application executable name (repeatable)")
		case render.ParamWindow:
			flags.Var(&renderFlags.window, "window", "time window, e.g. 10s, 2m, 1h")
		case render.ParamChildWindow:
			flags.Var(&renderFlags.childWindow, "child-window", "child process connection window, e.g. 10s")
		case render.ParamExcludeSystemUser:
			flags.BoolVar(&renderFlags.excludeSystemUser, "exclude-system-user", config.DefaultExcludeSystemUser, "exclude processes owned by SYSTEM")
		case render.ParamExcludeStandardPorts:
			flags.BoolVar(&renderFlags.excludeStandardPorts, "exclude-standard-ports", config.DefaultExcludeStandardPorts, "exclude web ports 80 and 443")
		case render.ParamMinUniqueDestinations:
			flags.IntVar(&renderFlags.minUniqueDestinations, "min-unique-destinations", config.DefaultMinUniqueDestinations, "minimum distinct destination addresses")
		case render.ParamMinParentCount:
			flags.IntVar(&renderFlags.minParentCount, "min-parent-count", config.DefaultMinParentCount, "minimum distinct parent processes")
		case render.ParamMinCountries:
			flags.IntVar(&renderFlags.minCountries, "min-countries", config.DefaultMinCountries, "minimum distinct destination countries")
		}
	}

	return cmd
}

// paramsFromFlags returns the parameters explicitly set on the command line.
func paramsFromFlags(cmd *cobra.Command) pack.Params {
	var p pack.Params
	flags := cmd.Flags()

	if flags.Changed("app") {
		p.AppNames = renderFlags.appNames
	}
	if flags.Changed("window") {
		p.Window = renderFlags.window.String()
	}
	if flags.Changed("child-window") {
		p.ChildWindow = renderFlags.childWindow.String()
	}
	if flags.Changed("exclude-system-user") {
		v := renderFlags.excludeSystemUser
		p.ExcludeSystemUser = &v
	}
	if flags.Changed("exclude-standard-ports") {
		v := renderFlags.excludeStandardPorts
		p.ExcludeStandardPorts = &v
	}
	if flags.Changed("min-unique-destinations") {
		v := renderFlags.minUniqueDestinations
		p.MinUniqueDestinations = &v
	}
	if flags.Changed("min-parent-count") {
		v := renderFlags.minParentCount
		p.MinParentCount = &v
	}
	if flags.Changed("min-countries") {
		v := renderFlags.minCountries
		p.MinCountries = &v
	}

	return p
}

// renderedQuery is the output of the render command.
type renderedQuery struct {
	Pattern string `json:"pattern"`
	Query   string `json:"query"`
}

func (q renderedQuery) RenderText(w io.Writer) error {
	_, err := fmt.Fprintln(w, q.Query)
	return err
}

func renderPattern(cmd *cobra.Command, pattern render.Pattern) error {
	format, err := cli.ParseFormat(renderFlags.format)
	if err != nil {
		return err
	}
	formatter, err := cli.NewFormatter(format)
	if err != nil {
		return err
	}

	hunt := pack.Hunt{
		ID:      "cli",
		Pattern: string(pattern),
		Params:  paramsFromFlags(cmd),
	}

	tmpl, err := pack.Template(hunt, config.GetConfig().Defaults)
	if err != nil {
		return cli.NewCommandError("render", err)
	}
	text, err := tmpl.Render()
	if err != nil {
		return cli.NewCommandError("render", err)
	}

	logger.Debug("Query rendered", "pattern", pattern, "bytes", len(text))

	return formatter.FormatTo(cmd.OutOrStdout(), renderedQuery{Pattern: string(pattern), Query: text})
}
