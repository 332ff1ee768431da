package main

import (
	"errors"
	"fmt"
	"io"

	"mercator-hq/huntquery/pkg/cli"
	"mercator-hq/huntquery/pkg/config"
	"mercator-hq/huntquery/pkg/pack"

	"github.com/spf13/cobra"
)

var lintFlags struct {
	file   string
	dir    string
	strict bool
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate hunt pack files",
	Long: `Validate hunt pack files.

The lint command loads each pack and checks:
  - YAML syntax and unknown keys
  - Hunt IDs are present and unique
  - Patterns exist and only accepted parameters are set
  - Parameter values (time windows, thresholds, application names)
  - Severities and cron schedules
  - Every enabled hunt renders with the configured defaults

Examples:
  # Lint single file
  huntquery lint --file hunts.yaml

  # Lint directory
  huntquery lint --dir packs/

  # Strict mode (warnings as errors)
  huntquery lint --dir packs/ --strict

  # JSON output for CI/CD
  huntquery lint --file hunts.yaml --format json`,
	Args: cobra.NoArgs,
	RunE: lintPacks,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "hunt pack file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of hunt pack files")
	lintCmd.Flags().BoolVar(&lintFlags.strict, "strict", false, "treat warnings as errors")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// ValidationResult represents the validation result for a single pack file.
type ValidationResult struct {
	File     string         `json:"file"`
	Pack     string         `json:"pack,omitempty"`
	Hunts    int            `json:"hunts"`
	Valid    bool           `json:"valid"`
	Errors   []pack.Problem `json:"errors,omitempty"`
	Warnings []pack.Problem `json:"warnings,omitempty"`
}

func lintPacks(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string

	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}

	if lintFlags.dir != "" {
		matches, err := pack.Files(lintFlags.dir)
		if err != nil {
			return fmt.Errorf("failed to list hunt pack files: %w", err)
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return fmt.Errorf("no hunt pack files found")
	}

	defaults := config.GetConfig().Defaults
	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		result := validatePackFile(file, defaults)
		logger.Debug("Hunt pack linted", "file", file, "valid", result.Valid)
		results = append(results, result)
	}

	out := cmd.OutOrStdout()
	if lintFlags.format == "json" {
		formatter := &cli.JSONFormatter{Indent: true}
		if err := formatter.FormatTo(out, results); err != nil {
			return err
		}
		return lintOutcome(results, lintFlags.strict)
	}
	return outputText(out, results, lintFlags.strict)
}

func validatePackFile(path string, defaults config.DefaultsConfig) ValidationResult {
	result := ValidationResult{
		File:  path,
		Valid: true,
	}

	p, err := pack.Load(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, pack.Problem{Field: "file", Message: err.Error()})
		return result
	}
	result.Pack = p.Name
	result.Hunts = len(p.Hunts)

	if err := pack.Validate(p); err != nil {
		result.Valid = false

		var verr *pack.ValidationError
		if errors.As(err, &verr) {
			result.Errors = append(result.Errors, verr.Problems...)
		} else {
			result.Errors = append(result.Errors, pack.Problem{Field: "pack", Message: err.Error()})
		}
		return result
	}

	for i, h := range p.Hunts {
		field := fmt.Sprintf("hunts[%d]", i)

		if !h.IsEnabled() {
			result.Warnings = append(result.Warnings, pack.Problem{Field: field, HuntID: h.ID, Message: "hunt is disabled"})
			continue
		}
		if h.Severity == "" {
			result.Warnings = append(result.Warnings, pack.Problem{Field: field + ".severity", HuntID: h.ID, Message: "no severity set"})
		}

		tmpl, err := pack.Template(h, defaults)
		if err == nil {
			_, err = tmpl.Render()
		}
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, pack.Problem{Field: field, HuntID: h.ID, Message: err.Error()})
		}
	}

	return result
}

func outputText(w io.Writer, results []ValidationResult, strict bool) error {
	totalErrors := 0
	totalWarnings := 0

	for _, result := range results {
		fmt.Fprintf(w, "Validating %s...\n", result.File)

		if len(result.Errors) == 0 {
			fmt.Fprintf(w, "✓ Pack %s valid (%d hunts)\n", result.Pack, result.Hunts)
		}

		for _, problem := range result.Errors {
			fmt.Fprintf(w, "✗ Error: %s\n", problem)
			totalErrors++
		}

		for _, problem := range result.Warnings {
			fmt.Fprintf(w, "⚠  Warning: %s\n", problem)
			totalWarnings++
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  %d error(s), %d warning(s)\n", totalErrors, totalWarnings)

	if strict && totalWarnings > 0 {
		fmt.Fprintln(w, "  Strict mode enabled: treating warnings as errors")
	}

	return lintOutcome(results, strict)
}

// lintOutcome returns an error when any pack has errors, or warnings in
// strict mode.
func lintOutcome(results []ValidationResult, strict bool) error {
	for _, result := range results {
		if !result.Valid || (strict && len(result.Warnings) > 0) {
			return cli.NewCommandError("lint", fmt.Errorf("validation failed"))
		}
	}
	return nil
}
