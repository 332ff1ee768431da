/*
Package cli provides command-line interface utilities for huntquery.

The cli package includes output formatters, error types and signal handling
used by the huntquery command.

Output Formatting:

Command results can be printed as text, JSON or CSV:

	formatter, err := cli.NewFormatter(cli.FormatJSON)
	if err != nil {
		return err
	}
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Values implementing TextRenderer control their own text output, and values
implementing Tabular can be written as CSV.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
