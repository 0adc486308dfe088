/*
Package cli provides command-line interface utilities for the converse command.

Output Formatting:

Command results can be written as text, JSON or CSV. Results that implement
Tabular are rendered as a table in text mode and as rows in CSV mode:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, sessions); err != nil {
		return err
	}

Errors are printed as a single red line:

	cli.PrintError(os.Stderr, err)

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
