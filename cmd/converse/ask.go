package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"mercator-hq/converse/pkg/cli"
	"mercator-hq/converse/pkg/providers"
	"mercator-hq/converse/pkg/telemetry/logging"
	"mercator-hq/converse/pkg/telemetry/tracing"
)

var askFlags clientFlags

var askCmd = &cobra.Command{
	Use:   "ask <prompt...>",
	Short: "Ask a single question and print the reply",
	Long: `Send one user message with the configured system prompts and print the reply.

Use "-" as the only argument to read the prompt from stdin.

Examples:
  converse ask "Explain Go interfaces in one paragraph"
  git diff | converse ask --system "Review this patch." -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	addClientFlags(askCmd, &askFlags)
}

func runAsk(cmd *cobra.Command, args []string) error {
	applyClientFlags(cmd, &askFlags, cfg)

	prompt := strings.Join(args, " ")
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read prompt from stdin: %w", err)
		}
		prompt = string(data)
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return cli.NewUsageError("prompt is empty")
	}

	ctx := logging.WithCommand(cmd.Context(), "ask")

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, span := a.tracer.Start(ctx, "converse.ask")
	defer span.End()

	client := a.newClient()
	client.PushUserMessage(prompt)
	ctx = logging.WithSession(ctx, client.SessionID())

	if err := a.refreshCredential(ctx, client); err != nil {
		return err
	}

	reply, err := client.Completion(ctx)
	if err != nil {
		tracing.SetError(span, err, providers.ErrorKind(err))
		return cli.NewCommandError("ask", err)
	}

	if a.tracer.Enabled() {
		logger.DebugContext(ctx, "ask completed", "trace_id", tracing.TraceID(ctx))
	}

	fmt.Fprintln(cmd.OutOrStdout(), reply)
	return nil
}
