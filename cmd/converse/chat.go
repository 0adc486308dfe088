package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"mercator-hq/converse/pkg/cli"
	"mercator-hq/converse/pkg/config"
	"mercator-hq/converse/pkg/conversation"
	"mercator-hq/converse/pkg/telemetry/logging"
)

// maxLineSize bounds a single line of user input.
const maxLineSize = 1024 * 1024

// clientFlags are the conversation overrides shared by chat and ask.
type clientFlags struct {
	system       []string
	model        string
	historyLimit uint
}

func addClientFlags(cmd *cobra.Command, f *clientFlags) {
	cmd.Flags().StringArrayVarP(&f.system, "system", "s", nil, "system prompt (repeatable, replaces configured prompts)")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "override model")
	cmd.Flags().UintVar(&f.historyLimit, "history-limit", 0, "override history limit")
}

// applyClientFlags copies explicitly set flags over the configuration.
func applyClientFlags(cmd *cobra.Command, f *clientFlags, cfg *config.Config) {
	if cmd.Flags().Changed("system") {
		cfg.Prompts.System = f.system
	}
	if cmd.Flags().Changed("model") && strings.TrimSpace(f.model) != "" {
		cfg.Client.Model = strings.TrimSpace(f.model)
	}
	if cmd.Flags().Changed("history-limit") {
		cfg.Client.HistoryLimit = f.historyLimit
	}
}

var chatFlags struct {
	clientFlags
	resume string
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start an interactive conversation on stdin.

Each line is sent as a user message together with the system prompts and
the recent history. The reply is printed and kept in the history. A failed
turn is reported on stderr and the session continues. Type /exit or press Ctrl-D to quit.

Examples:
  # Start with the configured prompts
  converse chat

  # Use a different model and a custom system prompt
  converse chat --model gpt-4o --system "You are a terse assistant."

  # Continue a recorded session
  converse chat --resume 1b4e28ba-2fa1-11d2-883f-0016d3cca427`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	addClientFlags(chatCmd, &chatFlags.clientFlags)
	chatCmd.Flags().StringVarP(&chatFlags.resume, "resume", "r", "", "resume a recorded session by id")
}

func runChat(cmd *cobra.Command, args []string) error {
	applyClientFlags(cmd, &chatFlags.clientFlags, cfg)

	ctx := logging.WithCommand(cmd.Context(), "chat")

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	client := a.newClient()

	if chatFlags.resume != "" {
		n, err := a.resume(ctx, client, chatFlags.resume)
		if err != nil {
			return err
		}
		logger.InfoContext(logging.WithSession(ctx, client.SessionID()), "session resumed",
			"replayed", n,
			"window", len(client.ChatMessages()),
		)
	}

	ctx = logging.WithSession(ctx, client.SessionID())

	r := &repl{
		client: client,
		in:     cmd.InOrStdin(),
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		refresh: func(ctx context.Context) error {
			return a.refreshCredential(ctx, client)
		},
	}
	if cli.IsInteractive() {
		r.prompt = lipgloss.NewRenderer(r.out).NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Render("> ")
	}

	return r.run(ctx)
}

// repl reads user turns line by line and prints each reply.
type repl struct {
	client *conversation.Client
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// prompt is printed before each read (empty when not interactive)
	prompt string

	// refresh runs before every completion (may be nil)
	refresh func(ctx context.Context) error
}

// run loops until input ends, /exit is typed or ctx is done.
func (r *repl) run(ctx context.Context) error {
	lines, scanErr := r.readLines(ctx)

	for {
		fmt.Fprint(r.out, r.prompt)

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			return <-scanErr
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		}

		r.client.PushUserMessage(line)
		r.turn(ctx)
		if ctx.Err() != nil {
			return nil
		}
	}
}

// turn completes the current history and records the reply. A failed
// completion has already been logged by the client, so only a failed
// refresh is printed here.
func (r *repl) turn(ctx context.Context) {
	if r.refresh != nil {
		if err := r.refresh(ctx); err != nil {
			if ctx.Err() == nil {
				cli.PrintError(r.errOut, err)
			}
			return
		}
	}

	reply, err := r.client.Completion(ctx)
	if err != nil {
		return
	}

	fmt.Fprintln(r.out, reply)
	r.client.PushAssistantMessage(reply)
}

// readLines scans input on its own goroutine so a blocked read does not
// keep the loop from noticing cancellation.
func (r *repl) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(r.in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		scanErr <- scanner.Err()
		close(lines)
	}()

	return lines, scanErr
}
