package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"mercator-hq/converse/pkg/cli"
	"mercator-hq/converse/pkg/transcript"
)

const (
	timeLayout    = "2006-01-02 15:04:05"
	previewLength = 48
	noTranscripts = "no transcripts recorded"
)

var historyFlags struct {
	output string
	prune  bool
}

var historyCmd = &cobra.Command{
	Use:   "history [session]",
	Short: "List recorded sessions or print one transcript",
	Long: `List recorded sessions, most recent first, or print the transcript of one session.

Examples:
  # List sessions
  converse history

  # Print one session as JSON
  converse history 1b4e28ba-2fa1-11d2-883f-0016d3cca427 --output json

  # Apply the retention policy now
  converse history --prune`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVarP(&historyFlags.output, "output", "o", "text", "output format (text, json, csv)")
	historyCmd.Flags().BoolVar(&historyFlags.prune, "prune", false, "delete entries older than the retention period")
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(historyFlags.output)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	// Reading history must not create an empty database
	if _, err := os.Stat(cfg.Transcript.Path); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(out, noTranscripts)
		return nil
	}

	storeConfig := transcript.DefaultSQLiteConfig()
	storeConfig.Path = cfg.Transcript.Path

	store, err := transcript.NewSQLiteStore(storeConfig)
	if err != nil {
		return fmt.Errorf("failed to open transcript store: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()

	if historyFlags.prune {
		pruner := transcript.NewPruner(store, &transcript.RetentionConfig{
			RetentionDays: cfg.Transcript.RetentionDays,
		})
		if !pruner.Enabled() {
			fmt.Fprintln(out, "retention is disabled, nothing pruned")
			return nil
		}

		deleted, err := pruner.Prune(ctx)
		if err != nil {
			return cli.NewCommandError("history", err)
		}
		fmt.Fprintf(out, "pruned %d entries older than %d days\n", deleted, cfg.Transcript.RetentionDays)
		return nil
	}

	formatter := cli.NewFormatter(format)

	if len(args) == 1 {
		entries, err := store.Session(ctx, args[0])
		if err != nil {
			return cli.NewCommandError("history", err)
		}
		return formatter.FormatTo(out, entryTable(entries))
	}

	sessions, err := store.Sessions(ctx)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	if len(sessions) == 0 && format == cli.FormatText {
		fmt.Fprintln(out, noTranscripts)
		return nil
	}
	return formatter.FormatTo(out, sessionTable(sessions))
}

// sessionTable renders session summaries.
type sessionTable []transcript.SessionSummary

func (t sessionTable) Headers() []string {
	return []string{"SESSION", "ENTRIES", "FIRST", "LAST", "PREVIEW"}
}

func (t sessionTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, s := range t {
		rows = append(rows, []string{
			s.SessionID,
			strconv.Itoa(s.Entries),
			formatTime(s.FirstAt),
			formatTime(s.LastAt),
			truncate(s.Preview, previewLength),
		})
	}
	return rows
}

// entryTable renders the entries of one session.
type entryTable []transcript.Entry

func (t entryTable) Headers() []string {
	return []string{"TIME", "ROLE", "MODEL", "CONTENT"}
}

func (t entryTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, e := range t {
		rows = append(rows, []string{
			formatTime(e.CreatedAt),
			e.Role,
			e.Model,
			e.Content,
		})
	}
	return rows
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(timeLayout)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
