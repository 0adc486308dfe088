package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"mercator-hq/converse/pkg/cli"
	"mercator-hq/converse/pkg/telemetry/health"
	"mercator-hq/converse/pkg/transcript"
)

var doctorFlags struct {
	output string
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the credential, endpoint and transcript store",
	Long: `Run readiness checks against everything a conversation depends on and
print one line per check. Exits non-zero if any check fails.

No completion is requested, so the check does not consume tokens.

Examples:
  # Check the default configuration
  converse doctor

  # Machine-readable report
  converse doctor --output json`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().StringVarP(&doctorFlags.output, "output", "o", "text", "output format (text, json, csv)")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(doctorFlags.output)
	if err != nil {
		return err
	}

	// A running chat may already hold the metrics address
	doctorCfg := *cfg
	doctorCfg.Telemetry.Metrics.Enabled = false

	ctx := cmd.Context()

	a, err := newApp(ctx, &doctorCfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	report := a.health.Run(ctx)
	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), reportTable{report}); err != nil {
		return err
	}
	if format == cli.FormatText && a.scheduler != nil {
		fmt.Fprintln(cmd.OutOrStdout(), pruneSummary(a.scheduler))
	}

	if !report.Healthy() {
		failed := 0
		for _, check := range report.Checks {
			if check.Status == health.StatusUnhealthy {
				failed++
			}
		}
		return cli.NewCommandError("doctor", fmt.Errorf("%d of %d checks failed", failed, len(report.Checks)))
	}
	return nil
}

// pruneSummary describes when transcripts are next pruned.
func pruneSummary(s *transcript.Scheduler) string {
	if !s.IsRunning() {
		return "transcript pruning: not scheduled"
	}
	next := s.NextRun()
	if next == nil || next.IsZero() {
		return "transcript pruning: scheduled"
	}
	return "transcript pruning: next run " + next.Local().Format(time.RFC3339)
}

// reportTable renders a health report.
type reportTable struct {
	health.Report
}

func (t reportTable) Headers() []string {
	return []string{"CHECK", "STATUS", "DURATION", "MESSAGE"}
}

func (t reportTable) Rows() [][]string {
	rows := make([][]string, 0, len(t.Checks))
	for _, check := range t.Checks {
		rows = append(rows, []string{
			check.Name,
			check.Status,
			check.Duration.Round(time.Millisecond).String(),
			check.Message,
		})
	}
	return rows
}
