package transcript

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RetentionConfig contains configuration for the retention pruner.
type RetentionConfig struct {
	// RetentionDays is the number of days to keep entries.
	// Zero or negative keeps entries forever.
	RetentionDays int

	// PruneSchedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string
}

// Pruner deletes transcript entries older than the retention period.
type Pruner struct {
	store   Store
	config  *RetentionConfig
	metrics Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewPruner creates a new retention pruner.
func NewPruner(store Store, config *RetentionConfig) *Pruner {
	if config == nil {
		config = &RetentionConfig{}
	}

	return &Pruner{
		store:   store,
		config:  config,
		metrics: noopMetrics{},
		logger:  slog.Default().With("component", "transcript.retention"),
		now:     time.Now,
	}
}

// WithMetrics sets the metrics sink and returns the pruner.
func (p *Pruner) WithMetrics(m Metrics) *Pruner {
	if m != nil {
		p.metrics = m
	}
	return p
}

// Enabled reports whether the pruner deletes anything.
func (p *Pruner) Enabled() bool {
	return p.config.RetentionDays > 0
}

// Prune deletes entries older than the retention period and returns
// the number of deleted entries.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if !p.Enabled() {
		p.logger.Debug("retention disabled, nothing pruned")
		return 0, nil
	}

	cutoff := p.now().AddDate(0, 0, -p.config.RetentionDays)

	deleted, err := p.store.DeleteBefore(ctx, cutoff)
	p.metrics.RecordTranscriptPrune(deleted, err)
	if err != nil {
		return 0, fmt.Errorf("prune by age failed: %w", err)
	}

	if deleted == 0 {
		p.logger.Debug("no entries pruned",
			"retention_days", p.config.RetentionDays,
		)
	} else {
		p.logger.Info("transcript pruning completed",
			"deleted_count", deleted,
			"retention_days", p.config.RetentionDays,
			"cutoff", cutoff,
		)
	}

	return deleted, nil
}
