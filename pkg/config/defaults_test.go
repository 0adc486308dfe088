package config

import "testing"

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()

	if cfg.Client.Endpoint != DefaultEndpoint {
		t.Errorf("expected endpoint %q, got %q", DefaultEndpoint, cfg.Client.Endpoint)
	}
	if cfg.Client.Model != "gpt-4o-mini" {
		t.Errorf("expected model %q, got %q", "gpt-4o-mini", cfg.Client.Model)
	}
	if cfg.Client.HistoryLimit != 30 {
		t.Errorf("expected history limit 30, got %d", cfg.Client.HistoryLimit)
	}
	if cfg.Credentials.EnvVar != "OPENAI_API_KEY" {
		t.Errorf("expected credential env var OPENAI_API_KEY, got %q", cfg.Credentials.EnvVar)
	}
	if cfg.Transcript.Enabled {
		t.Error("expected transcripts to be disabled by default")
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics to be disabled by default")
	}
	if cfg.Telemetry.Logging.DisableRedaction {
		t.Error("expected redaction to be enabled by default")
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Client:     ClientConfig{Model: "gpt-4o", HistoryLimit: 3},
		Transcript: TranscriptConfig{RetentionDays: -1},
	}
	ApplyDefaults(cfg)

	if cfg.Client.Model != "gpt-4o" {
		t.Errorf("expected model to be preserved, got %q", cfg.Client.Model)
	}
	if cfg.Client.HistoryLimit != 3 {
		t.Errorf("expected history limit to be preserved, got %d", cfg.Client.HistoryLimit)
	}
	if cfg.Transcript.RetentionDays != -1 {
		t.Errorf("expected negative retention to be preserved, got %d", cfg.Transcript.RetentionDays)
	}
}

func TestApplyDefaults_BucketsAreCopied(t *testing.T) {
	cfg := NewDefault()
	cfg.Telemetry.Metrics.DurationBuckets[0] = 42

	if DefaultDurationBuckets[0] == 42 {
		t.Error("modifying config buckets must not change DefaultDurationBuckets")
	}
}
