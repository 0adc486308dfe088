package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
client:
  endpoint: "http://localhost:8080/v1/chat/completions"
  model: "gpt-4o"
  history_limit: 12
  timeout: "45s"

credentials:
  env_var: "MY_KEY"

prompts:
  system:
    - "You are terse."
    - "Answer in English."

transcript:
  enabled: true
  path: "./chat.db"
  retention_days: 7

telemetry:
  logging:
    level: "debug"
    format: "json"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Client.Endpoint != "http://localhost:8080/v1/chat/completions" {
		t.Errorf("unexpected endpoint %q", cfg.Client.Endpoint)
	}
	if cfg.Client.Model != "gpt-4o" {
		t.Errorf("expected model %q, got %q", "gpt-4o", cfg.Client.Model)
	}
	if cfg.Client.HistoryLimit != 12 {
		t.Errorf("expected history limit 12, got %d", cfg.Client.HistoryLimit)
	}
	if cfg.Client.Timeout != 45*time.Second {
		t.Errorf("expected timeout %v, got %v", 45*time.Second, cfg.Client.Timeout)
	}
	if cfg.Credentials.EnvVar != "MY_KEY" {
		t.Errorf("expected env var MY_KEY, got %q", cfg.Credentials.EnvVar)
	}
	if len(cfg.Prompts.System) != 2 || cfg.Prompts.System[1] != "Answer in English." {
		t.Errorf("unexpected system prompts %v", cfg.Prompts.System)
	}
	if !cfg.Transcript.Enabled || cfg.Transcript.RetentionDays != 7 {
		t.Errorf("unexpected transcript config %+v", cfg.Transcript)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected logging level %q, got %q", "debug", cfg.Telemetry.Logging.Level)
	}

	// Defaults still apply to unset fields
	if cfg.Client.MaxIdleConns != DefaultMaxIdleConns {
		t.Errorf("expected default max idle conns, got %d", cfg.Client.MaxIdleConns)
	}
	if cfg.Transcript.PruneSchedule != DefaultTranscriptPruneSchedule {
		t.Errorf("expected default prune schedule, got %q", cfg.Transcript.PruneSchedule)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read configuration file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("client: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "failed to parse configuration file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
client:
  endpoint: "not a url"
telemetry:
  logging:
    level: "loud"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err := LoadConfig(configPath)

	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if len(validationErr.Errors) != 2 {
		t.Errorf("expected 2 field errors, got %d: %v", len(validationErr.Errors), validationErr.Errors)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
client:
  model: "gpt-4o"
  history_limit: 10
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("CONVERSE_CLIENT_MODEL", "gpt-4.1")
	t.Setenv("CONVERSE_CLIENT_HISTORY_LIMIT", "4")
	t.Setenv("CONVERSE_CLIENT_TIMEOUT", "10s")
	t.Setenv("CONVERSE_TRANSCRIPT_ENABLED", "true")
	t.Setenv("CONVERSE_TELEMETRY_LOGGING_LEVEL", "WARN")
	t.Setenv("CONVERSE_PROMPTS_SYSTEM", "from env")
	t.Setenv("CONVERSE_TELEMETRY_TRACING_ENABLED", "true")
	t.Setenv("CONVERSE_TELEMETRY_TRACING_ENDPOINT", "otel:4317")

	cfg, err := LoadConfigWithEnvOverrides(configPath, false)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Client.Model != "gpt-4.1" {
		t.Errorf("expected model override, got %q", cfg.Client.Model)
	}
	if cfg.Client.HistoryLimit != 4 {
		t.Errorf("expected history limit override 4, got %d", cfg.Client.HistoryLimit)
	}
	if cfg.Client.Timeout != 10*time.Second {
		t.Errorf("expected timeout override, got %v", cfg.Client.Timeout)
	}
	if !cfg.Transcript.Enabled {
		t.Error("expected transcript override")
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("expected level override to be lower-cased, got %q", cfg.Telemetry.Logging.Level)
	}
	if len(cfg.Prompts.System) != 1 || cfg.Prompts.System[0] != "from env" {
		t.Errorf("expected system prompt override, got %v", cfg.Prompts.System)
	}
	if !cfg.Telemetry.Tracing.Enabled || cfg.Telemetry.Tracing.Endpoint != "otel:4317" {
		t.Errorf("expected tracing overrides, got %+v", cfg.Telemetry.Tracing)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("CONVERSE_CLIENT_HISTORY_LIMIT", "-3")
	t.Setenv("CONVERSE_CLIENT_TIMEOUT", "soon")

	cfg, err := LoadConfigWithEnvOverrides(filepath.Join(t.TempDir(), "absent.yaml"), true)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Client.HistoryLimit != DefaultHistoryLimit {
		t.Errorf("expected default history limit, got %d", cfg.Client.HistoryLimit)
	}
	if cfg.Client.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", cfg.Client.Timeout)
	}
}

func TestLoadConfigWithEnvOverrides_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	t.Run("optional", func(t *testing.T) {
		cfg, err := LoadConfigWithEnvOverrides(missing, true)
		if err != nil {
			t.Fatalf("expected defaults for optional missing file, got %v", err)
		}
		if cfg.Client.Model != DefaultModel {
			t.Errorf("expected default model, got %q", cfg.Client.Model)
		}
	})

	t.Run("required", func(t *testing.T) {
		if _, err := LoadConfigWithEnvOverrides(missing, false); err == nil {
			t.Fatal("expected error for required missing file")
		}
	})
}
