package config

import "time"

// Config is the root configuration structure for converse.
// It contains the conversation client settings, credential sources, default
// prompts, transcript storage and telemetry.
type Config struct {
	// Client contains the chat completion client and HTTP pool settings.
	Client ClientConfig `yaml:"client"`

	// Credentials describes where the API credential is read from.
	Credentials CredentialsConfig `yaml:"credentials"`

	// Prompts contains the system prompts pushed at the start of every session.
	Prompts PromptsConfig `yaml:"prompts"`

	// Transcript contains configuration for the SQLite transcript store.
	Transcript TranscriptConfig `yaml:"transcript"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ClientConfig contains configuration for the conversation client.
type ClientConfig struct {
	// Endpoint is the chat completions URL.
	// Default: "https://api.openai.com/v1/chat/completions"
	Endpoint string `yaml:"endpoint"`

	// Model is the model identifier sent with each request.
	// Default: "gpt-4o-mini"
	Model string `yaml:"model"`

	// HistoryLimit bounds the user/assistant sliding window.
	// System prompts are not counted.
	// Default: 30
	HistoryLimit uint `yaml:"history_limit"`

	// Timeout is the overall HTTP request timeout.
	// Default: 2m
	Timeout time.Duration `yaml:"timeout"`

	// MaxIdleConns is the maximum number of idle connections in the pool.
	// Default: 100
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost is the maximum idle connections per host.
	// Default: 10
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout is how long an idle connection remains in the pool.
	// Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// CredentialsConfig describes the credential sources.
// When File is set it takes precedence over EnvVar.
type CredentialsConfig struct {
	// EnvVar is the environment variable holding the API key.
	// Default: "OPENAI_API_KEY"
	EnvVar string `yaml:"env_var"`

	// File is a path to a file containing the API key (0600 or 0400).
	File string `yaml:"file"`

	// Watch reloads the credential file when it changes.
	Watch bool `yaml:"watch"`
}

// PromptsConfig contains default prompts.
type PromptsConfig struct {
	// System is the list of system prompts, pushed in order.
	System []string `yaml:"system"`
}

// TranscriptConfig contains configuration for the transcript store.
type TranscriptConfig struct {
	// Enabled turns transcript recording on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file path.
	// Default: "converse.db"
	Path string `yaml:"path"`

	// RetentionDays is how long transcript entries are kept.
	// A negative value keeps entries forever.
	// Default: 30
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a standard cron expression for pruning runs.
	// Pruning never runs when RetentionDays is negative.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn" or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json", "text" or "console".
	// Default: "console"
	Format string `yaml:"format"`

	// AddSource includes file and line number in logs.
	AddSource bool `yaml:"add_source"`

	// DisableRedaction turns off masking of credentials in log fields.
	DisableRedaction bool `yaml:"disable_redaction"`

	// RedactPatterns adds custom redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern is a custom log redaction rule.
type RedactPattern struct {
	// Name identifies the pattern.
	Name string `yaml:"name"`

	// Pattern is a Go regular expression.
	Pattern string `yaml:"pattern"`

	// Replacement is the replacement text (may reference groups).
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled turns metrics collection and the metrics listener on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is where the metrics endpoint is served.
	// Default: "127.0.0.1:9090"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path of the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the Prometheus metric namespace.
	// Default: "converse"
	Namespace string `yaml:"namespace"`

	// Subsystem is the Prometheus metric subsystem.
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets are the histogram buckets for completion latency in seconds.
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains OpenTelemetry tracing configuration. Each
// completion call becomes one span exported over OTLP/gRPC.
type TracingConfig struct {
	// Enabled turns span export on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP collector address (host:port).
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	Insecure bool `yaml:"insecure"`

	// Sampler is the sampling strategy: "always", "never" or "ratio".
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces kept when Sampler is "ratio".
	SampleRatio float64 `yaml:"sample_ratio"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: "converse"
	ServiceName string `yaml:"service_name"`

	// Timeout bounds each export to the collector.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
