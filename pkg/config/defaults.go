package config

import "time"

// Default values for configuration fields.
const (
	// Client defaults
	DefaultEndpoint            = "https://api.openai.com/v1/chat/completions"
	DefaultModel               = "gpt-4o-mini"
	DefaultTimeout             = 2 * time.Minute
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 90 * time.Second

	// Credential defaults
	DefaultCredentialEnvVar = "OPENAI_API_KEY"

	// Transcript defaults
	DefaultTranscriptPath          = "converse.db"
	DefaultTranscriptRetentionDays = 30
	DefaultTranscriptPruneSchedule = "0 3 * * *"

	// Telemetry defaults
	DefaultLogLevel             = "info"
	DefaultLogFormat            = "console"
	DefaultMetricsListenAddress = "127.0.0.1:9090"
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsNamespace     = "converse"
	DefaultTracingEndpoint      = "localhost:4317"
	DefaultTracingSampler       = "always"
	DefaultTracingServiceName   = "converse"
	DefaultTracingTimeout       = 10 * time.Second
)

// HealthPath is where the metrics listener serves the readiness report.
const HealthPath = "/healthz"

// DefaultHistoryLimit bounds the chat window when no limit is configured.
const DefaultHistoryLimit uint = 30

// DefaultDurationBuckets are tuned for chat completion latencies (100ms - 60s).
var DefaultDurationBuckets = []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0}

// NewDefault returns a configuration with every default applied.
func NewDefault() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every unset field of cfg with its default value.
func ApplyDefaults(cfg *Config) {
	// Client defaults
	if cfg.Client.Endpoint == "" {
		cfg.Client.Endpoint = DefaultEndpoint
	}
	if cfg.Client.Model == "" {
		cfg.Client.Model = DefaultModel
	}
	if cfg.Client.HistoryLimit == 0 {
		cfg.Client.HistoryLimit = DefaultHistoryLimit
	}
	if cfg.Client.Timeout == 0 {
		cfg.Client.Timeout = DefaultTimeout
	}
	if cfg.Client.MaxIdleConns == 0 {
		cfg.Client.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.Client.MaxIdleConnsPerHost == 0 {
		cfg.Client.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}
	if cfg.Client.IdleConnTimeout == 0 {
		cfg.Client.IdleConnTimeout = DefaultIdleConnTimeout
	}

	// Credential defaults
	if cfg.Credentials.EnvVar == "" {
		cfg.Credentials.EnvVar = DefaultCredentialEnvVar
	}

	// Transcript defaults
	if cfg.Transcript.Path == "" {
		cfg.Transcript.Path = DefaultTranscriptPath
	}
	if cfg.Transcript.RetentionDays == 0 {
		cfg.Transcript.RetentionDays = DefaultTranscriptRetentionDays
	}
	if cfg.Transcript.PruneSchedule == "" {
		cfg.Transcript.PruneSchedule = DefaultTranscriptPruneSchedule
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
}
