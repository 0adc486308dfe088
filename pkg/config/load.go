package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable override.
const EnvPrefix = "CONVERSE_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML configuration and applies defaults. It does not validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention CONVERSE_SECTION_FIELD (e.g., CONVERSE_CLIENT_MODEL).
// Environment variables always take precedence over file-based configuration.
//
// When optional is true a missing file is not an error: defaults are used
// and environment overrides are still applied.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string, optional bool) (*Config, error) {
	var cfg *Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		cfg, err = Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
		cfg = NewDefault()
	default:
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format CONVERSE_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Client overrides
	if val := getenv("CLIENT_ENDPOINT"); val != "" {
		cfg.Client.Endpoint = val
	}
	if val := getenv("CLIENT_MODEL"); val != "" {
		cfg.Client.Model = val
	}
	if val := getenv("CLIENT_HISTORY_LIMIT"); val != "" {
		if n, err := strconv.ParseUint(val, 10, 32); err == nil {
			cfg.Client.HistoryLimit = uint(n)
		}
	}
	if val := getenv("CLIENT_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Client.Timeout = d
		}
	}

	// Credential overrides
	if val := getenv("CREDENTIALS_ENV_VAR"); val != "" {
		cfg.Credentials.EnvVar = val
	}
	if val := getenv("CREDENTIALS_FILE"); val != "" {
		cfg.Credentials.File = val
	}
	if val := getenv("CREDENTIALS_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Credentials.Watch = b
		}
	}

	// Prompt overrides
	if val := getenv("PROMPTS_SYSTEM"); val != "" {
		cfg.Prompts.System = []string{val}
	}

	// Transcript overrides
	if val := getenv("TRANSCRIPT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Transcript.Enabled = b
		}
	}
	if val := getenv("TRANSCRIPT_PATH"); val != "" {
		cfg.Transcript.Path = val
	}
	if val := getenv("TRANSCRIPT_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Transcript.RetentionDays = i
		}
	}

	// Telemetry overrides
	if val := getenv("TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = strings.ToLower(val)
	}
	if val := getenv("TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = strings.ToLower(val)
	}
	if val := getenv("TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := getenv("TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := getenv("TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := getenv("TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
}

func getenv(name string) string {
	return os.Getenv(EnvPrefix + name)
}
