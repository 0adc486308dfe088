// Package config provides configuration management for converse.
//
// This package handles loading and validating configuration from YAML files
// with environment variable overrides. Every field has a default, so an empty
// file (or no file at all) is a valid configuration.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("converse.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("converse.yaml", true)
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention CONVERSE_SECTION_FIELD.
// For example:
//
//   - CONVERSE_CLIENT_MODEL overrides client.model
//   - CONVERSE_CLIENT_HISTORY_LIMIT overrides client.history_limit
//   - CONVERSE_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// The API credential itself is never stored in the configuration file.
// credentials.env_var and credentials.file name where it is read from.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Validation
//
// Validation errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - client.endpoint: invalid endpoint "api": must be an absolute URL
//	  - telemetry.logging.level: invalid logging level "loud": must be 'debug', 'info', 'warn', or 'error'
//
// # Example Configuration
//
//	client:
//	  model: "gpt-4o-mini"
//	  history_limit: 30
//
//	credentials:
//	  file: "~/.config/converse/key"
//	  watch: true
//
//	prompts:
//	  system:
//	    - "You are a helpful assistant."
//
//	transcript:
//	  enabled: true
//	  path: "./converse.db"
//	  retention_days: 30
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "console"
//	  tracing:
//	    enabled: true
//	    endpoint: "localhost:4317"
//	    insecure: true
package config
