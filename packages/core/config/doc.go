// Package config handles configuration loading and management for cicheck.
//
// It provides functionality for:
//   - Loading configuration from .cicheck.config.json files
//   - Default configuration values
//   - Merging file configuration with CLI overrides
package config
