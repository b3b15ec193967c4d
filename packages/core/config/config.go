package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config represents the cicheck configuration
type Config struct {
	Output     string `json:"output,omitempty"`     // console, json, junit, tap
	OutputFile string `json:"outputFile,omitempty"` // write report here instead of stdout
	Root       string `json:"root,omitempty"`       // base directory for target paths
	Ruleset    string `json:"ruleset,omitempty"`    // default ruleset file
	HistoryDB  string `json:"historyDb,omitempty"`  // sqlite file for run history
	NoColor    *bool  `json:"noColor,omitempty"`
	Quiet      *bool  `json:"quiet,omitempty"`
	Verbose    *bool  `json:"verbose,omitempty"`
	Bail       *bool  `json:"bail,omitempty"`
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetQuiet returns the quiet setting, defaulting to false
func (c *Config) GetQuiet() bool {
	return getBool(c.Quiet, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetBail returns the bail setting, defaulting to false
func (c *Config) GetBail() bool {
	return getBool(c.Bail, false)
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".cicheck.config.json",
	"cicheck.config.json",
	".cicheckrc",
	".cicheckrc.json",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.Output != "" {
		result.Output = other.Output
	}
	if other.OutputFile != "" {
		result.OutputFile = other.OutputFile
	}
	if other.Root != "" {
		result.Root = other.Root
	}
	if other.Ruleset != "" {
		result.Ruleset = other.Ruleset
	}
	if other.HistoryDB != "" {
		result.HistoryDB = other.HistoryDB
	}

	// Boolean flags - only override if explicitly set in other config
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}
	if other.Quiet != nil {
		result.Quiet = other.Quiet
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.Bail != nil {
		result.Bail = other.Bail
	}

	return &result
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
