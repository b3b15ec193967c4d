package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Output:     "console",
		OutputFile: "",
		Root:       "",
		Ruleset:    "",
		HistoryDB:  "",
	}
}
