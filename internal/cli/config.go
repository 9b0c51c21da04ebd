package cli

// Config represents the configuration for the interactive client
type Config struct {
	// Number of history entries shown by the history command
	HistoryLimit int
	// Directory session summary exports are written to
	ExportDir string
}

// DefaultConfig returns the default client configuration
func DefaultConfig() *Config {
	return &Config{
		HistoryLimit: 10,
		ExportDir:    "exports",
	}
}
