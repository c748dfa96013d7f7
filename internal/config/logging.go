package config

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`                // debug, info, warn, error
	Format     string          `yaml:"format"`               // console, json
	File       string          `yaml:"file,omitempty"`       // empty = stderr
	Categories map[string]bool `yaml:"categories,omitempty"` // per-category toggles
}
