package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for a config file when --config is not given.
const DefaultPath = ".gantt.yaml"

// Chart text used when neither the config file nor flags set one.
const (
	DefaultTitle  = "Gantt Chart For Shifts"
	DefaultXLabel = "time(Day)"
)

// Config holds all gantt configuration.
type Config struct {
	// Chart text and colours
	Chart ChartConfig `yaml:"chart"`

	// Image output
	Output OutputConfig `yaml:"output"`

	// Terminal display
	Display DisplayConfig `yaml:"display"`

	// File watching
	Watch WatchConfig `yaml:"watch"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ChartConfig configures the chart's text and colours.
type ChartConfig struct {
	Title      string `yaml:"title"`
	XLabel     string `yaml:"x_label"`
	BarColor   string `yaml:"bar_color"`   // hex, e.g. #01388f
	LabelColor string `yaml:"label_color"` // hex, text drawn on bars
}

// OutputConfig configures image rendering.
type OutputConfig struct {
	Path   string  `yaml:"path"`   // .png or .svg
	Width  int     `yaml:"width"`  // pixels
	Height int     `yaml:"height"` // pixels, 0 = sized to the number of shifts
	DPI    float64 `yaml:"dpi"`

	// FontFile is an optional TrueType font used for all chart text.
	FontFile string `yaml:"font_file"`
}

// DisplayConfig configures terminal output.
type DisplayConfig struct {
	Width       int    `yaml:"width"` // columns, 0 = terminal width
	Theme       string `yaml:"theme"` // auto, light, dark
	Interactive bool   `yaml:"interactive"`
}

// WatchConfig configures the data file watcher.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Chart: ChartConfig{
			Title:      DefaultTitle,
			XLabel:     DefaultXLabel,
			BarColor:   "#01388f",
			LabelColor: "#ffffff",
		},

		Output: OutputConfig{
			Path:  filepath.Join("img", "GANTT.png"),
			Width: 1200,
			DPI:   96,
		},

		Display: DisplayConfig{
			Theme:       "auto",
			Interactive: true,
		},

		Watch: WatchConfig{
			Debounce: "300ms",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. A .env file in the config's directory is loaded before
// environment overrides are applied; variables already set in the
// environment take precedence over it.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	envFile := filepath.Join(filepath.Dir(path), ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GANTT_TITLE"); v != "" {
		c.Chart.Title = v
	}
	if v := os.Getenv("GANTT_OUTPUT"); v != "" {
		c.Output.Path = v
	}
	if v := os.Getenv("GANTT_FONT_FILE"); v != "" {
		c.Output.FontFile = v
	}
	if v := os.Getenv("GANTT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("GANTT_THEME"); v != "" {
		c.Display.Theme = v
	}
	if v := os.Getenv("GANTT_INTERACTIVE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Display.Interactive = b
		}
	}
}

// GetWatchDebounce returns the watch debounce as a duration.
func (c *Config) GetWatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 300 * time.Millisecond
	}
	return d
}

// ValidThemes lists the accepted display themes.
var ValidThemes = []string{"auto", "light", "dark"}

var hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !hexColor.MatchString(c.Chart.BarColor) {
		return fmt.Errorf("invalid chart.bar_color %q (want hex like #01388f)", c.Chart.BarColor)
	}
	if !hexColor.MatchString(c.Chart.LabelColor) {
		return fmt.Errorf("invalid chart.label_color %q (want hex like #ffffff)", c.Chart.LabelColor)
	}

	switch ext := filepath.Ext(c.Output.Path); ext {
	case ".png", ".svg":
	default:
		return fmt.Errorf("unsupported output.path extension %q (valid: .png, .svg)", ext)
	}
	if c.Output.Width <= 0 {
		return fmt.Errorf("output.width must be positive, got %d", c.Output.Width)
	}
	if c.Output.Height < 0 {
		return fmt.Errorf("output.height must not be negative, got %d", c.Output.Height)
	}
	if c.Output.DPI <= 0 {
		return fmt.Errorf("output.dpi must be positive, got %v", c.Output.DPI)
	}

	validTheme := false
	for _, t := range ValidThemes {
		if c.Display.Theme == t {
			validTheme = true
			break
		}
	}
	if !validTheme {
		return fmt.Errorf("invalid display.theme: %s (valid: %v)", c.Display.Theme, ValidThemes)
	}
	if c.Display.Width < 0 {
		return fmt.Errorf("display.width must not be negative, got %d", c.Display.Width)
	}

	return nil
}
