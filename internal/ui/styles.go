// Package ui draws shift charts in the terminal, either as a static
// lipgloss rendering or inside an interactive bubbletea viewer.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light Mode Colors (Default)
	LightForeground = lipgloss.Color("#101F38") // Dark Blue
	LightPrimary    = lipgloss.Color("#01388f")
	LightMuted      = lipgloss.Color("#8a94a6")
	LightGuide      = lipgloss.Color("#d6dae0")

	// Dark Mode Colors
	DarkForeground = lipgloss.Color("#f2f2f2")
	DarkPrimary    = lipgloss.Color("#8BC34A") // Lime Green
	DarkMuted      = lipgloss.Color("#6b7a90")
	DarkGuide      = lipgloss.Color("#2a3850")

	// Bar colours when none are configured
	DefaultBarColor   = lipgloss.Color("#01388f")
	DefaultLabelColor = lipgloss.Color("#ffffff")
)

// Theme holds the current color scheme
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Guide      lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Muted:      LightMuted,
		Guide:      LightGuide,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Muted:      DarkMuted,
		Guide:      DarkGuide,
		IsDark:     true,
	}
}

// DetectTheme auto-detects based on terminal or returns light mode
func DetectTheme() Theme {
	// Format is usually "foreground;background"
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		// 0-6 and 8 (dark grey) are likely dark backgrounds
		if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
			if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
				return DarkTheme()
			}
		}
	}

	if os.Getenv("GANTT_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// ThemeFor resolves a configured theme name ("auto", "light" or "dark").
func ThemeFor(name string) Theme {
	switch strings.ToLower(name) {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	default:
		return DetectTheme()
	}
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	Title  lipgloss.Style
	Name   lipgloss.Style
	Bar    lipgloss.Style
	Guide  lipgloss.Style
	Axis   lipgloss.Style
	Tick   lipgloss.Style
	XLabel lipgloss.Style
	Help   lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Name: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Bar: lipgloss.NewStyle().
			Background(DefaultBarColor).
			Foreground(DefaultLabelColor),

		Guide: lipgloss.NewStyle().
			Foreground(theme.Guide),

		Axis: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Tick: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		XLabel: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),
	}
}

// WithBarColors returns a copy whose bars use the given hex colours. Empty
// values keep the current colour.
func (s Styles) WithBarColors(bar, label string) Styles {
	if bar != "" {
		s.Bar = s.Bar.Background(lipgloss.Color(normalizeHex(bar)))
	}
	if label != "" {
		s.Bar = s.Bar.Foreground(lipgloss.Color(normalizeHex(label)))
	}
	return s
}

// normalizeHex adds the leading '#' lipgloss expects for hex colours.
func normalizeHex(c string) string {
	c = strings.TrimSpace(c)
	if !strings.HasPrefix(c, "#") {
		c = "#" + c
	}
	return c
}

// DefaultStyles uses the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}
