package ui

import (
	"fmt"
	"math"
	"strings"

	"shiftgantt/internal/gantt"

	"github.com/charmbracelet/glamour"
)

// Summary returns the chart as a markdown table, one row per shift in
// chart order.
func Summary(c *gantt.Chart) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", c.Title))
	sb.WriteString("| Row | Shift | Start | End | Duration | Overnight | Legend | Milestones |\n")
	sb.WriteString("|----:|-------|------:|----:|---------:|:---------:|--------|-----------:|\n")

	total := 0.0
	for _, b := range c.Bars {
		overnight := "no"
		if b.Wraps {
			overnight = "yes"
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s | %d |\n",
			b.Row,
			escapeCell(b.Name),
			b.Shift.Start,
			b.Shift.End,
			FormatHours(b.Duration),
			overnight,
			escapeCell(b.Legend),
			len(b.Shift.Milestones),
		))
		total += b.Duration
	}

	sb.WriteString("\n")
	if len(c.Ticks) > 0 {
		first, last := c.Ticks[0], c.Ticks[len(c.Ticks)-1]
		sb.WriteString(fmt.Sprintf("Axis: %s to %s (%d ticks). ", first.Label, last.Label, len(c.Ticks)))
	}
	sb.WriteString(fmt.Sprintf("Total: %s across %d shifts.\n", FormatHours(total), len(c.Bars)))
	return sb.String()
}

// RenderSummary renders the summary with glamour. When plain is set the
// markdown is returned as is.
func RenderSummary(c *gantt.Chart, width int, theme Theme, plain bool) (string, error) {
	md := Summary(c)
	if plain {
		return md, nil
	}
	if width <= 0 {
		width = defaultWidth
	}

	style := "light"
	if theme.IsDark {
		style = "dark"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("summary renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}
	return out, nil
}

// FormatHours formats fractional hours as h:mm.
func FormatHours(h float64) string {
	mins := int(math.Round(h * 60))
	return fmt.Sprintf("%d:%02d", mins/60, mins%60)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
