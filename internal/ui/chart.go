package ui

import (
	"math"
	"strings"

	"shiftgantt/internal/gantt"

	"github.com/mattn/go-runewidth"
)

const (
	defaultWidth  = 100
	minTrackWidth = 12
	maxNameWidth  = 24
)

// RenderChart draws the chart as text, width columns wide. A width of zero
// or less uses a default of 100.
func RenderChart(c *gantt.Chart, width int, styles Styles) string {
	if width <= 0 {
		width = defaultWidth
	}

	nameW := 0
	for _, b := range c.Bars {
		nameW = max(nameW, runewidth.StringWidth(b.Name))
	}
	nameW = min(nameW, maxNameWidth)
	// name, space, left border
	trackW := max(minTrackWidth, width-nameW-2)

	xmin, xmax := c.XRange()
	col := func(v float64) int {
		x := int(math.Round((v - xmin) / (xmax - xmin) * float64(trackW)))
		return min(max(x, 0), trackW)
	}

	guides := make(map[int]bool, len(c.Ticks))
	for _, t := range c.Ticks {
		guides[col(float64(t.Value))] = true
	}

	var sb strings.Builder
	if c.Title != "" {
		sb.WriteString(styles.Title.Render(c.Title))
		sb.WriteString("\n")
	}

	for _, b := range c.Bars {
		name := runewidth.FillRight(runewidth.Truncate(b.Name, nameW, "…"), nameW)
		sb.WriteString(styles.Name.Render(name))
		sb.WriteString(" ")
		sb.WriteString(styles.Axis.Render("│"))
		sb.WriteString(renderTrack(b, col, guides, trackW, styles))
		sb.WriteString("\n")
	}

	rule := []rune(strings.Repeat("─", trackW))
	for x := range guides {
		if x < trackW {
			rule[x] = '┴'
		}
	}
	sb.WriteString(strings.Repeat(" ", nameW+1))
	sb.WriteString(styles.Axis.Render("└" + string(rule)))
	sb.WriteString("\n")

	sb.WriteString(strings.Repeat(" ", nameW+2))
	sb.WriteString(styles.Tick.Render(tickLine(c.Ticks, col)))

	if c.XLabel != "" {
		sb.WriteString("\n")
		pad := nameW + 2 + max(0, (trackW-runewidth.StringWidth(c.XLabel))/2)
		sb.WriteString(strings.Repeat(" ", pad))
		sb.WriteString(styles.XLabel.Render(c.XLabel))
	}
	return sb.String()
}

// renderTrack draws one row: guides, the bar with its centred label, guides.
func renderTrack(b gantt.Bar, col func(float64) int, guides map[int]bool, trackW int, styles Styles) string {
	from, to := col(b.Start), col(b.End())
	if to <= from {
		// sub-column bars still get one cell
		if from >= trackW {
			from = trackW - 1
		}
		to = from + 1
	}
	barW := to - from

	label := b.Text
	if runewidth.StringWidth(label) > barW && runewidth.StringWidth(b.Name) <= barW {
		label = b.Name
	}
	label = runewidth.Truncate(label, barW, "…")
	lw := runewidth.StringWidth(label)
	if lw > barW {
		label, lw = "", 0
	}
	left := (barW - lw) / 2
	seg := strings.Repeat(" ", left) + label + strings.Repeat(" ", barW-lw-left)

	background := func(a, z int) string {
		var sb strings.Builder
		for x := a; x < z; x++ {
			if guides[x] {
				sb.WriteRune('┆')
			} else {
				sb.WriteByte(' ')
			}
		}
		return sb.String()
	}

	return styles.Guide.Render(background(0, from)) +
		styles.Bar.Render(seg) +
		styles.Guide.Render(background(to, trackW))
}

// tickLine lays out tick labels under their columns. The first and last
// labels are always shown; one in between is skipped when it would touch
// its neighbour.
func tickLine(ticks []gantt.Tick, col func(float64) int) string {
	if len(ticks) == 0 {
		return ""
	}
	last := ticks[len(ticks)-1]
	lastCol := col(float64(last.Value))

	line := []rune(strings.Repeat(" ", lastCol+len(last.Label)))
	next := 0
	for i, t := range ticks[:len(ticks)-1] {
		x := col(float64(t.Value))
		if x < next || (i > 0 && x+len(t.Label) >= lastCol) {
			continue
		}
		copy(line[x:], []rune(t.Label))
		next = x + len(t.Label) + 1
	}
	copy(line[lastCol:], []rune(last.Label))
	return strings.TrimRight(string(line), " ")
}
