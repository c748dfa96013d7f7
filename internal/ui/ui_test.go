package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"shiftgantt/internal/gantt"
	"shiftgantt/internal/shift"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildChart(t *testing.T, shifts ...shift.Shift) *gantt.Chart {
	t.Helper()
	if len(shifts) == 0 {
		shifts = []shift.Shift{
			{Name: "Shift A", Start: "8:00", End: "16:00"},
			{Name: "Shift B", Start: "16:00", End: "0:00", Legend: "closing"},
		}
	}
	c, err := gantt.Build(shifts, gantt.Options{})
	require.NoError(t, err)
	return c
}

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("GANTT_DARK_MODE", "1")
	assert.True(t, DetectTheme().IsDark, "expected dark theme when GANTT_DARK_MODE=1")

	t.Setenv("GANTT_DARK_MODE", "")
	assert.False(t, DetectTheme().IsDark, "expected light theme when GANTT_DARK_MODE is unset")

	t.Setenv("COLORFGBG", "15;0")
	assert.True(t, DetectTheme().IsDark)
	t.Setenv("COLORFGBG", "0;15")
	assert.False(t, DetectTheme().IsDark)
}

func TestThemeFor(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("GANTT_DARK_MODE", "")
	assert.True(t, ThemeFor("dark").IsDark)
	assert.False(t, ThemeFor("light").IsDark)
	assert.False(t, ThemeFor("auto").IsDark)
}

func TestWithBarColors(t *testing.T) {
	s := NewStyles(LightTheme()).WithBarColors("aa0000", "#000")
	assert.Equal(t, lipgloss.Color("#aa0000"), s.Bar.GetBackground())
	assert.Equal(t, lipgloss.Color("#000"), s.Bar.GetForeground())

	kept := NewStyles(LightTheme()).WithBarColors("", "")
	assert.Equal(t, DefaultBarColor, kept.Bar.GetBackground())
}

func TestRenderChart_ShowsNamesAndTicks(t *testing.T) {
	out := RenderChart(buildChart(t), 80, NewStyles(LightTheme()))

	assert.Contains(t, out, "Gantt Chart For Shifts")
	assert.Contains(t, out, "Shift A")
	assert.Contains(t, out, "Shift B")
	assert.Contains(t, out, "time(Day)")

	lines := strings.Split(out, "\n")
	var tickRow string
	for i, l := range lines {
		if strings.Contains(l, "└") && i+1 < len(lines) {
			tickRow = lines[i+1]
		}
	}
	require.NotEmpty(t, tickRow, "expected a tick row under the axis")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(tickRow), "7A"))
	assert.True(t, strings.HasSuffix(tickRow, "12A"))
}

func TestRenderChart_WidthAndOrder(t *testing.T) {
	c := buildChart(t,
		shift.Shift{Name: "Early", Start: "6:00", End: "14:00"},
		shift.Shift{Name: "Night", Start: "22:00", End: "6:00"},
		shift.Shift{Name: "Late", Start: "14:00", End: "22:00"},
	)
	out := RenderChart(c, 60, NewStyles(LightTheme()))

	early := strings.Index(out, "Early")
	night := strings.Index(out, "Night")
	late := strings.Index(out, "Late")
	assert.Less(t, early, night)
	assert.Less(t, night, late)

	for _, l := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, runewidth.StringWidth(l), 60, "line %q is wider than the terminal", l)
	}
}

func TestRenderChart_TruncatesLabels(t *testing.T) {
	c := buildChart(t, shift.Shift{Name: "Coffee", Start: "9:00", End: "9:30"})
	out := RenderChart(c, 40, NewStyles(LightTheme()))
	assert.NotContains(t, out, "Coffee | 9:00 ~ 9:30", "the full label cannot fit a half-hour bar")
	assert.Contains(t, out, "Coffee")
}

func TestTickLine_SkipsOverlaps(t *testing.T) {
	ticks := []gantt.Tick{{Value: 0, Label: "12A"}, {Value: 1, Label: "1A"}, {Value: 2, Label: "2A"}, {Value: 3, Label: "3A"}}
	// two columns per tick: only every other label fits
	line := tickLine(ticks, func(v float64) int { return int(v) * 2 })
	assert.Equal(t, "12A   3A", line)
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "8:00", FormatHours(8))
	assert.Equal(t, "7:30", FormatHours(7.5))
	assert.Equal(t, "24:00", FormatHours(24))
	assert.Equal(t, "0:45", FormatHours(0.75))
}

func TestSummary(t *testing.T) {
	md := Summary(buildChart(t))
	assert.Contains(t, md, "# Gantt Chart For Shifts")
	assert.Contains(t, md, "| 1 | Shift A | 8:00 | 16:00 | 8:00 | no |  | 0 |")
	assert.Contains(t, md, "| 2 | Shift B | 16:00 | 0:00 | 8:00 | yes | closing | 0 |")
	assert.Contains(t, md, "Axis: 7A to 12A (18 ticks).")
	assert.Contains(t, md, "Total: 16:00 across 2 shifts.")

	c := buildChart(t, shift.Shift{Name: "A|B", Start: "9:00", End: "10:00"})
	assert.Contains(t, Summary(c), `A\|B`)
}

func TestRenderSummary(t *testing.T) {
	c := buildChart(t)

	plain, err := RenderSummary(c, 80, LightTheme(), true)
	require.NoError(t, err)
	assert.Equal(t, Summary(c), plain)

	styled, err := RenderSummary(c, 200, DarkTheme(), false)
	require.NoError(t, err)
	assert.NotEqual(t, plain, styled)
	assert.Contains(t, styled, "Shift")
	assert.Contains(t, styled, "closing")
}

func TestDisplay_StaticWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	d := &Display{Out: &buf, Styles: NewStyles(LightTheme()), Width: 72, Interactive: true}

	require.NoError(t, d.Display(context.Background(), buildChart(t)))
	assert.Contains(t, buf.String(), "Shift A")
	assert.Contains(t, buf.String(), "12A")
	assert.False(t, IsTerminal(&buf))
	assert.Equal(t, defaultWidth, TerminalWidth(&buf))
}

func TestViewer(t *testing.T) {
	v := NewViewer(buildChart(t), NewStyles(LightTheme()))
	assert.Nil(t, v.Init())
	assert.Equal(t, "loading chart...", v.View())

	m, cmd := v.Update(tea.WindowSizeMsg{Width: 90, Height: 24})
	assert.Nil(t, cmd)
	view := m.View()
	assert.Contains(t, view, "Shift A")
	assert.Contains(t, view, "quit")

	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd = m.Update(k)
		require.NotNil(t, cmd, "key %s should quit", k)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if cmd != nil {
		assert.NotEqual(t, tea.QuitMsg{}, cmd())
	}
}
