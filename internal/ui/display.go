package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"shiftgantt/internal/gantt"
	"shiftgantt/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Display shows charts in the terminal. It implements gantt.Displayer.
type Display struct {
	Out    io.Writer
	Styles Styles
	// Width of static output in columns; 0 uses the terminal width.
	Width int
	// Interactive runs the viewer when Out is a terminal.
	Interactive bool
}

// NewDisplay creates a Display writing to stdout.
func NewDisplay(styles Styles, width int, interactive bool) *Display {
	return &Display{
		Out:         os.Stdout,
		Styles:      styles,
		Width:       width,
		Interactive: interactive,
	}
}

// Display runs the interactive viewer, or prints the chart once when the
// output is not a terminal or interactive mode is off.
func (d *Display) Display(ctx context.Context, c *gantt.Chart) error {
	out := d.Out
	if out == nil {
		out = os.Stdout
	}

	if d.Interactive && IsTerminal(out) {
		logging.DisplayDebug("starting interactive viewer")
		p := tea.NewProgram(
			NewViewer(c, d.Styles),
			tea.WithAltScreen(),
			tea.WithContext(ctx),
			tea.WithOutput(out),
		)
		if _, err := p.Run(); err != nil {
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("viewer: %w", err)
		}
		return nil
	}

	width := d.Width
	if width == 0 {
		width = TerminalWidth(out)
	}
	logging.DisplayDebug("static display at %d columns", width)
	_, err := fmt.Fprintln(out, RenderChart(c, width, d.Styles))
	return err
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// TerminalWidth returns the column count of w, or the default width when w
// is not a terminal.
func TerminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && IsTerminal(f) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			return cols
		}
	}
	return defaultWidth
}
