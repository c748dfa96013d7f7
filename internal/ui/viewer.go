package ui

import (
	"shiftgantt/internal/gantt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding { return []key.Binding{k.Up, k.Down, k.Quit} }
func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Viewer is the interactive chart page. It redraws the chart whenever the
// terminal is resized.
type Viewer struct {
	chart    *gantt.Chart
	styles   Styles
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	width    int
	height   int
	ready    bool
}

// NewViewer creates a viewer for c.
func NewViewer(c *gantt.Chart, styles Styles) Viewer {
	return Viewer{
		chart:    c,
		styles:   styles,
		viewport: viewport.New(defaultWidth, 20),
		help:     help.New(),
		keys:     defaultKeyMap(),
	}
}

func (m Viewer) Init() tea.Cmd { return nil }

// SetSize updates the size of the viewport and redraws the chart.
func (m *Viewer) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.viewport.Height = max(1, h-2) // help line plus spacer
	m.help.Width = w
	m.viewport.SetContent(RenderChart(m.chart, w, m.styles))
	m.ready = true
}

// Update handles messages.
func (m Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the page.
func (m Viewer) View() string {
	if !m.ready {
		return "loading chart..."
	}
	return m.viewport.View() + "\n\n" + m.styles.Help.Render(m.help.View(m.keys))
}
