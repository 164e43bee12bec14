// Package timeofday provides the time-of-day tab: ride shares per day part and the hourly profile.
package timeofday

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/app"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/pipeline"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the time-of-day tab.
type keyMap struct {
	Up   key.Binding
	Down key.Binding
}

// defaultKeyMap returns the default key bindings for the time-of-day tab.
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
	}
}

// Model represents the time-of-day tab state.
type Model struct {
	state    *app.State
	bars     []components.ShareBar
	synced   *models.Views // views the bars are animating towards
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model
}

// New creates a new time-of-day model.
func New(state *app.State) *Model {
	bars := make([]components.ShareBar, len(models.TimesOfDay))
	for i, tod := range models.TimesOfDay {
		bars[i] = components.NewShareBar(tod.String())
	}
	return &Model{
		state:    state,
		bars:     bars,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the time-of-day tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the time-of-day tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	cmds := []tea.Cmd{m.syncBars()}

	switch msg := msg.(type) {
	case progress.FrameMsg:
		for i := range m.bars {
			var cmd tea.Cmd
			m.bars[i], cmd = m.bars[i].Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// syncBars starts animating the bars towards the shares of newly computed views.
func (m *Model) syncBars() tea.Cmd {
	views := m.state.GetViews()
	if views == nil || views == m.synced {
		return nil
	}
	m.synced = views

	shares := pipeline.TimeOfDayShares(views.TimeOfDayUsage)
	cmds := make([]tea.Cmd, 0, len(m.bars))
	for i := range m.bars {
		percent := 0.0
		if i < len(shares) {
			percent = shares[i] * 100
		}
		cmds = append(cmds, m.bars[i].SetPercent(percent))
	}
	return tea.Batch(cmds...)
}

// SetSize sets the available size for the time-of-day tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Up, m.keys.Down}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.keys.Up, m.keys.Down}}
}
