// Package overview provides the overview tab: the date range form, the summary and the group means.
package overview

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/app"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the overview tab.
type keyMap struct {
	Edit      key.Binding
	NextField key.Binding
	Submit    key.Binding
	Cancel    key.Binding
	Up        key.Binding
	Down      key.Binding
}

// defaultKeyMap returns the default key bindings for the overview tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit date range"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "shift+tab", "up", "down"),
			key.WithHelp("tab", "switch field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply range"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel edit"),
		),
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

const (
	fieldStart = iota
	fieldEnd
)

// Model represents the overview tab state.
type Model struct {
	state    *app.State
	spinner  components.LoadingSpinner
	keys     keyMap
	viewport viewport.Model
	inputs   [2]textinput.Model
	focus    int
	editing  bool
	width    int
	height   int
}

// New creates a new overview model.
func New(state *app.State) *Model {
	m := &Model{
		state:    state,
		spinner:  components.NewSpinner("Loading records"),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = models.DateLayout
		ti.CharLimit = len(models.DateLayout)
		ti.Width = len(models.DateLayout) + 1
		ti.Prompt = ""
		m.inputs[i] = ti
	}
	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// CapturingInput reports whether the date form owns the keyboard.
func (m *Model) CapturingInput() bool {
	return m.editing
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m, m.handleFormKey(msg)
		}
		return m, m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.editing {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Edit) {
		return m.startEditing()
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.stopEditing()
		return nil

	case key.Matches(msg, m.keys.NextField):
		return m.setFocus(1 - m.focus)

	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

// startEditing opens the form prefilled with the current range.
func (m *Model) startEditing() tea.Cmd {
	r, _ := m.state.GetRange()
	if r.Start.IsZero() {
		r = m.state.GetSpan()
	}
	if !r.Start.IsZero() {
		m.inputs[fieldStart].SetValue(r.Start.Format(models.DateLayout))
		m.inputs[fieldEnd].SetValue(r.End.Format(models.DateLayout))
	}
	m.editing = true
	return m.setFocus(fieldStart)
}

func (m *Model) stopEditing() {
	m.editing = false
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *Model) setFocus(field int) tea.Cmd {
	m.focus = field
	m.inputs[1-field].Blur()
	return m.inputs[field].Focus()
}

// submit parses the form. Malformed dates keep the form open; an inverted range is
// still requested so the pipeline reports it.
func (m *Model) submit() tea.Cmd {
	start, err := models.ParseDay(m.inputs[fieldStart].Value())
	if err != nil {
		return app.NotifyWarning("Start: " + err.Error())
	}
	end, err := models.ParseDay(m.inputs[fieldEnd].Value())
	if err != nil {
		return app.NotifyWarning("End: " + err.Error())
	}

	m.stopEditing()
	return app.RequestRange(models.DateRange{Start: start, End: end}, models.RangeCustom)
}

// SetSize sets the available size for the overview.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.editing {
		return []key.Binding{m.keys.NextField, m.keys.Submit, m.keys.Cancel}
	}
	return []key.Binding{m.keys.Edit, m.keys.Up, m.keys.Down}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Edit, m.keys.NextField},
		{m.keys.Submit, m.keys.Cancel},
		{m.keys.Up, m.keys.Down},
	}
}
