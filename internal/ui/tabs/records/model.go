// Package records provides the records tab: the filtered rows with their weekday and day-part tags.
package records

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/app"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/styles"
)

// keyMap defines the key bindings specific to the records tab.
type keyMap struct {
	ToggleRaw key.Binding
	Up        key.Binding
	Down      key.Binding
	Top       key.Binding
	Bottom    key.Binding
}

// defaultKeyMap returns the default key bindings for the records tab.
func defaultKeyMap() keyMap {
	return keyMap{
		ToggleRaw: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "show/hide raw data"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first row"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last row"),
		),
	}
}

// headerLines is the height taken by the title and status above the table.
const headerLines = 6

var columns = []table.Column{
	{Title: "Date", Width: 10},
	{Title: "Hr", Width: 3},
	{Title: "Weekday", Width: 9},
	{Title: "Part", Width: 6},
	{Title: "Season", Width: 7},
	{Title: "Weather", Width: 15},
	{Title: "Workday", Width: 7},
	{Title: "Count", Width: 7},
}

// Model represents the records tab state.
type Model struct {
	state   *app.State
	table   table.Model
	synced  *models.Views
	showRaw bool
	width   int
	height  int
	keys    keyMap
}

// New creates a new records model.
func New(state *app.State) *Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(styles.TableHeaderStyle.GetBorderStyle()).
		BorderForeground(styles.Subtle).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = styles.TableSelectedStyle
	t.SetStyles(s)

	return &Model{
		state: state,
		table: t,
		keys:  defaultKeyMap(),
	}
}

// Init initializes the records tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the records tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	m.syncRows()

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.ToggleRaw):
		m.showRaw = !m.showRaw
		return m, nil
	case key.Matches(keyMsg, m.keys.Top):
		m.table.GotoTop()
		return m, nil
	case key.Matches(keyMsg, m.keys.Bottom):
		m.table.GotoBottom()
		return m, nil
	}

	if !m.showRaw {
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(keyMsg)
	return m, cmd
}

// syncRows rebuilds the table when a new set of views was computed.
func (m *Model) syncRows() {
	views := m.state.GetViews()
	if views == m.synced {
		return
	}
	m.synced = views

	var enriched []models.EnrichedRecord
	if views != nil {
		enriched = views.Enriched
	}
	m.table.SetRows(buildRows(enriched))
	m.table.GotoTop()
}

func buildRows(records []models.EnrichedRecord) []table.Row {
	rows := make([]table.Row, len(records))
	for i, r := range records {
		workday := "no"
		if r.IsWorkingDay {
			workday = "yes"
		}
		rows[i] = table.Row{
			r.Date.Format(models.DateLayout),
			strconv.Itoa(r.Hour),
			r.DayOfWeek,
			r.TimeOfDay.String(),
			models.SeasonName(r.Season),
			models.WeatherName(r.WeatherSituation),
			workday,
			humanize.Comma(int64(r.Count)),
		}
	}
	return rows
}

// SetSize sets the available size for the records tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetWidth(max(width-6, 20))
	m.table.SetHeight(max(height-headerLines, 3))
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.ToggleRaw, m.keys.Up, m.keys.Down}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.ToggleRaw},
		{m.keys.Up, m.keys.Down},
		{m.keys.Top, m.keys.Bottom},
	}
}
