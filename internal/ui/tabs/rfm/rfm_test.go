package rfm

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/app"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/pipeline"
)

func day(s string) time.Time {
	d, _ := models.ParseDay(s)
	return d
}

func stateWith(t *testing.T, records []models.Record) *app.State {
	t.Helper()
	span, _ := models.SpanOf(records)
	views, err := pipeline.Compute(records, span)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	state := app.NewState()
	state.SetLoading("initial", false)
	state.SetViews(views, models.RangeAll)
	return state
}

func TestNew(t *testing.T) {
	m := New(app.NewState())
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() != nil {
		t.Error("Init should not schedule anything")
	}
}

func TestModel_ViewEmpty(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(80, 24)
	if view := m.View(); !strings.Contains(view, "No records") {
		t.Errorf("View without views = %q", view)
	}
}

func TestModel_View(t *testing.T) {
	state := stateWith(t, []models.Record{
		{Date: day("2011-01-01"), Hour: 8, Count: 100},
		{Date: day("2011-01-02"), Hour: 8, Count: 250},
		{Date: day("2011-01-04"), Hour: 9, Count: 1200},
	})

	m := New(state)
	m.SetSize(120, 400)
	view := m.View()

	for _, want := range []string{
		"RFM Analysis",
		"Daily Rides",
		"Recency distribution",
		"Frequency distribution",
		"Monetary distribution",
		"Per-day Scores",
		"2011-01-02",
		"1,200",
		"density",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestModel_SingleDay(t *testing.T) {
	state := stateWith(t, []models.Record{{Date: day("2011-01-01"), Hour: 8, Count: 7}})

	m := New(state)
	m.SetSize(100, 200)
	if view := m.View(); !strings.Contains(view, "at least two days") {
		t.Error("single-day range should skip the trend chart")
	}
}

func TestTableRow(t *testing.T) {
	row := tableRow("2011-01-01", "985", "3", "985", "985")
	if !strings.HasPrefix(row, "2011-01-01") {
		t.Errorf("row = %q", row)
	}
	header := tableRow("Date", "Total", "Recency", "Frequency", "Monetary")
	if len(header) != len(row) {
		t.Errorf("header width %d != row width %d", len(header), len(row))
	}
}

func TestModel_Keys(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(80, 10)

	for _, k := range []string{"g", "G", "j", "k"} {
		if updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}); updated == nil {
			t.Fatalf("Update(%s) returned nil", k)
		}
	}
	if _, cmd := m.Update(nil); cmd != nil {
		t.Error("non-key messages should be ignored")
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState())
	if len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("help should not be empty")
	}
}
