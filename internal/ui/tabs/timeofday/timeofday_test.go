package timeofday

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/app"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/pipeline"
)

func day(s string) time.Time {
	d, _ := models.ParseDay(s)
	return d
}

// One ride count per bucket: Pagi 50, Siang 30, Sore 15, Malam 5.
func loadedState(t *testing.T) *app.State {
	t.Helper()
	records := []models.Record{
		{Date: day("2011-01-01"), Hour: 7, Count: 50},
		{Date: day("2011-01-01"), Hour: 13, Count: 30},
		{Date: day("2011-01-01"), Hour: 18, Count: 15},
		{Date: day("2011-01-01"), Hour: 23, Count: 5},
	}
	views, err := pipeline.Compute(records, models.DateRange{Start: day("2011-01-01"), End: day("2011-01-01")})
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
	if len(m.bars) != 4 {
		t.Fatalf("bars = %d, want 4", len(m.bars))
	}
	for i, want := range []string{"Pagi", "Siang", "Sore", "Malam"} {
		if m.bars[i].Label() != want {
			t.Errorf("bar %d = %q, want %q", i, m.bars[i].Label(), want)
		}
	}
	if m.Init() != nil {
		t.Error("Init should not schedule anything")
	}
}

func TestModel_SyncBars(t *testing.T) {
	m := New(loadedState(t))

	_, cmd := m.Update(nil)
	if cmd == nil {
		t.Error("new views should start the bar animation")
	}

	want := []float64{50, 30, 15, 5}
	for i, w := range want {
		if got := m.bars[i].Percent(); math.Abs(got-w) > 1e-9 {
			t.Errorf("%s = %v%%, want %v%%", m.bars[i].Label(), got, w)
		}
	}

	// Same views: nothing new to animate
	if _, cmd := m.Update(nil); cmd != nil {
		t.Error("unchanged views should not restart the animation")
	}
}

func TestModel_View(t *testing.T) {
	m := New(loadedState(t))
	m.SetSize(120, 60)

	// Before the first update the target shares are drawn statically
	view := m.View()
	for _, want := range []string{"Pagi", "Malam", "50.0%", "morning 05-11", "Hourly profile"} {
		if !strings.Contains(view, want) {
			t.Errorf("static View missing %q", want)
		}
	}

	m.Update(nil)
	view = m.View()
	for _, want := range []string{"Siang", "30.0%", "15.0%", "night 21-05"} {
		if !strings.Contains(view, want) {
			t.Errorf("animated View missing %q", want)
		}
	}
}

func TestModel_ViewEmpty(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(80, 24)
	if view := m.View(); !strings.Contains(view, "No records") {
		t.Errorf("View = %q", view)
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState())
	if len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("help should not be empty")
	}
}
