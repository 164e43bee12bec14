package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/config"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/db"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/pipeline"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/services"
)

const testCSV = `dteday,hr,season,weathersit,workingday,cnt
2011-01-01,6,1,1,0,10
2011-01-01,20,1,2,0,5
2011-01-03,12,1,1,1,30
2011-01-10,18,1,1,1,40
`

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := models.ParseDay(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func newTestManager(t *testing.T) *services.Manager {
	t.Helper()
	tmpDir := t.TempDir()
	dataPath := filepath.Join(tmpDir, "hour.csv")
	if err := os.WriteFile(dataPath, []byte(testCSV), 0o600); err != nil {
		t.Fatal(err)
	}

	mgr, err := services.NewManager(context.Background(), &config.Config{
		DataPath:      dataPath,
		DatabasePath:  filepath.Join(tmpDir, "bikeshare.db"),
		HistogramBins: 10,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr
}

// fakeTab records the messages it receives.
type fakeTab struct {
	capturing bool
	received  []tea.Msg
}

func (f *fakeTab) Init() tea.Cmd { return nil }
func (f *fakeTab) Update(msg tea.Msg) (Tab, tea.Cmd) {
	f.received = append(f.received, msg)
	return f, nil
}
func (f *fakeTab) View() string { return "fake tab" }
func (f *fakeTab) SetSize(int, int) {}
func (f *fakeTab) ShortHelp() []key.Binding { return []key.Binding{key.NewBinding(key.WithHelp("x", "fake"))} }
func (f *fakeTab) FullHelp() [][]key.Binding { return nil }
func (f *fakeTab) CapturingInput() bool { return f.capturing }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// findMsg runs cmd, descending into batches, and returns the first message of type T.
func findMsg[T tea.Msg](cmd tea.Cmd) (T, bool) {
	var zero T
	if cmd == nil {
		return zero, false
	}
	switch msg := cmd().(type) {
	case T:
		return msg, true
	case tea.BatchMsg:
		for _, c := range msg {
			if found, ok := findMsg[T](c); ok {
				return found, true
			}
		}
	}
	return zero, false
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil)
	if model == nil {
		t.Fatal("NewModel returned nil")
	}
	if model.GetState() == nil {
		t.Error("State should be initialized")
	}
	if model.GetActiveTab() != TabOverview {
		t.Error("Default tab should be Overview")
	}
	if len(model.tabs) != 5 {
		t.Errorf("Should have 5 tab placeholders, got %d", len(model.tabs))
	}
}

func TestModel_Init(t *testing.T) {
	model := NewModel(nil)
	if model.Init() == nil {
		t.Error("Init returned nil command")
	}
	if len(model.state.GetNotifications()) != 1 {
		t.Error("Init should show the loading notification")
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	model := NewModel(nil)
	newModel, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	m, ok := newModel.(*Model)
	if !ok {
		t.Fatal("Update returned wrong model type")
	}
	if m.width != 100 || m.height != 50 {
		t.Errorf("size = %dx%d, want 100x50", m.width, m.height)
	}
	if !m.IsReady() {
		t.Error("Model should be ready after WindowSizeMsg")
	}
}

func TestModel_TabSwitching(t *testing.T) {
	model := NewModel(nil)

	model.Update(runes("2"))
	if model.activeTab != TabRFM {
		t.Errorf("ActiveTab = %v, want RFM", model.activeTab)
	}

	tests := []struct {
		key  tea.KeyMsg
		want TabID
	}{
		{runes("1"), TabOverview},
		{runes("3"), TabTimeOfDay},
		{runes("4"), TabRecords},
		{runes("5"), TabInfo},
		{tea.KeyMsg{Type: tea.KeyTab}, TabOverview},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, TabInfo},
		{runes("2"), TabRFM},
	}
	for _, tt := range tests {
		model.Update(tt.key)
		if model.activeTab != tt.want {
			t.Errorf("after %q ActiveTab = %v, want %v", tt.key.String(), model.activeTab, tt.want)
		}
	}
}

func TestModel_Quit(t *testing.T) {
	model := NewModel(nil)
	cmd := model.handleKeyMsg(runes("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestModel_CapturingTabOwnsKeys(t *testing.T) {
	model := NewModel(nil)
	tab := &fakeTab{capturing: true}
	model.SetTabs([]Tab{tab, nil, nil, nil, nil})

	if cmd := model.handleKeyMsg(runes("q")); cmd != nil {
		t.Error("q should not quit while a form is focused")
	}
	model.Update(runes("2"))
	if model.activeTab != TabOverview {
		t.Error("digits should go to the focused form")
	}
	if len(tab.received) == 0 {
		t.Error("the tab should receive the key")
	}
	if cmd := model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Error("ctrl+c should always quit")
	}
}

func TestModel_Update_Tick(t *testing.T) {
	model := NewModel(nil)
	_, cmd := model.Update(TickMsg{Time: time.Now()})
	if cmd == nil {
		t.Error("TickMsg should return a command (next tick)")
	}
}

func TestModel_View(t *testing.T) {
	model := NewModel(nil)

	if view := model.View(); !strings.Contains(view, "Loading...") {
		t.Error("View should show Loading when not ready")
	}

	model.ready = true
	model.width = 100
	model.height = 24

	view := model.View()
	if !strings.Contains(view, "Overview") {
		t.Error("View should show the Overview tab")
	}
	if !strings.Contains(view, "not yet implemented") {
		t.Error("View should show placeholder text")
	}

	model.SetTabs([]Tab{&fakeTab{}, nil, nil, nil, nil})
	if view := model.View(); !strings.Contains(view, "fake tab") {
		t.Error("View should render the active tab")
	}
}

func TestModel_Help(t *testing.T) {
	model := NewModel(nil)
	model.SetTabs([]Tab{&fakeTab{}, nil, nil, nil, nil})
	model.ready = true
	model.width = 100
	model.height = 40

	model.Update(runes("?"))
	if !model.showHelp {
		t.Fatal("showHelp should be true")
	}

	view := model.View()
	if !strings.Contains(view, "Keyboard Shortcuts") {
		t.Error("View should show help modal")
	}

	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc})
	if model.showHelp {
		t.Error("Esc should close help")
	}
}

func TestModel_Notifications(t *testing.T) {
	model := NewModel(nil)

	_, cmd := model.Update(AddNotificationMsg{Message: "Test Note", Type: NotificationInfo, Duration: time.Minute})
	if cmd == nil {
		t.Error("a timed notification should schedule its removal")
	}

	notifs := model.state.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifs))
	}

	model.ready = true
	model.width = 80
	model.height = 24
	if view := model.View(); !strings.Contains(view, "Test Note") {
		t.Error("View should show notification")
	}

	model.Update(RemoveNotificationMsg{ID: notifs[0].ID})
	if len(model.state.GetNotifications()) != 0 {
		t.Error("notification should be removed")
	}
}

func TestModel_LoadingMessages(t *testing.T) {
	model := NewModel(nil)
	model.state.SetLoading("initial", false)

	model.Update(StartLoadingMsg{Resource: "data"})
	if !model.state.Loading.Data {
		t.Error("Loading.Data should be true")
	}
	notifs := model.state.GetNotifications()
	if len(notifs) != 1 || notifs[0].Message != "Refreshing data..." {
		t.Errorf("notifications = %+v, want one Refreshing data...", notifs)
	}

	model.handleReloadResult(ReloadResultMsg{})
	if model.state.AnyLoading() {
		t.Error("nothing should be loading")
	}
	if len(model.state.GetNotifications()) != 0 {
		t.Error("loading notification should be cleared when idle")
	}
}

func TestLoadingMessage(t *testing.T) {
	tests := []struct {
		resources []string
		want      string
	}{
		{nil, "Refreshing..."},
		{[]string{"data"}, "Refreshing data..."},
		{[]string{"views", "data"}, "Refreshing views, data..."},
		{[]string{"initial", "data"}, "Refreshing data..."},
	}
	for _, tt := range tests {
		if got := loadingMessage(tt.resources); got != tt.want {
			t.Errorf("loadingMessage(%v) = %q, want %q", tt.resources, got, tt.want)
		}
	}
}

func TestModel_HandleServiceEvent(t *testing.T) {
	model := NewModel(nil)

	model.handleServiceEvent(services.StatsEvent{Records: 5})
	if model.state.GetStats().Records != 5 {
		t.Error("Stats should be updated")
	}

	cmd := model.handleServiceEvent(services.ErrorEvent{Service: "dataset", Error: errors.New("boom")})
	if cmd == nil {
		t.Fatal("Error event should trigger notification command")
	}
	msg, ok := cmd().(AddNotificationMsg)
	if !ok || msg.Type != NotificationError || !strings.Contains(msg.Message, "boom") {
		t.Errorf("notification = %+v", msg)
	}
}

func TestModel_ViewsComputed(t *testing.T) {
	model := NewModel(nil)
	r := models.DateRange{Start: day(t, "2011-01-01"), End: day(t, "2011-01-03")}
	views := &models.Views{Range: r, Filtered: []models.Record{{Date: r.Start, Count: 1}}}

	model.Update(ViewsComputedMsg{Range: r, Preset: models.RangeCustom, Views: views})
	if model.state.GetViews() != views {
		t.Fatal("views should be stored")
	}
	if model.state.IsInitialLoading() {
		t.Error("initial loading should end with the first views")
	}

	// An inverted range keeps the previous views and shows an error toast
	inverted := models.DateRange{Start: r.End, End: r.Start}
	err := &pipeline.InvalidRangeError{Start: r.End, End: r.Start}
	cmd := model.handleViewsComputed(ViewsComputedMsg{Range: inverted, Preset: models.RangeCustom, Err: err})
	if model.state.GetViews() != views {
		t.Error("previous views should stay after an invalid range")
	}
	if cmd == nil {
		t.Fatal("invalid range should notify")
	}
	msg := cmd().(AddNotificationMsg)
	if msg.Type != NotificationError || !strings.Contains(msg.Message, "invalid date range") {
		t.Errorf("notification = %+v", msg)
	}

	// An empty selection is shown with a warning
	empty := &models.Views{Range: r}
	cmd = model.handleViewsComputed(ViewsComputedMsg{Range: r, Views: empty})
	if cmd == nil || cmd().(AddNotificationMsg).Type != NotificationWarning {
		t.Error("empty selection should warn")
	}
	if model.state.GetViews() != empty {
		t.Error("empty views should still replace the previous views")
	}
}

func TestModel_ComputeFlow(t *testing.T) {
	mgr := newTestManager(t)
	model := NewModel(mgr)

	cmds := model.handleAppMsg(loadInitialData(mgr)())
	if len(cmds) != 1 || cmds[0] == nil {
		t.Fatal("DataLoadedMsg should start a computation")
	}
	if !model.state.Loading.Views {
		t.Error("views should be loading")
	}

	model.Update(cmds[0]())
	views := model.state.GetViews()
	if views == nil || len(views.Filtered) != 4 {
		t.Fatalf("views = %+v", views)
	}

	// t cycles to the last 7 days of the data span
	cmd := model.handleKeyMsg(runes("t"))
	if cmd == nil {
		t.Fatal("t should request a new range")
	}
	computed, ok := findMsg[ViewsComputedMsg](cmd)
	if !ok {
		t.Fatal("t should start a computation")
	}
	if toast, ok := findMsg[AddNotificationMsg](cmd); !ok || toast.Message != "Range: Last 7 Days" {
		t.Errorf("toast = %+v, want the new preset", toast)
	}
	if computed.Preset != models.RangeLast7Days {
		t.Errorf("Preset = %v, want Last 7 Days", computed.Preset)
	}
	model.Update(computed)
	r, preset := model.state.GetRange()
	if preset != models.RangeLast7Days || r.Start.Format(models.DateLayout) != "2011-01-04" {
		t.Errorf("range = %v (%v)", r, preset)
	}
	if got := len(model.state.GetViews().Filtered); got != 1 {
		t.Errorf("Filtered = %d, want 1", got)
	}

	// A typed range goes through ComputeRangeMsg
	custom := models.DateRange{Start: day(t, "2011-01-01"), End: day(t, "2011-01-01")}
	cmds = model.handleAppMsg(ComputeRangeMsg{Range: custom, Preset: models.RangeCustom})
	model.Update(cmds[0]())
	if _, preset := model.state.GetRange(); preset != models.RangeCustom {
		t.Errorf("Preset = %v, want Custom", preset)
	}

	// A reload keeps a custom range as typed
	cmd = model.handleServiceEvent(services.DataReloadedEvent{Records: 4, Span: mgr.DataSpan()})
	if cmd == nil {
		t.Error("DataReloadedEvent should recompute")
	}
	if r, _ := model.state.GetRange(); !r.End.Equal(custom.End) {
		t.Errorf("range after reload = %v", r)
	}
}

func TestModel_SupersededViewsAreDropped(t *testing.T) {
	mgr := newTestManager(t)
	model := NewModel(mgr)

	wide := models.DateRange{Start: day(t, "2011-01-01"), End: day(t, "2011-01-10")}
	narrow := models.DateRange{Start: day(t, "2011-01-10"), End: day(t, "2011-01-10")}

	first := model.handleAppMsg(ComputeRangeMsg{Range: wide, Preset: models.RangeAll})
	second := model.handleAppMsg(ComputeRangeMsg{Range: narrow, Preset: models.RangeCustom})
	older := first[0]().(ViewsComputedMsg)
	newer := second[0]().(ViewsComputedMsg)

	// Results arrive in reverse order
	model.Update(newer)
	model.Update(older)

	r, preset := model.state.GetRange()
	if !r.Start.Equal(narrow.Start) || !r.End.Equal(narrow.End) || preset != models.RangeCustom {
		t.Errorf("displayed %v (%v), want the latest request %v", r, preset, narrow)
	}
	if got := len(model.state.GetViews().Filtered); got != 1 {
		t.Errorf("Filtered = %d, want 1", got)
	}
}

func TestModel_SupersededResultKeepsLoading(t *testing.T) {
	mgr := newTestManager(t)
	model := NewModel(mgr)
	span := mgr.DataSpan()

	inverted := models.DateRange{Start: span.End, End: span.Start}
	stale := model.handleAppMsg(ComputeRangeMsg{Range: inverted, Preset: models.RangeCustom})
	latest := model.handleAppMsg(ComputeRangeMsg{Range: span, Preset: models.RangeAll})

	// An error from a superseded request neither notifies nor ends loading
	if cmd := model.handleViewsComputed(stale[0]().(ViewsComputedMsg)); cmd != nil {
		t.Error("a superseded invalid range should not notify")
	}
	if !model.state.Loading.Views {
		t.Error("views should still be loading for the latest request")
	}
	if model.state.GetViews() != nil {
		t.Error("a superseded result should not be stored")
	}

	model.Update(latest[0]())
	if model.state.Loading.Views {
		t.Error("the latest result should end loading")
	}
	if views := model.state.GetViews(); views == nil || len(views.Filtered) != 4 {
		t.Errorf("views = %+v", views)
	}
}

func TestModel_ReloadNotifiesSuccess(t *testing.T) {
	mgr := newTestManager(t)
	model := NewModel(mgr)

	cmd := model.handleServiceEvent(services.DataReloadedEvent{Records: 4, Span: mgr.DataSpan()})
	toast, ok := findMsg[AddNotificationMsg](cmd)
	if !ok || toast.Type != NotificationSuccess || toast.Message != "Data reloaded: 4 records" {
		t.Errorf("toast = %+v", toast)
	}
	if _, ok := findMsg[StoreLoadedMsg](cmd); !ok {
		t.Error("a reload should refresh the database summary")
	}
}

func TestModel_StoreLoaded(t *testing.T) {
	model := NewModel(nil)
	store := &db.Summary{SchemaVersion: 2, Records: 9}

	model.Update(StoreLoadedMsg{Store: store})
	if model.state.GetStore() != store {
		t.Error("store summary should be kept")
	}

	model.Update(StoreLoadedMsg{Err: errors.New("locked")})
	if model.state.GetStore() != nil {
		t.Error("a failed read should clear the summary")
	}
}

func TestModel_Refresh(t *testing.T) {
	mgr := newTestManager(t)
	model := NewModel(mgr)

	if cmd := model.handleKeyMsg(runes("r")); cmd == nil {
		t.Error("r should reload the data source")
	}

	model.Update(StartLoadingMsg{Resource: "data"})
	cmd := model.handleReloadResult(ReloadResultMsg{Err: errors.New("gone")})
	if model.state.Loading.Data {
		t.Error("data loading should end with the reload result")
	}
	if cmd == nil || cmd().(AddNotificationMsg).Type != NotificationError {
		t.Error("a failed reload without subscription should notify")
	}
}

func TestModel_HandleSpinnerTick(t *testing.T) {
	model := NewModel(nil)
	_, cmd := model.Update(spinner.TickMsg{})
	if cmd == nil {
		t.Error("Spinner tick should return command")
	}
}

func TestTabID_String(t *testing.T) {
	tests := []struct {
		id   TabID
		want string
	}{
		{TabOverview, "Overview"},
		{TabRFM, "RFM"},
		{TabTimeOfDay, "Time of Day"},
		{TabRecords, "Records"},
		{TabInfo, "Info"},
		{TabID(999), "Unknown"},
		{TabID(-1), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("TabID(%d).String() = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(km.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
