package app

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/pipeline"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/services"
)

func TestTickCmd(t *testing.T) {
	if tickCmd(time.Millisecond) == nil {
		t.Error("tickCmd returned nil")
	}
	if defaultTickCmd() == nil {
		t.Error("defaultTickCmd returned nil")
	}
}

func TestNotifyCmds(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) tea.Cmd
		want NotificationType
	}{
		{"Success", notifySuccessCmd, NotificationSuccess},
		{"Error", notifyErrorCmd, NotificationError},
		{"Warning", notifyWarningCmd, NotificationWarning},
		{"Info", notifyInfoCmd, NotificationInfo},
		{"PublicWarning", NotifyWarning, NotificationWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.fn("msg")()

			addMsg, ok := msg.(AddNotificationMsg)
			if !ok {
				t.Fatalf("Expected AddNotificationMsg, got %T", msg)
			}
			if addMsg.Type != tt.want {
				t.Errorf("Type = %v, want %v", addMsg.Type, tt.want)
			}
			if addMsg.Message != "msg" {
				t.Errorf("Message = %q, want msg", addMsg.Message)
			}
			if addMsg.Duration <= 0 {
				t.Error("toasts should expire")
			}
		})
	}
}

func TestClearNotificationCmd(t *testing.T) {
	if clearNotificationCmd("id", time.Millisecond) == nil {
		t.Error("clearNotificationCmd returned nil")
	}
}

func TestRequestRange(t *testing.T) {
	r := models.DateRange{Start: day(t, "2011-01-01"), End: day(t, "2011-01-02")}
	msg, ok := RequestRange(r, models.RangeCustom)().(ComputeRangeMsg)
	if !ok {
		t.Fatal("RequestRange should produce a ComputeRangeMsg")
	}
	if msg.Preset != models.RangeCustom || !msg.Range.End.Equal(r.End) {
		t.Errorf("ComputeRangeMsg = %+v", msg)
	}
}

func TestWaitForServiceEventCmd(t *testing.T) {
	ch := make(chan services.ServiceEvent, 1)
	ch <- services.StatsEvent{Records: 3}

	msg, ok := waitForServiceEventCmd(ch)().(ServiceEventMsg)
	if !ok {
		t.Fatal("expected ServiceEventMsg")
	}
	if stats, ok := msg.Event.(services.StatsEvent); !ok || stats.Records != 3 {
		t.Errorf("Event = %+v", msg.Event)
	}

	close(ch)
	if got := waitForServiceEventCmd(ch)(); got != nil {
		t.Errorf("closed channel should yield nil, got %T", got)
	}
}

func TestComputeCmd(t *testing.T) {
	mgr := newTestManager(t)
	span := mgr.DataSpan()

	msg, ok := computeCmd(mgr, 7, span, models.RangeAll)().(ViewsComputedMsg)
	if !ok {
		t.Fatal("expected ViewsComputedMsg")
	}
	if msg.Request != 7 {
		t.Errorf("Request = %d, want 7", msg.Request)
	}
	if msg.Err != nil {
		t.Fatalf("Err = %v", msg.Err)
	}
	if len(msg.Views.Filtered) != 4 {
		t.Errorf("Filtered = %d, want 4", len(msg.Views.Filtered))
	}

	inverted := models.DateRange{Start: span.End, End: span.Start}
	msg = computeCmd(mgr, 8, inverted, models.RangeCustom)().(ViewsComputedMsg)
	var rangeErr *pipeline.InvalidRangeError
	if !errors.As(msg.Err, &rangeErr) {
		t.Errorf("Err = %v, want InvalidRangeError", msg.Err)
	}
}

func TestLoadCmds(t *testing.T) {
	mgr := newTestManager(t)

	loaded, ok := loadInitialData(mgr)().(DataLoadedMsg)
	if !ok || loaded.Stats.Records != 4 {
		t.Errorf("loadInitialData = %+v", loaded)
	}

	stats, ok := loadStatsCmd(mgr)().(StatsLoadedMsg)
	if !ok || stats.Stats.Records != 4 {
		t.Errorf("loadStatsCmd = %+v", stats)
	}

	store, ok := loadStoreCmd(mgr)().(StoreLoadedMsg)
	if !ok || store.Err != nil || store.Store != nil {
		t.Errorf("loadStoreCmd = %+v, want no database", store)
	}

	reload, ok := reloadCmd(mgr)().(ReloadResultMsg)
	if !ok || reload.Err != nil {
		t.Errorf("reloadCmd = %+v", reload)
	}
}
