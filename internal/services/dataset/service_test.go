package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/loader"
)

const header = "dteday,hr,season,weathersit,workingday,cnt\n"

func writeCSV(t *testing.T, path, rows string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(header+rows), 0o600); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}
}

func newTestService(t *testing.T, opts Options) (*Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hour.csv")
	writeCSV(t, path, "2011-01-01,0,1,1,0,16\n2011-01-02,5,1,1,0,7\n")

	s, err := New(context.Background(), loader.Open(path), opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

// waitFor drains events until one of type want arrives.
func waitFor(t *testing.T, s *Service, want EventType) Event {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case ev := <-s.Events():
			if ev.Type == want {
				return ev
			}
		case <-timeout:
			t.Fatalf("timed out waiting for event %d", want)
		}
	}
}

func TestNew(t *testing.T) {
	s, _ := newTestService(t, Options{})

	if s.Count() != 2 {
		t.Errorf("Count() = %d, want 2", s.Count())
	}
	span := s.Span()
	if span.Start.Format("2006-01-02") != "2011-01-01" || span.End.Format("2006-01-02") != "2011-01-02" {
		t.Errorf("Span() = %v", span)
	}
	if s.LoadedAt().IsZero() {
		t.Error("LoadedAt() should be set")
	}
	if s.Watching() {
		t.Error("service should not watch unless asked")
	}

	ev := waitFor(t, s, EventLoaded)
	if ev.Records != 2 {
		t.Errorf("loaded event records = %d, want 2", ev.Records)
	}
}

func TestNew_LoadError(t *testing.T) {
	_, err := New(context.Background(), loader.Open(filepath.Join(t.TempDir(), "missing.csv")), Options{Watch: true})

	var le *loader.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("New() error = %v, want *loader.LoadError", err)
	}
}

func TestReload(t *testing.T) {
	s, path := newTestService(t, Options{})
	before := s.Records()

	writeCSV(t, path, "2011-02-01,8,1,1,1,100\n")
	if err := s.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}
	if s.Count() != 1 {
		t.Errorf("Count() = %d after reload, want 1", s.Count())
	}
	if len(before) != 2 {
		t.Error("a reload must not mutate a previously returned record set")
	}
	waitFor(t, s, EventReloaded)
}

func TestReload_FailureKeepsPrevious(t *testing.T) {
	s, path := newTestService(t, Options{})

	writeCSV(t, path, "not-a-date,8,1,1,1,100\n")
	err := s.Reload(context.Background())
	if !errors.Is(err, loader.ErrBadDate) {
		t.Fatalf("Reload() error = %v, want ErrBadDate", err)
	}
	if s.Count() != 2 {
		t.Errorf("Count() = %d after failed reload, want 2", s.Count())
	}

	ev := waitFor(t, s, EventError)
	if ev.Error == nil {
		t.Error("error event should carry the error")
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	s, path := newTestService(t, Options{Watch: true, Debounce: 20 * time.Millisecond})
	if !s.Watching() {
		t.Fatal("service should be watching")
	}

	writeCSV(t, path, "2011-03-01,8,1,1,1,1\n2011-03-01,9,1,1,1,2\n2011-03-02,9,1,1,1,3\n")

	ev := waitFor(t, s, EventReloaded)
	if ev.Records != 3 {
		t.Errorf("reloaded event records = %d, want 3", ev.Records)
	}
	if s.Count() != 3 {
		t.Errorf("Count() = %d, want 3", s.Count())
	}
}

func TestClose_Idempotent(t *testing.T) {
	s, _ := newTestService(t, Options{Watch: true})
	if err := s.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}
}
