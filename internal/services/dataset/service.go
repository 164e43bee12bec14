// Package dataset holds the loaded record set and reloads it when its file changes.
package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/loader"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/logger"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

// Event represents a dataset service event.
type Event struct {
	Type    EventType
	Error   error
	Records int
}

// EventType defines the type of dataset event.
type EventType int

const (
	EventLoaded EventType = iota
	EventReloaded
	EventError
)

// DefaultDebounce is the quiet period after a file change before reloading.
const DefaultDebounce = 250 * time.Millisecond

// Options configures a Service.
type Options struct {
	Watch    bool
	Debounce time.Duration
}

// Service owns the current record set. A record set is never mutated;
// a successful reload swaps in a new one.
type Service struct {
	mu            sync.RWMutex
	source        loader.Source
	records       []models.Record
	span          models.DateRange
	loadedAt      time.Time
	watcher       *fsnotify.Watcher
	debounce      time.Duration
	debounceTimer *time.Timer
	eventChan     chan Event
	stopChan      chan struct{}
	closeOnce     sync.Once
}

// New loads src and, when requested and possible, starts watching its file.
// A load failure is returned unchanged, as a *loader.LoadError.
func New(ctx context.Context, src loader.Source, opts Options) (*Service, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	s := &Service{
		source:    src,
		debounce:  opts.Debounce,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	records, err := loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	s.swap(records)

	if fs, ok := src.(loader.FileSource); ok && opts.Watch {
		if err := s.startWatcher(fs.Path()); err != nil {
			return nil, fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	s.sendEvent(Event{Type: EventLoaded, Records: len(records)})

	return s, nil
}

// Events returns the event channel for subscribing to dataset changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Records returns the current record set. Callers must not modify it.
func (s *Service) Records() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Span returns the min and max day of the current record set.
func (s *Service) Span() models.DateRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.span
}

// LoadedAt returns when the current record set was loaded.
func (s *Service) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Count returns the number of records.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Source returns the record source.
func (s *Service) Source() loader.Source {
	return s.source
}

// Watching reports whether file changes trigger reloads.
func (s *Service) Watching() bool {
	return s.watcher != nil
}

// Reload reads the source again. On failure the previous record set is kept.
func (s *Service) Reload(ctx context.Context) error {
	records, err := loader.Load(ctx, s.source)
	if err != nil {
		logger.Warn("Reload failed, keeping previous data", "source", s.source.Name(), "error", err)
		s.sendEvent(Event{Type: EventError, Error: err})
		return err
	}

	s.swap(records)
	s.sendEvent(Event{Type: EventReloaded, Records: len(records)})
	return nil
}

func (s *Service) swap(records []models.Record) {
	span, _ := models.SpanOf(records)

	s.mu.Lock()
	s.records = records
	s.span = span
	s.loadedAt = time.Now()
	s.mu.Unlock()
}

// startWatcher watches the directory of path so replaced files are seen too.
func (s *Service) startWatcher(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}
	s.watcher = watcher

	go s.watchLoop(filepath.Base(path))
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop(name string) {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != name {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				s.scheduleReload()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

func (s *Service) scheduleReload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounce, func() {
		select {
		case <-s.stopChan:
			return
		default:
		}
		logger.Debug("Data file changed, reloading", "source", s.source.Name())
		_ = s.Reload(context.Background())
	})
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		s.mu.Unlock()

		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
