// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/config"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/db"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/loader"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/logger"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/pipeline"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/services/dataset"
)

type (
	// DataReloadedEvent is emitted when the record set was replaced.
	DataReloadedEvent struct {
		Records int
		Span    models.DateRange
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}

	// StatsEvent describes the currently loaded record set.
	StatsEvent struct {
		Source   string
		Records  int
		Span     models.DateRange
		LoadedAt time.Time
		Watching bool
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (DataReloadedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()        {}
func (StatsEvent) isServiceEvent()        {}

// notifier sends desktop notifications.
type notifier func(title, body string) error

func desktopNotify(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	dataset     *dataset.Service
	eventChan   chan ServiceEvent
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
	notify      notifier
}

// NewManager loads the configured data source and starts watching it.
// A data load failure is returned as a *loader.LoadError.
func NewManager(ctx context.Context, cfg *config.Config) (*Manager, error) {
	return newManager(ctx, cfg, loader.Open(cfg.DataPath))
}

func newManager(ctx context.Context, cfg *config.Config, src loader.Source) (*Manager, error) {
	m := &Manager{
		cfg:       cfg,
		eventChan: make(chan ServiceEvent, 100),
		stopChan:  make(chan struct{}),
	}
	if cfg.DesktopNotify {
		m.notify = desktopNotify
	}

	var err error
	m.dataset, err = dataset.New(ctx, src, dataset.Options{
		Watch:    cfg.WatchData,
		Debounce: cfg.ReloadDebounce,
	})
	if err != nil {
		return nil, err
	}

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.dataset.Events():
			m.handleDatasetEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

// handleDatasetEvent converts and broadcasts dataset events.
func (m *Manager) handleDatasetEvent(event dataset.Event) {
	switch event.Type {
	case dataset.EventReloaded:
		span := m.dataset.Span()
		m.broadcast(DataReloadedEvent{Records: event.Records, Span: span})
		m.sendNotification("Bike data reloaded",
			fmt.Sprintf("%s records, %s", humanize.Comma(int64(event.Records)), span))

	case dataset.EventError:
		m.broadcast(ErrorEvent{Service: "dataset", Error: event.Error})
		m.sendNotification("Bike data reload failed", event.Error.Error())
	}
}

func (m *Manager) sendNotification(title, body string) {
	if m.notify == nil {
		return
	}
	if err := m.notify(title, body); err != nil {
		logger.Debug("desktop notification failed", "error", err)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	// Send to subscribers
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Compute runs the aggregation pipeline over the current record set.
func (m *Manager) Compute(r models.DateRange) (*models.Views, error) {
	return pipeline.ComputeWithOptions(m.dataset.Records(), r, pipeline.Options{Bins: m.cfg.HistogramBins})
}

// DataSpan returns the min and max day of the loaded records.
func (m *Manager) DataSpan() models.DateRange {
	return m.dataset.Span()
}

// Reload re-reads the data source. The previous records stay on failure.
func (m *Manager) Reload(ctx context.Context) error {
	return m.dataset.Reload(ctx)
}

// GetStats describes the loaded record set.
func (m *Manager) GetStats() StatsEvent {
	return StatsEvent{
		Source:   m.dataset.Source().Name(),
		Records:  m.dataset.Count(),
		Span:     m.dataset.Span(),
		LoadedAt: m.dataset.LoadedAt(),
		Watching: m.dataset.Watching(),
	}
}

// StoreSummary describes the configured database, or returns nil when it does not exist yet.
func (m *Manager) StoreSummary(ctx context.Context) (*db.Summary, error) {
	store, err := db.Open(m.cfg.DatabasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = store.Close() }()

	return store.Summarize(ctx)
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	return m.dataset.Close()
}

// InitialState returns the data span and stats for TUI initialization.
func (m *Manager) InitialState() (models.DateRange, StatsEvent) {
	return m.DataSpan(), m.GetStats()
}
