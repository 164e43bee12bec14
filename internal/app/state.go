// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/db"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/services"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Views   bool
	Data    bool
}

// State is the state shared between the root model and its tabs.
type State struct {
	mu sync.RWMutex

	Span       models.DateRange
	Range      models.DateRange
	Preset     models.RangePreset
	Views      *models.Views
	Stats      *services.StatsEvent
	Store      *db.Summary

	Loading LoadingState

	LastUpdated time.Time

	// viewsRequest numbers view computations; only the latest one may replace Views
	viewsRequest uint64

	notifications []Notification
}

// NewState creates a state that is waiting for its first data load.
func NewState() *State {
	return &State{
		Preset:        models.RangeAll,
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "views":
		s.Loading.Views = loading
	case "data":
		s.Loading.Data = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial || s.Loading.Views || s.Loading.Data
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// GetLoadingResources returns a list of currently loading resources.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resources []string
	if s.Loading.Initial {
		resources = append(resources, "initial")
	}
	if s.Loading.Views {
		resources = append(resources, "views")
	}
	if s.Loading.Data {
		resources = append(resources, "data")
	}
	return resources
}

// SetSpan records the date span of the loaded data.
func (s *State) SetSpan(span models.DateRange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Span = span
}

// GetSpan returns the date span of the loaded data.
func (s *State) GetSpan() models.DateRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Span
}

// SetViews stores the views computed for r. The previous views are replaced as a whole.
func (s *State) SetViews(views *models.Views, preset models.RangePreset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Views = views
	s.Range = views.Range
	s.Preset = preset
	s.LastUpdated = time.Now()
}

// GetViews returns the current views, or nil before the first computation.
func (s *State) GetViews() *models.Views {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Views
}

// GetRange returns the range of the current views and the preset that produced it.
func (s *State) GetRange() (models.DateRange, models.RangePreset) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Range, s.Preset
}

// SetStats updates the statistics.
func (s *State) SetStats(stats services.StatsEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Stats = &stats
}

// GetStats returns the current statistics.
func (s *State) GetStats() *services.StatsEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Stats
}

// SetStore records the summary of the configured database, nil if it does not exist.
func (s *State) SetStore(store *db.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Store = store
}

// GetStore returns the summary of the configured database.
func (s *State) GetStore() *db.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Store
}

// NextViewsRequest numbers a new view computation and makes it the latest.
func (s *State) NextViewsRequest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewsRequest++
	return s.viewsRequest
}

// IsLatestViewsRequest reports whether id belongs to the most recent computation.
func (s *State) IsLatestViewsRequest(id uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return id == s.viewsRequest
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = activeNotifications(s.notifications)
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activeNotifications(s.notifications)
}

func activeNotifications(all []Notification) []Notification {
	active := make([]Notification, 0, len(all))
	for _, n := range all {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}

// GetLastUpdated returns when the views were last replaced, zero before the first computation.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}
