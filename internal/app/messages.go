package app

import (
	"time"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/db"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/services"
)

// TickMsg is sent periodically to expire notifications.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg marks a resource as loading.
type StartLoadingMsg struct {
	Resource string
}

// DataLoadedMsg carries the span and stats of the record set at startup.
type DataLoadedMsg struct {
	Span  models.DateRange
	Stats services.StatsEvent
}

// ComputeRangeMsg asks for the views of a date range.
type ComputeRangeMsg struct {
	Range  models.DateRange
	Preset models.RangePreset
}

// ViewsComputedMsg is the result of computation number Request. On error the previous views stay.
type ViewsComputedMsg struct {
	Request uint64
	Range   models.DateRange
	Preset  models.RangePreset
	Views   *models.Views
	Err     error
}

// ReloadResultMsg is the result of re-reading the data source.
type ReloadResultMsg struct {
	Err error
}

// StatsLoadedMsg is sent when record set statistics are loaded.
type StatsLoadedMsg struct {
	Stats services.StatsEvent
}

// StoreLoadedMsg carries the summary of the configured database, nil if it does not exist.
type StoreLoadedMsg struct {
	Store *db.Summary
	Err   error
}

// AddNotificationMsg adds a toast notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg removes a notification by ID.
type RemoveNotificationMsg struct {
	ID string
}

// SubscriptionEventMsg carries the channel returned by the service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ServiceEventMsg wraps a service event for the Bubble Tea loop.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}
