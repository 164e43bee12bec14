// Package pipeline derives every dashboard view from a record set and a date range.
// Each call is pure: nothing is cached or shared between calls.
package pipeline

import (
	"fmt"
	"time"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

// DefaultBins is the histogram bin count used when none is configured.
const DefaultBins = 10

// Options tunes a Compute call.
type Options struct {
	Bins int
}

func (o Options) bins() int {
	if o.Bins < 1 {
		return DefaultBins
	}
	return o.Bins
}

// InvalidRangeError is returned when a range starts after it ends.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range: start %s is after end %s",
		e.Start.Format(models.DateLayout), e.End.Format(models.DateLayout))
}

// Compute filters records to r and builds every view with default options.
func Compute(records []models.Record, r models.DateRange) (*models.Views, error) {
	return ComputeWithOptions(records, r, Options{})
}

// ComputeWithOptions is Compute with explicit options.
// An invalid range fails before any filtering; an empty selection is not an error.
func ComputeWithOptions(records []models.Record, r models.DateRange, opts Options) (*models.Views, error) {
	if !r.Valid() {
		return nil, &InvalidRangeError{Start: models.Day(r.Start), End: models.Day(r.End)}
	}
	r = models.NewDateRange(r.Start, r.End)

	filtered := Filter(records, r)
	rfm := RFM(filtered)

	return &models.Views{
		Range:           r,
		Filtered:        filtered,
		Enriched:        Enrich(filtered),
		WeatherEffect:   WeatherEffect(filtered),
		SeasonalUsage:   SeasonalUsage(filtered),
		WorkingDayUsage: WorkingDayUsage(filtered),
		RFM:             rfm,
		RFMHistograms:   RFMHistograms(rfm, opts.bins()),
		TimeOfDayUsage:  TimeOfDayUsage(filtered),
		HourlyProfile:   HourlyProfile(filtered),
		Summary:         Summarize(filtered),
	}, nil
}

// Filter keeps the records whose day lies in r, both ends included, preserving order.
func Filter(records []models.Record, r models.DateRange) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if r.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	return out
}

// Enrich tags each record with its weekday name and time-of-day bucket.
func Enrich(records []models.Record) []models.EnrichedRecord {
	out := make([]models.EnrichedRecord, len(records))
	for i, rec := range records {
		out[i] = models.EnrichedRecord{
			Record:    rec,
			DayOfWeek: rec.Date.Weekday().String(),
			TimeOfDay: models.TimeOfDayFor(rec.Hour),
		}
	}
	return out
}
