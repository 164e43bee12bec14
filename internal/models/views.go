package models

import (
	"math"
	"time"
)

// GroupMean is the mean ride count of one categorical group.
type GroupMean struct {
	Label string
	Code  int
	Mean  float64 // NaN when the group is empty
	Rows  int
}

// HasValue reports whether the mean is defined.
func (g GroupMean) HasValue() bool {
	return !math.IsNaN(g.Mean)
}

// BucketTotal is the summed ride count of one time-of-day bucket.
type BucketTotal struct {
	Bucket TimeOfDay
	Total  int
}

// RFMRow is one day of the recency/frequency/monetary table.
type RFMRow struct {
	Date      time.Time
	Total     int
	Recency   int
	Frequency int
	Monetary  int
}

// HistogramBin is one equal-width bucket of a distribution.
type HistogramBin struct {
	RangeStart float64
	RangeEnd   float64
	Count      int
}

// DensityPoint is one sample of a smoothed density curve.
type DensityPoint struct {
	X float64
	Y float64 // Scaled to histogram counts
}

// Histogram is a bucketed distribution with an optional density overlay.
type Histogram struct {
	Column  string
	Bins    []HistogramBin
	Density []DensityPoint
}

// MaxCount returns the largest bin count.
func (h Histogram) MaxCount() int {
	maxCount := 0
	for _, b := range h.Bins {
		maxCount = max(maxCount, b.Count)
	}
	return maxCount
}

// RFMHistograms groups the three RFM distributions.
type RFMHistograms struct {
	Recency   Histogram
	Frequency Histogram
	Monetary  Histogram
}

// All returns the three histograms in display order.
func (h RFMHistograms) All() []Histogram {
	return []Histogram{h.Recency, h.Frequency, h.Monetary}
}

// HourlyMean is the mean ride count at one hour of day.
type HourlyMean struct {
	Hour int
	Mean float64 // NaN when the hour is absent
}

// Views holds every derived view for one date range.
type Views struct {
	Range           DateRange
	Filtered        []Record
	Enriched        []EnrichedRecord
	WeatherEffect   []GroupMean
	SeasonalUsage   []GroupMean
	WorkingDayUsage []GroupMean
	RFM             []RFMRow
	RFMHistograms   RFMHistograms
	TimeOfDayUsage  []BucketTotal
	HourlyProfile   []HourlyMean
	Summary         Summary
}

// IsEmpty reports whether the range matched no records.
func (v *Views) IsEmpty() bool {
	return v == nil || len(v.Filtered) == 0
}
