package models

import "time"

// RangePreset is a quick date range selection relative to the data span.
type RangePreset int

const (
	// RangeAll covers the whole data span.
	RangeAll RangePreset = iota
	// RangeLast7Days covers the last 7 days of data.
	RangeLast7Days
	// RangeLast30Days covers the last 30 days of data.
	RangeLast30Days
	// RangeLast90Days covers the last 90 days of data.
	RangeLast90Days
	// RangeCustom is a user-typed range.
	RangeCustom
)

// String returns the display name for a preset.
func (p RangePreset) String() string {
	switch p {
	case RangeAll:
		return "All Data"
	case RangeLast7Days:
		return "Last 7 Days"
	case RangeLast30Days:
		return "Last 30 Days"
	case RangeLast90Days:
		return "Last 90 Days"
	case RangeCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// Days returns the number of days of the preset (0 = unlimited).
func (p RangePreset) Days() int {
	switch p {
	case RangeLast7Days:
		return 7
	case RangeLast30Days:
		return 30
	case RangeLast90Days:
		return 90
	default:
		return 0
	}
}

// Next cycles to the next preset. Custom is only reached by typing a range.
func (p RangePreset) Next() RangePreset {
	if p >= RangeLast90Days {
		return RangeAll
	}
	return p + 1
}

// Resolve turns the preset into a concrete range inside span.
// Custom and All both resolve to the full span.
func (p RangePreset) Resolve(span DateRange) DateRange {
	days := p.Days()
	if days == 0 {
		return span
	}
	start := Day(span.End).AddDate(0, 0, -(days - 1))
	if start.Before(Day(span.Start)) {
		start = Day(span.Start)
	}
	return DateRange{Start: start, End: Day(span.End)}
}

// SpanOf returns the min/max date range of the records and false when there are none.
func SpanOf(records []Record) (DateRange, bool) {
	if len(records) == 0 {
		return DateRange{}, false
	}
	var lo, hi time.Time
	for i, r := range records {
		d := Day(r.Date)
		if i == 0 || d.Before(lo) {
			lo = d
		}
		if i == 0 || d.After(hi) {
			hi = d
		}
	}
	return DateRange{Start: lo, End: hi}, true
}
