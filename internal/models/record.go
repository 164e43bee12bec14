// Package models defines data structures and domain types.
package models

import (
	"fmt"
	"time"
)

// DateLayout is the day-granularity layout used for input and display.
const DateLayout = "2006-01-02"

// Record is one hourly row of the bike sharing dataset.
type Record struct {
	Date             time.Time // Calendar day, UTC midnight
	Hour             int       // 0-23
	Season           int
	WeatherSituation int
	IsWorkingDay     bool
	Count            int // Total rides in that hour
}

// Day truncates t to UTC midnight of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a UTC calendar day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a range from two instants truncated to their days.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: Day(start), End: Day(end)}
}

// Valid reports whether Start is not after End.
func (r DateRange) Valid() bool {
	return !Day(r.Start).After(Day(r.End))
}

// Contains reports whether the calendar day of t lies within the range, both ends included.
func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(r.Start)) && !d.After(Day(r.End))
}

// Days returns the number of calendar days covered by a valid range.
func (r DateRange) Days() int {
	if !r.Valid() {
		return 0
	}
	return DaysBetween(r.Start, r.End) + 1
}

// String formats the range for display.
func (r DateRange) String() string {
	return fmt.Sprintf("%s → %s", r.Start.Format(DateLayout), r.End.Format(DateLayout))
}

// DaysBetween returns the whole number of days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// TimeOfDay is one of the four fixed day-part buckets.
type TimeOfDay int

const (
	// Pagi is the morning bucket, hours [5,11).
	Pagi TimeOfDay = iota
	// Siang is the midday bucket, hours [11,17).
	Siang
	// Sore is the evening bucket, hours [17,21).
	Sore
	// Malam is the night bucket, hours [21,24) and [0,5).
	Malam
)

// TimesOfDay lists the buckets in display order.
var TimesOfDay = []TimeOfDay{Pagi, Siang, Sore, Malam}

// TimeOfDayFor maps an hour of day to its bucket.
func TimeOfDayFor(hour int) TimeOfDay {
	switch {
	case hour >= 5 && hour < 11:
		return Pagi
	case hour >= 11 && hour < 17:
		return Siang
	case hour >= 17 && hour < 21:
		return Sore
	default:
		return Malam
	}
}

// String returns the bucket label.
func (t TimeOfDay) String() string {
	switch t {
	case Pagi:
		return "Pagi"
	case Siang:
		return "Siang"
	case Sore:
		return "Sore"
	case Malam:
		return "Malam"
	default:
		return "Unknown"
	}
}

// Description returns the English gloss and hour span of the bucket.
func (t TimeOfDay) Description() string {
	switch t {
	case Pagi:
		return "morning 05-11"
	case Siang:
		return "midday 11-17"
	case Sore:
		return "evening 17-21"
	case Malam:
		return "night 21-05"
	default:
		return ""
	}
}

// EnrichedRecord is a record tagged with derived display fields.
type EnrichedRecord struct {
	Record
	DayOfWeek string
	TimeOfDay TimeOfDay
}

// SeasonName labels a season code of the dataset.
func SeasonName(code int) string {
	switch code {
	case 1:
		return "Spring"
	case 2:
		return "Summer"
	case 3:
		return "Fall"
	case 4:
		return "Winter"
	default:
		return fmt.Sprintf("Season %d", code)
	}
}

// WeatherName labels a weathersit code of the dataset.
func WeatherName(code int) string {
	switch code {
	case 1:
		return "Clear"
	case 2:
		return "Mist"
	case 3:
		return "Light rain/snow"
	case 4:
		return "Heavy rain/snow"
	default:
		return fmt.Sprintf("Weather %d", code)
	}
}
