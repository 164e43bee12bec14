package pipeline

import (
	"math"
	"time"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

// Summarize builds the headline statistics of a filtered record set.
// Ties go to the lowest code. An empty set yields the zero Summary.
func Summarize(records []models.Record) models.Summary {
	if len(records) == 0 {
		return models.Summary{}
	}

	s := models.Summary{Records: len(records)}

	days := make(map[time.Time]struct{})
	for _, r := range records {
		days[models.Day(r.Date)] = struct{}{}
		s.TotalRides += int64(r.Count)
	}
	s.Days = len(days)
	s.AvgRidesPerHr = float64(s.TotalRides) / float64(len(records))

	s.PeakHour, s.PeakHourMean = -1, -1
	for _, h := range HourlyProfile(records) {
		if !math.IsNaN(h.Mean) && h.Mean > s.PeakHourMean {
			s.PeakHour, s.PeakHourMean = h.Hour, h.Mean
		}
	}

	weekdays := groupMeans(records,
		func(r models.Record) int { return int(r.Date.Weekday()) },
		func(code int) string { return time.Weekday(code).String() },
	)
	if best, ok := highest(weekdays); ok {
		s.PeakWeekday, s.PeakWeekdayAvg = best.Label, best.Mean
	}

	weather := WeatherEffect(records)
	if best, ok := highest(weather); ok {
		s.BestWeather = best.Code
	}
	if worst, ok := lowest(weather); ok {
		s.WorstWeather = worst.Code
	}

	if best, ok := highest(SeasonalUsage(records)); ok {
		s.BestSeason = best.Code
	}

	return s
}

func highest(groups []models.GroupMean) (models.GroupMean, bool) {
	var best models.GroupMean
	found := false
	for _, g := range groups {
		if !g.HasValue() {
			continue
		}
		if !found || g.Mean > best.Mean {
			best, found = g, true
		}
	}
	return best, found
}

func lowest(groups []models.GroupMean) (models.GroupMean, bool) {
	var worst models.GroupMean
	found := false
	for _, g := range groups {
		if !g.HasValue() {
			continue
		}
		if !found || g.Mean < worst.Mean {
			worst, found = g, true
		}
	}
	return worst, found
}
