package pipeline

import (
	"slices"
	"time"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

// RFM groups records by day and scores each day against the latest one.
// Recency is days before the latest day; Frequency and Monetary are both the day's total.
// Rows are ordered by ascending date.
func RFM(records []models.Record) []models.RFMRow {
	if len(records) == 0 {
		return []models.RFMRow{}
	}

	totals := make(map[time.Time]int)
	for _, r := range records {
		totals[models.Day(r.Date)] += r.Count
	}

	days := make([]time.Time, 0, len(totals))
	for d := range totals {
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })
	maxDate := days[len(days)-1]

	rows := make([]models.RFMRow, len(days))
	for i, d := range days {
		total := totals[d]
		rows[i] = models.RFMRow{
			Date:      d,
			Total:     total,
			Recency:   models.DaysBetween(d, maxDate),
			Frequency: total,
			Monetary:  total,
		}
	}
	return rows
}
