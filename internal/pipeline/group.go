package pipeline

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

// Working day bucket labels, in display order.
const (
	LabelWeekend = "weekend"
	LabelWorkday = "workday"
)

// WeatherEffect returns the mean count per weathersit code, ascending.
func WeatherEffect(records []models.Record) []models.GroupMean {
	return groupMeans(records, func(r models.Record) int { return r.WeatherSituation }, models.WeatherName)
}

// SeasonalUsage returns the mean count per season code, ascending.
func SeasonalUsage(records []models.Record) []models.GroupMean {
	return groupMeans(records, func(r models.Record) int { return r.Season }, models.SeasonName)
}

// WorkingDayUsage always returns the weekend bucket then the workday bucket.
// A bucket with no rows has a NaN mean.
func WorkingDayUsage(records []models.Record) []models.GroupMean {
	var buckets [2][]float64
	for _, r := range records {
		i := 0
		if r.IsWorkingDay {
			i = 1
		}
		buckets[i] = append(buckets[i], float64(r.Count))
	}

	labels := [2]string{LabelWeekend, LabelWorkday}
	out := make([]models.GroupMean, 2)
	for i, vals := range buckets {
		out[i] = models.GroupMean{
			Label: labels[i],
			Code:  i,
			Mean:  meanOrNaN(vals),
			Rows:  len(vals),
		}
	}
	return out
}

// HourlyProfile returns the mean count for each hour 0-23, NaN for absent hours.
func HourlyProfile(records []models.Record) []models.HourlyMean {
	var byHour [24][]float64
	for _, r := range records {
		if r.Hour >= 0 && r.Hour < 24 {
			byHour[r.Hour] = append(byHour[r.Hour], float64(r.Count))
		}
	}

	out := make([]models.HourlyMean, 24)
	for h, vals := range byHour {
		out[h] = models.HourlyMean{Hour: h, Mean: meanOrNaN(vals)}
	}
	return out
}

// groupMeans averages Count per key, with groups sorted by ascending key.
func groupMeans(records []models.Record, key func(models.Record) int, label func(int) string) []models.GroupMean {
	groups := make(map[int][]float64)
	for _, r := range records {
		k := key(r)
		groups[k] = append(groups[k], float64(r.Count))
	}

	codes := make([]int, 0, len(groups))
	for k := range groups {
		codes = append(codes, k)
	}
	slices.Sort(codes)

	out := make([]models.GroupMean, len(codes))
	for i, code := range codes {
		vals := groups[code]
		out[i] = models.GroupMean{
			Label: label(code),
			Code:  code,
			Mean:  stat.Mean(vals, nil),
			Rows:  len(vals),
		}
	}
	return out
}

func meanOrNaN(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}
