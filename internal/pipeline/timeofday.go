package pipeline

import "github.com/j-veylop/bikeshare-dashboard-tui/internal/models"

// TimeOfDayUsage sums counts per day part. All four buckets are always present,
// ordered Pagi, Siang, Sore, Malam.
func TimeOfDayUsage(records []models.Record) []models.BucketTotal {
	var totals [4]int
	for _, r := range records {
		totals[models.TimeOfDayFor(r.Hour)] += r.Count
	}

	out := make([]models.BucketTotal, len(models.TimesOfDay))
	for i, tod := range models.TimesOfDay {
		out[i] = models.BucketTotal{Bucket: tod, Total: totals[tod]}
	}
	return out
}

// TimeOfDayShares returns each bucket's fraction of the total, all zero when there are no rides.
func TimeOfDayShares(usage []models.BucketTotal) []float64 {
	var sum int
	for _, b := range usage {
		sum += b.Total
	}

	shares := make([]float64, len(usage))
	if sum == 0 {
		return shares
	}
	for i, b := range usage {
		shares[i] = float64(b.Total) / float64(sum)
	}
	return shares
}
