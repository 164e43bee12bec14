package models

// Summary represents overall statistics of a filtered record set.
type Summary struct {
	Records        int
	Days           int
	TotalRides     int64
	AvgRidesPerHr  float64
	PeakHour       int
	PeakHourMean   float64
	PeakWeekday    string
	PeakWeekdayAvg float64
	BestWeather    int
	WorstWeather   int
	BestSeason     int
}

// HasData returns true if the summary was built from at least one record.
func (s Summary) HasData() bool {
	return s.Records > 0
}
