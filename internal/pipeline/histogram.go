package pipeline

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

// densityPoints is the number of samples on each KDE curve.
const densityPoints = 64

// RFMHistograms bins each RFM column independently.
func RFMHistograms(rows []models.RFMRow, bins int) models.RFMHistograms {
	recency := make([]float64, len(rows))
	frequency := make([]float64, len(rows))
	monetary := make([]float64, len(rows))
	for i, r := range rows {
		recency[i] = float64(r.Recency)
		frequency[i] = float64(r.Frequency)
		monetary[i] = float64(r.Monetary)
	}

	return models.RFMHistograms{
		Recency:   Histogram("Recency", recency, bins),
		Frequency: Histogram("Frequency", frequency, bins),
		Monetary:  Histogram("Monetary", monetary, bins),
	}
}

// Histogram splits values into equal-width bins spanning their min and max,
// with a Gaussian KDE overlay scaled to bin counts.
// A constant column gets a unit-wide range centred on its value.
func Histogram(column string, values []float64, bins int) models.Histogram {
	h := models.Histogram{Column: column}
	if len(values) == 0 {
		return h
	}
	if bins < 1 {
		bins = DefaultBins
	}

	x := slices.Clone(values)
	slices.Sort(x)

	lo, hi := x[0], x[len(x)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// stat.Histogram bins are half-open; nudge the top edge so max lands in the last bin
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, x, nil)

	h.Bins = make([]models.HistogramBin, bins)
	for i := range bins {
		end := dividers[i+1]
		if i == bins-1 {
			end = hi
		}
		h.Bins[i] = models.HistogramBin{
			RangeStart: dividers[i],
			RangeEnd:   end,
			Count:      int(counts[i]),
		}
	}

	binWidth := (hi - lo) / float64(bins)
	h.Density = density(x, binWidth)
	return h
}

// density evaluates a Gaussian KDE with Scott's bandwidth over the data range.
// x must be sorted. Returns nil when the bandwidth is undefined.
func density(x []float64, binWidth float64) []models.DensityPoint {
	n := float64(len(x))
	if len(x) < 2 {
		return nil
	}
	sd := stat.StdDev(x, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil
	}
	bw := sd * math.Pow(n, -1.0/5)

	kernels := make([]distuv.Normal, len(x))
	for i, xi := range x {
		kernels[i] = distuv.Normal{Mu: xi, Sigma: bw}
	}

	grid := make([]float64, densityPoints)
	floats.Span(grid, x[0], x[len(x)-1])

	// pdf * n * width turns a density into expected counts per bin
	scale := binWidth
	points := make([]models.DensityPoint, len(grid))
	for i, g := range grid {
		var sum float64
		for _, k := range kernels {
			sum += k.Prob(g)
		}
		points[i] = models.DensityPoint{X: g, Y: sum * scale}
	}
	return points
}
