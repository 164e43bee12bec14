// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/styles"
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	return asciigraph.Plot(data,
		asciigraph.Height(max(height, 3)),
		asciigraph.Width(max(width, 20)),
		asciigraph.Caption(caption),
	)
}

// FormatMean formats a group mean, or "n/a" for an empty group.
func FormatMean(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return humanize.CommafWithDigits(v, 1)
}

// RenderBarChart creates a horizontal bar chart. NaN values render as n/a without a bar.
func RenderBarChart(values []float64, labels []string, width int) string {
	if len(values) == 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		if !math.IsNaN(v) && v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		maxLabelLen = max(maxLabelLen, lipgloss.Width(l))
	}

	barWidth := max(width-maxLabelLen-12, 10)
	barStyle := lipgloss.NewStyle().Foreground(styles.ChartBar)

	lines := make([]string, 0, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		paddedLabel := strings.Repeat(" ", maxLabelLen-lipgloss.Width(label)) + label

		if math.IsNaN(v) {
			lines = append(lines, paddedLabel+" │ "+styles.MissingValueStyle.Render("n/a"))
			continue
		}

		barLen := max(int((v/maxVal)*float64(barWidth)), 0)
		lines = append(lines, fmt.Sprintf("%s │%s %s",
			paddedLabel, barStyle.Render(strings.Repeat("█", barLen)), FormatMean(v)))
	}

	return strings.Join(lines, "\n")
}

// RenderGroupMeans renders the mean ride count of each group as bars labelled with their code.
func RenderGroupMeans(groups []models.GroupMean, width int) string {
	if len(groups) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	values := make([]float64, len(groups))
	labels := make([]string, len(groups))
	for i, g := range groups {
		values[i] = g.Mean
		labels[i] = fmt.Sprintf("%s (%d)", g.Label, g.Code)
	}
	return RenderBarChart(values, labels, width)
}

// RenderHistogram renders the bins of h as horizontal bars, with its density curve below.
func RenderHistogram(h models.Histogram, width, height int) string {
	if len(h.Bins) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	labels := make([]string, len(h.Bins))
	values := make([]float64, len(h.Bins))
	for i, b := range h.Bins {
		labels[i] = fmt.Sprintf("%s–%s", formatEdge(b.RangeStart), formatEdge(b.RangeEnd))
		values[i] = float64(b.Count)
	}

	sections := []string{RenderBarChart(values, labels, width)}

	if len(h.Density) > 0 {
		ys := make([]float64, len(h.Density))
		for i, p := range h.Density {
			ys[i] = p.Y
		}
		curve := asciigraph.Plot(ys,
			asciigraph.Height(max(height, 3)),
			asciigraph.Width(max(width-12, 20)),
			asciigraph.Caption(fmt.Sprintf("%s density (KDE, scaled to counts)", h.Column)),
			asciigraph.SeriesColors(asciigraph.Red),
		)
		sections = append(sections, "", curve)
	}

	sections = append(sections, "", RenderLegend([]LegendItem{
		{Label: "count", Color: styles.ChartBar},
		{Label: "density", Color: styles.ChartDensity},
	}))

	return strings.Join(sections, "\n")
}

func formatEdge(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return humanize.Comma(int64(v))
	}
	return humanize.CommafWithDigits(v, 1)
}

// HeatmapBlocks are Unicode block characters for heatmaps (low to high intensity).
var HeatmapBlocks = []rune{'░', '▒', '▓', '█'}

// RenderHourlyHeatmap creates a 24-hour heatmap. Missing hours (NaN) render as a dot.
func RenderHourlyHeatmap(patterns []float64) string {
	if len(patterns) != 24 {
		padded := make([]float64, 24)
		copy(padded, patterns)
		patterns = padded
	}

	maxVal := 0.0
	for _, v := range patterns {
		if !math.IsNaN(v) && v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	var result strings.Builder
	result.WriteString("00 ")

	for i, v := range patterns {
		if math.IsNaN(v) {
			result.WriteString(styles.MissingValueStyle.Render("·"))
		} else {
			intensity := min(max(int((v/maxVal)*float64(len(HeatmapBlocks)-1)), 0), len(HeatmapBlocks)-1)

			var style lipgloss.Style
			switch intensity {
			case 0:
				style = lipgloss.NewStyle().Foreground(styles.Subtle)
			case 1:
				style = lipgloss.NewStyle().Foreground(styles.Info)
			case 2:
				style = lipgloss.NewStyle().Foreground(styles.Warning)
			default:
				style = lipgloss.NewStyle().Foreground(styles.Error)
			}
			result.WriteString(style.Render(string(HeatmapBlocks[intensity])))
		}

		// Gap at noon for readability
		if i == 11 {
			result.WriteString(" ")
		}
	}

	result.WriteString(" 23")
	return result.String()
}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width < 1 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	step := max(float64(len(values))/float64(width), 1)

	var result strings.Builder
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		normalized := min(max(int((val/maxVal)*float64(len(sparkChars)-1)), 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[normalized])
	}

	return result.String()
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}
