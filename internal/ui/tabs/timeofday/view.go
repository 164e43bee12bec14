package timeofday

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/pipeline"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/styles"
)

// View renders the time-of-day tab.
func (m *Model) View() string {
	views := m.state.GetViews()
	if views.IsEmpty() {
		content := lipgloss.JoinVertical(lipgloss.Left,
			styles.TitleStyle.Render("Time of Day"),
			"",
			styles.HelpStyle.Render("No records in the selected range."),
		)
		return styles.DocStyle.Width(m.width).Height(m.height).Render(content)
	}

	cardWidth := max(m.width-6, 40)

	sections := []string{
		styles.TitleStyle.Render("Time of Day"),
		m.renderShares(views, cardWidth),
		renderHourly(views.HourlyProfile, cardWidth),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderShares(views *models.Views, cardWidth int) string {
	rows := []string{styles.CardTitleStyle.Render("Share of rides")}

	shares := pipeline.TimeOfDayShares(views.TimeOfDayUsage)
	for i, usage := range views.TimeOfDayUsage {
		note := fmt.Sprintf("%s · %s rides", usage.Bucket.Description(), humanize.Comma(int64(usage.Total)))

		// Until the next update starts the animation, draw the target share statically.
		if views != m.synced || i >= len(m.bars) {
			percent := shares[i] * 100
			rows = append(rows, fmt.Sprintf("%s%s %s %s",
				styles.ProgressLabelStyle.Width(15).Render(usage.Bucket.String()),
				components.RenderGradientBar(percent, max(cardWidth-46, 10)),
				styles.GetShareStyle(percent).Render(fmt.Sprintf("%5.1f%%", percent)),
				styles.HelpStyle.Render(note),
			))
			continue
		}
		rows = append(rows, m.bars[i].View(note, cardWidth-6))
	}

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderHourly(profile []models.HourlyMean, cardWidth int) string {
	means := make([]float64, 24)
	line := make([]float64, 24)
	for i := range means {
		means[i] = math.NaN()
	}
	for _, h := range profile {
		if h.Hour < 0 || h.Hour >= 24 {
			continue
		}
		means[h.Hour] = h.Mean
		if !math.IsNaN(h.Mean) {
			line[h.Hour] = h.Mean
		}
	}

	rows := []string{
		styles.CardTitleStyle.Render("Hourly profile · mean rides per hour"),
		"  " + components.RenderHourlyHeatmap(means),
		"",
	}

	chart := components.RenderLineChart(line, max(cardWidth-16, 30), 8, "Hour of day 00-23")
	for l := range strings.SplitSeq(chart, "\n") {
		rows = append(rows, "  "+l)
	}

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
