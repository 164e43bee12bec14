package rfm

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/styles"
)

const (
	trendHeight   = 8
	densityHeight = 6
)

// View renders the RFM tab.
func (m *Model) View() string {
	views := m.state.GetViews()
	if views.IsEmpty() {
		return m.renderEmpty()
	}

	cardWidth := max(m.width-6, 40)

	sections := []string{
		m.renderHeader(views),
		renderTrend(views.RFM, cardWidth),
	}
	for _, h := range views.RFMHistograms.All() {
		sections = append(sections, renderHistogramCard(h, cardWidth))
	}
	sections = append(sections, renderTable(views.RFM, cardWidth))

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("RFM"),
		"",
		styles.HelpStyle.Render("No records in the selected range."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader(views *models.Views) string {
	title := styles.TitleStyle.Render("RFM Analysis")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%s · %d days scored against %s",
		views.Range, len(views.RFM), views.RFM[len(views.RFM)-1].Date.Format(models.DateLayout)))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func renderTrend(rows []models.RFMRow, cardWidth int) string {
	lines := []string{styles.CardTitleStyle.Render("Daily Rides")}

	if len(rows) < 2 {
		lines = append(lines, styles.HelpStyle.Render("  Need at least two days for a trend"))
	} else {
		totals := make([]float64, len(rows))
		for i, r := range rows {
			totals[i] = float64(r.Total)
		}
		chart := components.RenderLineChart(totals, max(cardWidth-16, 30), trendHeight,
			fmt.Sprintf("%s → %s",
				rows[0].Date.Format(models.DateLayout),
				rows[len(rows)-1].Date.Format(models.DateLayout)))
		for line := range strings.SplitSeq(chart, "\n") {
			lines = append(lines, "  "+line)
		}
	}

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderHistogramCard(h models.Histogram, cardWidth int) string {
	title := fmt.Sprintf("%s distribution", h.Column)
	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render(title),
		components.RenderHistogram(h, cardWidth-6, densityHeight),
	))
}

func renderTable(rows []models.RFMRow, cardWidth int) string {
	header := styles.TableHeaderStyle.Padding(0, 1).Render(tableRow("Date", "Total", "Recency", "Frequency", "Monetary"))

	lines := []string{styles.CardTitleStyle.Render("Per-day Scores"), header}
	for _, r := range rows {
		lines = append(lines, styles.TableCellStyle.Render(tableRow(
			r.Date.Format(models.DateLayout),
			humanize.Comma(int64(r.Total)),
			fmt.Sprintf("%d", r.Recency),
			humanize.Comma(int64(r.Frequency)),
			humanize.Comma(int64(r.Monetary)),
		)))
	}

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func tableRow(date, total, recency, frequency, monetary string) string {
	return fmt.Sprintf("%-10s  %9s  %7s  %9s  %9s", date, total, recency, frequency, monetary)
}
