package overview

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/styles"
)

// View renders the overview tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		if stats := m.state.GetStats(); stats != nil {
			m.spinner.SetSource(stats.Source)
		}
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	views := m.state.GetViews()

	sections := []string{
		m.renderTitle(),
		m.renderRangeCard(views),
	}

	if views.IsEmpty() {
		sections = append(sections, styles.HelpStyle.Render("No records in the selected range."))
	} else {
		cardWidth := m.cardWidth()
		sections = append(sections,
			m.renderSummaryCard(views, cardWidth),
			renderMeansCard("Weather effect · mean rides per hour", views.WeatherEffect, cardWidth),
			renderMeansCard("Seasonal usage · mean rides per hour", views.SeasonalUsage, cardWidth),
			renderMeansCard("Workday vs weekend · mean rides per hour", views.WorkingDayUsage, cardWidth),
		)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Bike Sharing Overview")
	subtitle := styles.HelpStyle.Render("Hourly rentals, filtered by date range")
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderRangeCard(views *models.Views) string {
	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Date Range")))

	if m.editing {
		rows = append(rows,
			m.renderField("Start", fieldStart),
			m.renderField("End", fieldEnd),
			"",
			styles.HelpStyle.Render("tab switch field · enter apply · esc cancel"),
		)
	} else {
		r, preset := m.state.GetRange()
		current := "not computed yet"
		if views != nil {
			current = fmt.Sprintf("%s  (%s, %d days)", r, preset, r.Days())
		}
		span := m.state.GetSpan()
		rows = append(rows,
			fmt.Sprintf("%s %s", styles.InputLabelStyle.Render("Range"), current),
			fmt.Sprintf("%s %s", styles.InputLabelStyle.Render("Data"), styles.HelpStyle.Render(span.String())),
		)
		if updated := m.state.GetLastUpdated(); !updated.IsZero() {
			rows = append(rows, fmt.Sprintf("%s %s",
				styles.InputLabelStyle.Render("Updated"), styles.HelpStyle.Render(humanize.Time(updated))))
		}
		rows = append(rows,
			"",
			styles.HelpStyle.Render("e edit range · t cycle presets"),
		)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderField(label string, field int) string {
	labelStyle := styles.InputLabelStyle
	if m.focus == field {
		labelStyle = labelStyle.Foreground(styles.Primary).Bold(true)
	}
	return labelStyle.Render(label) + " " + m.inputs[field].View()
}

func (m *Model) renderSummaryCard(views *models.Views, width int) string {
	s := views.Summary

	rows := []string{styles.CardTitleStyle.Render("Summary")}

	rows = append(rows,
		summaryRow("Records", humanize.Comma(int64(s.Records))),
		summaryRow("Days", humanize.Comma(int64(s.Days))),
		summaryRow("Total rides", humanize.Comma(s.TotalRides)),
		summaryRow("Avg rides/hr", humanize.CommafWithDigits(s.AvgRidesPerHr, 1)),
	)

	if s.PeakHour >= 0 {
		rows = append(rows, summaryRow("Peak hour",
			fmt.Sprintf("%02d:00 (%s avg)", s.PeakHour, humanize.CommafWithDigits(s.PeakHourMean, 1))))
	}
	if s.PeakWeekday != "" {
		rows = append(rows, summaryRow("Peak weekday",
			fmt.Sprintf("%s (%s avg)", s.PeakWeekday, humanize.CommafWithDigits(s.PeakWeekdayAvg, 1))))
	}
	rows = append(rows,
		summaryRow("Best weather", models.WeatherName(s.BestWeather)),
		summaryRow("Worst weather", models.WeatherName(s.WorstWeather)),
		summaryRow("Best season", models.SeasonName(s.BestSeason)),
	)

	if len(views.RFM) > 1 {
		totals := make([]float64, len(views.RFM))
		for i, row := range views.RFM {
			totals[i] = float64(row.Total)
		}
		spark := lipgloss.NewStyle().Foreground(styles.ChartBar).Render(components.RenderSparkline(totals, width-22))
		rows = append(rows, "", summaryRow("Daily rides", spark))
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func summaryRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().Width(14).Foreground(styles.TextMuted)
	return labelStyle.Render(label+":") + " " + lipgloss.NewStyle().Foreground(styles.TextPrimary).Render(value)
}

func renderMeansCard(title string, groups []models.GroupMean, width int) string {
	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render(title),
		components.RenderGroupMeans(groups, width-6),
	))
}
