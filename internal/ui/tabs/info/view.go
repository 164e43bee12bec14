package info

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/styles"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderDataCard(),
		m.renderStoreCard(),
		m.renderConfigCard(),
		m.renderAboutCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Data source, configuration and build information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 80)
}

func (m *Model) renderDataCard() string {
	rows := []string{styles.CardTitleStyle.Render("Data")}

	stats := m.state.GetStats()
	if stats == nil {
		rows = append(rows, styles.HelpStyle.Render("No data loaded yet"))
	} else {
		watching := "off"
		if stats.Watching {
			watching = styles.SuccessTextStyle.Render("on")
		}
		rows = append(rows,
			renderRow("Source", stats.Source),
			renderRow("Records", humanize.Comma(int64(stats.Records))),
			renderRow("Span", fmt.Sprintf("%s (%d days)", stats.Span, stats.Span.Days())),
			renderRow("Loaded", humanize.Time(stats.LoadedAt)),
			renderRow("Watching", watching),
		)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderStoreCard() string {
	rows := []string{styles.CardTitleStyle.Render("Database")}

	store := m.state.GetStore()
	if store == nil {
		rows = append(rows, styles.HelpStyle.Render("No database yet · run bsd import <file.csv>"))
		return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	span := "empty"
	if store.HasSpan {
		span = fmt.Sprintf("%s (%d days)", store.Span, store.Span.Days())
	}
	rows = append(rows,
		renderRow("Schema", fmt.Sprintf("v%d", store.SchemaVersion)),
		renderRow("Records", humanize.Comma(int64(store.Records))),
		renderRow("Span", span),
	)

	if imp := store.LastImport; imp != nil {
		rows = append(rows,
			renderRow("Last import", fmt.Sprintf("%s rows from %s",
				humanize.Comma(int64(imp.RowCount)), imp.Source)),
			renderRow("Imported", humanize.Time(imp.ImportedAt)),
		)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration")}

	if m.config == nil {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	} else {
		rows = append(rows,
			renderRow("Data Path", m.config.DataPath),
			renderRow("Database", m.config.DatabasePath),
			renderRow("Log File", m.config.LogPath),
			renderRow("Log Level", m.config.LogLevel),
			renderRow("Histogram Bins", strconv.Itoa(m.config.HistogramBins)),
			renderRow("Watch Data", strconv.FormatBool(m.config.WatchData)),
			renderRow("Reload Debounce", m.config.ReloadDebounce.String()),
			renderRow("Desktop Notify", strconv.FormatBool(m.config.DesktopNotify)),
		)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About"),
		renderRow("Program", version.Name),
		renderRow("Version", version.GetVersion()),
		renderRow("Git Commit", version.GetCommit()),
		renderRow("Build Date", version.GetDate()),
		renderRow("Go Version", runtime.Version()),
		renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderRow renders a key-value row.
func renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}
