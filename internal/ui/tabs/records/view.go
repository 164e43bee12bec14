package records

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/styles"
)

// View renders the records tab.
func (m *Model) View() string {
	m.syncRows()

	views := m.state.GetViews()
	title := styles.TitleStyle.Render("Records")

	if views.IsEmpty() {
		return styles.DocStyle.Width(m.width).Height(m.height).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			styles.HelpStyle.Render("No records in the selected range."),
		))
	}

	count := humanize.Comma(int64(len(views.Enriched)))
	checkbox := "[ ]"
	if m.showRaw {
		checkbox = styles.SuccessTextStyle.Render("[x]")
	}
	status := fmt.Sprintf("%s show raw data  %s",
		checkbox,
		styles.HelpStyle.Render(fmt.Sprintf("%s rows · %s · press s to toggle", count, views.Range)))

	sections := []string{title, status, ""}
	if m.showRaw {
		sections = append(sections, m.table.View())
	}

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
