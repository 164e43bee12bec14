package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/logger"
	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/styles"
)

const (
	shareGradientFrom = "#2a9d8f"
	shareGradientTo   = "#e9c46a"
)

// ShareBar renders one bucket's share of the total as an animated progress bar.
type ShareBar struct {
	progress progress.Model
	label    string
	percent  float64
}

// NewShareBar creates a share bar with the dashboard gradient.
func NewShareBar(label string) ShareBar {
	p := progress.New(
		progress.WithScaledGradient(shareGradientFrom, shareGradientTo),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)
	return ShareBar{progress: p, label: label}
}

// Update forwards animation frames to the progress bar.
func (b ShareBar) Update(msg tea.Msg) (ShareBar, tea.Cmd) {
	model, cmd := b.progress.Update(msg)
	if p, ok := model.(progress.Model); ok {
		b.progress = p
	}
	return b, cmd
}

// SetPercent starts animating towards percent (0-100).
func (b *ShareBar) SetPercent(percent float64) tea.Cmd {
	b.percent = percent
	return b.progress.SetPercent(percent / 100)
}

// Percent returns the target percentage.
func (b ShareBar) Percent() float64 {
	return b.percent
}

// Label returns the bar label.
func (b ShareBar) Label() string {
	return b.label
}

// View renders the label, the animated bar, the percentage and a trailing note.
func (b ShareBar) View(note string, width int) string {
	b.progress.Width = max(width-40, 10)

	labelStr := styles.ProgressLabelStyle.Width(15).Render(b.label)
	percentStr := styles.GetShareStyle(b.percent).
		Width(7).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.1f%%", b.percent))

	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		labelStr,
		b.progress.View(),
		" ",
		percentStr,
		" ",
		styles.HelpStyle.Render(note),
	)
}

// RenderGradientBar renders a static bar filled to percent (0-100).
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := min(max(int(float64(width)*percent/100), 0), width)

	var sb strings.Builder
	for i := range width {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor(shareGradientFrom, shareGradientTo, t)
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("█"))
		} else {
			sb.WriteString(lipgloss.NewStyle().Foreground(styles.Subtle).Render("░"))
		}
	}
	return sb.String()
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
