package components

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/ui/styles"
)

// LoadingSpinner shows what is being loaded and from where.
type LoadingSpinner struct {
	spinner spinner.Model
	label   string
	source  string
}

// NewSpinner creates a spinner labelled with the work in progress, e.g. "Loading records".
func NewSpinner(label string) LoadingSpinner {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return LoadingSpinner{spinner: s, label: label}
}

// Init starts the animation.
func (l LoadingSpinner) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the animation on spinner ticks.
func (l LoadingSpinner) Update(msg tea.Msg) (LoadingSpinner, tea.Cmd) {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// SetSource names the data source being read. Paths are shortened to their base name;
// postgres DSNs are reduced to host and database so credentials never reach the screen.
func (l *LoadingSpinner) SetSource(source string) {
	l.source = displaySource(source)
}

// View renders "<spinner> <label> from <source>".
func (l LoadingSpinner) View() string {
	text := l.label
	if l.source != "" {
		text += " from " + lipgloss.NewStyle().Foreground(styles.TextPrimary).Render(l.source)
	}
	return l.spinner.View() + " " + lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(text)
}

func displaySource(source string) string {
	if source == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(source, "postgres://"); ok {
		if _, hostPart, found := strings.Cut(rest, "@"); found {
			rest = hostPart
		}
		rest, _, _ = strings.Cut(rest, "?")
		return "postgres://" + rest
	}
	return filepath.Base(source)
}

// RenderSpinnerCentered renders the spinner centred in width x height.
func RenderSpinnerCentered(s LoadingSpinner, width, height int) string {
	return styles.CenterBoth(s.View(), width, height)
}
