package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestGetShareStyle(t *testing.T) {
	tests := []struct {
		percent float64
		want    string
	}{
		{50, "high"},
		{35.1, "high"},
		{35, "medium"},
		{15, "medium"},
		{14.9, "low"},
		{0, "low"},
	}

	byName := map[string]lipgloss.Style{
		"high":   ShareHighStyle,
		"medium": ShareMediumStyle,
		"low":    ShareLowStyle,
	}

	for _, tt := range tests {
		got := GetShareStyle(tt.percent)
		if got.GetForeground() != byName[tt.want].GetForeground() {
			t.Errorf("GetShareStyle(%v) is not the %s style", tt.percent, tt.want)
		}
	}
}

func TestCenterBoth(t *testing.T) {
	out := CenterBoth("x", 5, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if strings.TrimSpace(lines[1]) != "x" {
		t.Errorf("middle line = %q, want centered x", lines[1])
	}
}
