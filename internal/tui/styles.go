package tui

import (
	"github.com/charmbracelet/lipgloss"

	"busmap.londonbus.dev/internal/models"
)

var (
	appTitle       = "busmap"
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("160")).Padding(0, 1)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("247"))
	activeTabStyle = tabStyle.Bold(true).Foreground(lipgloss.Color("51")).Background(lipgloss.Color("236"))
	contentStyle   = lipgloss.NewStyle().Padding(1, 2)
	dividerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	bannerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("124")).Padding(0, 1)
	cursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	checkedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	faintStyle     = lipgloss.NewStyle().Faint(true)
	inputErrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	fixedPointStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	tierStyles      = map[models.Tier]lipgloss.Style{
		models.TierNear:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		models.TierMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.TierFar:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

func tierStyle(t models.Tier) lipgloss.Style {
	if s, ok := tierStyles[t]; ok {
		return s
	}
	return tierStyles[models.TierFar]
}

func tabs(current string, width int) string {
	names := []string{"lines", "map"}
	var rendered []string
	for _, n := range names {
		if n == current {
			rendered = append(rendered, activeTabStyle.Render(n))
		} else {
			rendered = append(rendered, tabStyle.Render(n))
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	if width > 0 {
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}
