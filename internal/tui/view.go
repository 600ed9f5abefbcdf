package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"busmap.londonbus.dev/internal/models"
	"busmap.londonbus.dev/internal/screen"
)

func (m Model) View() string {
	var body string
	switch m.state.View {
	case screen.ViewMap:
		body = m.mapView()
	default:
		body = m.linesView()
	}

	header := headerStyle.Render(appTitle) + " " + tabs(string(m.state.View), max(0, m.width-10))
	sep := dividerStyle.Render(strings.Repeat("─", max(0, m.width)))

	parts := []string{header}
	if m.state.ErrorMessage != "" {
		parts = append(parts, bannerStyle.Render(m.state.ErrorMessage))
	}
	parts = append(parts, sep, contentStyle.Render(body))
	if m.editing {
		input := m.input.View()
		if m.inputErr != "" {
			input += "\n" + inputErrStyle.Render(m.inputErr)
		}
		parts = append(parts, input)
	}
	parts = append(parts, sep, m.help.View(m.keys))

	layout := lipgloss.JoinVertical(lipgloss.Left, parts...)
	if m.width > 0 {
		layout = lipgloss.NewStyle().Width(m.width).Render(layout)
	}
	return layout
}

func (m Model) linesView() string {
	if !m.state.CatalogLoaded {
		if m.state.ErrorMessage != "" {
			return faintStyle.Render("No bus lines available.")
		}
		return faintStyle.Render("Loading bus lines...")
	}
	if len(m.state.Lines) == 0 {
		return faintStyle.Render("No bus lines available.")
	}

	from, to := visibleRange(m.cursor, len(m.state.Lines), m.listHeight())
	b := &strings.Builder{}
	fmt.Fprintf(b, "%d of %d lines checked\n\n", len(m.state.Selected), len(m.state.Lines))
	for i := from; i < to; i++ {
		line := m.state.Lines[i]
		box := "[ ]"
		if m.state.IsSelected(line.ID) {
			box = checkedStyle.Render("[x]")
		}
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		// Lines are labelled by id.
		fmt.Fprintf(b, "%s%s %s\n", pointer, box, line.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) mapView() string {
	b := &strings.Builder{}
	fp := m.state.FixedPoint
	fmt.Fprintln(b, fixedPointStyle.Render(fmt.Sprintf("◆ Lat: %.4f, Lng: %.4f", fp.Latitude, fp.Longitude)))
	fmt.Fprintln(b)

	views := m.state.MarkerViews()
	if len(views) == 0 {
		if len(m.state.Selected) == 0 {
			b.WriteString(faintStyle.Render("No lines checked. Switch to the line list to pick some."))
		} else {
			b.WriteString(faintStyle.Render("No buses located yet."))
		}
		return b.String()
	}

	counts := make(map[models.Tier]int, 3)
	for _, v := range views {
		counts[v.Tier]++
	}
	fmt.Fprintf(b, "%s  %s  %s\n\n",
		tierStyle(models.TierNear).Render(fmt.Sprintf("near %d", counts[models.TierNear])),
		tierStyle(models.TierMedium).Render(fmt.Sprintf("medium %d", counts[models.TierMedium])),
		tierStyle(models.TierFar).Render(fmt.Sprintf("far %d", counts[models.TierFar])),
	)

	limit := len(views)
	if h := m.listHeight(); h > 0 && h < limit {
		limit = h
	}
	for _, v := range views[:limit] {
		fmt.Fprintln(b, tierStyle(v.Tier).Render(fmt.Sprintf("● %8.4f, %8.4f  %6.2f km  %s", v.Latitude, v.Longitude, v.DistanceKm, v.Tier)))
	}
	if limit < len(views) {
		fmt.Fprint(b, faintStyle.Render(fmt.Sprintf("… %d more", len(views)-limit)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// listHeight is the number of rows left for list entries, or 0 before the
// first window size is known.
func (m Model) listHeight() int {
	if m.height == 0 {
		return 0
	}
	return max(3, m.height-12)
}

// visibleRange returns the window [from, to) of n rows that keeps cursor in view.
func visibleRange(cursor, n, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	from := cursor - height/2
	from = max(0, min(from, n-height))
	return from, from + height
}
