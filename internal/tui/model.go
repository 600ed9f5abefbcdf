// Package tui renders the bus map screen in a terminal.
package tui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"busmap.londonbus.dev/internal/models"
	"busmap.londonbus.dev/internal/screen"
)

// RefreshInterval is how often the model re-reads the store. The poller and
// catalog loader write to the store from their own goroutines.
const RefreshInterval = time.Second

// Store is the part of screen.Store the terminal needs.
type Store interface {
	Dispatch(screen.Action) screen.State
	Snapshot() screen.State
}

type refreshMsg time.Time

// Model is the bubbletea model of the terminal screen.
type Model struct {
	store  Store
	state  screen.State
	cursor int

	editing  bool
	input    textinput.Model
	inputErr string

	width  int
	height int

	keys keyMap
	help help.Model
}

// New returns a model reading from and dispatching to store.
func New(store Store) Model {
	ti := textinput.New()
	ti.Placeholder = "51.5074,-0.1278"
	ti.Prompt = "fixed point> "
	ti.CharLimit = 48

	return Model{
		store: store,
		state: store.Snapshot(),
		input: ti,
		keys:  keys,
		help:  help.New(),
	}
}

func refresh() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return refresh()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case refreshMsg:
		m.state = m.store.Snapshot()
		m.clampCursor()
		return m, refresh()

	case tea.KeyMsg:
		if m.editing {
			return m.updateInput(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.View):
			m.state = m.store.Dispatch(screen.ViewToggled{})
		case key.Matches(msg, m.keys.FixedPoint):
			m.editing = true
			m.inputErr = ""
			m.input.SetValue(formatPoint(m.state.FixedPoint))
			m.input.CursorEnd()
			cmd := m.input.Focus()
			return m, cmd
		case m.state.View != screen.ViewLines:
			// List navigation only applies to the line view.
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.state.Lines)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			if m.cursor < len(m.state.Lines) {
				m.state = m.store.Dispatch(screen.LineToggled{LineID: m.state.Lines[m.cursor].ID})
			}
		}
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		m.inputErr = ""
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		p, err := parsePoint(m.input.Value())
		if err != nil {
			m.inputErr = err.Error()
			return m, nil
		}
		m.state = m.store.Dispatch(screen.FixedPointSet{Point: p})
		m.editing = false
		m.inputErr = ""
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.state.Lines) {
		m.cursor = max(0, len(m.state.Lines)-1)
	}
}

// parsePoint reads "lat,lon" in degrees. Any finite pair is accepted;
// points outside London are legal and simply classify everything as far.
func parsePoint(s string) (models.FixedPoint, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return models.FixedPoint{}, errors.New("expected latitude,longitude")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return models.FixedPoint{}, fmt.Errorf("invalid latitude %q", strings.TrimSpace(latStr))
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return models.FixedPoint{}, fmt.Errorf("invalid longitude %q", strings.TrimSpace(lonStr))
	}
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return models.FixedPoint{}, errors.New("coordinates must be finite")
	}
	return models.FixedPoint{Latitude: lat, Longitude: lon}, nil
}

func formatPoint(p models.FixedPoint) string {
	return fmt.Sprintf("%.4f,%.4f", p.Latitude, p.Longitude)
}
