package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"busmap.londonbus.dev/internal/models"
	"busmap.londonbus.dev/internal/screen"
)

func newLoadedModel(t *testing.T) (Model, *screen.Store) {
	t.Helper()
	store := screen.NewStore(screen.Initial(models.DefaultFixedPoint))
	store.Dispatch(screen.CatalogLoaded{Lines: []models.BusLine{
		{ID: "1", Name: "1"},
		{ID: "15", Name: "15"},
		{ID: "n15", Name: "N15"},
	}})
	return New(store), store
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestToggleChecksLineUnderCursor(t *testing.T) {
	m, store := newLoadedModel(t)

	m = send(t, m, runes("j"))
	m = send(t, m, runes("x"))

	got := store.Snapshot().Selected
	if len(got) != 1 || got[0] != "15" {
		t.Fatalf("selected = %v, want [15]", got)
	}
	if !strings.Contains(m.View(), "[x] 15") {
		t.Errorf("view does not show line 15 checked:\n%s", m.View())
	}
	if !strings.Contains(m.View(), "[ ] n15") {
		t.Errorf("view does not label lines by id:\n%s", m.View())
	}

	m = send(t, m, runes("x"))
	if got := store.Snapshot().Selected; len(got) != 0 {
		t.Errorf("selected after second toggle = %v, want empty", got)
	}
}

func TestCursorStaysInBounds(t *testing.T) {
	m, _ := newLoadedModel(t)

	m = send(t, m, runes("k"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d after moving up from top, want 0", m.cursor)
	}
	for range 5 {
		m = send(t, m, runes("j"))
	}
	if m.cursor != 2 {
		t.Errorf("cursor = %d after moving past bottom, want 2", m.cursor)
	}
}

func TestViewToggleSwitchesPanels(t *testing.T) {
	m, store := newLoadedModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if store.Snapshot().View != screen.ViewMap {
		t.Fatalf("view = %q, want map", store.Snapshot().View)
	}
	if !strings.Contains(m.View(), "Lat: 51.5074, Lng: -0.1278") {
		t.Errorf("map view missing fixed point readout:\n%s", m.View())
	}

	// Toggling is a no-op outside the line list.
	m = send(t, m, runes("x"))
	if got := store.Snapshot().Selected; len(got) != 0 {
		t.Errorf("selected = %v, want empty", got)
	}

	send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if store.Snapshot().View != screen.ViewLines {
		t.Errorf("view = %q, want lines", store.Snapshot().View)
	}
}

func TestMapViewListsMarkersByTier(t *testing.T) {
	m, store := newLoadedModel(t)
	s := store.Dispatch(screen.LineToggled{LineID: "15"})
	store.Dispatch(screen.CyclePublished{
		Generation: s.Generation,
		Markers: []models.Marker{
			{Latitude: 51.5080, Longitude: -0.1281},
			{Latitude: 51.4700, Longitude: -0.0100},
		},
	})
	store.Dispatch(screen.ViewToggled{})

	m = send(t, m, refreshMsg{})
	out := m.View()
	for _, want := range []string{"near 1", "medium 0", "far 1", "0.07 km"} {
		if !strings.Contains(out, want) {
			t.Errorf("map view missing %q:\n%s", want, out)
		}
	}
}

func TestErrorBannerFollowsStore(t *testing.T) {
	m, store := newLoadedModel(t)
	store.Dispatch(screen.FetchFailed{Generation: 0, Message: screen.MessageNetwork})

	m = send(t, m, refreshMsg{})
	if !strings.Contains(m.View(), screen.MessageNetwork) {
		t.Errorf("banner missing:\n%s", m.View())
	}

	store.Dispatch(screen.CyclePublished{Generation: 0, Fetched: true})
	m = send(t, m, refreshMsg{})
	if strings.Contains(m.View(), screen.MessageNetwork) {
		t.Errorf("banner still shown after a clean cycle:\n%s", m.View())
	}
}

func TestFixedPointInput(t *testing.T) {
	m, store := newLoadedModel(t)

	m = send(t, m, runes("f"))
	if !m.editing {
		t.Fatal("expected input mode after f")
	}

	// Keys are text while editing.
	m = send(t, m, runes("q"))
	if !m.editing {
		t.Fatal("q should not leave input mode")
	}

	m.input.SetValue("nowhere")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.editing || m.inputErr == "" {
		t.Fatalf("invalid input accepted: editing=%v err=%q", m.editing, m.inputErr)
	}

	m.input.SetValue(" 51.52 , -0.09 ")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.editing {
		t.Fatal("still editing after valid input")
	}
	got := store.Snapshot().FixedPoint
	if got.Latitude != 51.52 || got.Longitude != -0.09 {
		t.Errorf("fixed point = %+v, want 51.52,-0.09", got)
	}
}

func TestFixedPointInputCancel(t *testing.T) {
	m, store := newLoadedModel(t)

	m = send(t, m, runes("f"))
	m.input.SetValue("0,0")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.editing {
		t.Error("still editing after esc")
	}
	if got := store.Snapshot().FixedPoint; got != models.DefaultFixedPoint {
		t.Errorf("fixed point changed to %+v on cancel", got)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newLoadedModel(t)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("command produced %T, want tea.QuitMsg", cmd())
	}
}

func TestLoadingState(t *testing.T) {
	store := screen.NewStore(screen.Initial(models.DefaultFixedPoint))
	m := New(store)
	if !strings.Contains(m.View(), "Loading bus lines") {
		t.Errorf("expected loading text:\n%s", m.View())
	}

	store.Dispatch(screen.CatalogFailed{Message: screen.MessageNetwork})
	m = send(t, m, refreshMsg{})
	out := m.View()
	if !strings.Contains(out, "No bus lines available") || !strings.Contains(out, screen.MessageNetwork) {
		t.Errorf("expected failure state:\n%s", out)
	}
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		want    models.FixedPoint
		wantErr bool
	}{
		{in: "51.5074,-0.1278", want: models.FixedPoint{Latitude: 51.5074, Longitude: -0.1278}},
		{in: "40.7, -74.0", want: models.FixedPoint{Latitude: 40.7, Longitude: -74.0}},
		{in: "51.5", wantErr: true},
		{in: "a,b", wantErr: true},
		{in: "NaN,0", wantErr: true},
		{in: "0,Inf", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePoint(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePoint(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parsePoint(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		cursor, n, height int
		from, to          int
	}{
		{cursor: 0, n: 5, height: 0, from: 0, to: 5},
		{cursor: 0, n: 5, height: 10, from: 0, to: 5},
		{cursor: 0, n: 100, height: 10, from: 0, to: 10},
		{cursor: 50, n: 100, height: 10, from: 45, to: 55},
		{cursor: 99, n: 100, height: 10, from: 90, to: 100},
	}
	for _, tt := range tests {
		from, to := visibleRange(tt.cursor, tt.n, tt.height)
		if from != tt.from || to != tt.to {
			t.Errorf("visibleRange(%d, %d, %d) = [%d, %d), want [%d, %d)", tt.cursor, tt.n, tt.height, from, to, tt.from, tt.to)
		}
	}
}
