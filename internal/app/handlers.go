package app

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"busmap.londonbus.dev/internal/models"
	"busmap.londonbus.dev/internal/screen"
)

// HealthStatus is the body of /v1/healthcheck. Ready turns true once the
// line catalog has loaded.
type HealthStatus struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
	Lines       int    `json:"lines"`
	Ready       bool   `json:"ready"`
}

func (app *Application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	s := app.Store.Snapshot()

	status := HealthStatus{
		Status:      "available",
		Environment: app.Config.Env,
		Version:     app.Version,
		Lines:       len(s.Lines),
		Ready:       s.CatalogLoaded,
	}

	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	app.writeJSON(w, code, status)
}

type lineResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
}

type fixedPointResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Color     string  `json:"color"`
}

type screenResponse struct {
	View       screen.View         `json:"view"`
	Lines      []lineResponse      `json:"lines"`
	Selected   []string            `json:"selected"`
	FixedPoint fixedPointResponse  `json:"fixed_point"`
	Markers    []screen.MarkerView `json:"markers"`
	Error      string              `json:"error,omitempty"`
	Generation uint64              `json:"generation"`
}

func linesOf(s screen.State) []lineResponse {
	out := make([]lineResponse, len(s.Lines))
	for i, l := range s.Lines {
		out[i] = lineResponse{ID: l.ID, Name: l.Name, Checked: s.IsSelected(l.ID)}
	}
	return out
}

func fixedPointOf(s screen.State) fixedPointResponse {
	return fixedPointResponse{
		Latitude:  s.FixedPoint.Latitude,
		Longitude: s.FixedPoint.Longitude,
		Color:     models.FixedPointColor,
	}
}

func selectedOf(s screen.State) []string {
	if s.Selected == nil {
		return []string{}
	}
	return s.Selected
}

func screenOf(s screen.State) screenResponse {
	return screenResponse{
		View:       s.View,
		Lines:      linesOf(s),
		Selected:   selectedOf(s),
		FixedPoint: fixedPointOf(s),
		Markers:    s.MarkerViews(),
		Error:      s.ErrorMessage,
		Generation: s.Generation,
	}
}

func (app *Application) screenHandler(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, envelope{"screen": screenOf(app.Store.Snapshot())})
}

func (app *Application) listLinesHandler(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, envelope{"lines": linesOf(app.Store.Snapshot())})
}

func (app *Application) toggleLineHandler(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	if !app.Store.Snapshot().HasLine(id) {
		app.notFoundResponse(w, r)
		return
	}

	s := app.Store.Dispatch(screen.LineToggled{LineID: id})
	app.Logger.Info("Toggled line", "line_id", id, "checked", s.IsSelected(id), "generation", s.Generation)
	app.writeJSON(w, http.StatusOK, envelope{
		"line":     lineResponse{ID: id, Name: lineName(s, id), Checked: s.IsSelected(id)},
		"selected": selectedOf(s),
	})
}

func lineName(s screen.State, id string) string {
	for _, l := range s.Lines {
		if l.ID == id {
			return l.Name
		}
	}
	return ""
}

func (app *Application) showFixedPointHandler(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, envelope{"fixed_point": fixedPointOf(app.Store.Snapshot())})
}

func (app *Application) updateFixedPointHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.badRequestResponse(w, err)
		return
	}
	if input.Latitude == nil || input.Longitude == nil {
		app.badRequestResponse(w, errors.New("latitude and longitude are required"))
		return
	}

	s := app.Store.Dispatch(screen.FixedPointSet{Point: models.FixedPoint{
		Latitude:  *input.Latitude,
		Longitude: *input.Longitude,
	}})
	app.writeJSON(w, http.StatusOK, envelope{
		"fixed_point": fixedPointOf(s),
		"markers":     s.MarkerViews(),
	})
}

func (app *Application) listMarkersHandler(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, envelope{"markers": app.Store.Snapshot().MarkerViews()})
}

func (app *Application) toggleViewHandler(w http.ResponseWriter, r *http.Request) {
	s := app.Store.Dispatch(screen.ViewToggled{})
	app.writeJSON(w, http.StatusOK, envelope{"view": s.View})
}
