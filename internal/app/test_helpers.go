package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"busmap.londonbus.dev/internal/config"
	"busmap.londonbus.dev/internal/geocode"
	"busmap.londonbus.dev/internal/models"
	"busmap.londonbus.dev/internal/screen"
)

var testLines = []models.BusLine{
	{ID: "15", Name: "15"},
	{ID: "24", Name: "24"},
	{ID: "n15", Name: "N15"},
}

// newTestApplication returns an Application with a loaded catalog and no background work.
func newTestApplication(t *testing.T) *Application {
	t.Helper()

	cfg := config.NewConfig(4000, "testing")
	store := screen.NewStore(screen.Initial(cfg.DefaultFixedPoint))
	store.Dispatch(screen.CatalogLoaded{Lines: testLines})

	return &Application{
		Config:  cfg,
		Store:   store,
		Cache:   geocode.NopCache{},
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Version: "test-version",
	}
}

// newTestServer serves app.Routes and closes it with the test.
func newTestServer(t *testing.T, app *Application) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	ts := httptest.NewServer(app.Routes(ctx))
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return ts
}

func doRequest(t *testing.T, ts *httptest.Server, method, path, body string) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(raw)
}
