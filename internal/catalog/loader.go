// Package catalog loads the bus line catalog once at startup.
package catalog

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"

	"busmap.londonbus.dev/internal/models"
	"busmap.londonbus.dev/internal/report"
	"busmap.londonbus.dev/internal/screen"
	"busmap.londonbus.dev/internal/utils"
)

// LineSource lists every selectable bus line.
type LineSource interface {
	Lines(ctx context.Context) ([]models.BusLine, error)
}

// Loader fetches the catalog and hands the result to the screen store.
type Loader struct {
	Source LineSource
	Store  *screen.Store
	Logger *slog.Logger
}

func NewLoader(source LineSource, store *screen.Store, logger *slog.Logger) *Loader {
	return &Loader{Source: source, Store: store, Logger: logger}
}

// Load issues exactly one catalog request. A failure is surfaced as the
// error banner and is not retried; the catalog then stays empty.
func (l *Loader) Load(ctx context.Context) error {
	lines, err := l.Source.Lines(ctx)
	if err != nil {
		l.Store.Dispatch(screen.CatalogFailed{Message: screen.FetchFailureMessage(err)})
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("component", "catalog"),
			Level: sentry.LevelError,
		})
		l.Logger.Error("Failed to load line catalog", "error", err)
		return err
	}

	l.Store.Dispatch(screen.CatalogLoaded{Lines: lines})
	l.Logger.Info("Loaded line catalog", "lines", len(lines))
	return nil
}
