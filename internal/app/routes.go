package app

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"

	"busmap.londonbus.dev/internal/middleware"
)

// Routes registers every endpoint of the screen API and wraps the router
// with recovery, Sentry, request logging, CORS and security headers.
func (app *Application) Routes(ctx context.Context) http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthcheckHandler)

	router.HandlerFunc(http.MethodGet, "/v1/screen", app.screenHandler)
	router.HandlerFunc(http.MethodGet, "/v1/lines", app.listLinesHandler)
	router.HandlerFunc(http.MethodPost, "/v1/lines/:id/toggle", app.toggleLineHandler)
	router.HandlerFunc(http.MethodGet, "/v1/fixed-point", app.showFixedPointHandler)
	router.HandlerFunc(http.MethodPut, "/v1/fixed-point", app.updateFixedPointHandler)
	router.HandlerFunc(http.MethodGet, "/v1/markers", app.listMarkersHandler)
	router.HandlerFunc(http.MethodPost, "/v1/view/toggle", app.toggleViewHandler)

	router.Handler(http.MethodGet, "/metrics", middleware.NewCachedPromHandler(ctx, prometheus.DefaultGatherer, 10*time.Second, app.Logger))

	var handler http.Handler = router
	handler = middleware.CORS(app.Config.AllowedOrigins)(handler)
	handler = middleware.LogRequests(app.Logger)(handler)
	handler = middleware.SentryMiddleware(handler)
	handler = middleware.RecoverPanic(app.Logger)(handler)
	return middleware.SecurityHeaders(handler)
}
