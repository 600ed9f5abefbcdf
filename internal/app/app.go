package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"busmap.londonbus.dev/internal/catalog"
	"busmap.londonbus.dev/internal/config"
	"busmap.londonbus.dev/internal/geocode"
	"busmap.londonbus.dev/internal/poller"
	"busmap.londonbus.dev/internal/screen"
	"busmap.londonbus.dev/internal/tfl"
	"busmap.londonbus.dev/internal/utils"
)

// Application wires the screen store to its data sources and exposes it over HTTP.
// The terminal front-end embeds the same Application without calling Routes.
type Application struct {
	Config  *config.Config
	Store   *screen.Store
	Catalog *catalog.Loader
	Poller  *poller.Poller
	Cache   geocode.Cache
	Logger  *slog.Logger
	Version string
}

// New creates and wires all dependencies for the Application.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, client *http.Client, version string) (*Application, error) {
	cache, err := openCache(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	store := screen.NewStore(screen.Initial(cfg.DefaultFixedPoint))
	tflClient := tfl.NewClient(cfg.TflBaseURL, cfg.TflAppKey, client, logger)
	geocoder := geocode.NewGeocoder(geocode.Options{
		BaseURL:   cfg.GeocodeBaseURL,
		APIKey:    cfg.GeocodeAPIKey,
		City:      cfg.GeocodeCity,
		RateLimit: cfg.GeocodeRateLimit,
		Burst:     cfg.GeocodeBurst,
	}, client, cache, logger)

	return &Application{
		Config:  cfg,
		Store:   store,
		Catalog: catalog.NewLoader(tflClient, store, logger),
		Poller:  poller.New(tflClient, geocoder, store, cfg.PollInterval, cfg.GeocodeWorkers, logger),
		Cache:   cache,
		Logger:  logger,
		Version: version,
	}, nil
}

// Start loads the line catalog and runs the poller until ctx is done.
func (app *Application) Start(ctx context.Context) {
	go func() {
		// A failed catalog is already on the banner; the poller still runs
		// so the screen settles into a consistent empty state.
		_ = app.Catalog.Load(ctx)
	}()
	go app.Poller.Run(ctx)
}

// Close releases the geocode cache.
func (app *Application) Close() error {
	return app.Cache.Close()
}

func openCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (geocode.Cache, error) {
	switch cfg.CacheBackend {
	case config.CacheNone:
		return geocode.NopCache{}, nil

	case config.CacheRedis:
		cache, err := geocode.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		logger.Info("Using redis geocode cache", "addr", cfg.RedisAddr)
		return cache, nil

	default:
		if err := utils.CreateCacheDirectory(filepath.Dir(cfg.CachePath), logger); err != nil {
			return nil, fmt.Errorf("failed to prepare cache directory: %w", err)
		}
		cache, err := geocode.OpenSQLiteCache(ctx, cfg.CachePath, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		logger.Info("Using sqlite geocode cache", "path", cfg.CachePath)
		return cache, nil
	}
}
