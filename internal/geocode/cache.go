package geocode

import (
	"context"

	"busmap.londonbus.dev/internal/models"
)

// Cache memoizes successful lookups keyed by the full geocoder query.
type Cache interface {
	Get(ctx context.Context, query string) (models.Coordinate, bool, error)
	Put(ctx context.Context, query string, c models.Coordinate) error
	Close() error
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (models.Coordinate, bool, error) {
	return models.Coordinate{}, false, nil
}

func (NopCache) Put(context.Context, string, models.Coordinate) error { return nil }

func (NopCache) Close() error { return nil }
