package geocode

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"busmap.londonbus.dev/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS geocode_cache (
	query      TEXT PRIMARY KEY,
	latitude   REAL NOT NULL,
	longitude  REAL NOT NULL,
	created_at INTEGER NOT NULL
)`

// SQLiteCache persists lookups in a local SQLite file so restarts do not
// spend the geocoder quota on stations already seen.
type SQLiteCache struct {
	conn    *sql.DB
	writeMu sync.Mutex
	ttl     time.Duration
}

// OpenSQLiteCache opens (or creates) the cache database at path.
// Entries older than ttl are treated as misses; ttl <= 0 keeps them forever.
func OpenSQLiteCache(ctx context.Context, path string, ttl time.Duration) (*SQLiteCache, error) {
	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open geocode cache: %w", err)
	}

	// Single writer; lookups run from several workers.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping geocode cache: %w", err)
	}
	if _, err := conn.ExecContext(ctx, sqliteSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create geocode cache schema: %w", err)
	}

	return &SQLiteCache{conn: conn, ttl: ttl}, nil
}

func (c *SQLiteCache) Get(ctx context.Context, query string) (models.Coordinate, bool, error) {
	var coord models.Coordinate
	var createdAt int64
	err := c.conn.QueryRowContext(ctx,
		`SELECT latitude, longitude, created_at FROM geocode_cache WHERE query = ?`, query,
	).Scan(&coord.Latitude, &coord.Longitude, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Coordinate{}, false, nil
	}
	if err != nil {
		return models.Coordinate{}, false, fmt.Errorf("failed to read geocode cache: %w", err)
	}
	if c.ttl > 0 && time.Since(time.Unix(createdAt, 0)) > c.ttl {
		return models.Coordinate{}, false, nil
	}
	return coord, true, nil
}

func (c *SQLiteCache) Put(ctx context.Context, query string, coord models.Coordinate) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_, err := c.conn.ExecContext(ctx, `
		INSERT INTO geocode_cache (query, latitude, longitude, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(query) DO UPDATE SET latitude = excluded.latitude, longitude = excluded.longitude, created_at = excluded.created_at`,
		query, coord.Latitude, coord.Longitude, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write geocode cache: %w", err)
	}
	return nil
}

func (c *SQLiteCache) Close() error {
	return c.conn.Close()
}
