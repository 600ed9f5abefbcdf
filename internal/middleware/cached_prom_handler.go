package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// CachedPromHandler serves a Prometheus text exposition that is re-gathered
// every ttl instead of on each scrape.
type CachedPromHandler struct {
	mu       sync.RWMutex
	cache    []byte
	gathered time.Time
	ttl      time.Duration
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

var textFormat = expfmt.NewFormat(expfmt.TypeTextPlain)

// NewCachedPromHandler gathers once synchronously, then keeps the cache warm
// until ctx is cancelled.
func NewCachedPromHandler(ctx context.Context, gatherer prometheus.Gatherer, ttl time.Duration, logger *slog.Logger) *CachedPromHandler {
	c := &CachedPromHandler{
		ttl:      ttl,
		gatherer: gatherer,
		logger:   logger,
	}
	c.refresh()

	go c.refreshLoop(ctx)
	return c
}

func (c *CachedPromHandler) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.refresh()
		}
	}
}

func (c *CachedPromHandler) refresh() {
	families, err := c.gatherer.Gather()
	if err != nil {
		// Gather returns what it could collect alongside the error.
		c.logger.Warn("Partial metrics gather", "error", err)
	}

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, textFormat)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			c.logger.Error("Failed to encode metric family", "name", mf.GetName(), "error", err)
			return
		}
	}

	c.mu.Lock()
	c.cache = buf.Bytes()
	c.gathered = time.Now()
	c.mu.Unlock()
}

func (c *CachedPromHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.RLock()
	body, gathered := c.cache, c.gathered
	c.mu.RUnlock()

	w.Header().Set("Content-Type", string(textFormat))
	w.Header().Set("Last-Modified", gathered.UTC().Format(http.TimeFormat))
	_, _ = w.Write(body)
}
