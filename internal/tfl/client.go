// Package tfl talks to the Transport for London unified API.
package tfl

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"busmap.londonbus.dev/internal/metrics"
	"busmap.londonbus.dev/internal/models"
	"busmap.londonbus.dev/internal/transport"
)

const upstream = "tfl"

// Client fetches the bus line catalog and live arrivals.
type Client struct {
	BaseURL string
	AppKey  string
	HTTP    *http.Client
	Logger  *slog.Logger
}

// NewClient creates a TfL client. appKey may be empty; TfL serves anonymous
// callers at a lower quota.
func NewClient(baseURL, appKey string, httpClient *http.Client, logger *slog.Logger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		AppKey:  appKey,
		HTTP:    httpClient,
		Logger:  logger,
	}
}

// Lines returns every bus line in catalog order.
func (c *Client) Lines(ctx context.Context) ([]models.BusLine, error) {
	var lines []models.BusLine
	if err := transport.GetJSON(ctx, c.HTTP, c.endpoint("/Line/Mode/bus"), &lines); err != nil {
		metrics.SetUpstreamStatus(upstream, false)
		return nil, fmt.Errorf("failed to fetch line catalog: %w", err)
	}
	metrics.SetUpstreamStatus(upstream, true)

	// The catalog occasionally carries blank rows; they cannot be selected.
	out := lines[:0]
	for _, l := range lines {
		if l.ID != "" {
			out = append(out, l)
		}
	}
	c.Logger.Debug("Fetched line catalog", "lines", len(out))
	return out, nil
}

// Arrivals returns the live arrival predictions for one line.
func (c *Client) Arrivals(ctx context.Context, lineID string) ([]models.ArrivalRecord, error) {
	var arrivals []models.ArrivalRecord
	path := "/Line/" + url.PathEscape(lineID) + "/Arrivals"
	if err := transport.GetJSON(ctx, c.HTTP, c.endpoint(path), &arrivals); err != nil {
		metrics.SetUpstreamStatus(upstream, false)
		return nil, fmt.Errorf("failed to fetch arrivals for line %s: %w", lineID, err)
	}
	metrics.SetUpstreamStatus(upstream, true)
	metrics.ArrivalRecords.WithLabelValues(lineID).Set(float64(len(arrivals)))
	return arrivals, nil
}

func (c *Client) endpoint(path string) string {
	u := c.BaseURL + path
	if c.AppKey != "" {
		u += "?app_key=" + url.QueryEscape(c.AppKey)
	}
	return u
}
