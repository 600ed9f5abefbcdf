package config

import (
	"bytes"
	"context"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"busmap.londonbus.dev/internal/models"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.json")
	if err != nil {
		t.Fatalf("Failed to create temporary file: %v", err)
	}
	if _, err := tmpFile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write to temporary file: %v", err)
	}
	tmpFile.Close()
	return tmpFile.Name()
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		path := writeTempConfig(t, `{
			"tfl_base_url": "https://tfl.example.com",
			"geocode_city": "Greater London",
			"geocode_rate_limit": 1.5,
			"poll_interval_seconds": 30,
			"default_fixed_point": {"latitude": 51.5033, "longitude": -0.1195}
		}`)

		fc, err := loadConfigFromFile(path)
		if err != nil {
			t.Fatalf("loadConfigFromFile failed: %v", err)
		}

		if fc.TflBaseURL != "https://tfl.example.com" {
			t.Errorf("unexpected tfl_base_url %q", fc.TflBaseURL)
		}
		if fc.GeocodeCity == nil || *fc.GeocodeCity != "Greater London" {
			t.Errorf("unexpected geocode_city %v", fc.GeocodeCity)
		}
		if fc.PollIntervalSeconds != 30 {
			t.Errorf("unexpected poll interval %d", fc.PollIntervalSeconds)
		}
		if fc.DefaultFixedPoint == nil || *fc.DefaultFixedPoint != (models.FixedPoint{Latitude: 51.5033, Longitude: -0.1195}) {
			t.Errorf("unexpected fixed point %+v", fc.DefaultFixedPoint)
		}
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		path := writeTempConfig(t, `{ this is not valid JSON }`)
		if _, err := loadConfigFromFile(path); err == nil {
			t.Errorf("Expected error with invalid JSON, got none")
		}
	})

	t.Run("NonExistentFile", func(t *testing.T) {
		if _, err := loadConfigFromFile("non-existent-file.json"); err == nil {
			t.Errorf("Expected error for non-existent file, got none")
		}
	})
}

func TestLoadConfigFromURL(t *testing.T) {
	client := &http.Client{
		Timeout: 10 * time.Second,
	}
	ctx := context.Background()

	t.Run("ValidResponse", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || user != "user" || pass != "pass" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"geocode_base_url": "https://geo.example.com", "geocode_workers": 4}`))
		}))
		defer ts.Close()

		fc, err := loadConfigFromURL(ctx, client, ts.URL, "user", "pass", 1)
		if err != nil {
			t.Fatalf("loadConfigFromURL failed: %v", err)
		}
		if fc.GeocodeBaseURL != "https://geo.example.com" || fc.GeocodeWorkers != 4 {
			t.Errorf("unexpected config %+v", fc)
		}
	})

	t.Run("ErrorResponse", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer ts.Close()

		_, err := loadConfigFromURL(ctx, client, ts.URL, "", "", 1)
		if err == nil || !strings.Contains(err.Error(), "403") {
			t.Errorf("Expected error with 403 response, got %v", err)
		}
	})

	t.Run("InvalidJSONResponse", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{ this is not valid JSON }`))
		}))
		defer ts.Close()

		if _, err := loadConfigFromURL(ctx, client, ts.URL, "", "", 1); err == nil {
			t.Errorf("Expected error for invalid JSON response, got none")
		}
	})

	t.Run("InvalidURL", func(t *testing.T) {
		_, err := loadConfigFromURL(ctx, client, "://invalid-url", "", "", 1)
		if err == nil || !strings.Contains(err.Error(), "failed to create request") {
			t.Errorf("Expected request creation error, got: %v", err)
		}
	})
}

func TestValidateConfigFlags(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		configURL   string
		extraArgs   []string
		expectError bool
	}{
		{"No config uses defaults", "", "", nil, false},
		{"Valid local config", "config.json", "", nil, false},
		{"Valid remote config", "", "http://example.com/config.json", nil, false},
		{"Both config file and URL", "config.json", "http://example.com/config.json", nil, true},
		{"Config file with extra args", "config.json", "", []string{"extraArg"}, true},
		{"Config URL with extra args", "", "http://example.com/config.json", []string{"extraArg"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(tt.name, flag.ContinueOnError)
			var output bytes.Buffer
			flag.CommandLine.SetOutput(&output)

			configFile := flag.String("config-file", "", "Path to config file")
			configURL := flag.String("config-url", "", "URL to config")

			args := []string{"cmd"}
			if tt.configFile != "" {
				args = append(args, "--config-file="+tt.configFile)
			}
			if tt.configURL != "" {
				args = append(args, "--config-url="+tt.configURL)
			}
			args = append(args, tt.extraArgs...)

			flag.CommandLine.Parse(args[1:])

			err := ValidateConfigFlags(configFile, configURL)

			if (err != nil) != tt.expectError {
				t.Errorf("Expected error: %v, got: %v", tt.expectError, err)
			}
			if err != nil && !strings.Contains(err.Error(), "only one of --config-file or --config-url") {
				t.Errorf("Unexpected error message: %v", err)
			}
		})
	}
}

func TestConfigService_Load(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := map[string]string{"TFL_APP_KEY": "tfl-secret", "GEOCODE_API_KEY": "geo-secret"}
	getenv := func(k string) string { return env[k] }

	t.Run("defaults only", func(t *testing.T) {
		cfg := NewConfig(4000, "testing")
		cs := NewConfigService(logger, http.DefaultClient, cfg)
		if err := cs.Load(context.Background(), "", "", "", "", getenv); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.TflAppKey != "tfl-secret" || cfg.GeocodeAPIKey != "geo-secret" {
			t.Errorf("expected secrets from the environment, got %q/%q", cfg.TflAppKey, cfg.GeocodeAPIKey)
		}
		if cfg.PollInterval != time.Minute || cfg.GeocodeRateLimit != 2 || cfg.GeocodeWorkers != 2 {
			t.Errorf("unexpected defaults %+v", cfg)
		}
		if cfg.DefaultFixedPoint != models.DefaultFixedPoint {
			t.Errorf("unexpected default fixed point %+v", cfg.DefaultFixedPoint)
		}
	})

	t.Run("file overlay", func(t *testing.T) {
		path := writeTempConfig(t, `{"poll_interval_seconds": 15, "cache_backend": "none", "geocode_city": ""}`)
		cfg := NewConfig(4000, "testing")
		cs := NewConfigService(logger, http.DefaultClient, cfg)
		if err := cs.Load(context.Background(), path, "", "", "", getenv); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.PollInterval != 15*time.Second || cfg.CacheBackend != CacheNone {
			t.Errorf("overlay not applied: %+v", cfg)
		}
		if cfg.GeocodeCity != "" {
			t.Errorf("expected an explicit empty city to clear the suffix, got %q", cfg.GeocodeCity)
		}
		if cfg.TflBaseURL != DefaultTflBaseURL {
			t.Errorf("expected untouched defaults to survive, got %q", cfg.TflBaseURL)
		}
	})

	t.Run("invalid overlay", func(t *testing.T) {
		path := writeTempConfig(t, `{"cache_backend": "redis"}`)
		cfg := NewConfig(4000, "testing")
		cs := NewConfigService(logger, http.DefaultClient, cfg)
		err := cs.Load(context.Background(), path, "", "", "", func(string) string { return "" })
		if err == nil || !strings.Contains(err.Error(), "redis") {
			t.Errorf("expected a redis validation error, got %v", err)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	cfg := NewConfig(0, "testing")
	cfg.PollInterval = time.Millisecond
	cfg.CacheBackend = "memcached"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"port", "poll interval", "memcached"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}
