package config

import (
	"errors"
	"fmt"
	"time"

	"busmap.londonbus.dev/internal/models"
)

const (
	DefaultPort           = 4000
	DefaultTflBaseURL     = "https://api.tfl.gov.uk"
	DefaultGeocodeBaseURL = "https://geocode.maps.co"
	DefaultGeocodeCity    = "London"
	DefaultCachePath      = "cache/geocode.db"
)

// Cache backends for geocoding results.
const (
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config holds all the configuration settings for our application.
type Config struct {
	Port int
	Env  string

	TflBaseURL string
	TflAppKey  string

	GeocodeBaseURL   string
	GeocodeAPIKey    string
	GeocodeCity      string
	GeocodeRateLimit float64
	GeocodeBurst     int
	GeocodeWorkers   int

	PollInterval time.Duration
	MaxRetries   int

	CacheBackend  string
	CachePath     string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string

	DefaultFixedPoint models.FixedPoint

	// AllowedOrigins may call the HTTP API from a browser.
	AllowedOrigins []string
}

// NewConfig creates a Config with every tunable at its default.
func NewConfig(port int, env string) *Config {
	return &Config{
		Port:              port,
		Env:               env,
		TflBaseURL:        DefaultTflBaseURL,
		GeocodeBaseURL:    DefaultGeocodeBaseURL,
		GeocodeCity:       DefaultGeocodeCity,
		GeocodeRateLimit:  2,
		GeocodeBurst:      1,
		GeocodeWorkers:    2,
		PollInterval:      60 * time.Second,
		MaxRetries:        3,
		CacheBackend:      CacheSQLite,
		CachePath:         DefaultCachePath,
		CacheTTL:          30 * 24 * time.Hour,
		DefaultFixedPoint: models.DefaultFixedPoint,
	}
}

// FileConfig is the JSON document accepted by --config-file and --config-url.
// Zero values leave the corresponding default untouched.
type FileConfig struct {
	TflBaseURL          string             `json:"tfl_base_url"`
	GeocodeBaseURL      string             `json:"geocode_base_url"`
	GeocodeCity         *string            `json:"geocode_city"`
	GeocodeRateLimit    float64            `json:"geocode_rate_limit"`
	GeocodeBurst        int                `json:"geocode_burst"`
	GeocodeWorkers      int                `json:"geocode_workers"`
	PollIntervalSeconds int                `json:"poll_interval_seconds"`
	CacheBackend        string             `json:"cache_backend"`
	CachePath           string             `json:"cache_path"`
	CacheTTLHours       int                `json:"cache_ttl_hours"`
	RedisAddr           string             `json:"redis_addr"`
	DefaultFixedPoint   *models.FixedPoint `json:"default_fixed_point"`
	AllowedOrigins      []string           `json:"allowed_origins"`
}

// Apply overlays the non-zero fields of fc onto cfg.
func (cfg *Config) Apply(fc FileConfig) {
	if fc.TflBaseURL != "" {
		cfg.TflBaseURL = fc.TflBaseURL
	}
	if fc.GeocodeBaseURL != "" {
		cfg.GeocodeBaseURL = fc.GeocodeBaseURL
	}
	if fc.GeocodeCity != nil {
		cfg.GeocodeCity = *fc.GeocodeCity
	}
	if fc.GeocodeRateLimit > 0 {
		cfg.GeocodeRateLimit = fc.GeocodeRateLimit
	}
	if fc.GeocodeBurst > 0 {
		cfg.GeocodeBurst = fc.GeocodeBurst
	}
	if fc.GeocodeWorkers > 0 {
		cfg.GeocodeWorkers = fc.GeocodeWorkers
	}
	if fc.PollIntervalSeconds > 0 {
		cfg.PollInterval = time.Duration(fc.PollIntervalSeconds) * time.Second
	}
	if fc.CacheBackend != "" {
		cfg.CacheBackend = fc.CacheBackend
	}
	if fc.CachePath != "" {
		cfg.CachePath = fc.CachePath
	}
	if fc.CacheTTLHours > 0 {
		cfg.CacheTTL = time.Duration(fc.CacheTTLHours) * time.Hour
	}
	if fc.RedisAddr != "" {
		cfg.RedisAddr = fc.RedisAddr
	}
	if fc.DefaultFixedPoint != nil {
		cfg.DefaultFixedPoint = *fc.DefaultFixedPoint
	}
	if len(fc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
}

// ApplyEnv reads secrets that never live in config files.
func (cfg *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("TFL_APP_KEY"); v != "" {
		cfg.TflAppKey = v
	}
	if v := getenv("GEOCODE_API_KEY"); v != "" {
		cfg.GeocodeAPIKey = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
}

// Validate reports every invalid setting at once.
func (cfg *Config) Validate() error {
	var errs []error
	if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", cfg.Port))
	}
	if cfg.PollInterval < time.Second {
		errs = append(errs, fmt.Errorf("poll interval %s is shorter than one second", cfg.PollInterval))
	}
	switch cfg.CacheBackend {
	case CacheSQLite, CacheNone:
	case CacheRedis:
		if cfg.RedisAddr == "" {
			errs = append(errs, errors.New("cache backend redis requires redis_addr or REDIS_ADDR"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend))
	}
	return errors.Join(errs...)
}
