package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"busmap.londonbus.dev/internal/app"
	"busmap.londonbus.dev/internal/config"
	"busmap.londonbus.dev/internal/models"
	"busmap.londonbus.dev/internal/report"
	"busmap.londonbus.dev/internal/transport"
	"busmap.londonbus.dev/internal/tui"
	"busmap.londonbus.dev/internal/utils"
)

var version = "1.0.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "busmap-tui",
	Short: "Watch London buses approach a point of your choosing",
	Long: `Check bus lines from the TfL catalog and see where their buses are,
colored by how far they are from a fixed point you set.`,
	SilenceUsage: true,
	RunE:         run,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.busmap.yaml)")
	rootCmd.Flags().String("env", "development", "Environment (development|staging|production)")
	rootCmd.Flags().String("cache", config.CacheSQLite, "Geocode cache backend (sqlite|redis|none)")
	rootCmd.Flags().String("log-file", "", "Log file (default is $HOME/.busmap/busmap.log)")

	cobra.CheckErr(viper.BindPFlag("env", rootCmd.Flags().Lookup("env")))
	cobra.CheckErr(viper.BindPFlag("cache.backend", rootCmd.Flags().Lookup("cache")))
	cobra.CheckErr(viper.BindPFlag("log.file", rootCmd.Flags().Lookup("log-file")))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".busmap")
	}
	setDefaults(viper.GetViper(), home)

	// tfl.app_key is read from TFL_APP_KEY, geocode.api_key from GEOCODE_API_KEY.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults(v *viper.Viper, home string) {
	d := config.NewConfig(config.DefaultPort, "development")
	v.SetDefault("env", d.Env)
	v.SetDefault("tfl.base_url", d.TflBaseURL)
	v.SetDefault("geocode.base_url", d.GeocodeBaseURL)
	v.SetDefault("geocode.city", d.GeocodeCity)
	v.SetDefault("geocode.rate_limit", d.GeocodeRateLimit)
	v.SetDefault("geocode.burst", d.GeocodeBurst)
	v.SetDefault("geocode.workers", d.GeocodeWorkers)
	v.SetDefault("poll_interval", d.PollInterval)
	v.SetDefault("max_retries", d.MaxRetries)
	v.SetDefault("cache.backend", d.CacheBackend)
	v.SetDefault("cache.path", filepath.Join(home, ".busmap", "geocode.db"))
	v.SetDefault("cache.ttl", d.CacheTTL)
	v.SetDefault("fixed_point.latitude", d.DefaultFixedPoint.Latitude)
	v.SetDefault("fixed_point.longitude", d.DefaultFixedPoint.Longitude)
	v.SetDefault("log.file", filepath.Join(home, ".busmap", "busmap.log"))
}

// configFromViper maps the viper keys onto the engine configuration.
func configFromViper(v *viper.Viper) (*config.Config, error) {
	cfg := config.NewConfig(config.DefaultPort, v.GetString("env"))
	cfg.TflBaseURL = v.GetString("tfl.base_url")
	cfg.TflAppKey = v.GetString("tfl.app_key")
	cfg.GeocodeBaseURL = v.GetString("geocode.base_url")
	cfg.GeocodeAPIKey = v.GetString("geocode.api_key")
	cfg.GeocodeCity = v.GetString("geocode.city")
	cfg.GeocodeRateLimit = v.GetFloat64("geocode.rate_limit")
	cfg.GeocodeBurst = v.GetInt("geocode.burst")
	cfg.GeocodeWorkers = v.GetInt("geocode.workers")
	cfg.PollInterval = v.GetDuration("poll_interval")
	cfg.MaxRetries = v.GetInt("max_retries")
	cfg.CacheBackend = v.GetString("cache.backend")
	cfg.CachePath = v.GetString("cache.path")
	cfg.CacheTTL = v.GetDuration("cache.ttl")
	cfg.RedisAddr = v.GetString("redis.addr")
	cfg.RedisPassword = v.GetString("redis.password")
	cfg.DefaultFixedPoint = models.FixedPoint{
		Latitude:  v.GetFloat64("fixed_point.latitude"),
		Longitude: v.GetFloat64("fixed_point.longitude"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openLog creates the log file. The terminal itself belongs to the UI.
func openLog(path string) (*os.File, error) {
	bootstrap := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := utils.CreateCacheDirectory(filepath.Dir(path), bootstrap); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := configFromViper(viper.GetViper())
	if err != nil {
		return err
	}

	logFile, err := openLog(viper.GetString("log.file"))
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, nil))

	report.SetupSentry(cfg.Env, version)
	defer report.FlushSentry()
	report.ConfigureScope(cfg.Env, version)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client := transport.NewPooledClient(10 * time.Second)
	application, err := app.New(ctx, cfg, logger, client, version)
	if err != nil {
		report.ReportError(err, sentry.LevelFatal)
		return err
	}
	defer application.Close()

	application.Start(ctx)
	logger.Info("terminal screen started", "env", cfg.Env, "version", version, "cache", cfg.CacheBackend)

	_, err = tea.NewProgram(tui.New(application.Store), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	logger.Info("terminal screen stopped")
	return err
}
