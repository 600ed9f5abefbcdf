package config

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// ConfigService holds dependencies and provides config operations.
type ConfigService struct {
	Logger *slog.Logger
	Client *http.Client
	Config *Config
}

// NewConfigService creates a new ConfigService instance with the provided logger and HTTP client.
func NewConfigService(logger *slog.Logger, client *http.Client, config *Config) *ConfigService {
	return &ConfigService{
		Logger: logger,
		Client: client,
		Config: config,
	}
}

// LoadFromFile overlays the JSON file at filePath onto the service config.
func (cs *ConfigService) LoadFromFile(filePath string) error {
	fc, err := loadConfigFromFile(filePath)
	if err != nil {
		err := fmt.Errorf("failed to load config from file %s: %w", filePath, err)
		reportConfigError(err, "file_path", filePath)
		return err
	}
	cs.Config.Apply(fc)
	cs.Logger.Info("Loaded configuration file", "file_path", filePath)
	return nil
}

// LoadFromURL overlays the remote JSON document at url onto the service config.
func (cs *ConfigService) LoadFromURL(ctx context.Context, url, authUser, authPass string) error {
	fc, err := loadConfigFromURL(ctx, cs.Client, url, authUser, authPass, cs.Config.MaxRetries)
	if err != nil {
		err := fmt.Errorf("failed to load config from URL %s: %w", url, err)
		reportConfigError(err, "config_url", url)
		return err
	}
	cs.Config.Apply(fc)
	cs.Logger.Info("Loaded remote configuration", "config_url", url)
	return nil
}

// Load picks the configured source, if any, then reads secrets from the environment and validates the result.
func (cs *ConfigService) Load(ctx context.Context, configFile, configURL, authUser, authPass string, getenv func(string) string) error {
	switch {
	case configFile != "":
		if err := cs.LoadFromFile(configFile); err != nil {
			return err
		}
	case configURL != "":
		if err := cs.LoadFromURL(ctx, configURL, authUser, authPass); err != nil {
			return err
		}
	}
	cs.Config.ApplyEnv(getenv)
	return cs.Config.Validate()
}
