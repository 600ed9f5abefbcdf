//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"os"

	"busmap.londonbus.dev/internal/config"
)

// integrationTarget is the file passed with -integration-config: the usual
// JSON configuration plus the lines to probe.
type integrationTarget struct {
	config.FileConfig
	Lines []string `json:"lines"`
}

// loadIntegrationTarget builds the engine configuration for the live APIs.
// API keys come from TFL_APP_KEY and GEOCODE_API_KEY.
func loadIntegrationTarget(path string) (*config.Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var target integrationTarget
	if err := json.Unmarshal(data, &target); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal JSON: %v", err)
	}

	cfg := config.NewConfig(config.DefaultPort, "integration")
	cfg.Apply(target.FileConfig)
	cfg.ApplyEnv(os.Getenv)
	if len(target.Lines) == 0 {
		target.Lines = []string{"15"}
	}
	return cfg, target.Lines, nil
}
