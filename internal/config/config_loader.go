package config

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/getsentry/sentry-go"

	"busmap.londonbus.dev/internal/report"
	"busmap.londonbus.dev/internal/transport"
	"busmap.londonbus.dev/internal/utils"
)

// ValidateConfigFlags ensures that at most one configuration source is specified:
// either a config file "--config-file" or a remote config URL "--config-url".
// Neither is required; the built-in defaults run against the public APIs.
func ValidateConfigFlags(configFile, configURL *string) error {
	if (*configFile != "" && *configURL != "") || (*configFile != "" && len(flag.Args()) > 0) || (*configURL != "" && len(flag.Args()) > 0) {
		return fmt.Errorf("only one of --config-file or --config-url can be specified")
	}
	return nil
}

// loadConfigFromFile reads a JSON configuration file from disk.
func loadConfigFromFile(filePath string) (FileConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to read config file: %v", err)
	}

	var fc FileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return FileConfig{}, fmt.Errorf("failed to unmarshal JSON: %v", err)
	}

	return fc, nil
}

// loadConfigFromURL fetches a JSON configuration from a remote HTTP(S) endpoint,
// using the provided client and optional basic authentication.
func loadConfigFromURL(ctx context.Context, client *http.Client, url, authUser, authPass string, maxRetries int) (FileConfig, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to create request: %v", err)
	}

	if authUser != "" && authPass != "" {
		req.SetBasicAuth(authUser, authPass)
	}

	resp, err := transport.DoWithBackoff(ctx, client, req, maxRetries)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to fetch remote config: %v", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return FileConfig{}, fmt.Errorf("remote config returned status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to read remote config: %v", err)
	}

	var fc FileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return FileConfig{}, fmt.Errorf("failed to unmarshal JSON: %v", err)
	}

	return fc, nil
}

func reportConfigError(err error, key, value string) {
	report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
		Tags:  utils.MakeMap(key, value),
		Level: sentry.LevelError,
	})
}
