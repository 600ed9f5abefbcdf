package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// UserAgent is sent on every upstream request.
const UserAgent = "busmap/1.0 (+https://busmap.londonbus.dev)"

// InitialRetryInterval is the first wait of DoWithBackoff.
var InitialRetryInterval = 250 * time.Millisecond

// GetJSON performs a single GET against url and decodes the JSON body into v.
// A response with status >= 400 is returned as a *StatusError and the body is discarded.
func GetJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		// #nosec G104
		io.Copy(io.Discard, resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, URL: redact(req)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", redact(req), err)
	}
	return nil
}

// DoWithBackoff sends req, retrying transport errors and 5xx responses with
// exponential backoff. maxRetries <= 0 retries until ctx is done.
// Any response below 500 is handed back to the caller unchanged.
func DoWithBackoff(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = InitialRetryInterval
	exp.MaxInterval = 10 * time.Second
	exp.MaxElapsedTime = 0

	var policy backoff.BackOff = exp
	if maxRetries > 0 {
		policy = backoff.WithMaxRetries(exp, uint64(maxRetries))
	}
	policy = backoff.WithContext(policy, ctx)

	var resp *http.Response
	attempts := 0
	operation := func() error {
		attempts++
		r, err := client.Do(req.Clone(ctx))
		if err != nil {
			return err
		}
		if r.StatusCode >= http.StatusInternalServerError {
			// #nosec G104
			io.Copy(io.Discard, r.Body)
			r.Body.Close()
			return &StatusError{StatusCode: r.StatusCode, URL: redact(req)}
		}
		resp = r
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("max retries exceeded after %d attempts: %w", attempts, err)
	}
	return resp, nil
}

func redact(req *http.Request) string {
	return req.URL.Scheme + "://" + req.URL.Host + req.URL.Path
}
