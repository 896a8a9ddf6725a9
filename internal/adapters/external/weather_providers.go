// Package external provides adapters for external services
// These adapters implement ports for the weather provider, the text generator and email delivery.
package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"weathermail.app/internal/ports"
	"weathermail.app/pkg/errors"
)

// maxErrorBody caps how much of a failed upstream response is kept on the error
const maxErrorBody = 4096

// HTTPClient interface for HTTP requests (for testing)
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// getJSON issues a GET to base+path with the given query and decodes a 200 response into out.
// Any other status becomes an upstream error carrying the status code and body.
func getJSON(ctx context.Context, client HTTPClient, logger ports.Logger, endpoint string, query url.Values, failure string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return errors.NewUpstreamError(failure, fmt.Errorf("build request: %w", err))
	}

	resp, err := client.Do(req)
	if err != nil {
		return errors.NewUpstreamError(failure, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("Failed to close upstream response body", ports.F("error", closeErr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errors.NewUpstreamStatusError(failure, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewUpstreamError(failure, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
