package circuitbreaker

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPClient wraps an HTTP client with circuit breaker protection
type HTTPClient struct {
	client  *http.Client
	breaker *Breaker
	log     *zap.Logger
}

// NewHTTPClient creates a new HTTP client with circuit breaker
func NewHTTPClient(client *http.Client, breaker *Breaker, log *zap.Logger) *HTTPClient {
	if client == nil {
		client = &http.Client{
			Timeout: 45 * time.Second,
		}
	}
	if breaker == nil {
		breaker = Disabled("http")
	}
	return &HTTPClient{
		client:  client,
		breaker: breaker,
		log:     log,
	}
}

// Do executes an HTTP request with circuit breaker protection.
// 5xx responses count as breaker failures but are still returned to the caller.
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	resp, err := ExecuteWithResult(req.Context(), c.breaker, func(ctx context.Context) (*http.Response, error) {
		resp, err := c.client.Do(req.WithContext(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 500 {
			return resp, fmt.Errorf("server error: %d", resp.StatusCode)
		}

		return resp, nil
	})

	if err != nil && resp != nil && resp.StatusCode >= 500 {
		return resp, nil
	}
	if err != nil {
		c.log.Debug("HTTP request failed",
			zap.String("url", req.URL.Redacted()),
			zap.String("breaker", c.breaker.Name()),
			zap.Error(err),
		)
		return nil, err
	}

	return resp, nil
}
