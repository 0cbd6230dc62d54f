package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"skypulse/flightcore/internal/common"
	"skypulse/flightcore/internal/constants"
	"skypulse/flightcore/internal/metrics"
)

// httpClient is the transport shared by the provider clients. Every call runs
// under requestTimeout; the underlying http.Client enforces the longer
// resource timeout.
type httpClient struct {
	provider       string
	client         *http.Client
	requestTimeout time.Duration
	metrics        *metrics.MetricsRegistry
}

func newHTTPClient(provider string, requestTimeout, resourceTimeout time.Duration, m *metrics.MetricsRegistry) httpClient {
	return httpClient{
		provider:       provider,
		client:         &http.Client{Timeout: resourceTimeout},
		requestTimeout: requestTimeout,
		metrics:        m,
	}
}

// doGET performs a GET request and decodes the JSON body into result
func (c *httpClient) doGET(ctx context.Context, endpoint, url string, result interface{}) (int, error) {
	start := time.Now()
	status, err := c.get(ctx, url, result)

	outcome := "ok"
	if err != nil {
		if constants.IsCancelled(err) {
			outcome = "cancelled"
		} else if pErr, ok := err.(*ProviderError); ok {
			outcome = string(pErr.Code)
		} else {
			outcome = string(constants.ErrCodeUnknown)
		}
	}
	if c.metrics != nil {
		c.metrics.ProviderRequestsTotal.WithLabelValues(c.provider, endpoint, outcome).Inc()
		c.metrics.ProviderRequestDuration.WithLabelValues(c.provider, endpoint).Observe(time.Since(start).Seconds())
	}

	return status, err
}

func (c *httpClient) get(ctx context.Context, url string, result interface{}) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeInvalidRequest,
			Message: "Failed to create request",
			Err:     err,
		}
	}
	req.Header.Set("Accept", "application/json")
	common.LogHTTPRequest(c.provider, req)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, transportError(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, buildHTTPError(resp.StatusCode, c.provider, string(bodyBytes))
	}

	if err := json.Unmarshal(bodyBytes, result); err != nil {
		return resp.StatusCode, &ProviderError{
			Code:       constants.ErrCodeDecodingError,
			StatusCode: resp.StatusCode,
			Message:    "Failed to decode response",
			Details:    truncate(string(bodyBytes), 512),
			Err:        err,
		}
	}

	return resp.StatusCode, nil
}

// transportError separates timeouts from lost connectivity.
func transportError(err error) *ProviderError {
	if constants.IsCancelled(err) {
		return &ProviderError{
			Code:    constants.ErrCodeUnknown,
			Message: "Request cancelled",
			Err:     err,
		}
	}

	code := constants.ClassifyTransportError(err)
	if code == constants.ErrCodeUnknown || code == constants.ErrCodeDecodingError {
		code = constants.ErrCodeNoConnection
	}
	return &ProviderError{
		Code:    code,
		Message: constants.GetErrorMessage(code),
		Err:     err,
	}
}

// buildHTTPError creates appropriate error based on status code
func buildHTTPError(statusCode int, provider string, body string) *ProviderError {
	code := constants.CodeFromHTTPStatus(statusCode)
	msg := constants.GetErrorMessage(code)
	if code == constants.ErrCodeServerError {
		msg = fmt.Sprintf("HTTP %d from %s", statusCode, provider)
	}
	return &ProviderError{
		Code:       code,
		StatusCode: statusCode,
		Message:    msg,
		Details:    truncate(body, 512),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
