package common

import (
	"net/http"
	"net/url"

	"skypulse/flightcore/internal/logging"
)

var redactedParams = []string{"access_key"}

// LogHTTPRequest logs an outgoing provider request at debug level with
// credentials stripped from the query string.
func LogHTTPRequest(provider string, req *http.Request) {
	logging.Debug("Provider request",
		"provider", provider,
		"method", req.Method,
		"url", RedactURL(req.URL),
	)
}

// RedactURL returns u as a string with secret query parameters masked.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	clean := *u
	q := clean.Query()
	for _, key := range redactedParams {
		if q.Has(key) {
			q.Set(key, "REDACTED")
		}
	}
	clean.RawQuery = q.Encode()
	return clean.String()
}
