package transport

import (
	"net/http"
	"time"

	"github.com/NitinReddy01/codejudge-cli/internal/logger"
)

// LoggingTransport logs one line per outgoing request with its final
// status and duration. Mount it below the AuthTransport so a replayed
// request logs both attempts.
type LoggingTransport struct {
	Base   http.RoundTripper
	Logger logger.Logger
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	start := time.Now()
	resp, err := base.RoundTrip(req)

	if err != nil {
		t.Logger.Warn(
			"HTTP request failed",
			"method", req.Method,
			"url", req.URL.String(),
			"duration", time.Since(start),
			"error", err,
		)
		return resp, err
	}

	t.Logger.Debug(
		"HTTP request completed",
		"method", req.Method,
		"url", req.URL.String(),
		"duration", time.Since(start),
		"status", resp.StatusCode,
	)
	return resp, err
}
