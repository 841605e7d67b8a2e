// Package oracle answers "is this artist blocked, and by which rule source?"
// from a remote service, local rule lists or a SQLite database.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"spottheai/internal/core"
)

const (
	// HTTPRequestTimeout bounds a single check request.
	HTTPRequestTimeout = 5 * time.Second
	// HTTPInitialBackoff is the wait before the first retry; it doubles per attempt.
	HTTPInitialBackoff = 200 * time.Millisecond
	// HTTPMaxResponseSize limits how much of a response body is read.
	HTTPMaxResponseSize = 64 * 1024
)

type checkRequest struct {
	Artist string `json:"artist"`
}

type checkResponse struct {
	Blocked bool   `json:"blocked"`
	Source  string `json:"source"`
}

// HTTPOracle asks a remote blacklist service via POST {base}/check.
type HTTPOracle struct {
	endpoint string
	client   *http.Client
	retries  int
	backoff  time.Duration
	logger   *zap.Logger
}

// NewHTTPOracle creates a client for the service at baseURL. retries is the
// number of additional attempts after a network error or 5xx response.
func NewHTTPOracle(baseURL string, retries int, logger *zap.Logger) *HTTPOracle {
	if retries < 0 {
		retries = 0
	}
	return &HTTPOracle{
		endpoint: strings.TrimRight(baseURL, "/") + "/check",
		client:   &http.Client{Timeout: HTTPRequestTimeout},
		retries:  retries,
		backoff:  HTTPInitialBackoff,
		logger:   logger,
	}
}

// CheckArtist sends the raw artist string; the service applies its own normalisation.
func (o *HTTPOracle) CheckArtist(ctx context.Context, artist string) (core.Verdict, error) {
	body, err := json.Marshal(checkRequest{Artist: artist})
	if err != nil {
		return core.Verdict{}, fmt.Errorf("%w: encode request: %w", core.ErrOracleUnavailable, err)
	}

	backoff := o.backoff
	var lastErr error

	for attempt := 0; attempt <= o.retries; attempt++ {
		if attempt > 0 {
			o.logger.Debug("Retrying blacklist check",
				zap.String("artist", artist),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr))

			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return core.Verdict{}, fmt.Errorf("%w: %w", core.ErrOracleUnavailable, ctx.Err())
			case <-timer.C:
			}
			backoff *= 2
		}

		verdict, retryable, err := o.do(ctx, body)
		if err == nil {
			return verdict, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
	}

	return core.Verdict{}, fmt.Errorf("%w: %w", core.ErrOracleUnavailable, lastErr)
}

// do performs one request and reports whether a failure is worth retrying.
func (o *HTTPOracle) do(ctx context.Context, body []byte) (core.Verdict, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return core.Verdict{}, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return core.Verdict{}, true, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, HTTPMaxResponseSize))
	if err != nil {
		return core.Verdict{}, true, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return core.Verdict{}, true, fmt.Errorf("blacklist service returned status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return core.Verdict{}, false, fmt.Errorf("blacklist service returned status %d", resp.StatusCode)
	}

	var result checkResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return core.Verdict{}, false, fmt.Errorf("failed to decode response: %w", err)
	}

	return core.Verdict{Blocked: result.Blocked, Source: result.Source}, false, nil
}
