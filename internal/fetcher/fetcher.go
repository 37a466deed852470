// Package fetcher implements the concurrent, retrying HTTP fetch engine:
// bounded-concurrency dispatch, per-request exponential backoff, and
// deterministic aggregation of success and failure outcomes into one map.
package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/sgtrust/trusted-sites-allowlist/internal/metrics"
)

// FailureSentinel is the payload recorded for an endpoint whose retries were
// exhausted. It is a valid (empty) JSON document so downstream consumers can
// still parse the body.
var FailureSentinel = []byte("{}")

// IsFailure reports whether a dispatch payload is the failure sentinel.
func IsFailure(payload []byte) bool {
	return bytes.Equal(payload, FailureSentinel)
}

// Config controls fetch engine behavior.
type Config struct {
	// MaxRetries is the number of attempts made per endpoint.
	MaxRetries int
	// MaxConcurrent caps simultaneously in-flight requests per dispatch.
	MaxConcurrent int64
	// BackoffFactor is the base backoff multiplier in seconds; the wait
	// doubles on every retry.
	BackoffFactor float64
	// SettleDelay is waited after admission and before the first request,
	// to spread burst load across the shared connection pool. Zero selects
	// the 500ms default; a negative value disables the delay.
	SettleDelay time.Duration
	// Timeout is the wall-clock ceiling for one whole DispatchAll call,
	// covering every attempt of every endpoint.
	Timeout time.Duration
	// Headers are sent with every request.
	Headers http.Header
	// Transport overrides the keep-alive transport when set (tests).
	Transport http.RoundTripper
}

// Client fans GET requests out over a bounded pool with per-request retries.
// Every fetch terminates in a payload or the failure sentinel; no error ever
// crosses the Client boundary.
type Client struct {
	cfg    Config
	logger *zap.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// New applies defaults and builds a Client.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 5
	}
	if cfg.BackoffFactor <= 0 {
		cfg.BackoffFactor = 1.0
	}
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = 500 * time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 300 * time.Second
	}
	return &Client{
		cfg:    cfg,
		logger: logger,
		sleep:  sleepContext,
	}
}

type result struct {
	endpoint string
	payload  []byte
}

// DispatchAll fetches every unique endpoint and returns exactly one terminal
// payload per endpoint, collected in completion order. It never returns
// early: endpoints that exhaust their retries, or never finish before the
// dispatch deadline, map to FailureSentinel.
func (c *Client) DispatchAll(ctx context.Context, endpoints []string) map[string][]byte {
	unique := dedupe(endpoints)
	out := make(map[string][]byte, len(unique))
	if len(unique) == 0 {
		return out
	}

	dispatchCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	// One session per dispatch; all its connections are released on return.
	session := &http.Client{Transport: c.transport()}
	defer session.CloseIdleConnections()

	sem := semaphore.NewWeighted(c.cfg.MaxConcurrent)
	results := make(chan result, len(unique))
	for _, endpoint := range unique {
		go func(endpoint string) {
			if err := sem.Acquire(dispatchCtx, 1); err != nil {
				c.logger.Warn("dispatch admission aborted",
					zap.String("endpoint", endpoint),
					zap.Error(err),
				)
				results <- result{endpoint: endpoint, payload: FailureSentinel}
				return
			}
			defer sem.Release(1)
			if err := c.sleep(dispatchCtx, c.cfg.SettleDelay); err != nil {
				c.logger.Warn("settling delay interrupted",
					zap.String("endpoint", endpoint),
					zap.Error(err),
				)
			}
			results <- result{endpoint: endpoint, payload: c.fetchOne(dispatchCtx, session, endpoint)}
		}(endpoint)
	}
	for range unique {
		r := <-results
		out[r.endpoint] = r.payload
	}
	return out
}

// fetchOne performs one logical GET with bounded retries and backoff between
// attempts. Terminal states are expressed as return values: the response body
// on success, FailureSentinel on exhaustion.
func (c *Client) fetchOne(ctx context.Context, session *http.Client, endpoint string) []byte {
	attemptErrors := make([]string, 0, c.cfg.MaxRetries)
	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		body, err := c.get(ctx, session, endpoint)
		if err == nil {
			metrics.ObserveAttempt(true)
			metrics.ObserveOutcome(true)
			return body
		}
		metrics.ObserveAttempt(false)
		attemptErrors = append(attemptErrors, err.Error())
		c.logger.Warn("fetch attempt failed",
			zap.String("endpoint", endpoint),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
		// No delay when the final attempt fails.
		if attempt != c.cfg.MaxRetries-1 {
			if serr := c.sleep(ctx, Backoff(c.cfg.BackoffFactor, attempt+1)); serr != nil {
				// Deadline hit mid-backoff; remaining attempts fail fast
				// and the loop terminates through exhaustion.
				continue
			}
		}
	}
	c.logger.Error("fetch retries exhausted",
		zap.String("endpoint", endpoint),
		zap.Strings("errors", attemptErrors),
	)
	metrics.ObserveOutcome(false)
	return FailureSentinel
}

func (c *Client) get(ctx context.Context, session *http.Client, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for key, values := range c.cfg.Headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	metrics.IncInFlight()
	defer metrics.DecInFlight()

	resp, err := session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", endpoint, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read side owns the error

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func (c *Client) transport() http.RoundTripper {
	if c.cfg.Transport != nil {
		return c.cfg.Transport
	}
	return NewTransport()
}

func dedupe(endpoints []string) []string {
	seen := make(map[string]struct{}, len(endpoints))
	unique := make([]string, 0, len(endpoints))
	for _, endpoint := range endpoints {
		if _, ok := seen[endpoint]; ok {
			continue
		}
		seen[endpoint] = struct{}{}
		unique = append(unique, endpoint)
	}
	return unique
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
