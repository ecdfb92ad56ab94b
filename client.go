package leafclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ydcloud-dy/leaf-client/session"
)

// Client is the single point through which all backend traffic flows. It
// attaches the current session token to every outgoing request and interprets
// every response through the envelope contract, so endpoint wrappers reduce to
// one-line calls.
//
// A request moves through exactly one of four terminal outcomes: envelope code
// zero (success), envelope code non-zero (application error), a response with
// no usable envelope (transport error with status), or no response at all
// (transport error without status). Application code 401 — from either layer —
// additionally clears the session and navigates to the login route, because a
// stale credential must not be retried silently.
type Client struct {
	cfg       Config
	http      *http.Client
	session   *session.Store
	notifier  Notifier
	navigator Navigator
	metrics   *Metrics
	events    *eventDispatcher
}

// Session returns the session store this client reads its token from.
func (c *Client) Session() *session.Store {
	return c.session
}

// MetricsSnapshot copies the client's counters. Safe to call concurrently
// with in-flight requests.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

// EventsDropped reports how many request events the dispatcher discarded
// because its buffer was full.
func (c *Client) EventsDropped() uint64 {
	if c == nil {
		return 0
	}
	return c.events.Dropped()
}

// Close drains and stops the event dispatcher. In-flight requests are not
// cancelled.
func (c *Client) Close() {
	if c == nil {
		return
	}
	c.events.Close()
}

// Get issues a GET request. The path is relative to the configured base path
// and may carry a query string.
func (c *Client) Get(ctx context.Context, path string) (*Envelope, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST request with body JSON-encoded, or no body when nil.
func (c *Client) Post(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Put issues a PUT request with body JSON-encoded, or no body when nil.
func (c *Client) Put(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Envelope, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}

// Do sends one request and interprets the response. On success the full
// envelope is returned, never just its payload; callers decode Data
// themselves (or through Envelope.DecodeData). On any failure the error is
// *APIError or *TransportError and the notification side effects have already
// run, so callers may treat the error as handled-for-display.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Envelope, error) {
	start := time.Now()
	requestID := uuid.NewString()

	env, status, err := c.roundTrip(ctx, method, path, body, requestID)

	c.metrics.Observe(MetricRequestLatency, time.Since(start))

	event := RequestEvent{
		Timestamp: start,
		RequestID: requestID,
		Method:    method,
		Path:      path,
		Status:    status,
		Duration:  time.Since(start),
		Success:   err == nil,
	}
	if env != nil {
		event.Code = env.Code
	}
	if err != nil {
		event.Error = err.Error()
	}
	c.events.Emit(event)

	if err != nil {
		return nil, err
	}
	return env, nil
}

// roundTrip returns the decoded envelope when one was obtained (even on
// application error, for event reporting), the HTTP status when a response
// was received, and the terminal error if any.
func (c *Client) roundTrip(ctx context.Context, method, path string, body any, requestID string) (*Envelope, int, error) {
	c.metrics.Inc(MetricRequestSent)

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, c.configFailure(fmt.Errorf("encode request body: %w", err))
		}
		payload = bytes.NewReader(data)
	}

	url := c.cfg.HTTP.BaseURL + c.cfg.HTTP.BasePath + path
	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return nil, 0, c.configFailure(fmt.Errorf("build request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.cfg.HTTP.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.HTTP.UserAgent)
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// No response at all: connectivity, DNS, or the client timeout.
		c.metrics.Inc(MetricTransportError)
		c.notifier.Error(msgNetworkError)
		return nil, 0, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.Inc(MetricTransportError)
		c.notifier.Error(msgNetworkError)
		return nil, resp.StatusCode, &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// The backend answers application errors inside a 200 envelope, so a
		// non-2xx status means something in front of it failed the request.
		cause := fmt.Errorf("unexpected status %d", resp.StatusCode)
		if resp.StatusCode == http.StatusUnauthorized {
			c.metrics.Inc(MetricUnauthorized)
			c.forceLogout(ctx)
		} else {
			c.metrics.Inc(MetricTransportError)
			c.notifier.Error(msgRequestFailed)
		}
		return nil, resp.StatusCode, &TransportError{Status: resp.StatusCode, Err: cause}
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.metrics.Inc(MetricTransportError)
		c.notifier.Error(msgRequestFailed)
		return nil, resp.StatusCode, &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("decode envelope: %w", err)}
	}

	if env.Code == CodeOK {
		c.metrics.Inc(MetricRequestOK)
		return &env, resp.StatusCode, nil
	}

	message := env.Message
	if message == "" {
		message = msgRequestFailed
	}

	if env.Code == CodeUnauthorized {
		c.metrics.Inc(MetricUnauthorized)
		c.forceLogout(ctx)
	} else {
		c.metrics.Inc(MetricAppError)
		c.notifier.Error(notificationFor(env.Code, env.Message))
	}

	return &env, resp.StatusCode, &APIError{Code: env.Code, Message: message}
}

// forceLogout handles authentication expiry: notify, clear the session, send
// the UI to the login route. Storage failures during the clear are ignored;
// the in-memory session is gone either way.
func (c *Client) forceLogout(ctx context.Context) {
	c.notifier.Error(msgUnauthorized)
	c.metrics.Inc(MetricForcedLogout)
	_ = c.session.Logout(ctx)
	c.navigator.NavigateToLogin()
}

func (c *Client) configFailure(err error) error {
	c.metrics.Inc(MetricConfigError)
	c.notifier.Error(msgConfigError)
	return &TransportError{Err: err}
}
