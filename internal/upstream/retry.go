package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// StatusError carries status/body for non-2xx upstream responses so callers
// can decide how to map them.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream error: %s %s status=%d body=%s", e.Method, e.URL, e.StatusCode, snippet(e.Body, 500))
}

func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// Policy controls the retry behavior for upstream calls: up to MaxAttempts
// tries with exponential backoff starting at BaseDelay and doubling per
// attempt, capped at MaxDelay.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultPolicy matches the upstream contract: 3 attempts, 1s then 2s between
// them.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// doWithRetry executes a request built by buildReq, retrying transport
// failures and 5xx responses per the policy. 4xx responses are never retried;
// they come back as a *StatusError for the caller to interpret. The body is
// always read in full so the transport can reuse the connection.
func doWithRetry(
	ctx context.Context,
	client *http.Client,
	buildReq func(context.Context) (*http.Request, error),
	p Policy,
) ([]byte, error) {
	if p.MaxAttempts <= 0 {
		p = DefaultPolicy()
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		req, err := buildReq(ctx)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			if !isRetryableNetErr(err) || attempt == p.MaxAttempts {
				return nil, err
			}
			if err := sleepBackoff(ctx, attempt, p); err != nil {
				return nil, err
			}
			continue
		}

		body, readErr := readAndClose(resp.Body)
		if readErr != nil {
			lastErr = readErr
			if attempt == p.MaxAttempts {
				return nil, readErr
			}
			if err := sleepBackoff(ctx, attempt, p); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}

		serr := &StatusError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       body,
		}

		if resp.StatusCode < 500 {
			return body, serr
		}

		lastErr = serr
		if attempt == p.MaxAttempts {
			return body, serr
		}
		if err := sleepBackoff(ctx, attempt, p); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func readAndClose(rc io.ReadCloser) ([]byte, error) {
	defer rc.Close()
	return io.ReadAll(rc)
}

func sleepBackoff(ctx context.Context, attempt int, p Policy) error {
	sleep := p.BaseDelay * time.Duration(1<<(attempt-1))
	if p.MaxDelay > 0 && sleep > p.MaxDelay {
		sleep = p.MaxDelay
	}

	t := time.NewTimer(sleep)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isRetryableNetErr(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// errors from http.Client.Do arrive as *url.Error, which always
	// implements net.Error, so a non-timeout must still fall through to
	// the message check below
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}

	// common transient I/O errors
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "eof")
}
