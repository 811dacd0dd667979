// Package upstream implements the HTTP client for the remote mock employee
// API, including the retry policy for transient failures.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/example/employee-gateway/internal/domain"
	"github.com/example/employee-gateway/internal/logger"
)

// Client talks to the mock employee API. It retries server-side and transport
// failures per its Policy; a remote not-found is passed through as
// domain.ErrNotFound for single-employee operations and normalized to an
// empty result for FetchAll.
type Client struct {
	baseURL string
	http    *http.Client
	policy  Policy
}

// Config holds the client settings.
type Config struct {
	BaseURL        string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	Policy         Policy
}

// NewClient builds a Client from cfg, filling zero values with defaults.
func NewClient(cfg Config) *Client {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.Policy.MaxAttempts <= 0 {
		cfg.Policy = DefaultPolicy()
	}

	return &Client{
		baseURL: cfg.BaseURL,
		policy:  cfg.Policy,
		http: &http.Client{
			Timeout: cfg.ReadTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: cfg.ConnectTimeout,
				}).DialContext,
			},
		},
	}
}

// FetchAll retrieves all employees. An upstream 404 means no records exist and
// is returned as an empty success rather than an error.
func (c *Client) FetchAll(ctx context.Context) (domain.Envelope[[]domain.Employee], error) {
	logger.InfoLog(ctx, "Fetching all employees from mock API")

	env, err := getJSON[[]domain.Employee](ctx, c, c.baseURL)
	if err != nil {
		var serr *StatusError
		if errors.As(err, &serr) && serr.StatusCode == http.StatusNotFound {
			logger.WarnLog(ctx, "No employees found in mock API")
			empty := []domain.Employee{}
			return domain.Envelope[[]domain.Employee]{Data: &empty, Status: "No employees found"}, nil
		}
		return domain.Envelope[[]domain.Employee]{}, err
	}
	return env, nil
}

// FetchByID retrieves a single employee. A remote 404 is returned as
// domain.ErrNotFound, never retried.
func (c *Client) FetchByID(ctx context.Context, id string) (domain.Envelope[domain.Employee], error) {
	logger.InfoLog(ctx, "Fetching employee with ID: %s", id)

	env, err := getJSON[domain.Employee](ctx, c, c.baseURL+"/"+id)
	if err != nil {
		var serr *StatusError
		if errors.As(err, &serr) && serr.StatusCode == http.StatusNotFound {
			logger.WarnLog(ctx, "Employee with ID %s not found", id)
			return domain.Envelope[domain.Employee]{}, domain.ErrNotFound
		}
		return domain.Envelope[domain.Employee]{}, err
	}
	return env, nil
}

// Create submits a new employee to the mock API.
func (c *Client) Create(ctx context.Context, req domain.CreateEmployeeRequest) (domain.Envelope[domain.Employee], error) {
	logger.InfoLog(ctx, "Creating new employee: %s", req.Name)
	return sendJSON[domain.Employee](ctx, c, http.MethodPost, req)
}

// DeleteByName deletes an employee. The mock API identifies employees for
// deletion by name, not id. A remote 404 is returned as domain.ErrNotFound.
func (c *Client) DeleteByName(ctx context.Context, name string) (domain.Envelope[bool], error) {
	logger.InfoLog(ctx, "Deleting employee: %s", name)

	env, err := sendJSON[bool](ctx, c, http.MethodDelete, domain.DeleteEmployeeRequest{Name: name})
	if err != nil {
		var serr *StatusError
		if errors.As(err, &serr) && serr.StatusCode == http.StatusNotFound {
			logger.WarnLog(ctx, "Employee %s not found for deletion", name)
			return domain.Envelope[bool]{}, domain.ErrNotFound
		}
		return domain.Envelope[bool]{}, err
	}
	return env, nil
}

func getJSON[T any](ctx context.Context, c *Client, url string) (domain.Envelope[T], error) {
	body, err := doWithRetry(ctx, c.http, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	}, c.policy)
	if err != nil {
		return domain.Envelope[T]{}, err
	}
	return decodeEnvelope[T](body)
}

func sendJSON[T any](ctx context.Context, c *Client, method string, payload any) (domain.Envelope[T], error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return domain.Envelope[T]{}, err
	}

	body, err := doWithRetry(ctx, c.http, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL, bytes.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, c.policy)
	if err != nil {
		return domain.Envelope[T]{}, err
	}
	return decodeEnvelope[T](body)
}

func decodeEnvelope[T any](body []byte) (domain.Envelope[T], error) {
	var env domain.Envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return env, fmt.Errorf("decode upstream response: %w", err)
	}
	return env, nil
}
