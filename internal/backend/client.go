// Package backend wraps authenticated REST calls to the CRUD backend.
//
// Every tool execution funnels through this client: bearer token per
// call, JSON bodies for mutating verbs, query-string serialization for
// GET, and a uniform error shape for non-2xx responses. The client
// carries its own per-call timeout so one slow backend call cannot
// exhaust the whole generation budget.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/animekun/chatd/internal/infrastructure/resilience"
)

// APIError represents a non-2xx backend response.
type APIError struct {
	Status int
	Body   string
}

// Error implements the error interface. The message shape is load
// bearing: the orchestrator surfaces it to the model verbatim and the
// error classifier keys on the "API Error:" prefix.
func (e *APIError) Error() string {
	return fmt.Sprintf("API Error: %d - %s", e.Status, e.Body)
}

// Config defines backend client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is the authenticated HTTP client for the backend API.
type Client struct {
	resty   *resty.Client
	breaker *resilience.Breaker
	limiter *rate.Limiter
	baseURL string
}

// New creates a backend client with retrying transport and a circuit
// breaker in front of the backend host.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	restyClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", "animekun-chatd/1.0").
		SetHeader("Content-Type", "application/json").
		SetTransport(retryClient.HTTPClient.Transport)

	breaker := resilience.New("backend-api", resilience.Settings{
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 8
		},
	})

	return &Client{
		resty:   restyClient,
		breaker: breaker,
		limiter: rate.NewLimiter(rate.Inf, 0),
		baseURL: cfg.BaseURL,
	}
}

// SetRateLimit throttles outbound backend calls. Unlimited by default.
func (c *Client) SetRateLimit(rps float64, burst int) {
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// Ping reports whether the backend host answers HTTP at all. Any
// response counts as reachable, error statuses included.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, "GET", "/", nil, nil, "")
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return nil
	}
	return err
}

// Get issues a GET with query-string serialized params.
func (c *Client) Get(ctx context.Context, path string, query map[string]interface{}, authToken string) (interface{}, error) {
	return c.do(ctx, "GET", path, query, nil, authToken)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}, authToken string) (interface{}, error) {
	return c.do(ctx, "POST", path, nil, body, authToken)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}, authToken string) (interface{}, error) {
	return c.do(ctx, "PUT", path, nil, body, authToken)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}, authToken string) (interface{}, error) {
	return c.do(ctx, "PATCH", path, nil, body, authToken)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, authToken string) (interface{}, error) {
	return c.do(ctx, "DELETE", path, nil, nil, authToken)
}

// UploadMultipart posts a file as multipart form data plus extra fields.
// Used by the inline base64 image path.
func (c *Client) UploadMultipart(ctx context.Context, path, field, filename string, data []byte, fields map[string]string, authToken string) (interface{}, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var result interface{}
	err := c.breaker.Do(func() error {
		req := c.resty.R().
			SetContext(ctx).
			SetFileReader(field, filename, bytes.NewReader(data)).
			SetFormData(fields)
		if authToken != "" {
			req.SetAuthToken(authToken)
		}

		resp, err := req.Post(path)
		if err != nil {
			return fmt.Errorf("backend upload %s: %w", path, err)
		}
		if resp.IsError() {
			return &APIError{Status: resp.StatusCode(), Body: string(resp.Body())}
		}
		return decode(resp.Body(), &result)
	})
	return result, err
}

func (c *Client) do(ctx context.Context, method, path string, query map[string]interface{}, body interface{}, authToken string) (interface{}, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var result interface{}
	err := c.breaker.Do(func() error {
		req := c.resty.R().SetContext(ctx)
		if authToken != "" {
			req.SetAuthToken(authToken)
		}
		for k, v := range query {
			req.SetQueryParam(k, fmt.Sprint(v))
		}
		if body != nil {
			req.SetBody(body)
		}

		resp, err := req.Execute(method, path)
		if err != nil {
			return fmt.Errorf("backend %s %s: %w", method, path, err)
		}
		if resp.IsError() {
			return &APIError{Status: resp.StatusCode(), Body: string(resp.Body())}
		}
		return decode(resp.Body(), &result)
	})
	return result, err
}

// decode unmarshals a response body, tolerating empty bodies (e.g. 204
// from DELETE endpoints).
func decode(body []byte, out *interface{}) error {
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("backend returned malformed JSON: %w", err)
	}
	return nil
}
