// Package httpapi implements the TaskFlow gateway over the HTTP API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/sony/gobreaker"

	"github.com/runoshun/taskflow/internal/domain"
)

// Ensure Client implements domain.Gateway.
var _ domain.Gateway = (*Client)(nil)

// APIPrefix is appended to the configured base URL.
const APIPrefix = "/api"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Options configures a Client.
type Options struct {
	HTTPClient *http.Client       // Defaults to a client with Timeout
	Tokens     domain.TokenSource // Bearer token source, may be nil
	BaseURL    string             // Server origin, e.g. http://localhost:8001
	Breaker    domain.BreakerConfig
	Timeout    time.Duration
}

// Client talks to the TaskFlow API.
type Client struct {
	http    *http.Client
	tokens  domain.TokenSource
	breaker *gobreaker.CircuitBreaker // nil when disabled
	baseURL string
}

// New creates a new Client.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	c := &Client{
		http:    hc,
		tokens:  opts.Tokens,
		baseURL: strings.TrimRight(opts.BaseURL, "/") + APIPrefix,
	}
	if opts.Breaker.MaxFailures > 0 {
		c.breaker = newBreaker(opts.Breaker)
	}
	return c
}

// newBreaker opens after MaxFailures consecutive server or transport
// failures and fails fast for OpenTimeout.
func newBreaker(cfg domain.BreakerConfig) *gobreaker.CircuitBreaker {
	maxFailures := cfg.MaxFailures
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "taskflow-api",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// Client errors (4xx) mean the server is healthy.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var apiErr *domain.APIError
			return errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError
		},
	})
}

// listQuery is the GET /tasks query string.
type listQuery struct {
	Status   string `url:"status,omitempty"`
	Priority string `url:"priority,omitempty"`
	Category string `url:"category,omitempty"`
}

func newListQuery(f domain.TaskFilter) listQuery {
	q := listQuery{Category: f.Category}
	if f.Status != "" && f.Status != domain.FilterAll {
		q.Status = string(f.Status)
	}
	if f.Priority != "" && f.Priority != domain.FilterAll {
		q.Priority = string(f.Priority)
	}
	return q
}

// ListTasks returns tasks in server order. Status, priority and category are
// filtered server-side; the free-text query is left to the caller.
func (c *Client) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	values, err := query.Values(newListQuery(filter))
	if err != nil {
		return nil, fmt.Errorf("encode task query: %w", err)
	}
	path := "/tasks"
	if enc := values.Encode(); enc != "" {
		path += "?" + enc
	}

	var wire []wireTask
	if err := c.do(ctx, http.MethodGet, path, nil, &wire, domain.ErrTaskNotFound); err != nil {
		return nil, err
	}
	tasks := make([]*domain.Task, 0, len(wire))
	for i := range wire {
		tasks = append(tasks, wire[i].toDomain())
	}
	return tasks, nil
}

// CreateTask creates a task and returns it with its server-assigned ID.
func (c *Client) CreateTask(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	var wire wireTask
	if err := c.do(ctx, http.MethodPost, "/tasks", newWireTaskCreate(draft), &wire, nil); err != nil {
		return nil, err
	}
	return wire.toDomain(), nil
}

// UpdateTask applies a partial update and returns the updated task.
func (c *Client) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	var wire wireTask
	if err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), newWireTaskPatch(patch), &wire, domain.ErrTaskNotFound); err != nil {
		return nil, err
	}
	return wire.toDomain(), nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil, domain.ErrTaskNotFound)
}

// ListCategories returns all categories.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var wire []wireCategory
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &wire, nil); err != nil {
		return nil, err
	}
	cats := make([]domain.Category, 0, len(wire))
	for i := range wire {
		cats = append(cats, wire[i].toDomain())
	}
	return cats, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, draft domain.CategoryDraft) (*domain.Category, error) {
	var wire wireCategory
	if err := c.do(ctx, http.MethodPost, "/categories", draft, &wire, nil); err != nil {
		return nil, err
	}
	cat := wire.toDomain()
	return &cat, nil
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/categories/"+url.PathEscape(id), nil, nil, domain.ErrCategoryNotFound)
}

// DashboardStats returns the server-computed statistics.
func (c *Client) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var wire wireStats
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, &wire, nil); err != nil {
		return nil, err
	}
	return wire.toDomain(), nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	return c.authenticate(ctx, "/auth/login", creds)
}

// Register creates an account and returns its session.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (*domain.Session, error) {
	return c.authenticate(ctx, "/auth/register", reg)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*domain.Session, error) {
	var wire wireAuthResponse
	err := c.do(ctx, http.MethodPost, path, body, &wire, nil)
	if err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			return nil, &domain.AuthError{Err: apiErr, Detail: apiErr.Detail}
		}
		return nil, err
	}
	session := wire.toDomain()
	if !session.IsValid() {
		return nil, &domain.AuthError{Detail: "server returned no token"}
	}
	return session, nil
}

// Health checks that the API answers.
func (c *Client) Health(ctx context.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &body, nil); err != nil {
		return err
	}
	if body.Status != "healthy" {
		return fmt.Errorf("api status %q", body.Status)
	}
	return nil
}

// do sends one request through the breaker. notFound is the sentinel a 404
// maps to.
func (c *Client) do(ctx context.Context, method, path string, in, out any, notFound error) error {
	if c.breaker == nil {
		return c.roundTrip(ctx, method, path, in, out, notFound)
	}
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.roundTrip(ctx, method, path, in, out, notFound)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, in, out any, notFound error) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, notFound)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// decodeError builds an *APIError from a non-2xx response.
func decodeError(resp *http.Response, notFound error) error {
	apiErr := &domain.APIError{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var eb errorBody
	if len(data) > 0 && json.Unmarshal(data, &eb) == nil {
		apiErr.Detail = eb.message()
	}
	switch resp.StatusCode {
	case http.StatusNotFound:
		apiErr.Cause = notFound
	case http.StatusUnauthorized, http.StatusForbidden:
		apiErr.Cause = domain.ErrAuth
	}
	return apiErr
}
