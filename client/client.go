package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/donelist/backend/api/transport"
	"github.com/donelist/backend/domain"
)

// ErrBusy is returned by Add while a previous add is still in flight.
var ErrBusy = errors.New("add already in progress")

const defaultTimeout = 10 * time.Second

// APIError carries the human-readable message the server attached to a
// non-success response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// Option customizes a Controller.
type Option func(*Controller)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Controller) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout overrides the per-request timeout. The default keeps a hung
// request from pinning the busy flag forever; zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.timeout = d
	}
}

// Controller mirrors the remote todo list and keeps it consistent with the
// operations issued through it. Local state changes only after the server
// confirms the corresponding write.
type Controller struct {
	baseURL string
	http    *http.Client
	timeout time.Duration

	mu    sync.Mutex
	items []domain.Todo

	adding atomic.Bool
}

// New builds a Controller for the API at baseURL. It does not touch the
// network; call Load to populate the mirror.
func New(baseURL string, opts ...Option) *Controller {
	c := &Controller{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the full list and replaces the mirror.
func (c *Controller) Load(ctx context.Context) error {
	var todos []domain.Todo
	if err := c.do(ctx, http.MethodGet, "/api/todos", nil, http.StatusOK, &todos); err != nil {
		return err
	}

	c.mu.Lock()
	c.items = todos
	c.mu.Unlock()
	return nil
}

// Add submits a new todo and prepends the stored item to the mirror, so
// newest-first order holds without a re-fetch. Blank text is a no-op.
// Only one add may be in flight at a time; late callers get ErrBusy.
func (c *Controller) Add(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if !c.adding.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.adding.Store(false)

	var created domain.Todo
	payload := transport.CreateTodoRequest{Text: text}
	if err := c.do(ctx, http.MethodPost, "/api/todos", payload, http.StatusCreated, &created); err != nil {
		return err
	}

	c.mu.Lock()
	c.items = append([]domain.Todo{created}, c.items...)
	c.mu.Unlock()
	return nil
}

// Remove deletes the todo and filters it out of the mirror by id.
func (c *Controller) Remove(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/todos/"+id, nil, http.StatusOK, nil); err != nil {
		return err
	}

	c.mu.Lock()
	filtered := make([]domain.Todo, 0, len(c.items))
	for _, item := range c.items {
		if item.ID != id {
			filtered = append(filtered, item)
		}
	}
	c.items = filtered
	c.mu.Unlock()
	return nil
}

// Rename updates the todo's text and patches the mirrored item in place
// with the server's copy. Text blank after trimming is a no-op.
func (c *Controller) Rename(ctx context.Context, id, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	payload := transport.UpdateTodoRequest{Text: &text}
	return c.patch(ctx, id, payload)
}

// SetCompleted updates the todo's completed flag and patches the mirrored
// item in place with the server's copy.
func (c *Controller) SetCompleted(ctx context.Context, id string, completed bool) error {
	payload := transport.UpdateTodoRequest{Completed: &completed}
	return c.patch(ctx, id, payload)
}

// Items returns a copy of the mirror.
func (c *Controller) Items() []domain.Todo {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]domain.Todo, len(c.items))
	copy(items, c.items)
	return items
}

// Busy reports whether an add is in flight.
func (c *Controller) Busy() bool {
	return c.adding.Load()
}

func (c *Controller) patch(ctx context.Context, id string, payload transport.UpdateTodoRequest) error {
	var updated domain.Todo
	if err := c.do(ctx, http.MethodPatch, "/api/todos/"+id, payload, http.StatusOK, &updated); err != nil {
		return err
	}

	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == updated.ID {
			c.items[i] = updated
			break
		}
	}
	c.mu.Unlock()
	return nil
}

func (c *Controller) do(ctx context.Context, method, path string, payload interface{}, wantStatus int, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}
	var msg transport.Message
	if err := json.NewDecoder(resp.Body).Decode(&msg); err == nil && msg.Message != "" {
		apiErr.Message = msg.Message
	}
	return apiErr
}
