// Package cli holds the pieces of the oodux command: a client for the
// devtools API, output rendering and action script replay.
package cli

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

	httpAdapter "github.com/aretw0/oodux/pkg/adapters/http"
	"github.com/aretw0/oodux/pkg/domain"
)

// APIError is a non-2xx answer of the devtools API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("devtools: %d %s", e.Status, e.Message)
}

// Client talks to a devtools server.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    http.DefaultClient,
	}
}

// State fetches the current state.
func (c *Client) State(ctx context.Context) (*httpAdapter.StateResponse, error) {
	var out httpAdapter.StateResponse
	if err := c.do(ctx, http.MethodGet, "/state", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Actions lists the dispatchable actions.
func (c *Client) Actions(ctx context.Context) ([]domain.Descriptor, error) {
	var out []domain.Descriptor
	if err := c.do(ctx, http.MethodGet, "/actions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Dispatch sends the named action with an optional payload.
func (c *Client) Dispatch(ctx context.Context, name string, data any) (*httpAdapter.StateResponse, error) {
	var out httpAdapter.StateResponse
	path := "/actions/" + url.PathEscape(name)
	if err := c.do(ctx, http.MethodPost, path, httpAdapter.PostActionJSONRequestBody{Data: &data}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DispatchAction sends a raw action.
func (c *Client) DispatchAction(ctx context.Context, a domain.Action) (*httpAdapter.StateResponse, error) {
	var out httpAdapter.StateResponse
	if err := c.do(ctx, http.MethodPost, "/dispatch", a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var apiErr httpAdapter.Error
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
