// Package api is the typed HTTP client for the platform's REST backend. It is
// the only place in the client that talks to the network; every method returns
// parsed models or an error, never a raw response body.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBasePath is prepended to every endpoint path.
const DefaultBasePath = "/api"

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "api").Logger()

// TokenSource supplies the current bearer token, or "" when logged out.
type TokenSource func() string

// Client issues authenticated requests against the backend.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	token      TokenSource
}

// New builds a Client. A nil httpClient gets a default with a 30s timeout;
// there are no retries and no backoff anywhere in this layer.
func New(httpClient *http.Client, baseURL string, token TokenSource) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if token == nil {
		token = func() string { return "" }
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBaseURL, baseURL)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    parsed,
		token:      token,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL.String() + DefaultBasePath + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error marshaling request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	if query != nil {
		req.URL.RawQuery = query.Encode()
	}

	req.Header.Set("Content-Type", "application/json")
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= http.StatusBadRequest:
		return c.readError(resp)
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return UnexpectedStatusError(resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return DecodeError(err)
	}

	return nil
}

func (c *Client) readError(resp *http.Response) error {
	var apiErr struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return APIError(resp.StatusCode, "")
	}

	if err := json.Unmarshal(raw, &apiErr); err != nil {
		return APIError(resp.StatusCode, "")
	}

	message := apiErr.Error
	if message == "" {
		message = apiErr.Detail
	}

	return APIError(resp.StatusCode, message)
}

// listEnvelope accepts both a bare JSON array and the backend's paginated
// shape {"results": [...]}, so list callers always end up with a slice.
type listEnvelope[T any] struct {
	items []T
}

func (l *listEnvelope[T]) UnmarshalJSON(data []byte) error {
	var direct []T
	if err := json.Unmarshal(data, &direct); err == nil {
		l.items = direct
		return nil
	}

	var paged struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(data, &paged); err != nil {
		return err
	}

	l.items = paged.Results
	return nil
}

func getList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var envelope listEnvelope[T]
	if err := c.get(ctx, path, query, &envelope); err != nil {
		return nil, err
	}
	if envelope.items == nil {
		return []T{}, nil
	}
	return envelope.items, nil
}
