package bubble

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout  = 10 * time.Second
	maxErrorBodyLen = 64 << 10
)

// Client talks to the Bubble Data and Workflow APIs. Every call is a single request, nothing
// is retried.
type Client struct {
	baseURL  string
	apiToken string
	http     *http.Client
	timeout  time.Duration
	logger   *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout applies to a copy of the HTTP client, whichever order the options come in.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient expects baseURL to point at the API root, e.g. https://app.bubbleapps.io/api/1.1.
func NewClient(baseURL, apiToken string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiToken: apiToken,
		http:     &http.Client{Timeout: defaultTimeout},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

type objectResponse struct {
	Response json.RawMessage `json:"response"`
}

type listResponse struct {
	Response Page `json:"response"`
}

type createResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

func (c *Client) Get(ctx context.Context, typ, id string, out any) error {
	var resp objectResponse
	if err := c.do(ctx, http.MethodGet, objectPath(typ, id), nil, nil, &resp); err != nil {
		return fmt.Errorf("unable to get %s %s: %w", typ, id, err)
	}
	if out == nil || len(resp.Response) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Response, out); err != nil {
		return fmt.Errorf("unable to decode %s %s: %w", typ, id, err)
	}
	return nil
}

func (c *Client) List(ctx context.Context, typ string, q Query) (*Page, error) {
	values, err := q.values()
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := c.do(ctx, http.MethodGet, objectPath(typ, ""), values, nil, &resp); err != nil {
		return nil, fmt.Errorf("unable to list %s: %w", typ, err)
	}
	return &resp.Response, nil
}

// Create stores a new thing and returns its unique id.
func (c *Client) Create(ctx context.Context, typ string, body any) (string, error) {
	var resp createResponse
	if err := c.do(ctx, http.MethodPost, objectPath(typ, ""), nil, body, &resp); err != nil {
		return "", fmt.Errorf("unable to create %s: %w", typ, err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("unable to create %s: response carries no id", typ)
	}
	return resp.ID, nil
}

// Update modifies the given fields only.
func (c *Client) Update(ctx context.Context, typ, id string, body any) error {
	if err := c.do(ctx, http.MethodPatch, objectPath(typ, id), nil, body, nil); err != nil {
		return fmt.Errorf("unable to update %s %s: %w", typ, id, err)
	}
	return nil
}

// Replace overwrites every field, resetting the ones missing in body.
func (c *Client) Replace(ctx context.Context, typ, id string, body any) error {
	if err := c.do(ctx, http.MethodPut, objectPath(typ, id), nil, body, nil); err != nil {
		return fmt.Errorf("unable to replace %s %s: %w", typ, id, err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, typ, id string) error {
	if err := c.do(ctx, http.MethodDelete, objectPath(typ, id), nil, nil, nil); err != nil {
		return fmt.Errorf("unable to delete %s %s: %w", typ, id, err)
	}
	return nil
}

// Workflow triggers a backend workflow. out receives the workflow's "response" object.
func (c *Client) Workflow(ctx context.Context, name string, body any, out any) error {
	var resp struct {
		Status   string          `json:"status"`
		Response json.RawMessage `json:"response"`
	}
	if err := c.do(ctx, http.MethodPost, "wf/"+url.PathEscape(name), nil, body, &resp); err != nil {
		return fmt.Errorf("unable to run workflow %s: %w", name, err)
	}
	if out == nil || len(resp.Response) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Response, out); err != nil {
		return fmt.Errorf("unable to decode workflow %s response: %w", name, err)
	}
	return nil
}

func objectPath(typ, id string) string {
	p := "obj/" + url.PathEscape(typ)
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("unable to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("unable to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	c.logger.Debug("bubble request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("unable to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))

	var envelope struct {
		Body *struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		} `json:"body"`
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		if envelope.Body != nil {
			apiErr.Status = envelope.Body.Status
			apiErr.Message = envelope.Body.Message
		} else {
			apiErr.Status = envelope.Status
			apiErr.Message = envelope.Message
		}
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}

	return apiErr
}
