package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/erraggy/restmap/registry"
	"github.com/erraggy/restmap/relation"
	"github.com/erraggy/restmap/resource"
	"github.com/erraggy/restmap/rmerrors"
	"github.com/erraggy/restmap/schema"
)

// Client fetches resources over HTTP.
type Client struct {
	cfg *config
}

// Ensure Client implements relation.Fetcher at compile time.
var _ relation.Fetcher = (*Client)(nil)

// New creates a Client.
func New(opts ...Option) (*Client, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Client{cfg: cfg}, nil
}

// Registry returns the registry used to generate request URLs.
func (c *Client) Registry() *registry.Registry { return c.cfg.registry }

// Get fetches one resource by identifier and builds it.
// A partially built instance is returned together with its shape errors.
func (c *Client) Get(ctx context.Context, spec *schema.Spec, identifier string) (*resource.Instance, error) {
	if identifier == "" {
		return nil, fmt.Errorf("transport: %s: identifier cannot be empty", spec)
	}
	url, err := c.cfg.registry.URLFor(spec, identifier, schema.MethodGet)
	if err != nil {
		return nil, err
	}
	body, err := c.Fetch(ctx, spec, url)
	if err != nil {
		return nil, err
	}
	return resource.New(spec, body, c.resourceOptions()...)
}

// List fetches the collection of spec and builds one instance per record.
func (c *Client) List(ctx context.Context, spec *schema.Spec) ([]*resource.Instance, error) {
	url, err := c.cfg.registry.URLFor(spec, "", schema.MethodGet)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, spec, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return resource.NewList(spec, body, c.resourceOptions()...)
}

// Fetch GETs url and returns the decoded JSON object. It implements relation.Fetcher.
func (c *Client) Fetch(ctx context.Context, spec *schema.Spec, url string) (map[string]any, error) {
	body, err := c.do(ctx, spec, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	obj, ok := body.(map[string]any)
	if !ok {
		return nil, &rmerrors.TransportError{
			URL:     url,
			Method:  http.MethodGet,
			Message: fmt.Sprintf("expected a JSON object, got %T", body),
		}
	}
	return obj, nil
}

// Send issues verb against spec with an optional JSON payload and returns the
// decoded response body, or nil for an empty body. POST addresses the
// collection; other verbs address the resource named by identifier.
func (c *Client) Send(ctx context.Context, spec *schema.Spec, verb, identifier string, payload any) (any, error) {
	url, err := c.cfg.registry.URLFor(spec, identifier, verb)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, spec, verb, url, payload)
}

func (c *Client) resourceOptions() []resource.Option {
	return []resource.Option{
		resource.WithRegistry(c.cfg.registry),
		resource.WithLogger(c.cfg.logger),
	}
}

func (c *Client) do(ctx context.Context, spec *schema.Spec, method, url string, payload any) (any, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("transport: encoding %s payload: %w", spec, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, &rmerrors.TransportError{URL: url, Method: method, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.cfg.userAgent)
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.cfg.logger.Debug("sending request", "method", method, "url", url, "resource", spec.Name)
	resp, err := c.cfg.httpClient.Do(req) //nolint:gosec // G107 - URL comes from the registry or a matched relation
	if err != nil {
		return nil, &rmerrors.TransportError{URL: url, Method: method, Message: "request failed", Cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if !spec.AcceptsStatus(resp.StatusCode) {
		return nil, &rmerrors.TransportError{
			URL:        url,
			Method:     method,
			StatusCode: resp.StatusCode,
			Message:    "unexpected status " + resp.Status,
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.maxBodySize+1))
	if err != nil {
		return nil, &rmerrors.TransportError{URL: url, Method: method, StatusCode: resp.StatusCode, Message: "failed to read body", Cause: err}
	}
	if int64(len(data)) > c.cfg.maxBodySize {
		return nil, &rmerrors.TransportError{
			URL:        url,
			Method:     method,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("response body exceeds %d bytes", c.cfg.maxBodySize),
		}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	body, err := Decode(data)
	if err != nil {
		return nil, &rmerrors.TransportError{URL: url, Method: method, StatusCode: resp.StatusCode, Message: "invalid JSON body", Cause: err}
	}
	return body, nil
}

// Decode parses a JSON document, keeping numbers as json.Number.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}
