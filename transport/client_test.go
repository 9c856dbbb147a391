package transport

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/restmap"
	"github.com/erraggy/restmap/registry"
	"github.com/erraggy/restmap/relation"
	"github.com/erraggy/restmap/rmerrors"
	"github.com/erraggy/restmap/schema"
)

type api struct {
	server   *httptest.Server
	reg      *registry.Registry
	designer *schema.Spec
	product  *schema.Spec

	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	a := &api{}
	mux := http.NewServeMux()
	mux.HandleFunc("/designers/slug-1/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"url":"`+a.server.URL+`/designers/slug-1/","name":"Dieter","age":90}`)
	})
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"url":"`+a.server.URL+`/products/9/","name":"new"}`)
			return
		}
		_, _ = io.WriteString(w, `{"count":2,"results":[`+
			`{"url":"`+a.server.URL+`/products/1/","name":"chair","designer":"`+a.server.URL+`/designers/slug-1/"},`+
			`{"url":"`+a.server.URL+`/products/2/","name":"lamp","price":12345678901234567890}]}`)
	})
	mux.HandleFunc("/products/1/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			_, _ = io.WriteString(w, `{"url":"`+a.server.URL+`/products/1/","name":"chair","designer":"`+a.server.URL+`/designers/slug-1/"}`)
		}
	})
	mux.HandleFunc("/products/missing/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	mux.HandleFunc("/products/list/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[1,2]`)
	})
	mux.HandleFunc("/products/broken/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"url":`)
	})
	mux.HandleFunc("/products/big/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"name":"`+strings.Repeat("x", 2048)+`"}`)
	})

	a.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		a.mu.Lock()
		a.requests = append(a.requests, r)
		a.bodies = append(a.bodies, string(body))
		a.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(a.server.Close)

	a.designer = &schema.Spec{
		Name:       "designer",
		Identifier: "url",
		Attributes: []string{"url", "name"},
		Hypermedia: &schema.Hypermedia{BaseURL: a.server.URL},
	}
	a.product = &schema.Spec{
		Name:             "product",
		Identifier:       "url",
		Attributes:       []string{"url", "name", "designer", "price"},
		PaginationKey:    "results",
		ValidStatusCodes: []int{200, 201, 204},
		Hypermedia: &schema.Hypermedia{
			BaseURL:          a.server.URL,
			RelatedResources: []*schema.Spec{a.designer},
		},
	}
	a.reg = registry.New()
	require.NoError(t, a.reg.RegisterAll(a.designer, a.product))
	return a
}

func (a *api) recorded() ([]*http.Request, []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*http.Request(nil), a.requests...), append([]string(nil), a.bodies...)
}

func (a *api) client(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(append([]Option{WithRegistry(a.reg)}, opts...)...)
	require.NoError(t, err)
	return c
}

// =============================================================================
// Client Tests
// =============================================================================

func TestClient_Get(t *testing.T) {
	a := newAPI(t)
	c := a.client(t)

	inst, err := c.Get(context.Background(), a.product, "1")
	require.NoError(t, err)
	name, _ := inst.Text("name")
	assert.Equal(t, "chair", name)

	requests, _ := a.recorded()
	require.Len(t, requests, 1)
	req := requests[0]
	assert.Equal(t, "/products/1/", req.URL.Path)
	assert.Equal(t, restmap.UserAgent(), req.Header.Get("User-Agent"))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))

	_, err = c.Get(context.Background(), a.product, "")
	assert.Error(t, err)
}

func TestClient_List(t *testing.T) {
	a := newAPI(t)
	c := a.client(t)

	list, err := c.List(context.Background(), a.product)
	require.NoError(t, err)
	require.Len(t, list, 2)

	price, ok := list[1].Get("price")
	require.True(t, ok)
	text, ok := price.AsNumberText()
	require.True(t, ok)
	assert.Equal(t, json.Number("12345678901234567890"), text)
}

func TestClient_Send(t *testing.T) {
	a := newAPI(t)
	c := a.client(t)
	ctx := context.Background()

	body, err := c.Send(ctx, a.product, schema.MethodPost, "", map[string]any{"name": "new"})
	require.NoError(t, err)
	assert.Equal(t, "new", body.(map[string]any)["name"])
	requests, bodies := a.recorded()
	assert.Equal(t, "/products/", requests[0].URL.Path)
	assert.Equal(t, "application/json", requests[0].Header.Get("Content-Type"))
	assert.JSONEq(t, `{"name":"new"}`, bodies[0])

	body, err = c.Send(ctx, a.product, schema.MethodDelete, "1", nil)
	require.NoError(t, err)
	assert.Nil(t, body)

	_, err = c.Send(ctx, a.product, schema.MethodDelete, "", nil)
	assert.ErrorIs(t, err, rmerrors.ErrConfig)
}

func TestClient_Errors(t *testing.T) {
	a := newAPI(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		client *Client
		id     string
		status int
		msg    string
	}{
		{name: "status not accepted", client: a.client(t), id: "missing", status: http.StatusNotFound, msg: "unexpected status"},
		{name: "not an object", client: a.client(t), id: "list", status: http.StatusOK, msg: "expected a JSON object"},
		{name: "invalid json", client: a.client(t), id: "broken", status: http.StatusOK, msg: "invalid JSON"},
		{name: "body too large", client: a.client(t, WithMaxBodySize(1024)), id: "big", status: http.StatusOK, msg: "exceeds 1024 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.client.Get(ctx, a.product, tt.id)
			require.Error(t, err)
			assert.ErrorIs(t, err, rmerrors.ErrTransport)
			assert.Contains(t, err.Error(), tt.msg)

			var terr *rmerrors.TransportError
			require.ErrorAs(t, err, &terr)
			if tt.status > 0 && tt.msg != "expected a JSON object" {
				assert.Equal(t, tt.status, terr.StatusCode)
			}
		})
	}

	t.Run("unregistered spec", func(t *testing.T) {
		other := &schema.Spec{Name: "planet", Identifier: "url", Attributes: []string{"url"},
			Hypermedia: &schema.Hypermedia{BaseURL: a.server.URL}}
		_, err := a.client(t).Get(ctx, other, "1")
		assert.ErrorIs(t, err, rmerrors.ErrUnregisteredResource)
	})

	t.Run("connection refused", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addr := ln.Addr().String()
		require.NoError(t, ln.Close())

		_, err = a.client(t).Fetch(ctx, a.product, "http://"+addr+"/products/1/")
		assert.ErrorIs(t, err, rmerrors.ErrTransport)
	})
}

func TestClient_ResolvesRelations(t *testing.T) {
	a := newAPI(t)
	c := a.client(t, WithUserAgent("tests/1.0"))
	ctx := context.Background()

	product, err := c.Get(ctx, a.product, "1")
	require.NoError(t, err)

	res, err := relation.NewResolver(product, relation.WithRegistry(a.reg))
	require.NoError(t, err)
	designers, err := res.ResolveAll(ctx, c, a.designer)
	require.NoError(t, err)
	require.Len(t, designers, 1)

	name, _ := designers[0].Text("name")
	assert.Equal(t, "Dieter", name)
	assert.False(t, designers[0].Has("age"))
	requests, _ := a.recorded()
	assert.Equal(t, "tests/1.0", requests[len(requests)-1].Header.Get("User-Agent"))
}

func TestNew_InvalidOptions(t *testing.T) {
	for name, opt := range map[string]Option{
		"nil client":     WithHTTPClient(nil),
		"zero timeout":   WithTimeout(0),
		"nil registry":   WithRegistry(nil),
		"empty agent":    WithUserAgent(""),
		"zero body size": WithMaxBodySize(0),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := New(opt)
			assert.Error(t, err)
		})
	}
}

func TestDecode(t *testing.T) {
	v, err := Decode([]byte(`{"n": 1.50}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("1.50"), v.(map[string]any)["n"])

	_, err = Decode([]byte(`{} {}`))
	assert.Error(t, err)
}

func TestSafeHTTPClient_BlocksLoopback(t *testing.T) {
	a := newAPI(t)
	c := a.client(t, WithHTTPClient(NewSafeHTTPClient(DefaultTimeout)))

	_, err := c.Get(context.Background(), a.product, "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked request")
}

func TestIsBlockedIP(t *testing.T) {
	assert.True(t, isBlockedIP(net.ParseIP("127.0.0.1")))
	assert.True(t, isBlockedIP(net.ParseIP("10.0.0.1")))
	assert.True(t, isBlockedIP(net.ParseIP("169.254.1.1")))
	assert.True(t, isBlockedIP(net.ParseIP("0.0.0.0")))
	assert.False(t, isBlockedIP(net.ParseIP("8.8.8.8")))
}
