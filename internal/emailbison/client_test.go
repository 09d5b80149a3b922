package emailbison

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/max-longrun/bison-mcp/internal/normalize"
)

type capturedRequest struct {
	Method      string
	Path        string
	RawQuery    string
	Header      http.Header
	Body        []byte
	ContentType string
}

// newTestServer answers every request with status, contentType and body and
// records what it received.
func newTestServer(t *testing.T, status int, contentType, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		*captured = capturedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			RawQuery:    r.URL.RawQuery,
			Header:      r.Header.Clone(),
			Body:        data,
			ContentType: r.Header.Get("Content-Type"),
		}
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(Options{Account: "test", APIKey: "secret-key", BaseURL: baseURL})
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	t.Run("missing api key fails", func(t *testing.T) {
		_, err := New(Options{APIKey: "  "})
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("defaults and trailing slash", func(t *testing.T) {
		c, err := New(Options{APIKey: "k", BaseURL: "https://example.test/api/"})
		require.NoError(t, err)
		assert.Equal(t, "https://example.test/api", c.BaseURL())
		assert.Equal(t, DefaultTimeout, c.Timeout())
	})

	t.Run("empty base url uses default", func(t *testing.T) {
		c, err := New(Options{APIKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, c.BaseURL())
	})
}

func TestRequest_Headers(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, "application/json", `{"ok":true}`)
	c := newTestClient(t, srv.URL+"/")

	t.Run("json body sets content type", func(t *testing.T) {
		_, err := c.Request(context.Background(), http.MethodPost, "/leads", nil, map[string]any{"email": "a@b.c"})
		require.NoError(t, err)

		assert.Equal(t, "/leads", captured.Path)
		assert.Equal(t, "Bearer secret-key", captured.Header.Get("Authorization"))
		assert.Equal(t, "application/json", captured.Header.Get("Accept"))
		assert.Equal(t, "application/json", captured.ContentType)
		assert.JSONEq(t, `{"email":"a@b.c"}`, string(captured.Body))
	})

	t.Run("no body means no content type", func(t *testing.T) {
		_, err := c.Request(context.Background(), http.MethodGet, "/tags", nil, nil)
		require.NoError(t, err)
		assert.Empty(t, captured.ContentType)
		assert.Empty(t, captured.Body)
	})

	t.Run("query values are encoded", func(t *testing.T) {
		q := normalize.Query(map[string]any{"start_date": "2024-01-01", "filters.tag_ids": []any{1, 2}})
		_, err := c.Request(context.Background(), http.MethodGet, "/workspaces/v1.1/stats", q, nil)
		require.NoError(t, err)
		assert.Equal(t, "filters.tag_ids=1&filters.tag_ids=2&startDate=2024-01-01", captured.RawQuery)
	})
}

func TestRequest_Responses(t *testing.T) {
	t.Run("json payload is decoded", func(t *testing.T) {
		srv, _ := newTestServer(t, http.StatusOK, "application/json; charset=utf-8", `{"data":[{"id":1}]}`)
		got, err := newTestClient(t, srv.URL).Request(context.Background(), http.MethodGet, "/leads", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"data": []any{map[string]any{"id": float64(1)}}}, got)
	})

	t.Run("non json payload is returned as text", func(t *testing.T) {
		srv, _ := newTestServer(t, http.StatusOK, "text/plain", "pong")
		got, err := newTestClient(t, srv.URL).Request(context.Background(), http.MethodGet, "/ping", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "pong", got)
	})
}

func TestRequest_APIErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"json message", http.StatusUnprocessableEntity, `{"message":"email already exists"}`, "email already exists"},
		{"raw text", http.StatusBadGateway, "upstream down", "upstream down"},
		{"json without message", http.StatusNotFound, `{"error":"nope"}`, `{"error":"nope"}`},
		{"empty body", http.StatusInternalServerError, "", "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, "application/json", tt.body)
			_, err := newTestClient(t, srv.URL).Request(context.Background(), http.MethodPost, "/leads", nil, map[string]any{})
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantDetail, apiErr.Detail)
			assert.False(t, IsTransportError(err))
		})
	}

	t.Run("error text", func(t *testing.T) {
		err := &APIError{StatusCode: 422, Detail: "email already exists"}
		assert.Equal(t, "EmailBison API error (422): email already exists", err.Error())
	})
}

func TestRequest_TransportErrors(t *testing.T) {
	t.Run("unreachable host", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := newTestClient(t, url).Request(context.Background(), http.MethodGet, "/users", nil, nil)
		require.Error(t, err)
		assert.True(t, IsTransportError(err))
		assert.False(t, IsAPIError(err))
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()

		c, err := New(Options{APIKey: "k", BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
		require.NoError(t, err)

		_, err = c.Request(context.Background(), http.MethodGet, "/users", nil, nil)
		require.Error(t, err)
		assert.True(t, IsTransportError(err))
	})
}

func TestPostMultipart(t *testing.T) {
	var gotFields map[string]string
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotFields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotFields[k] = v[0]
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":{"id":7}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.BulkCreateLeadsCSV(context.Background(), BulkCSVParams{
		Name:         "Import",
		CSVContent:   "email\na@b.c\n",
		ColumnsToMap: []any{map[string]any{"email": "email"}},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(gotContentType, "multipart/form-data; boundary="))
	assert.Equal(t, "Import", gotFields["name"])
	assert.Equal(t, "email\na@b.c\n", gotFields["csv"])
	assert.Equal(t, `[{"email":"email"}]`, gotFields["columnsToMap"])
	_, hasBehavior := gotFields["existing_lead_behavior"]
	assert.False(t, hasBehavior)
}

func TestClose(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, "application/json", `{}`)
	c := newTestClient(t, srv.URL)

	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())

	_, err := c.Request(context.Background(), http.MethodGet, "/users", nil, nil)
	assert.ErrorIs(t, err, ErrClientClosed)
}

func TestObserverAndRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusCreated, "application/json", `{}`)

	var calls atomic.Int32
	var lastStatus atomic.Int32
	c, err := New(Options{
		Account:   "acme",
		APIKey:    "k",
		BaseURL:   srv.URL,
		RateLimit: 100,
		Observer: func(account, method string, status int, elapsed time.Duration) {
			calls.Add(1)
			lastStatus.Store(int32(status))
			assert.Equal(t, "acme", account)
		},
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := c.Request(context.Background(), http.MethodPost, "/tags", nil, map[string]any{"name": "x"})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, int32(http.StatusCreated), lastStatus.Load())

	t.Run("cancelled wait is a transport error", func(t *testing.T) {
		slow, err := New(Options{APIKey: "k", BaseURL: srv.URL, RateLimit: 0.001})
		require.NoError(t, err)
		_, err = slow.Request(context.Background(), http.MethodGet, "/tags", nil, nil)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err = slow.Request(ctx, http.MethodGet, "/tags", nil, nil)
		assert.True(t, IsTransportError(err))
	})
}

func decodeBody(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}
