package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := New(Config{BaseURL: server.URL + "/api"})
	require.NoError(t, err)
	return c
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(Config{BaseURL: "https://api.example.org/v1/"})
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.org/v1/", c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.Timeout())
}

func TestNew_RelativeBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "/relative"})
	require.Error(t, err)
}

func TestNew_CustomTimeout(t *testing.T) {
	c, err := New(Config{BaseURL: "https://zenodo.org/api", Timeout: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, c.Timeout())
}

func TestGetJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/dandisets/", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"count": 7}`))
	})

	var out struct {
		Count int `json:"count"`
	}
	err := c.GetJSON(context.Background(), "/dandisets/", url.Values{"page": {"2"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, 7, out.Count)
}

func TestPostJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "{ ping }", body["query"])

		_, _ = w.Write([]byte(`{"data": {"ok": true}}`))
	})

	var out struct {
		Data struct {
			OK bool `json:"ok"`
		} `json:"data"`
	}
	err := c.PostJSON(context.Background(), "crn/graphql", map[string]any{"query": "{ ping }"}, &out)
	require.NoError(t, err)
	assert.True(t, out.Data.OK)
}

func TestGetJSON_StatusErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		notFound    bool
		serverError bool
	}{
		{"not found", http.StatusNotFound, true, false},
		{"bad request", http.StatusBadRequest, false, false},
		{"server error", http.StatusBadGateway, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "nope", tt.status)
			})

			err := c.GetJSON(context.Background(), "records", nil, &struct{}{})
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, "nope", apiErr.Message)
			assert.Equal(t, tt.notFound, IsNotFound(err))
			assert.Equal(t, tt.serverError, IsServerError(err))
			assert.False(t, IsRateLimited(err))
		})
	}
}

func TestGetJSON_RateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	err := c.GetJSON(context.Background(), "records", nil, nil)
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))

	var rlErr *RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, 7*time.Second, rlErr.RetryAfter)
}

func TestGetJSON_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	})

	err := c.GetJSON(context.Background(), "records", nil, &map[string]any{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestGetJSON_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.GetJSON(ctx, "records", nil, &map[string]any{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, time.Duration(0), parseRetryAfter(""))
	assert.Equal(t, time.Duration(0), parseRetryAfter("soon"))
	assert.Equal(t, time.Duration(0), parseRetryAfter("-1"))
	assert.Equal(t, 30*time.Second, parseRetryAfter(" 30 "))
}
