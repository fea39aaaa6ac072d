package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsRelativeBase(t *testing.T) {
	_, err := New("not-a-url", 0)
	assert.Error(t, err)

	c, err := New("http://example.test/", 0)
	require.NoError(t, err)
	assert.Equal(t, "http://example.test", c.baseURL)
}

func TestGetJSON_DecodesAndSendsQuery(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"name":"milo"}`))
	}))
	defer ts.Close()

	c, err := New(ts.URL, 0)
	require.NoError(t, err)

	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, c.GetJSON(context.Background(), "items", url.Values{"limit": {"5"}}, &out))
	assert.Equal(t, "milo", out.Name)
}

func TestGetJSON_NonSuccessIsHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer ts.Close()

	c, err := New(ts.URL, 0)
	require.NoError(t, err)

	err = c.GetJSON(context.Background(), "/missing", nil, nil)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "nope", he.Body)
}
