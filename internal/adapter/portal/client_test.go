package portal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPageContext(t *testing.T) {
	var gotRoute string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/content/page-context", r.URL.Path)
		gotRoute = r.URL.Query().Get("route")
		_, _ = w.Write([]byte(`{"title":"Feedback","audience":"public"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	data, err := client.GetPageContext(context.Background(), "/feedback")
	require.NoError(t, err)
	assert.Equal(t, "/feedback", gotRoute)
	assert.Equal(t, "Feedback", data["title"])
}

func TestGetPageContextNormalizesRoute(t *testing.T) {
	var gotRoute string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRoute = r.URL.Query().Get("route")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.GetPageContext(context.Background(), "admin/analytics")
	require.NoError(t, err)
	assert.Equal(t, "/admin/analytics", gotRoute)
}

func TestGetPageContextHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.GetPageContext(context.Background(), "/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestGetPageContextInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.GetPageContext(context.Background(), "/feedback")
	assert.Error(t, err)
}
