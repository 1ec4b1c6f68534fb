package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techjojo/catalogue/internal/api"
)

const sampleCSV = "name,brand,price\nAlpha,Acer,150000\n"

func newTestCSVServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		assert.Equal(t, "no-cache", r.Header.Get("Pragma"))

		w.Header().Set("Content-Type", "text/csv")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestFetchCSV(t *testing.T) {
	srv := newTestCSVServer(t, http.StatusOK, sampleCSV)
	defer srv.Close()

	body, err := api.NewClient().FetchCSV(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, sampleCSV, body)
}

func TestFetchCSV_NonSuccessStatus(t *testing.T) {
	srv := newTestCSVServer(t, http.StatusServiceUnavailable, "down")
	defer srv.Close()

	_, err := api.NewClient().FetchCSV(context.Background(), srv.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 503")

	var status *api.StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, http.StatusServiceUnavailable, status.Code)
}

func TestFetchCSV_AcceptsAny2xx(t *testing.T) {
	srv := newTestCSVServer(t, http.StatusNonAuthoritativeInfo, sampleCSV)
	defer srv.Close()

	body, err := api.NewClient().FetchCSV(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, sampleCSV, body)
}

func TestFetchCSV_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := api.NewClientWithHTTP(srv.Client()).FetchCSV(ctx, srv.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "executing request")
}

func TestFetchCSV_InvalidURL(t *testing.T) {
	_, err := api.NewClient().FetchCSV(context.Background(), "://bad")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating request")
}

func TestFetchCSV_BodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		chunk := []byte(strings.Repeat("x", 1<<20))
		for range 17 {
			if _, err := w.Write(chunk); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	_, err := api.NewClient().FetchCSV(context.Background(), srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrBodyTooLarge)
}
