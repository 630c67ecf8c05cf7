package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestRelease(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mugen", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"tag_name":"v1.2.0","published_at":"2026-01-02T03:04:05Z"}`))
	}))
	t.Cleanup(srv.Close)

	rel, err := latestRelease(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "v1.2.0", rel.TagName)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), rel.PublishedAt.UTC())
}

func TestLatestRelease_NoRelease(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		_, err := latestRelease(context.Background(), srv.Client(), srv.URL)
		assert.True(t, errors.Is(err, errNoRelease), "code %d", code)

		srv.Close()
	}
}

func TestUpdateAvailable(t *testing.T) {
	assert.True(t, updateAvailable("v1.0.0", "v1.1.0"))
	assert.False(t, updateAvailable("v1.1.0", "v1.1.0"))
	assert.False(t, updateAvailable("dev", "v1.1.0"))
	assert.False(t, updateAvailable("v1.0.0", ""))
}
