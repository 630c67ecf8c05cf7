package sharedhttp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"mugen/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStatusCode(t *testing.T) {
	tests := []struct {
		code        int
		wantErr     bool
		recoverable bool
	}{
		{http.StatusOK, false, false},
		{http.StatusNotFound, true, true},
		{http.StatusTooManyRequests, true, true},
		{http.StatusBadGateway, true, true},
		{http.StatusForbidden, true, false},
		{http.StatusTeapot, true, false},
	}

	for _, tt := range tests {
		err := CheckStatusCode(tt.code)
		if !tt.wantErr {
			assert.NoError(t, err, "code %d", tt.code)
			continue
		}
		require.Error(t, err, "code %d", tt.code)
		assert.Equal(t, tt.recoverable, IsRecoverable(err), "code %d", tt.code)
	}
}

func TestExecRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(0)

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/present", nil)
	resp, err := ExecRequest(client, req)
	require.NoError(t, err)
	resp.Body.Close()

	req, _ = http.NewRequest(http.MethodGet, server.URL+"/missing", nil)
	_, err = ExecRequest(client, req)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	server.Close()
	req, _ = http.NewRequest(http.MethodGet, server.URL+"/present", nil)
	_, err = ExecRequest(client, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.True(t, IsRecoverable(err))
}
