package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiopulse/pulse/pkg/auth"
	"github.com/studiopulse/pulse/pkg/cache"
	"github.com/studiopulse/pulse/pkg/config"
	"github.com/studiopulse/pulse/pkg/domain"
	"github.com/studiopulse/pulse/server/mocks"
)

// testServer wires a server with mocked store and engagement plus a real
// auth service, returning the auth service for minting request tokens
func testServer(store Notifications, engagement Engagement) (*Server, *auth.Service) {
	authSvc := auth.NewService(config.AuthConfig{
		Secret:   "test-secret",
		TokenTTL: time.Hour,
		Issuer:   "pulse-test",
	})

	cfg := &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) {
			return ":8080", 30 * time.Second
		},
	}

	srv := New(Config{
		Config:      cfg,
		Store:       store,
		Engagement:  engagement,
		Auth:        authSvc,
		UnreadCache: cache.New[int](30*time.Second, nil),
		Version:     "test",
	})
	return srv, authSvc
}

func TestServer_New(t *testing.T) {
	srv, _ := testServer(&mocks.NotificationsMock{}, &mocks.EngagementMock{})
	assert.NotNil(t, srv)
	assert.Equal(t, "test", srv.version)
	assert.False(t, srv.debug)
	assert.Equal(t, 100, srv.pageSize, "page size defaults when unset")
}

func TestServer_Run(t *testing.T) {
	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	authSvc := auth.NewService(config.AuthConfig{Secret: "test-secret", TokenTTL: time.Hour})
	cfg := &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) {
			return fmt.Sprintf("127.0.0.1:%d", port), 30 * time.Second
		},
	}

	srv := New(Config{
		Config:      cfg,
		Store:       &mocks.NotificationsMock{},
		Engagement:  &mocks.EngagementMock{},
		Auth:        authSvc,
		UnreadCache: cache.New[int](30*time.Second, nil),
		Version:     "1.0.0",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = srv.Run(ctx)
	}()

	// wait for server to start
	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/ping", port))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))

	resp2, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/api/v1/status", port))
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)

	var status map[string]interface{}
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&status))
	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, "1.0.0", status["version"])

	// graceful shutdown
	cancel()
	time.Sleep(100 * time.Millisecond)
	_, err = http.Get(fmt.Sprintf("http://127.0.0.1:%d/ping", port))
	assert.Error(t, err)
}

func TestServer_StatusNoAuthRequired(t *testing.T) {
	srv, _ := testServer(&mocks.NotificationsMock{}, &mocks.EngagementMock{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", domain.ErrValidation, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("field x: %w", domain.ErrValidation), http.StatusBadRequest},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("notification 5: %w", domain.ErrNotFound), http.StatusNotFound},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, errorCode(tt.err))
		})
	}
}
