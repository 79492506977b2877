package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goran-ethernal/StateIndexor/internal/common"
	"github.com/goran-ethernal/StateIndexor/internal/indexer"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
	apimocks "github.com/goran-ethernal/StateIndexor/pkg/api/mocks"
	"github.com/goran-ethernal/StateIndexor/pkg/config"
	"github.com/stretchr/testify/require"
)

func apiConfig(listen string, cors config.CORSConfig) *config.APIConfig {
	return &config.APIConfig{
		Enabled:       true,
		ListenAddress: listen,
		ReadTimeout:   common.Duration{Duration: 5 * time.Second},
		WriteTimeout:  common.Duration{Duration: 10 * time.Second},
		IdleTimeout:   common.Duration{Duration: 60 * time.Second},
		CORS:          cors,
	}
}

func runningStatus(t *testing.T) *apimocks.StatusProvider {
	t.Helper()
	status := apimocks.NewStatusProvider(t)
	status.EXPECT().Status().Return(indexer.Status{State: indexer.StateRunning}).Maybe()
	return status
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	server := NewServer(apiConfig("localhost:8080", config.CORSConfig{}), Backend{}, logger.NewNopLogger())

	require.NotNil(t, server.handler)
	require.NotNil(t, server.log)
	require.Equal(t, "localhost:8080", server.server.Addr)
	require.Equal(t, 5*time.Second, server.server.ReadTimeout)
	require.Equal(t, 10*time.Second, server.server.WriteTimeout)
	require.Equal(t, 60*time.Second, server.server.IdleTimeout)
}

func TestServer_Routes(t *testing.T) {
	t.Parallel()

	s := seededStore(t)
	server := NewServer(apiConfig(":0", config.CORSConfig{}), Backend{
		Store:  s,
		Undo:   s.Undo(),
		Status: runningStatus(t),
	}, logger.NewNopLogger())

	tests := []struct {
		target         string
		expectedStatus int
	}{
		{target: "/health", expectedStatus: http.StatusOK},
		{target: "/api/v1/status", expectedStatus: http.StatusOK},
		{target: "/api/v1/kv/greeting", expectedStatus: http.StatusOK},
		{target: "/api/v1/kv?key=/__INTERNAL/height", expectedStatus: http.StatusOK},
		{target: "/api/v1/list/names", expectedStatus: http.StatusOK},
		{target: "/api/v1/list?key=names", expectedStatus: http.StatusOK},
		{target: "/api/v1/undo/3", expectedStatus: http.StatusOK},
		{target: "/api/v1/undo/99", expectedStatus: http.StatusNotFound},
		{target: "/swagger/doc.json", expectedStatus: http.StatusOK},
		{target: "/api/v1/unknown", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func TestServer_CORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		cors           config.CORSConfig
		expectedOrigin string
	}{
		{
			name:           "enabled",
			cors:           config.CORSConfig{Enabled: true, AllowedOrigins: []string{"http://localhost:3000"}},
			expectedOrigin: "http://localhost:3000",
		},
		{
			name:           "disabled",
			cors:           config.CORSConfig{Enabled: false, AllowedOrigins: []string{"http://localhost:3000"}},
			expectedOrigin: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := NewServer(apiConfig(":0", tt.cors), Backend{Status: runningStatus(t)}, logger.NewNopLogger())

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set("Origin", "http://localhost:3000")
			w := httptest.NewRecorder()
			server.Handler().ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, tt.expectedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestServer_Start_Disabled(t *testing.T) {
	t.Parallel()

	cfg := apiConfig(":8080", config.CORSConfig{})
	cfg.Enabled = false
	server := NewServer(cfg, Backend{}, logger.NewNopLogger())

	done := make(chan error, 1)
	go func() {
		done <- server.Start(context.Background())
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Start() did not return when server is disabled")
	}
}

func TestServer_Start_ServesAndShutsDown(t *testing.T) {
	t.Parallel()

	// reserve a free port
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	server := NewServer(apiConfig(addr, config.CORSConfig{}), Backend{Status: runningStatus(t)}, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Start(ctx)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/health", addr)) //nolint:noctx
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("Server did not shutdown gracefully within timeout")
	}
}

func TestServer_Start_ListenError(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	server := NewServer(apiConfig(ln.Addr().String(), config.CORSConfig{}), Backend{}, logger.NewNopLogger())
	require.ErrorContains(t, server.Start(context.Background()), "failed to listen")
}
