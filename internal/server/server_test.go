package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"surana-backend/internal/config"
	"surana-backend/internal/imagegen"
	"surana-backend/internal/kvstore"
	"surana-backend/internal/model"
)

type nopGenerator struct{}

func (nopGenerator) Generate(_ context.Context, _ string, req imagegen.Request) (model.GeneratedImage, error) {
	return model.GeneratedImage{ImageURL: "https://img.test/x.webp", PositivePrompt: req.PositivePrompt}, nil
}

type nopCompleter struct{}

func (nopCompleter) Complete(context.Context, string, string) (string, error) {
	return "ok", nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:              ":0",
			ReadTimeout:       5 * time.Second,
			WriteTimeout:      5 * time.Second,
			IdleTimeout:       5 * time.Second,
			ShutdownTimeout:   time.Second,
			GenerateRateLimit: 2,
		},
		WebSocket: config.WebSocketConfig{ReadBufferSize: 1024, WriteBufferSize: 1024, MaxMessageSize: 1 << 20},
		CORS:      config.CORSConfig{AllowOrigins: "*", AllowHeaders: "Content-Type"},
		Auth:      config.AuthConfig{JWTSecret: "test-secret", SessionExpiry: time.Hour},
		Canvas:    config.CanvasConfig{Width: 600, Height: 600},
		Log:       config.LogConfig{Level: "info"},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	srv := New(testConfig(), kvstore.NewMemoryStore(), Vendors{Images: nopGenerator{}, Chat: nopCompleter{}}, nil, zap.NewNop())
	srv.SetupMiddleware()
	srv.SetupRoutes()
	return srv
}

func TestRoutes_Registered(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", fiber.StatusOK},
		{http.MethodGet, "/health/live", fiber.StatusOK},
		{http.MethodGet, "/api/moodboards", fiber.StatusOK},
		{http.MethodGet, "/api/moodboards/0", fiber.StatusNotFound},
		{http.MethodGet, "/api/credentials/runware", fiber.StatusOK},
		{http.MethodGet, "/api/gallery", fiber.StatusOK},
		{http.MethodGet, "/api/budgets", fiber.StatusOK},
		{http.MethodGet, "/api/designs/options", fiber.StatusOK},
		{http.MethodGet, "/api/chat/greeting", fiber.StatusOK},
		{http.MethodGet, "/api/stats", fiber.StatusOK},
		{http.MethodGet, "/auth/me", fiber.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			resp, err := srv.App().Test(httptest.NewRequest(tc.method, tc.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestWebSocket_RequiresUpgrade(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/ws/moodboard", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestVendorRoutes_RateLimited(t *testing.T) {
	srv := newTestServer(t)

	status := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hello"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := srv.App().Test(req, -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, status())
	assert.Equal(t, fiber.StatusOK, status())
	assert.Equal(t, fiber.StatusTooManyRequests, status())
}
