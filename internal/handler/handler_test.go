package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"surana-backend/internal/apperr"
	"surana-backend/internal/auth"
	"surana-backend/internal/imagegen"
	"surana-backend/internal/kvstore"
	"surana-backend/internal/model"
	"surana-backend/internal/moodboard"
	"surana-backend/internal/service"
)

type stubGenerator struct {
	err error
}

func (s stubGenerator) Generate(_ context.Context, _ string, req imagegen.Request) (model.GeneratedImage, error) {
	if s.err != nil {
		return model.GeneratedImage{}, s.err
	}
	return model.GeneratedImage{ImageURL: "https://img.test/1.webp", PositivePrompt: req.PositivePrompt, Seed: 7}, nil
}

type stubCompleter struct{}

func (stubCompleter) Complete(_ context.Context, _, prompt string) (string, error) {
	return "echo: " + prompt, nil
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp, out
}

func TestMoodboardHandler_SaveListLoadDelete(t *testing.T) {
	store := kvstore.NewMemoryStore()
	h := NewMoodboardHandler(moodboard.NewRepository(store, zap.NewNop()), nil, zap.NewNop())

	app := fiber.New()
	app.Get("/boards", h.List)
	app.Post("/boards", h.Create)
	app.Get("/boards/:index", h.Get)
	app.Delete("/boards/:index", h.Delete)

	resp, body := doJSON(t, app, http.MethodPost, "/boards", map[string]any{"name": "Empty", "items": []any{}})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "moodboard is empty")

	board := map[string]any{
		"name": "Living",
		"items": []any{
			map[string]any{"id": "a", "type": "color", "content": "#E8D5B7", "width": 80, "height": 80, "x": 10, "y": 20, "zIndex": 1},
		},
	}
	resp, body = doJSON(t, app, http.MethodPost, "/boards", board)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, 0, body["index"])

	resp, body = doJSON(t, app, http.MethodGet, "/boards", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	boards := body["boards"].([]any)
	require.Len(t, boards, 1)
	assert.Equal(t, "Living", boards[0].(map[string]any)["name"])
	assert.EqualValues(t, 1, boards[0].(map[string]any)["itemCount"])

	resp, body = doJSON(t, app, http.MethodGet, "/boards/0", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	items := body["items"].([]any)
	assert.Equal(t, "#E8D5B7", items[0].(map[string]any)["content"])

	resp, _ = doJSON(t, app, http.MethodGet, "/boards/5", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/boards/abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/boards/0", nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/boards", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, body["boards"])
}

func TestMoodboardHandler_SearchFallsBackWithoutKey(t *testing.T) {
	creds := service.NewCredentialService(kvstore.NewMemoryStore(), "", "", zap.NewNop())
	search := service.NewMoodboardSearch(creds, stubGenerator{}, zap.NewNop())
	h := NewMoodboardHandler(nil, search, zap.NewNop())

	app := fiber.New()
	app.Post("/search", h.Search)

	resp, body := doJSON(t, app, http.MethodPost, "/search", map[string]any{"tab": "colors", "query": "sunset"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["results"], len(service.SampleColors))
}

func TestCredentialHandler(t *testing.T) {
	creds := service.NewCredentialService(kvstore.NewMemoryStore(), "", "cfg-gemini", zap.NewNop())
	h := NewCredentialHandler(creds, zap.NewNop())

	app := fiber.New()
	app.Get("/credentials/:provider", h.Status)
	app.Put("/credentials/:provider", h.Save)
	app.Delete("/credentials/:provider", h.Clear)

	resp, body := doJSON(t, app, http.MethodGet, "/credentials/runware", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["configured"])

	resp, _ = doJSON(t, app, http.MethodPut, "/credentials/runware", map[string]string{"apiKey": "  "})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPut, "/credentials/runware", map[string]string{"apiKey": "rw-123"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/credentials/runware", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["configured"])
	assert.Equal(t, "user", body["source"])
	assert.NotContains(t, body, "apiKey")

	resp, body = doJSON(t, app, http.MethodGet, "/credentials/gemini", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "config", body["source"])

	resp, _ = doJSON(t, app, http.MethodDelete, "/credentials/runware", nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/credentials/openai", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDesignHandler_GenerateRequiresKey(t *testing.T) {
	store := kvstore.NewMemoryStore()
	creds := service.NewCredentialService(store, "", "", zap.NewNop())
	gallery := service.NewGalleryService(store, zap.NewNop())
	h := NewDesignHandler(service.NewDesignService(creds, stubGenerator{}, gallery, zap.NewNop()), zap.NewNop())

	app := fiber.New()
	app.Post("/generate", h.Generate)
	app.Post("/prompt", h.Prompt)
	app.Post("/save", h.Save)
	app.Get("/options", h.Options)

	resp, _ := doJSON(t, app, http.MethodPost, "/generate", map[string]string{"prompt": "a loft"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	require.NoError(t, creds.Save(context.Background(), service.ProviderRunware, "rw"))
	resp, body := doJSON(t, app, http.MethodPost, "/generate", map[string]string{"prompt": "a loft"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://img.test/1.webp", body["imageURL"])

	resp, body = doJSON(t, app, http.MethodPost, "/prompt", map[string]any{"room": "kitchen", "style": "modern"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body["prompt"], "Modern")

	resp, _ = doJSON(t, app, http.MethodPost, "/save", map[string]any{"imageURL": "https://img.test/1.webp", "seed": 7})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/options", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["rooms"])
}

func TestDesignHandler_UpstreamIsBadGateway(t *testing.T) {
	store := kvstore.NewMemoryStore()
	creds := service.NewCredentialService(store, "rw", "", zap.NewNop())
	gallery := service.NewGalleryService(store, zap.NewNop())
	gen := stubGenerator{err: fmt.Errorf("%w: quota exceeded", apperr.ErrUpstream)}
	h := NewDesignHandler(service.NewDesignService(creds, gen, gallery, zap.NewNop()), zap.NewNop())

	app := fiber.New()
	app.Post("/generate", h.Generate)

	resp, _ := doJSON(t, app, http.MethodPost, "/generate", map[string]string{"prompt": "a loft"})
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestDesignHandler_DescribeAddsToGallery(t *testing.T) {
	store := kvstore.NewMemoryStore()
	creds := service.NewCredentialService(store, "rw", "", zap.NewNop())
	gallery := service.NewGalleryService(store, zap.NewNop())
	h := NewDesignHandler(service.NewDesignService(creds, stubGenerator{}, gallery, zap.NewNop()), zap.NewNop())

	app := fiber.New()
	app.Post("/describe", h.Describe)

	resp, _ := doJSON(t, app, http.MethodPost, "/describe", map[string]string{"description": " "})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/describe", map[string]string{"description": "a bright loft"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Interior design: a bright loft", body["positivePrompt"])

	images, err := gallery.List(context.Background(), "loft")
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "https://img.test/1.webp", images[0].ImageURL)
}

func TestGalleryHandler(t *testing.T) {
	store := kvstore.NewMemoryStore()
	gallery := service.NewGalleryService(store, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, gallery.AddDesign(ctx, model.GeneratedImage{ImageURL: "https://img.test/a.webp", PositivePrompt: "Cozy cabin"}))
	require.NoError(t, gallery.AddDesign(ctx, model.GeneratedImage{ImageURL: "https://img.test/b.webp", PositivePrompt: "Bright loft"}))

	h := NewGalleryHandler(gallery, zap.NewNop())
	app := fiber.New()
	app.Get("/gallery", h.List)
	app.Delete("/gallery", h.Delete)

	resp, body := doJSON(t, app, http.MethodGet, "/gallery?q=cabin", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["images"], 1)

	resp, _ = doJSON(t, app, http.MethodDelete, "/gallery?url=https://img.test/a.webp", nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/gallery?url=https://img.test/a.webp", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestBudgetHandler(t *testing.T) {
	h := NewBudgetHandler(service.NewBudgetService(kvstore.NewMemoryStore(), zap.NewNop()), zap.NewNop())

	app := fiber.New()
	app.Get("/budgets", h.List)
	app.Post("/budgets", h.Save)
	app.Delete("/budgets/:id", h.Delete)
	app.Get("/budgets/:id/summary", h.Summary)
	app.Post("/budgets/:id/items", h.AddItem)

	resp, plan := doJSON(t, app, http.MethodPost, "/budgets", map[string]any{"name": "Kitchen"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	id := plan["id"].(string)
	require.NotEmpty(t, id)
	assert.EqualValues(t, model.DefaultTotalBudget, plan["totalBudget"])

	resp, _ = doJSON(t, app, http.MethodPost, "/budgets/"+id+"/items", map[string]any{"name": "Sofa", "category": "Furniture", "estimatedCost": 0})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/budgets/"+id+"/items", map[string]any{"name": "Sofa", "category": "Furniture", "estimatedCost": 2500})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, summary := doJSON(t, app, http.MethodGet, "/budgets/"+id+"/summary", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2500, summary["totalEstimated"])
	assert.EqualValues(t, 7500, summary["remaining"])

	resp, _ = doJSON(t, app, http.MethodDelete, "/budgets/"+id, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/budgets/missing/summary", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestChatHandler(t *testing.T) {
	creds := service.NewCredentialService(kvstore.NewMemoryStore(), "", "gm", zap.NewNop())
	h := NewChatHandler(service.NewAssistant(creds, stubCompleter{}, stubGenerator{}, zap.NewNop()), zap.NewNop())

	app := fiber.New()
	app.Post("/chat", h.Send)
	app.Get("/chat/greeting", h.Greeting)

	resp, _ := doJSON(t, app, http.MethodPost, "/chat", map[string]string{"message": ""})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/chat", map[string]string{"message": "warm colors?"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	msgs := body["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].(map[string]any)["text"], "echo:")

	resp, body = doJSON(t, app, http.MethodGet, "/chat/greeting", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, service.GreetingText, body["text"])
}

func TestAuthHandler_LoginMeLogout(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	accounts := service.NewAccountService(kvstore.NewMemoryStore(), jwtManager, zap.NewNop())
	h := NewAuthHandler(accounts, time.Hour, false, zap.NewNop())

	app := fiber.New()
	app.Post("/auth/login", h.Login)
	app.Post("/auth/logout", auth.SessionMiddleware(jwtManager), h.Logout)
	app.Get("/auth/me", auth.SessionMiddleware(jwtManager), h.GetMe)

	resp, _ := doJSON(t, app, http.MethodPost, "/auth/login", LoginRequest{Email: "not-an-email"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/auth/login", LoginRequest{Email: "ana@example.com", Name: "Ana"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	token := body["access_token"].(string)
	require.NotEmpty(t, token)

	var cookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == auth.SessionCookie {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	resp, _ = doJSON(t, app, http.MethodGet, "/auth/me", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler().
		Register("database", func(context.Context) error { return nil }, true).
		Register("cache", func(context.Context) error { return errors.New("down") }, false)

	app := fiber.New()
	app.Get("/health", h.Check)
	app.Get("/health/ready", h.Readiness)

	resp, body := doJSON(t, app, http.MethodGet, "/health", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "degraded", body["status"])

	resp, _ = doJSON(t, app, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	h.Register("redis", func(context.Context) error { return errors.New("refused") }, true)
	resp, body = doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "unhealthy", body["status"])
}
