package e2e

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/musicu/api/internal/auth"
	"github.com/musicu/api/internal/client"
	"github.com/musicu/api/internal/config"
	"github.com/musicu/api/internal/handler"
	"github.com/musicu/api/internal/middleware"
	"github.com/musicu/api/internal/service"
	"github.com/musicu/api/internal/store"
	"github.com/musicu/api/internal/vibe"
)

const testJWTSecret = "test-secret-for-e2e"

// testApp holds all components needed for testing
type testApp struct {
	app *fiber.App
}

// setupApp creates a Fiber app identical to main.go but with an unconfigured
// Gemini client (mock generation) and synchronous history writes (no asynq
// worker needed).
func setupApp(t *testing.T) *testApp {
	t.Helper()
	return setupAppWithGemini(t, client.NewGeminiClient(&config.GeminiConfig{}))
}

// setupAppWithFakeUpstream routes Gemini calls to an httptest server so tests
// can script upstream behavior.
func setupAppWithFakeUpstream(t *testing.T, upstream http.HandlerFunc) *testApp {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)
	return setupAppWithGemini(t, client.NewGeminiClient(&config.GeminiConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "gemini-1.5-flash",
	}))
}

func setupAppWithGemini(t *testing.T, geminiClient *client.GeminiClient) *testApp {
	t.Helper()

	// Redis (localhost — must be running)
	redisClient := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // use DB 15 for tests to avoid collision
	})
	t.Cleanup(func() { redisClient.Close() })

	validate := validator.New()

	// Stores and services — nil asynq client means history writes go
	// straight to the store, so listings are visible immediately
	userStore := store.NewUserStore(redisClient)
	historyStore := store.NewHistoryStore(redisClient)
	userService := service.NewUserService(userStore, testJWTSecret, 24)
	historyService := service.NewHistoryService(historyStore, nil)

	orchestrator := vibe.NewOrchestrator(geminiClient, historyService)

	// Handlers
	authHandler := handler.NewAuthHandler(userService, validate)
	vibeHandler := handler.NewVibeHandler(orchestrator, historyService, validate)

	// Middleware
	sessionMiddleware := middleware.NewSessionMiddleware(testJWTSecret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Fiber app
	app := fiber.New(fiber.Config{})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"gemini": geminiClient.IsConfigured(),
				"redis":  redisClient.Ping(c.Context()).Err() == nil,
				"auth":   true,
			},
		})
	})

	authRoutes := app.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/logout", authHandler.Logout)

	api := app.Group("/api", sessionMiddleware.Resolve())
	vibeRoutes := api.Group("/vibe")
	// Very high rate limit so tests don't get blocked
	vibeRoutes.Post("/generate", rateLimiter.VibeLimit(10000), vibeHandler.Generate)
	vibeRoutes.Get("/history", sessionMiddleware.RequireAuthenticated(), vibeHandler.History)

	return &testApp{app: app}
}

// generateToken creates a session token for test requests. Each call mints a
// fresh user ID so tests don't share history lists in Redis.
func generateToken(t *testing.T) (token, userID string) {
	t.Helper()
	userID = uuid.New().String()
	token, err := auth.GenerateToken(userID, "test@example.com", "Test User", testJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return token, userID
}

// doRequest is a helper to perform HTTP requests against the test app.
func doRequest(app *fiber.App, method, path string, body string, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		return nil, err
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return app.Test(req, -1)
}

// doAuthRequest performs a request with a fresh authenticated session.
func doAuthRequest(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, error) {
	t.Helper()
	token, _ := generateToken(t)
	return doRequest(app, method, path, body, map[string]string{
		"Authorization": "Bearer " + token,
	})
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(b)
}

// parseJSON parses response body into a map.
func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := readBody(t, resp)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, body)
	}
	return result
}

// assertStatus checks the HTTP status code.
func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

// assertErrorCode checks the error envelope code.
func assertErrorCode(t *testing.T, result map[string]interface{}, expected string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got %v", result)
	}
	if errObj["code"] != expected {
		t.Errorf("expected error code %s, got %v", expected, errObj["code"])
	}
}
