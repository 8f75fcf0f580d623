package e2e

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/musicu/api/internal/auth"
)

const longDescription = `{"description": "I am a night owl who loves rainy city streets, black coffee, old jazz records and long walks after midnight"}`

func TestVibeGenerate_GuestSuccess(t *testing.T) {
	ta := setupApp(t)

	resp, err := doRequest(ta.app, http.MethodPost, "/api/vibe/generate", longDescription, nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusOK)

	result := parseJSON(t, resp)
	vibeResult, ok := result["result"].(map[string]interface{})
	if !ok {
		t.Fatal("expected 'result' object in response")
	}
	for _, field := range []string{"mood", "genre", "energy_level", "suggested_music"} {
		if v, _ := vibeResult[field].(string); v == "" {
			t.Errorf("expected non-empty %q in result", field)
		}
	}
	if _, ok := vibeResult["aesthetic_keywords"].([]interface{}); !ok {
		t.Error("expected aesthetic_keywords array")
	}
	searchURL, _ := result["searchUrl"].(string)
	if searchURL == "" {
		t.Error("expected a derived search link")
	}
	if result["warning"] != nil {
		t.Errorf("long description should not warn, got %v", result["warning"])
	}
}

func TestVibeGenerate_ShortDescriptionWarning(t *testing.T) {
	ta := setupApp(t)

	resp, err := doRequest(ta.app, http.MethodPost, "/api/vibe/generate", `{"description": "quiet night owl"}`, nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusOK)

	result := parseJSON(t, resp)
	warning, _ := result["warning"].(string)
	if warning == "" {
		t.Error("expected an advisory warning for a short description")
	}
	if result["result"] == nil {
		t.Error("warning must not block generation")
	}
}

func TestVibeGenerate_MissingDescription(t *testing.T) {
	ta := setupApp(t)

	resp, err := doRequest(ta.app, http.MethodPost, "/api/vibe/generate", `{}`, nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusBadRequest)
	assertErrorCode(t, parseJSON(t, resp), "VALIDATION_ERROR")
}

func TestVibeGenerate_InvalidToken(t *testing.T) {
	ta := setupApp(t)

	resp, err := doRequest(ta.app, http.MethodPost, "/api/vibe/generate", longDescription, map[string]string{
		"Authorization": "Bearer not-a-real-token",
	})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusUnauthorized)
}

func TestVibeHistory_GuestForbidden(t *testing.T) {
	ta := setupApp(t)

	resp, err := doRequest(ta.app, http.MethodGet, "/api/vibe/history", "", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusForbidden)
	assertErrorCode(t, parseJSON(t, resp), "FORBIDDEN")
}

func TestVibeGenerate_AuthenticatedSavesHistory(t *testing.T) {
	ta := setupApp(t)
	token, _ := generateToken(t)
	headers := map[string]string{"Authorization": "Bearer " + token}

	resp, err := doRequest(ta.app, http.MethodPost, "/api/vibe/generate", longDescription, headers)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)

	resp, err = doRequest(ta.app, http.MethodGet, "/api/vibe/history", "", headers)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)

	result := parseJSON(t, resp)
	entries, ok := result["entries"].([]interface{})
	if !ok {
		t.Fatal("expected 'entries' array")
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}

	entry, ok := entries[0].(map[string]interface{})
	if !ok {
		t.Fatal("entry is not an object")
	}
	if entry["description"] == "" {
		t.Error("entry should keep the original description")
	}
	if entry["mood"] == "" || entry["genre"] == "" {
		t.Error("entry should carry the vibe fields")
	}
}

func TestVibeHistory_NewestFirst(t *testing.T) {
	ta := setupApp(t)
	token, _ := generateToken(t)
	headers := map[string]string{"Authorization": "Bearer " + token}

	first := `{"description": "calm reader of old novels under warm lamplight every single evening"}`
	second := `{"description": "loud festival dancer chasing basslines through neon summer nights forever"}`

	for _, body := range []string{first, second} {
		resp, err := doRequest(ta.app, http.MethodPost, "/api/vibe/generate", body, headers)
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		assertStatus(t, resp, http.StatusOK)
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := doRequest(ta.app, http.MethodGet, "/api/vibe/history", "", headers)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)

	result := parseJSON(t, resp)
	entries, _ := result["entries"].([]interface{})
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	newest, _ := entries[0].(map[string]interface{})
	if desc, _ := newest["description"].(string); !strings.HasPrefix(desc, "loud") {
		t.Errorf("expected newest entry first, got %v", newest["description"])
	}
}

func TestVibeGenerate_GuestDoesNotTouchHistory(t *testing.T) {
	ta := setupApp(t)

	// Guest generation, then a fresh authenticated user checks their history
	resp, err := doRequest(ta.app, http.MethodPost, "/api/vibe/generate", longDescription, nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)

	resp, err = doAuthRequest(t, ta.app, http.MethodGet, "/api/vibe/history", "")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)

	result := parseJSON(t, resp)
	entries, _ := result["entries"].([]interface{})
	if len(entries) != 0 {
		t.Errorf("guest generation must not write history, got %d entries", len(entries))
	}
}

func TestVibeGenerate_UpstreamCredentialFailure(t *testing.T) {
	ta := setupAppWithFakeUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"status":"INVALID_ARGUMENT","message":"API key not valid. Please pass a valid api_key."}}`))
	})

	resp, err := doRequest(ta.app, http.MethodPost, "/api/vibe/generate", longDescription, nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusBadGateway)
	assertErrorCode(t, parseJSON(t, resp), "CREDENTIAL_ERROR")
}

func TestVibeGenerate_UpstreamQuotaFailure(t *testing.T) {
	ta := setupAppWithFakeUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"status":"RESOURCE_EXHAUSTED","message":"quota exceeded"}}`))
	})

	resp, err := doRequest(ta.app, http.MethodPost, "/api/vibe/generate", longDescription, nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusBadGateway)
	assertErrorCode(t, parseJSON(t, resp), "QUOTA_EXCEEDED")
}

func TestVibeGenerate_UnparsableUpstreamOutput(t *testing.T) {
	ta := setupAppWithFakeUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"sorry, no can do"}]}}]}`))
	})

	resp, err := doRequest(ta.app, http.MethodPost, "/api/vibe/generate", longDescription, nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusBadGateway)
	assertErrorCode(t, parseJSON(t, resp), "AI_ERROR")
}

func TestSessionToken_RoundTrip(t *testing.T) {
	token, userID := generateToken(t)

	claims, err := auth.ValidateToken(token, testJWTSecret)
	if err != nil {
		t.Fatalf("token validation failed: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("expected user %s, got %s", userID, claims.UserID)
	}
}
