package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"recshare/internal/config"
	"recshare/internal/store"
)

// TestRoutesThroughMiddlewareStack wires the full middleware stack over the
// in-memory store and walks one register → meeting → recording → share →
// check-access round trip, verifying the stack does not interfere with the
// JSON API.
func TestRoutesThroughMiddlewareStack(t *testing.T) {
	cfg := &config.Config{
		Env:        "development",
		ServerAddr: ":0",
		BaseURL:    "http://localhost:3000",
	}

	srv := New(cfg)
	srv.RegisterRoutes(store.NewMemory())

	post := func(path string, body map[string]any) map[string]any {
		t.Helper()
		raw, _ := json.Marshal(body)
		req, _ := http.NewRequest("POST", path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		resp, err := srv.App.Test(req)
		if err != nil {
			t.Fatalf("POST %s failed: %v", path, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("POST %s: status %d", path, resp.StatusCode)
		}
		var env map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			t.Fatalf("POST %s: decode: %v", path, err)
		}
		return env
	}

	post("/api/viewers", map[string]any{"email": "a@x.com"})

	meetingEnv := post("/api/meetings", map[string]any{"host_email": "a@x.com", "password": "p"})
	meetingData, _ := meetingEnv["data"].(map[string]any)
	meetingID, _ := meetingData["id"].(string)
	if meetingID == "" {
		t.Fatalf("meeting response missing id: %v", meetingEnv)
	}

	post("/api/recordings", map[string]any{"url": "u1", "is_private": false, "meeting_id": meetingID})
	post("/api/recordings/share", map[string]any{"url": "u1", "email": "a@x.com"})

	req, _ := http.NewRequest("GET", "/api/recordings/access?url=u1&email=a@x.com&password=p", nil)
	resp, err := srv.App.Test(req)
	if err != nil {
		t.Fatalf("GET access failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET access: status %d", resp.StatusCode)
	}
	var env struct {
		Data struct {
			Decision string `json:"decision"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("GET access: decode: %v", err)
	}
	if env.Data.Decision != "granted" {
		t.Errorf("access decision = %q, want granted", env.Data.Decision)
	}
}

func TestHealthz(t *testing.T) {
	cfg := &config.Config{Env: "development", BaseURL: "http://localhost:3000"}

	srv := New(cfg)
	srv.RegisterRoutes(store.NewMemory())

	req, _ := http.NewRequest("GET", "/healthz", nil)
	resp, err := srv.App.Test(req)
	if err != nil {
		t.Fatalf("GET /healthz failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /healthz: status %d, want 200", resp.StatusCode)
	}
}
