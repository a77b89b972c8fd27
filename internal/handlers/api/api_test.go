package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v3"

	"recshare/internal/access"
	"recshare/internal/store"
)

// envelope mirrors the JSON response wrapper.
type envelope struct {
	Status string          `json:"status"`
	Kind   string          `json:"kind"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

func setupTestApp(t *testing.T) (*fiber.App, *store.Memory) {
	t.Helper()

	mem := store.NewMemory()
	engine := access.New(mem)

	viewerHandler := NewViewerHandler(mem)
	meetingHandler := NewMeetingHandler(mem)
	recordingHandler := NewRecordingHandler(mem)
	accessHandler := NewAccessHandler(engine)

	app := fiber.New()
	app.Post("/api/viewers", viewerHandler.Register)
	app.Get("/api/viewers", viewerHandler.List)
	app.Post("/api/meetings", meetingHandler.Create)
	app.Get("/api/meetings", meetingHandler.List)
	app.Get("/api/meetings/:id", meetingHandler.Get)
	app.Post("/api/recordings", recordingHandler.Create)
	app.Get("/api/recordings", recordingHandler.List)
	app.Get("/api/recordings/find", recordingHandler.Find)
	app.Delete("/api/recordings", recordingHandler.Delete)
	app.Get("/api/recordings/viewers", recordingHandler.SharedViewers)
	app.Post("/api/recordings/share", accessHandler.Share)
	app.Get("/api/recordings/access", accessHandler.CheckAccess)

	return app, mem
}

// doJSON performs a request with an optional JSON body and decodes the
// response envelope.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, envelope) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reqBody)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode response: %v", method, path, err)
	}

	return resp.StatusCode, env
}

// registerViewer registers an email and fails the test on error.
func registerViewer(t *testing.T, app *fiber.App, email string) {
	t.Helper()
	code, env := doJSON(t, app, "POST", "/api/viewers", fiber.Map{"email": email})
	if code != http.StatusOK {
		t.Fatalf("register %s: status %d, kind %s", email, code, env.Kind)
	}
}

// createMeeting creates a meeting and returns its id.
func createMeeting(t *testing.T, app *fiber.App, hostEmail, password string) string {
	t.Helper()
	code, env := doJSON(t, app, "POST", "/api/meetings", fiber.Map{
		"host_email": hostEmail,
		"password":   password,
	})
	if code != http.StatusOK {
		t.Fatalf("create meeting for %s: status %d, kind %s", hostEmail, code, env.Kind)
	}

	var meeting struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &meeting); err != nil {
		t.Fatalf("decode meeting: %v", err)
	}
	return meeting.ID
}

// createRecording creates a recording bound to a meeting.
func createRecording(t *testing.T, app *fiber.App, recURL string, private bool, meetingID string) {
	t.Helper()
	code, env := doJSON(t, app, "POST", "/api/recordings", fiber.Map{
		"url":        recURL,
		"is_private": private,
		"meeting_id": meetingID,
	})
	if code != http.StatusOK {
		t.Fatalf("create recording %s: status %d, kind %s", recURL, code, env.Kind)
	}
}

func accessQuery(recURL, email, password string) string {
	q := url.Values{}
	q.Set("url", recURL)
	q.Set("email", email)
	if password != "" {
		q.Set("password", password)
	}
	return "/api/recordings/access?" + q.Encode()
}

func decisionOf(t *testing.T, env envelope) string {
	t.Helper()
	var result struct {
		Decision string `json:"decision"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode decision: %v", err)
	}
	return result.Decision
}

func TestRegisterViewer(t *testing.T) {
	app, _ := setupTestApp(t)

	code, env := doJSON(t, app, "POST", "/api/viewers", fiber.Map{"email": "a@x.com"})
	if code != http.StatusOK {
		t.Fatalf("Register: status %d, want 200", code)
	}
	var viewer struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(env.Data, &viewer); err != nil {
		t.Fatalf("decode viewer: %v", err)
	}
	if viewer.Email != "a@x.com" || viewer.ID == "" {
		t.Errorf("Register returned viewer %+v, want email a@x.com with id", viewer)
	}

	// Duplicate registration
	code, env = doJSON(t, app, "POST", "/api/viewers", fiber.Map{"email": "a@x.com"})
	if code != http.StatusConflict || env.Kind != KindDuplicateEmail {
		t.Errorf("duplicate Register: status %d kind %s, want 409 %s", code, env.Kind, KindDuplicateEmail)
	}
}

func TestRegisterViewer_InvalidEmail(t *testing.T) {
	app, _ := setupTestApp(t)

	for _, email := range []string{"test@", "", "plain", "a@x"} {
		code, env := doJSON(t, app, "POST", "/api/viewers", fiber.Map{"email": email})
		if code != http.StatusBadRequest || env.Kind != KindInvalidEmail {
			t.Errorf("Register(%q): status %d kind %s, want 400 %s", email, code, env.Kind, KindInvalidEmail)
		}
	}
}

func TestCreateMeeting(t *testing.T) {
	app, _ := setupTestApp(t)
	registerViewer(t, app, "a@x.com")

	id := createMeeting(t, app, "a@x.com", "p")
	if id == "" {
		t.Fatal("create meeting returned empty id")
	}

	code, env := doJSON(t, app, "GET", "/api/meetings/"+id, nil)
	if code != http.StatusOK {
		t.Fatalf("Get meeting: status %d kind %s", code, env.Kind)
	}

	// Unregistered host
	code, env = doJSON(t, app, "POST", "/api/meetings", fiber.Map{
		"host_email": "b@x.com",
		"password":   "p",
	})
	if code != http.StatusBadRequest || env.Kind != KindInvalidHostEmail {
		t.Errorf("create meeting with unknown host: status %d kind %s, want 400 %s",
			code, env.Kind, KindInvalidHostEmail)
	}
}

func TestGetMeeting_NotFound(t *testing.T) {
	app, _ := setupTestApp(t)

	code, env := doJSON(t, app, "GET", "/api/meetings/0b2ef9f7-4d55-4b9c-bf5c-48b1f1c1e06c", nil)
	if code != http.StatusNotFound || env.Kind != KindNotFound {
		t.Errorf("Get missing meeting: status %d kind %s, want 404 %s", code, env.Kind, KindNotFound)
	}

	code, env = doJSON(t, app, "GET", "/api/meetings/not-a-uuid", nil)
	if code != http.StatusBadRequest || env.Kind != KindBadRequest {
		t.Errorf("Get malformed meeting id: status %d kind %s, want 400 %s", code, env.Kind, KindBadRequest)
	}
}

func TestCreateRecording_DuplicateURL(t *testing.T) {
	app, _ := setupTestApp(t)
	registerViewer(t, app, "a@x.com")
	meetingID := createMeeting(t, app, "a@x.com", "p")

	createRecording(t, app, "u1", false, meetingID)

	code, env := doJSON(t, app, "POST", "/api/recordings", fiber.Map{
		"url":        "u1",
		"is_private": true,
		"meeting_id": meetingID,
	})
	if code != http.StatusConflict || env.Kind != KindDuplicateURL {
		t.Errorf("duplicate recording: status %d kind %s, want 409 %s", code, env.Kind, KindDuplicateURL)
	}
}

func TestCreateRecording_InvalidMeetingID(t *testing.T) {
	app, _ := setupTestApp(t)
	registerViewer(t, app, "a@x.com")

	code, env := doJSON(t, app, "POST", "/api/recordings", fiber.Map{
		"url":        "u1",
		"is_private": false,
		"meeting_id": "0b2ef9f7-4d55-4b9c-bf5c-48b1f1c1e06c",
	})
	if code != http.StatusBadRequest || env.Kind != KindInvalidMeetingID {
		t.Errorf("recording with unknown meeting: status %d kind %s, want 400 %s",
			code, env.Kind, KindInvalidMeetingID)
	}
}

func TestShareAndCheckAccess_Public(t *testing.T) {
	app, _ := setupTestApp(t)
	registerViewer(t, app, "a@x.com")
	meetingID := createMeeting(t, app, "a@x.com", "p")
	createRecording(t, app, "u1", false, meetingID)

	code, env := doJSON(t, app, "POST", "/api/recordings/share", fiber.Map{
		"url":   "u1",
		"email": "a@x.com",
	})
	if code != http.StatusOK {
		t.Fatalf("share: status %d kind %s", code, env.Kind)
	}

	// Correct password, shared viewer
	code, env = doJSON(t, app, "GET", accessQuery("u1", "a@x.com", "p"), nil)
	if code != http.StatusOK {
		t.Fatalf("check access: status %d kind %s", code, env.Kind)
	}
	if got := decisionOf(t, env); got != "granted" {
		t.Errorf("access with password = %q, want granted", got)
	}

	// Wrong password flips the decision
	code, env = doJSON(t, app, "GET", accessQuery("u1", "a@x.com", "wrong"), nil)
	if code != http.StatusOK {
		t.Fatalf("check access: status %d kind %s", code, env.Kind)
	}
	if got := decisionOf(t, env); got != "denied" {
		t.Errorf("access with wrong password = %q, want denied", got)
	}
}

func TestShare_ErrorPrecedence(t *testing.T) {
	app, _ := setupTestApp(t)
	registerViewer(t, app, "a@x.com")
	meetingID := createMeeting(t, app, "a@x.com", "p")
	createRecording(t, app, "u1", false, meetingID)

	// Unknown viewer reported before unknown recording
	code, env := doJSON(t, app, "POST", "/api/recordings/share", fiber.Map{
		"url":   "missing",
		"email": "ghost@x.com",
	})
	if code != http.StatusNotFound || env.Kind != KindViewerNotFound {
		t.Errorf("share unknown viewer: status %d kind %s, want 404 %s", code, env.Kind, KindViewerNotFound)
	}

	code, env = doJSON(t, app, "POST", "/api/recordings/share", fiber.Map{
		"url":   "missing",
		"email": "a@x.com",
	})
	if code != http.StatusNotFound || env.Kind != KindRecordingNotFound {
		t.Errorf("share unknown recording: status %d kind %s, want 404 %s", code, env.Kind, KindRecordingNotFound)
	}

	// Second share of the same pair
	for i := 0; i < 2; i++ {
		code, env = doJSON(t, app, "POST", "/api/recordings/share", fiber.Map{
			"url":   "u1",
			"email": "a@x.com",
		})
	}
	if code != http.StatusConflict || env.Kind != KindAlreadyShared {
		t.Errorf("share twice: status %d kind %s, want 409 %s", code, env.Kind, KindAlreadyShared)
	}
}

func TestShareAndCheckAccess_Private(t *testing.T) {
	app, _ := setupTestApp(t)
	registerViewer(t, app, "a@x.com")
	registerViewer(t, app, "other@x.com")
	meetingID := createMeeting(t, app, "a@x.com", "p")
	createRecording(t, app, "u1", true, meetingID)

	// Sharing a private recording is rejected, host included
	code, env := doJSON(t, app, "POST", "/api/recordings/share", fiber.Map{
		"url":   "u1",
		"email": "a@x.com",
	})
	if code != http.StatusForbidden || env.Kind != KindCannotSharePrivate {
		t.Errorf("share private: status %d kind %s, want 403 %s", code, env.Kind, KindCannotSharePrivate)
	}

	// Host granted with any password, even none
	for _, password := range []string{"", "anything"} {
		code, env = doJSON(t, app, "GET", accessQuery("u1", "a@x.com", password), nil)
		if code != http.StatusOK {
			t.Fatalf("check access: status %d kind %s", code, env.Kind)
		}
		if got := decisionOf(t, env); got != "granted" {
			t.Errorf("host access with password %q = %q, want granted", password, got)
		}
	}

	// Everyone else denied
	code, env = doJSON(t, app, "GET", accessQuery("u1", "other@x.com", "p"), nil)
	if code != http.StatusOK {
		t.Fatalf("check access: status %d kind %s", code, env.Kind)
	}
	if got := decisionOf(t, env); got != "denied" {
		t.Errorf("non-host access to private recording = %q, want denied", got)
	}
}

func TestDeleteRecording(t *testing.T) {
	app, _ := setupTestApp(t)
	registerViewer(t, app, "a@x.com")
	meetingID := createMeeting(t, app, "a@x.com", "p")
	createRecording(t, app, "u1", false, meetingID)

	code, env := doJSON(t, app, "POST", "/api/recordings/share", fiber.Map{
		"url":   "u1",
		"email": "a@x.com",
	})
	if code != http.StatusOK {
		t.Fatalf("share: status %d kind %s", code, env.Kind)
	}

	code, env = doJSON(t, app, "DELETE", "/api/recordings?url=u1", nil)
	if code != http.StatusOK {
		t.Fatalf("delete: status %d kind %s", code, env.Kind)
	}
	var deleted struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(env.Data, &deleted); err != nil {
		t.Fatalf("decode deleted recording: %v", err)
	}
	if deleted.URL != "u1" {
		t.Errorf("delete returned url %q, want u1", deleted.URL)
	}

	// The recording and its shares are gone
	code, env = doJSON(t, app, "GET", accessQuery("u1", "a@x.com", "p"), nil)
	if code != http.StatusNotFound || env.Kind != KindRecordingNotFound {
		t.Errorf("access after delete: status %d kind %s, want 404 %s", code, env.Kind, KindRecordingNotFound)
	}

	code, env = doJSON(t, app, "POST", "/api/recordings/share", fiber.Map{
		"url":   "u1",
		"email": "a@x.com",
	})
	if code != http.StatusNotFound || env.Kind != KindRecordingNotFound {
		t.Errorf("share after delete: status %d kind %s, want 404 %s", code, env.Kind, KindRecordingNotFound)
	}

	// Deleting again fails
	code, env = doJSON(t, app, "DELETE", "/api/recordings?url=u1", nil)
	if code != http.StatusNotFound || env.Kind != KindURLNotFound {
		t.Errorf("delete twice: status %d kind %s, want 404 %s", code, env.Kind, KindURLNotFound)
	}
}

func TestSharedViewers(t *testing.T) {
	app, _ := setupTestApp(t)
	registerViewer(t, app, "a@x.com")
	registerViewer(t, app, "b@x.com")
	meetingID := createMeeting(t, app, "a@x.com", "p")
	createRecording(t, app, "u1", false, meetingID)

	// Empty sharing set is an empty list, not an error
	code, env := doJSON(t, app, "GET", "/api/recordings/viewers?url=u1", nil)
	if code != http.StatusOK {
		t.Fatalf("shared viewers: status %d kind %s", code, env.Kind)
	}
	var viewers []struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(env.Data, &viewers); err != nil {
		t.Fatalf("decode viewers: %v", err)
	}
	if len(viewers) != 0 {
		t.Errorf("shared viewers of fresh recording = %d entries, want 0", len(viewers))
	}

	for _, email := range []string{"a@x.com", "b@x.com"} {
		code, env = doJSON(t, app, "POST", "/api/recordings/share", fiber.Map{"url": "u1", "email": email})
		if code != http.StatusOK {
			t.Fatalf("share %s: status %d kind %s", email, code, env.Kind)
		}
	}

	code, env = doJSON(t, app, "GET", "/api/recordings/viewers?url=u1", nil)
	if code != http.StatusOK {
		t.Fatalf("shared viewers: status %d kind %s", code, env.Kind)
	}
	if err := json.Unmarshal(env.Data, &viewers); err != nil {
		t.Fatalf("decode viewers: %v", err)
	}
	if len(viewers) != 2 {
		t.Errorf("shared viewers = %d entries, want 2", len(viewers))
	}

	code, env = doJSON(t, app, "GET", "/api/recordings/viewers?url=missing", nil)
	if code != http.StatusNotFound || env.Kind != KindRecordingNotFound {
		t.Errorf("shared viewers of missing url: status %d kind %s, want 404 %s",
			code, env.Kind, KindRecordingNotFound)
	}
}

func TestFindRecording(t *testing.T) {
	app, _ := setupTestApp(t)
	registerViewer(t, app, "a@x.com")
	meetingID := createMeeting(t, app, "a@x.com", "p")
	createRecording(t, app, "u1", true, meetingID)

	code, env := doJSON(t, app, "GET", "/api/recordings/find?url=u1", nil)
	if code != http.StatusOK {
		t.Fatalf("find: status %d kind %s", code, env.Kind)
	}
	var rec struct {
		URL       string `json:"url"`
		IsPrivate bool   `json:"is_private"`
	}
	if err := json.Unmarshal(env.Data, &rec); err != nil {
		t.Fatalf("decode recording: %v", err)
	}
	if rec.URL != "u1" || !rec.IsPrivate {
		t.Errorf("find returned %+v, want private u1", rec)
	}

	code, env = doJSON(t, app, "GET", "/api/recordings/find?url=missing", nil)
	if code != http.StatusNotFound || env.Kind != KindNotFound {
		t.Errorf("find missing: status %d kind %s, want 404 %s", code, env.Kind, KindNotFound)
	}
}
