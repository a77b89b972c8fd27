package api

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"recshare/internal/access"
	"recshare/internal/metrics"
	"recshare/internal/store"
)

// AccessHandler exposes the sharing and access-check operations.
type AccessHandler struct {
	engine *access.Engine
}

// NewAccessHandler creates a new access handler.
func NewAccessHandler(engine *access.Engine) *AccessHandler {
	return &AccessHandler{engine: engine}
}

// Share adds a viewer to a public recording's sharing set.
func (h *AccessHandler) Share(c fiber.Ctx) error {
	var body struct {
		URL   string `json:"url"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, KindBadRequest, "invalid request body")
	}
	if body.URL == "" || body.Email == "" {
		return jsonError(c, fiber.StatusBadRequest, KindBadRequest, "url and email are required")
	}

	if err := h.engine.Share(c.Context(), body.URL, body.Email); err != nil {
		switch {
		case errors.Is(err, store.ErrViewerNotFound):
			return jsonError(c, fiber.StatusNotFound, KindViewerNotFound,
				"the email "+body.Email+" does not belong to a registered viewer")
		case errors.Is(err, store.ErrRecordingNotFound):
			return jsonError(c, fiber.StatusNotFound, KindRecordingNotFound,
				"the URL "+body.URL+" does not belong to a recording")
		case errors.Is(err, store.ErrAlreadyShared):
			return jsonError(c, fiber.StatusConflict, KindAlreadyShared,
				"the recording "+body.URL+" is already shared with "+body.Email)
		case errors.Is(err, access.ErrCannotSharePrivate):
			return jsonError(c, fiber.StatusForbidden, KindCannotSharePrivate,
				"cannot add viewers to the private recording "+body.URL)
		default:
			return jsonError(c, fiber.StatusInternalServerError, KindInternal, "failed to share recording")
		}
	}

	metrics.RecordShare()

	return jsonSuccess(c, fiber.Map{
		"message": "viewer " + body.Email + " added to recording " + body.URL,
	})
}

// CheckAccess reports whether a viewer can see a recording. Read-only; the
// decision comes back as a structured granted/denied value.
func (h *AccessHandler) CheckAccess(c fiber.Ctx) error {
	url := c.Query("url")
	email := c.Query("email")
	password := c.Query("password")

	if url == "" || email == "" {
		return jsonError(c, fiber.StatusBadRequest, KindBadRequest, "url and email query parameters are required")
	}

	decision, err := h.engine.CheckAccess(c.Context(), url, email, password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrViewerNotFound):
			return jsonError(c, fiber.StatusNotFound, KindViewerNotFound,
				"the email "+email+" does not belong to a registered viewer")
		case errors.Is(err, store.ErrRecordingNotFound):
			return jsonError(c, fiber.StatusNotFound, KindRecordingNotFound,
				"the URL "+url+" does not belong to a recording")
		case errors.Is(err, access.ErrIntegrity):
			slog.Error("integrity violation during access check", "url", url, "error", err)
			return jsonError(c, fiber.StatusInternalServerError, KindInternal, "internal storage inconsistency")
		default:
			return jsonError(c, fiber.StatusInternalServerError, KindInternal, "failed to check access")
		}
	}

	metrics.RecordAccessDecision(string(decision))

	return jsonSuccess(c, fiber.Map{
		"url":      url,
		"email":    email,
		"decision": decision,
	})
}
