package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"

	"recshare/internal/models"
	"recshare/internal/store"
	"recshare/internal/validation"
)

// ViewerHandler handles viewer registration and listing.
type ViewerHandler struct {
	store store.Store
}

// NewViewerHandler creates a new viewer handler.
func NewViewerHandler(s store.Store) *ViewerHandler {
	return &ViewerHandler{store: s}
}

// Register creates a new viewer from an email address.
func (h *ViewerHandler) Register(c fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, KindBadRequest, "invalid request body")
	}

	if !validation.ValidateEmail(body.Email) {
		return jsonError(c, fiber.StatusBadRequest, KindInvalidEmail,
			"the email "+body.Email+" is not a valid email address")
	}

	viewer := &models.Viewer{Email: body.Email}
	if err := h.store.InsertViewer(c.Context(), viewer); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return jsonError(c, fiber.StatusConflict, KindDuplicateEmail,
				"a viewer with the email "+body.Email+" is already registered")
		}
		return jsonError(c, fiber.StatusInternalServerError, KindInternal, "failed to register viewer")
	}

	return jsonSuccess(c, viewer)
}

// List returns all registered viewers.
func (h *ViewerHandler) List(c fiber.Ctx) error {
	viewers, err := h.store.ListViewers(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, KindInternal, "failed to fetch viewers")
	}

	return jsonSuccess(c, viewers)
}
