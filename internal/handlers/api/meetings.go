package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"recshare/internal/models"
	"recshare/internal/store"
)

// MeetingHandler handles meeting creation and reads.
type MeetingHandler struct {
	store store.Store
}

// NewMeetingHandler creates a new meeting handler.
func NewMeetingHandler(s store.Store) *MeetingHandler {
	return &MeetingHandler{store: s}
}

// Create creates a meeting hosted by a registered viewer. The viewer
// registry is the authority on identity: an unregistered host email is
// rejected before anything is persisted.
func (h *MeetingHandler) Create(c fiber.Ctx) error {
	var body struct {
		HostEmail string `json:"host_email"`
		Password  string `json:"password"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, KindBadRequest, "invalid request body")
	}

	if _, err := h.store.FindViewerByEmail(c.Context(), body.HostEmail); err != nil {
		if errors.Is(err, store.ErrViewerNotFound) {
			return jsonError(c, fiber.StatusBadRequest, KindInvalidHostEmail,
				"the email "+body.HostEmail+" does not belong to a registered viewer")
		}
		return jsonError(c, fiber.StatusInternalServerError, KindInternal, "failed to verify host")
	}

	meeting := &models.Meeting{HostEmail: body.HostEmail, Password: body.Password}
	if err := h.store.InsertMeeting(c.Context(), meeting); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, KindInternal, "failed to create meeting")
	}

	return jsonSuccess(c, meeting)
}

// Get returns a single meeting by id.
func (h *MeetingHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, KindBadRequest, "invalid meeting id")
	}

	meeting, err := h.store.FindMeetingByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrMeetingNotFound) {
			return jsonError(c, fiber.StatusNotFound, KindNotFound,
				"meeting with id "+id.String()+" does not exist")
		}
		return jsonError(c, fiber.StatusInternalServerError, KindInternal, "failed to fetch meeting")
	}

	return jsonSuccess(c, meeting)
}

// List returns all meetings.
func (h *MeetingHandler) List(c fiber.Ctx) error {
	meetings, err := h.store.ListMeetings(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, KindInternal, "failed to fetch meetings")
	}

	return jsonSuccess(c, meetings)
}
