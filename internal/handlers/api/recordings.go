package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"recshare/internal/models"
	"recshare/internal/store"
	"recshare/internal/validation"
)

// RecordingHandler handles recording creation, reads, and deletion.
type RecordingHandler struct {
	store store.Store
}

// NewRecordingHandler creates a new recording handler.
func NewRecordingHandler(s store.Store) *RecordingHandler {
	return &RecordingHandler{store: s}
}

// Create creates a recording bound to an existing meeting. The URL is the
// recording's primary key; duplicates are rejected before the meeting
// reference is checked so error precedence stays deterministic.
func (h *RecordingHandler) Create(c fiber.Ctx) error {
	var body struct {
		URL       string `json:"url"`
		IsPrivate bool   `json:"is_private"`
		MeetingID string `json:"meeting_id"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, KindBadRequest, "invalid request body")
	}

	if valid, msg := validation.ValidateRecordingURL(body.URL); !valid {
		return jsonError(c, fiber.StatusBadRequest, KindBadRequest, msg)
	}

	if _, err := h.store.FindRecordingByURL(c.Context(), body.URL); err == nil {
		return jsonError(c, fiber.StatusConflict, KindDuplicateURL,
			"a recording with the URL "+body.URL+" already exists")
	} else if !errors.Is(err, store.ErrRecordingNotFound) {
		return jsonError(c, fiber.StatusInternalServerError, KindInternal, "failed to check url")
	}

	meetingID, err := uuid.Parse(body.MeetingID)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, KindInvalidMeetingID, "invalid meeting id")
	}
	if _, err := h.store.FindMeetingByID(c.Context(), meetingID); err != nil {
		if errors.Is(err, store.ErrMeetingNotFound) {
			return jsonError(c, fiber.StatusBadRequest, KindInvalidMeetingID,
				"no meeting exists with id "+body.MeetingID)
		}
		return jsonError(c, fiber.StatusInternalServerError, KindInternal, "failed to verify meeting")
	}

	recording := &models.Recording{
		URL:       body.URL,
		IsPrivate: body.IsPrivate,
		MeetingID: meetingID,
	}
	if err := h.store.InsertRecording(c.Context(), recording); err != nil {
		// Races between the checks above and the insert resolve here.
		if errors.Is(err, store.ErrDuplicateURL) {
			return jsonError(c, fiber.StatusConflict, KindDuplicateURL,
				"a recording with the URL "+body.URL+" already exists")
		}
		if errors.Is(err, store.ErrMeetingNotFound) {
			return jsonError(c, fiber.StatusBadRequest, KindInvalidMeetingID,
				"no meeting exists with id "+body.MeetingID)
		}
		return jsonError(c, fiber.StatusInternalServerError, KindInternal, "failed to create recording")
	}

	return jsonSuccess(c, recording)
}

// Find returns a single recording by its URL.
func (h *RecordingHandler) Find(c fiber.Ctx) error {
	url := c.Query("url")
	if url == "" {
		return jsonError(c, fiber.StatusBadRequest, KindBadRequest, "url query parameter is required")
	}

	recording, err := h.store.FindRecordingByURL(c.Context(), url)
	if err != nil {
		if errors.Is(err, store.ErrRecordingNotFound) {
			return jsonError(c, fiber.StatusNotFound, KindNotFound,
				"no recording exists with the URL "+url)
		}
		return jsonError(c, fiber.StatusInternalServerError, KindInternal, "failed to fetch recording")
	}

	return jsonSuccess(c, recording)
}

// List returns all recordings.
func (h *RecordingHandler) List(c fiber.Ctx) error {
	recordings, err := h.store.ListRecordings(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, KindInternal, "failed to fetch recordings")
	}

	return jsonSuccess(c, recordings)
}

// Delete removes a recording and its sharing entries, returning the
// deleted snapshot. Deleting a missing URL is an error, not a no-op.
func (h *RecordingHandler) Delete(c fiber.Ctx) error {
	url := c.Query("url")
	if url == "" {
		return jsonError(c, fiber.StatusBadRequest, KindBadRequest, "url query parameter is required")
	}

	recording, err := h.store.DeleteRecording(c.Context(), url)
	if err != nil {
		if errors.Is(err, store.ErrRecordingNotFound) {
			return jsonError(c, fiber.StatusNotFound, KindURLNotFound,
				"no recording exists with the URL "+url)
		}
		return jsonError(c, fiber.StatusInternalServerError, KindInternal, "failed to delete recording")
	}

	return jsonSuccess(c, recording)
}

// SharedViewers returns the viewers a recording has been shared with.
func (h *RecordingHandler) SharedViewers(c fiber.Ctx) error {
	url := c.Query("url")
	if url == "" {
		return jsonError(c, fiber.StatusBadRequest, KindBadRequest, "url query parameter is required")
	}

	viewers, err := h.store.ListSharedViewers(c.Context(), url)
	if err != nil {
		if errors.Is(err, store.ErrRecordingNotFound) {
			return jsonError(c, fiber.StatusNotFound, KindRecordingNotFound,
				"the URL "+url+" does not belong to a recording")
		}
		return jsonError(c, fiber.StatusInternalServerError, KindInternal, "failed to fetch shared viewers")
	}

	if viewers == nil {
		viewers = []models.Viewer{}
	}
	return jsonSuccess(c, viewers)
}
