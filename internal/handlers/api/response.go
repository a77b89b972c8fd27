package api

import (
	"github.com/gofiber/fiber/v3"
)

// Stable machine-readable error kinds carried in the response envelope.
// Clients switch on these instead of parsing message text.
const (
	KindInvalidEmail       = "invalid_email"
	KindDuplicateEmail     = "duplicate_email"
	KindInvalidHostEmail   = "invalid_host_email"
	KindDuplicateURL       = "duplicate_url"
	KindInvalidMeetingID   = "invalid_meeting_id"
	KindURLNotFound        = "url_not_found"
	KindViewerNotFound     = "viewer_not_found"
	KindRecordingNotFound  = "recording_not_found"
	KindAlreadyShared      = "already_shared"
	KindCannotSharePrivate = "cannot_share_private"
	KindNotFound           = "not_found"
	KindBadRequest         = "bad_request"
	KindInternal           = "internal"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with a stable kind and a
// human-readable message.
func jsonError(c fiber.Ctx, status int, kind, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"kind":   kind,
		"error":  message,
	})
}
