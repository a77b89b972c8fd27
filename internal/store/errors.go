package store

import "errors"

// Storage-level error sentinels shared by all backends.
var (
	// Viewer errors
	ErrViewerNotFound = errors.New("viewer not found")
	ErrDuplicateEmail = errors.New("email already registered")

	// Meeting errors
	ErrMeetingNotFound = errors.New("meeting not found")

	// Recording errors
	ErrRecordingNotFound = errors.New("recording not found")
	ErrDuplicateURL      = errors.New("recording url already exists")

	// Sharing errors
	ErrAlreadyShared = errors.New("recording already shared with this viewer")
)
