package gesture

import (
	"errors"

	"github.com/ayusman/brochure/internal/capture"
	"github.com/ayusman/brochure/internal/detector"
)

// Status describes whether gesture navigation is available.
type Status string

// Gesture availability states. Every state other than StatusActive leaves
// manual navigation untouched.
const (
	StatusDisabled         Status = "disabled"
	StatusInitializing     Status = "initializing"
	StatusActive           Status = "active"
	StatusNoCamera         Status = "no camera"
	StatusPermissionDenied Status = "permission denied"
	StatusCameraError      Status = "camera error"
	StatusModelUnavailable Status = "model unavailable"
)

// StatusForError maps a startup failure to the status shown to the user.
func StatusForError(err error) Status {
	switch {
	case err == nil:
		return StatusActive
	case errors.Is(err, capture.ErrPermissionDenied):
		return StatusPermissionDenied
	case errors.Is(err, capture.ErrNoCamera):
		return StatusNoCamera
	case errors.Is(err, detector.ErrModelUnavailable):
		return StatusModelUnavailable
	default:
		return StatusCameraError
	}
}
