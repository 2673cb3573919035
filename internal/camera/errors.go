package camera

import (
	"errors"
	"io/fs"
	"stockscan/pkg/serrors"
)

// User-visible messages for camera failures.
const (
	MessageDenied   = "Camera access denied. Please allow camera access and retry."
	MessageNotFound = "No camera found on this device."
	MessageUnknown  = "Could not start the camera."
)

// classify converts a device error into a semantic error carrying one of the
// user-visible messages.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var se *serrors.Error
	if errors.As(err, &se) {
		return err
	}

	switch {
	case errors.Is(err, fs.ErrPermission):
		return serrors.Wrap(serrors.ErrPermissionDenied, err, MessageDenied)
	case errors.Is(err, fs.ErrNotExist):
		return serrors.Wrap(serrors.ErrUnavailable, err, MessageNotFound)
	default:
		return serrors.Wrap(serrors.ErrInternal, err, MessageUnknown)
	}
}
