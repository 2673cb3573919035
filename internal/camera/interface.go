// Package camera acquires video streams from a capture device. A stream is a
// scoped resource: whoever holds it must Close it on every exit path so the
// device is released.
package camera

import (
	"context"
	"image"
	"time"
)

// Frame is one captured image.
type Frame struct {
	Image      image.Image
	CapturedAt time.Time
	// Source identifies where the frame came from (file name, device id).
	Source string
}

// Device opens video streams.
//
//go:generate mockgen -package mockcamera -source=interface.go -destination=mock/mockcamera.go *
type Device interface {
	// Open acquires the device. Errors are classified with serrors kinds:
	// ErrPermissionDenied when access is refused, ErrUnavailable when there is
	// no device.
	Open(ctx context.Context) (Stream, error)
}

// Stream delivers frames until it is closed.
type Stream interface {
	// Frames returns the channel frames are delivered on. It is closed once the
	// stream stops.
	Frames() <-chan Frame
	// Close stops the stream and releases all of its tracks. It is safe to call
	// more than once.
	Close() error
}
