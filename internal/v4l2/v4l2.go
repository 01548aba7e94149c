// Package v4l2 streams frames from Video4Linux devices.
package v4l2

import (
	"errors"

	"github.com/camrig/camrig/pkg/frame"
)

// DefaultFormats are tried in order when Options.Formats is empty.
var DefaultFormats = []frame.Format{frame.FormatMJPEG, frame.FormatYUYV, frame.FormatUYVY, frame.FormatNV21, frame.FormatI420}

var (
	errReadTimeout = errors.New("read timeout")
	errEmptyFrame  = errors.New("empty frame")
)

// Options selects the stream a device is opened with. Zero sizes pick the
// largest size of the first frame size entry, zero FPS keeps the driver default.
type Options struct {
	Formats []frame.Format
	Width   int
	Height  int
	FPS     int
}
