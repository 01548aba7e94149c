// Package cv translates camera settings into OpenCV's numeric vocabulary:
// rotation codes and the ordered list of capture backends to try.
package cv

import (
	"github.com/camrig/camrig/pkg/config"
	"github.com/camrig/camrig/pkg/io/video"
)

// NativeRotation returns the OpenCV rotate code for r. ok is false for
// config.RotationNone: the caller should skip rotation entirely.
func NativeRotation(r config.Rotation) (code int, ok bool) {
	switch r {
	case config.Rotation90:
		return video.Rotate90Clockwise, true
	case config.Rotation180:
		return video.Rotate180, true
	case config.Rotation270:
		return video.Rotate90CounterClockwise, true
	}
	return 0, false
}
