package driver

import (
	"errors"
	"fmt"
	"image"

	"github.com/camrig/camrig/pkg/config"
	"github.com/camrig/camrig/pkg/io/video"
	"github.com/google/uuid"
)

type OpenCloser interface {
	Open() error
	Close() error
}

type Infoer interface {
	Info() Info
}

// Info describes a camera handle.
type Info struct {
	// ID is unique per handle, two handles on the same device get different IDs.
	ID    string
	Type  string
	Label string
	Name  string
}

// NewInfo returns an Info with a fresh ID.
func NewInfo(typ, label string) Info {
	return Info{
		ID:    uuid.NewString(),
		Type:  typ,
		Label: label,
	}
}

// Camera is the capability set every driver provides. A camera is built
// closed; Open acquires the device, Read returns one frame, Close releases
// the device.
type Camera interface {
	OpenCloser
	video.Reader
	Infoer
}

// DepthReader is implemented by cameras that also deliver depth frames.
type DepthReader interface {
	ReadDepth() (*image.Gray16, error)
}

// Factory builds a closed camera from its config.
type Factory func(cfg config.CameraConfig) (Camera, error)

// ErrConfigType is returned when a factory receives a config of the wrong type.
var ErrConfigType = errors.New("unexpected config type")

// ConfigAs asserts cfg to the concrete config type a driver expects.
func ConfigAs[T config.CameraConfig](cfg config.CameraConfig) (T, error) {
	typed, ok := cfg.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %T, expected %T", ErrConfigType, cfg, zero)
	}
	return typed, nil
}
