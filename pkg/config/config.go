// Package config holds the declarative records cameras are built from.
//
// A camera set is usually loaded from YAML:
//
//	cameras:
//	  front:
//	    type: opencv
//	    index_or_path: 0
//	    fps: 30
//	    width: 640
//	    height: 480
//	    rotation: 90
//	  wrist:
//	    type: intelrealsense
//	    serial_number_or_name: "128422271347"
//	    use_depth: true
//
// The order of the entries in the document is the order cameras are built in.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Type tags of the drivers this module ships with.
const (
	TypeOpenCV    = "opencv"
	TypeRealSense = "intelrealsense"
	TypeReachy2   = "reachy2_camera"
	TypeVideoTest = "videotest"
	TypeScreen    = "screen"
)

// ErrInvalid is returned, wrapped, by Validate implementations.
var ErrInvalid = errors.New("invalid camera config")

// CameraConfig describes one camera. The type tag selects the driver.
type CameraConfig interface {
	Type() string
	Validate() error
	String() string
}

// Base carries the stream settings shared by every driver. Zero values
// leave the choice to the device.
type Base struct {
	FPS    int `yaml:"fps"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func (b Base) validate() error {
	if b.FPS < 0 || b.Width < 0 || b.Height < 0 {
		return fmt.Errorf("%w: fps, width and height must not be negative", ErrInvalid)
	}
	return nil
}

// complete reports whether fps, width and height are all set.
func (b Base) complete() bool {
	return b.FPS > 0 && b.Width > 0 && b.Height > 0
}

func (b Base) unset() bool {
	return b.FPS == 0 && b.Width == 0 && b.Height == 0
}

// fields renders key=value pairs the way String implementations print them.
type fields []string

func (f *fields) add(key string, value interface{}) {
	*f = append(*f, fmt.Sprintf("%s=%v", key, value))
}

func (f fields) render(name string) string {
	return name + "(" + strings.Join(f, ", ") + ")"
}

func (b Base) fields() fields {
	var f fields
	f.add("fps", b.FPS)
	f.add("width", b.Width)
	f.add("height", b.Height)
	return f
}
