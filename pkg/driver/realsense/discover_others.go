//go:build !linux

package realsense

import (
	"github.com/camrig/camrig/pkg/config"
	"github.com/camrig/camrig/pkg/driver/availability"
	"github.com/camrig/camrig/pkg/frame"
)

func discoverDevices() ([]device, error) {
	return nil, availability.ErrUnimplemented
}

func openNode(path string, format frame.Format, cfg *config.RealSense) (stream, error) {
	return nil, availability.ErrUnimplemented
}
