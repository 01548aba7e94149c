//go:build linux && !gocv

package opencv

import (
	"fmt"
	"image"

	"github.com/camrig/camrig/internal/v4l2"
	"github.com/camrig/camrig/pkg/config"
	"github.com/camrig/camrig/pkg/cv"
	"github.com/camrig/camrig/pkg/driver/availability"
	"github.com/camrig/camrig/pkg/frame"
)

type v4l2Capture struct {
	stream *v4l2.Stream
}

func devicePath(target interface{}) string {
	if i, ok := target.(int); ok {
		return fmt.Sprintf("/dev/video%d", i)
	}
	return fmt.Sprint(target)
}

func openDevice(target interface{}, backend cv.Backend, cfg *config.OpenCV) (capture, error) {
	if backend != cv.BackendAny && backend != cv.BackendV4L {
		return nil, fmt.Errorf("%w: backend %s needs the gocv build tag", availability.ErrUnimplemented, backend)
	}

	opts := v4l2.Options{
		Width:  cfg.Width,
		Height: cfg.Height,
		FPS:    cfg.FPS,
	}
	if cfg.FourCC != "" {
		f, ok := frame.ParseFourCC(cfg.FourCC)
		if !ok {
			return nil, fmt.Errorf("fourcc %q is not supported", cfg.FourCC)
		}
		opts.Formats = []frame.Format{f}
	}

	stream, err := v4l2.Open(devicePath(target), opts)
	if err != nil {
		return nil, err
	}
	return &v4l2Capture{stream: stream}, nil
}

func (c *v4l2Capture) read() (image.Image, func(), error) {
	return c.stream.Read()
}

func (c *v4l2Capture) close() error {
	return c.stream.Close()
}
