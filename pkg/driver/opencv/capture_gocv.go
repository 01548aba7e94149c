//go:build gocv

package opencv

import (
	"errors"
	"fmt"
	"image"

	"github.com/camrig/camrig/pkg/config"
	"github.com/camrig/camrig/pkg/cv"
	"gocv.io/x/gocv"
)

var errReadFailed = errors.New("failed to read frame")

type gocvCapture struct {
	vc       *gocv.VideoCapture
	mat      gocv.Mat
	rotated  gocv.Mat
	rotation gocv.RotateFlag
	rotate   bool
}

func openDevice(target interface{}, backend cv.Backend, cfg *config.OpenCV) (capture, error) {
	vc, err := gocv.OpenVideoCaptureWithAPI(target, gocv.VideoCaptureAPI(backend))
	if err != nil {
		return nil, err
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("failed to open %v", target)
	}

	if cfg.FourCC != "" {
		vc.Set(gocv.VideoCaptureFOURCC, vc.ToCodec(cfg.FourCC))
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
		vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}
	if cfg.FPS > 0 {
		vc.Set(gocv.VideoCaptureFPS, float64(cfg.FPS))
	}

	return &gocvCapture{
		vc:      vc,
		mat:     gocv.NewMat(),
		rotated: gocv.NewMat(),
	}, nil
}

func (c *gocvCapture) setRotation(code int) {
	c.rotation = gocv.RotateFlag(code)
	c.rotate = true
}

func (c *gocvCapture) read() (image.Image, func(), error) {
	if ok := c.vc.Read(&c.mat); !ok || c.mat.Empty() {
		return nil, func() {}, errReadFailed
	}

	src := c.mat
	if c.rotate {
		gocv.Rotate(c.mat, &c.rotated, c.rotation)
		src = c.rotated
	}
	// ToImage converts OpenCV's BGR layout to RGB.
	img, err := src.ToImage()
	return img, func() {}, err
}

func (c *gocvCapture) close() error {
	c.mat.Close()
	c.rotated.Close()
	return c.vc.Close()
}
