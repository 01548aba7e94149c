// Package opencv provides the "opencv" camera driver.
//
// By default the driver captures through V4L2 on Linux. Building with the
// gocv tag captures through OpenCV instead, which also enables the Windows
// and macOS backends.
package opencv

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/camrig/camrig/internal/logging"
	"github.com/camrig/camrig/pkg/config"
	"github.com/camrig/camrig/pkg/cv"
	"github.com/camrig/camrig/pkg/driver"
	"github.com/camrig/camrig/pkg/io/video"
	pionlogging "github.com/pion/logging"
)

const warmupInterval = 100 * time.Millisecond

// capture is an opened device delivering raw frames.
type capture interface {
	read() (image.Image, func(), error)
	close() error
}

// nativeRotator is implemented by captures that rotate frames themselves.
type nativeRotator interface {
	setRotation(code int)
}

// openCapture opens target with backend. Replaced in tests.
var openCapture = openDevice

func init() {
	driver.GetManager().Register(config.TypeOpenCV, func(cfg config.CameraConfig) (driver.Camera, error) {
		c, err := driver.ConfigAs[*config.OpenCV](cfg)
		if err != nil {
			return nil, err
		}
		return New(c)
	})
}

// Camera is a camera opened through OpenCV capture backends.
type Camera struct {
	cfg  *config.OpenCV
	info driver.Info
	log  pionlogging.LeveledLogger

	mu      sync.Mutex
	state   driver.State
	capture capture
	reader  video.Reader
	backend cv.Backend
}

var _ driver.Camera = &Camera{}

// New returns a closed camera. No device is touched until Open.
func New(cfg *config.OpenCV) (*Camera, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Camera{
		cfg:   cfg,
		info:  driver.NewInfo(config.TypeOpenCV, cfg.IndexOrPath.String()),
		log:   logging.NewLogger("opencv"),
		state: driver.StateClosed,
	}, nil
}

func (c *Camera) Info() driver.Info {
	return c.info
}

// Backend returns the backend the camera was opened with.
func (c *Camera) Backend() cv.Backend {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backend
}

// Open opens the device with the first backend that works, in the order
// given by cv.BackendsFromEnv, then reads frames for the warmup period.
func (c *Camera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.state.Update(driver.StateOpened, c.open); err != nil {
		return err
	}
	if err := c.state.Update(driver.StateRunning, c.warmup); err != nil {
		if cerr := c.state.Update(driver.StateClosed, c.close); cerr != nil {
			return errors.Join(err, cerr)
		}
		return err
	}
	return nil
}

func (c *Camera) open() error {
	target := c.cfg.IndexOrPath.Target()
	var errs []error
	for _, backend := range cv.BackendsFromEnv() {
		capt, err := openCapture(target, backend, c.cfg)
		if err != nil {
			c.log.Debugf("%s: backend %s failed: %v", c.info.Label, backend, err)
			errs = append(errs, fmt.Errorf("backend %s: %w", backend, err))
			continue
		}

		c.capture = capt
		c.backend = backend
		c.reader = c.pipeline(capt)
		c.log.Infof("%s: opened with backend %s", c.info.Label, backend)
		return nil
	}
	return fmt.Errorf("failed to open camera %s: %w", c.info.Label, errors.Join(errs...))
}

func (c *Camera) pipeline(capt capture) video.Reader {
	var transforms []video.TransformFunc
	if c.cfg.ColorMode == config.ColorModeBGR {
		transforms = append(transforms, video.SwapRB())
	}
	if code, ok := cv.NativeRotation(c.cfg.Rotation); ok {
		if r, native := capt.(nativeRotator); native {
			r.setRotation(code)
		} else {
			transforms = append(transforms, video.Rotate(code))
		}
	}
	return video.Merge(transforms...)(video.ReaderFunc(capt.read))
}

func (c *Camera) warmup() error {
	deadline := time.Now().Add(time.Duration(c.cfg.WarmupS * float64(time.Second)))
	for time.Now().Before(deadline) {
		_, release, err := c.reader.Read()
		if err != nil {
			return fmt.Errorf("warmup of camera %s: %w", c.info.Label, err)
		}
		release()
		time.Sleep(warmupInterval)
	}
	return nil
}

// Read returns the next frame, color converted and rotated as configured.
func (c *Camera) Read() (image.Image, func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.state.Running(); err != nil {
		return nil, func() {}, err
	}
	return c.reader.Read()
}

func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Update(driver.StateClosed, c.close)
}

func (c *Camera) close() error {
	if c.capture == nil {
		return nil
	}
	err := c.capture.close()
	c.capture = nil
	c.reader = nil
	return err
}
