// Package screen provides the "screen" driver, which captures an attached
// display as if it were a camera.
//
// Parameters: display (index of the active display, default 0), fps
// (default 10) and optionally width and height to scale captures to. Giving
// only one of width and height keeps the display's aspect ratio.
package screen

import (
	"fmt"
	"image"
	"sync"

	"github.com/camrig/camrig/internal/logging"
	"github.com/camrig/camrig/pkg/config"
	"github.com/camrig/camrig/pkg/driver"
	"github.com/camrig/camrig/pkg/driver/availability"
	"github.com/camrig/camrig/pkg/io/video"
	"github.com/kbinani/screenshot"
	pionlogging "github.com/pion/logging"
)

const defaultFPS = 10

// Replaced in tests.
var (
	numDisplays    = screenshot.NumActiveDisplays
	displayBounds  = screenshot.GetDisplayBounds
	captureDisplay = func(i int) (image.Image, error) { return screenshot.CaptureDisplay(i) }
)

func init() {
	driver.GetManager().Register(config.TypeScreen, func(cfg config.CameraConfig) (driver.Camera, error) {
		g, err := driver.ConfigAs[*config.Generic](cfg)
		if err != nil {
			return nil, err
		}
		return New(g)
	})
}

// Camera captures one display.
type Camera struct {
	info    driver.Info
	display int
	fps     float64
	width   int
	height  int
	log     pionlogging.LeveledLogger

	mu     sync.Mutex
	state  driver.State
	reader video.Reader
}

var _ driver.Camera = &Camera{}

func New(cfg *config.Generic) (*Camera, error) {
	c := &Camera{
		display: cfg.Int("display", 0),
		fps:     cfg.Float("fps", defaultFPS),
		width:   cfg.Int("width", 0),
		height:  cfg.Int("height", 0),
		log:     logging.NewLogger("screen"),
		state:   driver.StateClosed,
	}
	if c.display < 0 {
		return nil, fmt.Errorf("%w: display %d", config.ErrInvalid, c.display)
	}
	if c.fps <= 0 {
		return nil, fmt.Errorf("%w: screen fps %v", config.ErrInvalid, c.fps)
	}
	c.info = driver.NewInfo(config.TypeScreen, fmt.Sprint(c.display))
	return c, nil
}

func (c *Camera) Info() driver.Info {
	return c.info
}

func (c *Camera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.state.Update(driver.StateOpened, c.open); err != nil {
		return err
	}
	return c.state.Update(driver.StateRunning, func() error { return nil })
}

func (c *Camera) open() error {
	if n := numDisplays(); c.display >= n {
		return fmt.Errorf("display %d of %d: %w", c.display, n, availability.ErrNoDevice)
	}
	bounds := displayBounds(c.display)
	c.info.Name = bounds.String()

	display := c.display
	capture := video.ReaderFunc(func() (image.Image, func(), error) {
		img, err := captureDisplay(display)
		if err != nil {
			return nil, func() {}, err
		}
		return img, func() {}, nil
	})
	c.reader = video.Merge(
		video.Throttle(float32(c.fps)),
		video.Scale(c.width, c.height, video.ScalerBiLinear),
	)(capture)
	c.log.Infof("capturing display %d %v at %v fps", c.display, bounds, c.fps)
	return nil
}

// Read returns the next capture, paced to the configured frame rate.
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
	return c.state.Update(driver.StateClosed, func() error {
		c.reader = nil
		return nil
	})
}
