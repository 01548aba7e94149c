// Package videotest provides the "videotest" driver, a synthetic color bar
// source for exercising camera pipelines without hardware.
//
// It is configured through generic parameters:
//
//	cameras:
//	  bars:
//	    type: videotest
//	    width: 320
//	    height: 240
//	    fps: 15
package videotest

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"sync"
	"time"

	"github.com/camrig/camrig/pkg/config"
	"github.com/camrig/camrig/pkg/driver"
	"github.com/camrig/camrig/pkg/io/video"
)

const (
	defaultWidth  = 640
	defaultHeight = 480
	defaultFPS    = 30
)

func init() {
	driver.GetManager().Register(config.TypeVideoTest, func(cfg config.CameraConfig) (driver.Camera, error) {
		g, err := driver.ConfigAs[*config.Generic](cfg)
		if err != nil {
			return nil, err
		}
		return New(g)
	})
}

// Camera generates SMPTE-like color bars with a noise patch.
type Camera struct {
	info          driver.Info
	width, height int
	fps           float64

	mu     sync.Mutex
	state  driver.State
	closed <-chan struct{}
	cancel func()
	tick   *time.Ticker
	reader video.Reader
}

var _ driver.Camera = &Camera{}

func New(cfg *config.Generic) (*Camera, error) {
	c := &Camera{
		info:   driver.NewInfo(config.TypeVideoTest, "VideoTest"),
		width:  cfg.Int("width", defaultWidth),
		height: cfg.Int("height", defaultHeight),
		fps:    cfg.Float("fps", defaultFPS),
		state:  driver.StateClosed,
	}
	// 4:2:2 chroma needs an even width.
	if c.width <= 0 || c.height <= 0 || c.width%2 != 0 {
		return nil, fmt.Errorf("%w: videotest size %dx%d", config.ErrInvalid, c.width, c.height)
	}
	if c.fps <= 0 {
		return nil, fmt.Errorf("%w: videotest fps %v", config.ErrInvalid, c.fps)
	}
	c.info.Name = fmt.Sprintf("%dx%d@%v", c.width, c.height, c.fps)
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
	ctx, cancel := context.WithCancel(context.Background())
	c.closed = ctx.Done()
	c.cancel = cancel
	c.tick = time.NewTicker(time.Duration(float64(time.Second) / c.fps))
	c.reader = c.bars()
	return nil
}

func (c *Camera) bars() video.Reader {
	colors := [][3]byte{
		{235, 128, 128},
		{210, 16, 146},
		{170, 166, 16},
		{145, 54, 34},
		{107, 202, 222},
		{82, 90, 240},
		{41, 240, 110},
	}

	w, h := c.width, c.height
	yi := w * h
	ci := yi / 2
	yy := make([]byte, yi)
	cb := make([]byte, ci)
	cr := make([]byte, ci)
	yyBase := make([]byte, yi)
	cbBase := make([]byte, ci)
	crBase := make([]byte, ci)
	hColorBarEnd := h * 3 / 4
	wGradationEnd := w * 5 / 7
	for y := 0; y < hColorBarEnd; y++ {
		yi := w * y
		ci := w * y / 2
		// Color bar
		for x := 0; x < w; x++ {
			c := x * 7 / w
			yyBase[yi+x] = uint8(uint16(colors[c][0]) * 75 / 100)
			cbBase[ci+x/2] = colors[c][1]
			crBase[ci+x/2] = colors[c][2]
		}
	}
	for y := hColorBarEnd; y < h; y++ {
		yi := w * y
		ci := w * y / 2
		for x := 0; x < wGradationEnd; x++ {
			// Gray gradation
			yyBase[yi+x] = uint8(x * 255 / wGradationEnd)
			cbBase[ci+x/2] = 128
			crBase[ci+x/2] = 128
		}
		for x := wGradationEnd; x < w; x++ {
			// Noise area
			cbBase[ci+x/2] = 128
			crBase[ci+x/2] = 128
		}
	}
	random := rand.New(rand.NewSource(0))
	closed, tick := c.closed, c.tick

	return video.ReaderFunc(func() (image.Image, func(), error) {
		select {
		case <-closed:
			return nil, func() {}, driver.ErrNotRunning
		case <-tick.C:
		}

		copy(yy, yyBase)
		copy(cb, cbBase)
		copy(cr, crBase)
		for y := hColorBarEnd; y < h; y++ {
			yi := w * y
			for x := wGradationEnd; x < w; x++ {
				// Noise
				yy[yi+x] = uint8(random.Int31n(2) * 255)
			}
		}
		return &image.YCbCr{
			Y:              yy,
			YStride:        w,
			Cb:             cb,
			Cr:             cr,
			CStride:        w / 2,
			SubsampleRatio: image.YCbCrSubsampleRatio422,
			Rect:           image.Rect(0, 0, w, h),
		}, func() {}, nil
	})
}

// Read waits for the next frame tick. The returned frame is only valid
// until the next Read.
func (c *Camera) Read() (image.Image, func(), error) {
	c.mu.Lock()
	reader, err := c.reader, c.state.Running()
	c.mu.Unlock()
	if err != nil {
		return nil, func() {}, err
	}
	return reader.Read()
}

func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Update(driver.StateClosed, func() error {
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
		}
		if c.tick != nil {
			c.tick.Stop()
			c.tick = nil
		}
		c.reader = nil
		return nil
	})
}
