/*
Package realsense provides the "intelrealsense" camera driver.

RealSense cameras expose their streams as UVC video nodes. The driver finds
the nodes of the configured camera under /dev/v4l/by-id, reads color from a
YUYV node and, when depth is enabled, 16-bit depth from a Z16 node. Device
links are named like:
	usb-Intel_R__RealSense_TM__Depth_Camera_435_128422271347-video-index0
*/
package realsense

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"
	"time"

	"github.com/camrig/camrig/internal/logging"
	"github.com/camrig/camrig/pkg/config"
	"github.com/camrig/camrig/pkg/cv"
	"github.com/camrig/camrig/pkg/driver"
	"github.com/camrig/camrig/pkg/driver/availability"
	"github.com/camrig/camrig/pkg/frame"
	"github.com/camrig/camrig/pkg/io/video"
	pionlogging "github.com/pion/logging"
)

const warmupInterval = 100 * time.Millisecond

// ErrDepthDisabled is returned by ReadDepth when use_depth is off.
var ErrDepthDisabled = errors.New("depth stream is not enabled")

// device is a RealSense camera found on the host.
type device struct {
	Name   string
	Serial string
	// Nodes are the video nodes of the camera, ordered by index.
	Nodes []string
}

type stream interface {
	read() (image.Image, func(), error)
	close() error
}

// Replaced in tests.
var (
	findDevices = discoverDevices
	openStream  = openNode
)

func init() {
	driver.GetManager().Register(config.TypeRealSense, func(cfg config.CameraConfig) (driver.Camera, error) {
		c, err := driver.ConfigAs[*config.RealSense](cfg)
		if err != nil {
			return nil, err
		}
		return New(c)
	})
}

// Camera is an Intel RealSense camera.
type Camera struct {
	cfg  *config.RealSense
	info driver.Info
	log  pionlogging.LeveledLogger

	mu       sync.Mutex
	state    driver.State
	color    stream
	depth    stream
	reader   video.Reader
	rotation int
	rotate   bool
}

var (
	_ driver.Camera      = &Camera{}
	_ driver.DepthReader = &Camera{}
)

// New returns a closed camera. Devices are looked up on Open.
func New(cfg *config.RealSense) (*Camera, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Camera{
		cfg:   cfg,
		info:  driver.NewInfo(config.TypeRealSense, cfg.SerialNumberOrName),
		log:   logging.NewLogger("realsense"),
		state: driver.StateClosed,
	}
	c.rotation, c.rotate = cv.NativeRotation(cfg.Rotation)
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
	if err := c.state.Update(driver.StateRunning, c.warmup); err != nil {
		if cerr := c.state.Update(driver.StateClosed, c.close); cerr != nil {
			return errors.Join(err, cerr)
		}
		return err
	}
	return nil
}

func (c *Camera) open() error {
	devices, err := findDevices()
	if err != nil {
		return err
	}
	dev, err := match(devices, c.cfg.SerialNumberOrName)
	if err != nil {
		return err
	}
	c.info.Name = dev.Name

	color, used, err := openFirst(dev.Nodes, frame.FormatYUYV, c.cfg)
	if err != nil {
		return fmt.Errorf("color stream of %s: %w", dev.Serial, err)
	}

	if c.cfg.UseDepth {
		rest := make([]string, 0, len(dev.Nodes))
		for _, n := range dev.Nodes {
			if n != used {
				rest = append(rest, n)
			}
		}
		depth, _, err := openFirst(rest, frame.FormatZ16, c.cfg)
		if err != nil {
			color.close()
			return fmt.Errorf("depth stream of %s: %w", dev.Serial, err)
		}
		c.depth = depth
	}

	c.color = color
	var transforms []video.TransformFunc
	if c.cfg.ColorMode == config.ColorModeBGR {
		transforms = append(transforms, video.SwapRB())
	}
	if c.rotate {
		transforms = append(transforms, video.Rotate(c.rotation))
	}
	c.reader = video.Merge(transforms...)(video.ReaderFunc(color.read))
	c.log.Infof("opened %s (%s), depth: %v", dev.Name, dev.Serial, c.cfg.UseDepth)
	return nil
}

// openFirst opens the first node that streams format.
func openFirst(nodes []string, format frame.Format, cfg *config.RealSense) (stream, string, error) {
	var errs []error
	for _, node := range nodes {
		s, err := openStream(node, format, cfg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return s, node, nil
	}
	if len(errs) == 0 {
		return nil, "", fmt.Errorf("%w: no %s node", availability.ErrNoDevice, format)
	}
	return nil, "", errors.Join(errs...)
}

func (c *Camera) warmup() error {
	deadline := time.Now().Add(time.Duration(c.cfg.WarmupS * float64(time.Second)))
	for time.Now().Before(deadline) {
		_, release, err := c.reader.Read()
		if err != nil {
			return fmt.Errorf("warmup of camera %s: %w", c.info.Label, err)
		}
		release()
		if c.depth != nil {
			_, release, err := c.depth.read()
			if err != nil {
				return fmt.Errorf("warmup of camera %s: %w", c.info.Label, err)
			}
			release()
		}
		time.Sleep(warmupInterval)
	}
	return nil
}

// match finds the device whose serial number or product name is query.
// Names must be unique on the host.
func match(devices []device, query string) (device, error) {
	var named []device
	for _, d := range devices {
		if d.Serial == query {
			return d, nil
		}
		if strings.EqualFold(d.Name, query) {
			named = append(named, d)
		}
	}

	switch len(named) {
	case 0:
		return device{}, fmt.Errorf("realsense %q: %w", query, availability.ErrNoDevice)
	case 1:
		return named[0], nil
	}
	serials := make([]string, len(named))
	for i, d := range named {
		serials[i] = d.Serial
	}
	return device{}, fmt.Errorf("realsense %q matches several cameras %v, use the serial number", query, serials)
}

// Read returns the next color frame.
func (c *Camera) Read() (image.Image, func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.state.Running(); err != nil {
		return nil, func() {}, err
	}
	return c.reader.Read()
}

// ReadDepth returns the next depth frame in device units.
func (c *Camera) ReadDepth() (*image.Gray16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.state.Running(); err != nil {
		return nil, err
	}
	if c.depth == nil {
		return nil, ErrDepthDisabled
	}

	img, release, err := c.depth.read()
	if err != nil {
		return nil, err
	}
	defer release()

	if c.rotate {
		rotated, err := video.RotateImage(img, c.rotation)
		if err != nil {
			return nil, err
		}
		img = rotated
	}
	depth, ok := img.(*image.Gray16)
	if !ok {
		return nil, fmt.Errorf("unexpected depth frame %T", img)
	}
	return depth, nil
}

func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Update(driver.StateClosed, c.close)
}

func (c *Camera) close() error {
	var errs []error
	if c.color != nil {
		errs = append(errs, c.color.close())
		c.color = nil
	}
	if c.depth != nil {
		errs = append(errs, c.depth.close())
		c.depth = nil
	}
	c.reader = nil
	return errors.Join(errs...)
}
