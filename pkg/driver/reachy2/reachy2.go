// Package reachy2 provides the "reachy2_camera" driver for the cameras of a
// Reachy 2 robot.
//
// The robot serves each camera on a websocket at
//
//	ws://<ip_address>:<port>/cameras/<name>/<image_type>
//
// A client asks for a frame by sending the text message "frame". The robot
// replies with one binary message holding a JPEG or PNG encoded image.
package reachy2

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for the robot's replies
	_ "image/png"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/camrig/camrig/internal/logging"
	"github.com/camrig/camrig/pkg/config"
	"github.com/camrig/camrig/pkg/driver"
	"github.com/camrig/camrig/pkg/io/video"
	"github.com/gorilla/websocket"
	pionlogging "github.com/pion/logging"
)

const (
	frameRequest     = "frame"
	handshakeTimeout = 5 * time.Second
	readTimeout      = 5 * time.Second
)

// ErrUnexpectedMessage is returned when the robot replies with anything but
// a binary frame.
var ErrUnexpectedMessage = errors.New("unexpected message from camera server")

func init() {
	driver.GetManager().Register(config.TypeReachy2, func(cfg config.CameraConfig) (driver.Camera, error) {
		c, err := driver.ConfigAs[*config.Reachy2](cfg)
		if err != nil {
			return nil, err
		}
		return New(c)
	})
}

// Camera streams frames from a Reachy 2 camera server.
type Camera struct {
	cfg  *config.Reachy2
	info driver.Info
	log  pionlogging.LeveledLogger

	mu     sync.Mutex
	state  driver.State
	conn   *websocket.Conn
	reader video.Reader
}

var _ driver.Camera = &Camera{}

// New returns a closed camera. The robot is not contacted until Open.
func New(cfg *config.Reachy2) (*Camera, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Camera{
		cfg:   cfg,
		info:  driver.NewInfo(config.TypeReachy2, cfg.Name+"/"+cfg.ImageType),
		log:   logging.NewLogger("reachy2"),
		state: driver.StateClosed,
	}, nil
}

// URL returns the websocket endpoint of the camera.
func URL(cfg *config.Reachy2) *url.URL {
	return &url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(cfg.IPAddress, strconv.Itoa(cfg.Port)),
		Path:   "/cameras/" + cfg.Name + "/" + cfg.ImageType,
	}
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
	u := URL(c.cfg)
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", u, err)
	}
	c.conn = conn
	c.info.Name = u.String()

	var transform video.TransformFunc
	if c.cfg.ColorMode == config.ColorModeBGR {
		transform = video.SwapRB()
	}
	c.reader = video.Merge(transform)(video.ReaderFunc(c.request))
	c.log.Infof("connected to %s", u)
	return nil
}

// request asks the server for one frame and decodes the reply.
func (c *Camera) request() (image.Image, func(), error) {
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(frameRequest)); err != nil {
		return nil, func() {}, err
	}
	if err := c.conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		return nil, func() {}, err
	}
	typ, r, err := c.conn.NextReader()
	if err != nil {
		return nil, func() {}, err
	}
	if typ != websocket.BinaryMessage {
		return nil, func() {}, fmt.Errorf("%w: message type %d", ErrUnexpectedMessage, typ)
	}
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, func() {}, fmt.Errorf("decode frame: %w", err)
	}
	c.log.Tracef("received %s frame %v", format, img.Bounds())
	return img, func() {}, nil
}

// Read requests and returns the next frame.
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
	if c.conn == nil {
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil {
		c.log.Debugf("close handshake: %v", err)
	}
	err := c.conn.Close()
	c.conn = nil
	c.reader = nil
	return err
}
