package v4l2

import (
	"errors"
	"fmt"
	"image"
	"syscall"

	"github.com/blackjack/webcam"
	"github.com/camrig/camrig/pkg/driver/availability"
	"github.com/camrig/camrig/pkg/frame"
)

const (
	maxEmptyFrameCount = 5
	// frameTimeout is in seconds
	frameTimeout = 5
)

// Stream implementation using v4l2
// Reference: https://linuxtv.org/downloads/v4l-dvb-apis/uapi/v4l/videodev.html#videodev
type Stream struct {
	path          string
	cam           *webcam.Webcam
	format        frame.Format
	decoder       frame.Decoder
	width, height int
	buf           []byte
}

// Open opens path and starts streaming with the first format in opts the
// device supports.
func Open(path string, opts Options) (*Stream, error) {
	cam, err := webcam.Open(path)
	if err != nil {
		if errors.Is(err, syscall.EBUSY) {
			return nil, fmt.Errorf("%s: %w", path, availability.ErrBusy)
		}
		if errors.Is(err, syscall.ENOENT) || errors.Is(err, syscall.ENODEV) {
			return nil, fmt.Errorf("%s: %w", path, availability.ErrNoDevice)
		}
		return nil, err
	}

	s, err := start(cam, opts)
	if err != nil {
		cam.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.path = path
	return s, nil
}

func start(cam *webcam.Webcam, opts Options) (*Stream, error) {
	candidates := opts.Formats
	if len(candidates) == 0 {
		candidates = DefaultFormats
	}
	pf, format, err := ChooseFormat(cam.GetSupportedFormats(), candidates)
	if err != nil {
		return nil, err
	}

	width, height := uint32(opts.Width), uint32(opts.Height)
	if width == 0 || height == 0 {
		sizes := cam.GetSupportedFrameSizes(pf)
		if len(sizes) == 0 {
			return nil, fmt.Errorf("no frame size available for %s", format)
		}
		width, height = sizes[0].MaxWidth, sizes[0].MaxHeight
	}

	_, width, height, err = cam.SetImageFormat(pf, width, height)
	if err != nil {
		return nil, err
	}
	if opts.FPS > 0 {
		if err := cam.SetFramerate(float32(opts.FPS)); err != nil {
			return nil, err
		}
	}

	decoder, err := frame.NewDecoder(format)
	if err != nil {
		return nil, err
	}
	if err := cam.StartStreaming(); err != nil {
		return nil, err
	}

	return &Stream{
		cam:     cam,
		format:  format,
		decoder: decoder,
		width:   int(width),
		height:  int(height),
	}, nil
}

// ChooseFormat returns the first candidate listed in supported.
func ChooseFormat(supported map[webcam.PixelFormat]string, candidates []frame.Format) (webcam.PixelFormat, frame.Format, error) {
	for _, f := range candidates {
		code, ok := f.V4L2()
		if !ok {
			continue
		}
		if _, ok := supported[webcam.PixelFormat(code)]; ok {
			return webcam.PixelFormat(code), f, nil
		}
	}
	return 0, "", fmt.Errorf("device supports none of %v", candidates)
}

func (s *Stream) Path() string {
	return s.path
}

func (s *Stream) Format() frame.Format {
	return s.format
}

// Size returns the frame size the device settled on.
func (s *Stream) Size() (width, height int) {
	return s.width, s.height
}

// Read waits for the next frame and decodes it. Decoded frames own their
// pixels and stay valid after the next Read.
func (s *Stream) Read() (image.Image, func(), error) {
	for i := 0; i < maxEmptyFrameCount; i++ {
		err := s.cam.WaitForFrame(frameTimeout)
		switch err.(type) {
		case nil:
		case *webcam.Timeout:
			return nil, func() {}, errReadTimeout
		default:
			// Camera has been stopped.
			return nil, func() {}, err
		}

		b, err := s.cam.ReadFrame()
		if err != nil {
			return nil, func() {}, err
		}

		// Frame is empty.
		// Retry reading and return errEmptyFrame if it exceeds maxEmptyFrameCount.
		if len(b) == 0 {
			continue
		}

		if len(b) > len(s.buf) {
			// Grow the intermediate buffer
			s.buf = make([]byte, len(b))
		}

		// Copy out of the mmap buffer, StopStreaming frees it even if Go
		// code still holds a reference.
		n := copy(s.buf, b)
		return s.decoder.Decode(s.buf[:n], s.width, s.height)
	}
	return nil, func() {}, errEmptyFrame
}

func (s *Stream) Close() error {
	s.cam.StopStreaming()
	return s.cam.Close()
}
