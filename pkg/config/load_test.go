package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
cameras:
  wrist:
    type: intelrealsense
    serial_number_or_name: "128422271347"
    use_depth: true
    fps: 30
    width: 640
    height: 480
  front:
    type: opencv
    index_or_path: 2
    rotation: -90
    color_mode: bgr
  side:
    type: opencv
    index_or_path: /dev/v4l/by-id/usb-cam-video-index0
    fourcc: MJPG
  head:
    type: reachy2_camera
    name: teleop
    image_type: left
    ip_address: 192.168.1.42
  bars:
    type: videotest
    width: 320
    fps: 15
`

func TestLoad(t *testing.T) {
	cams, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"wrist", "front", "side", "head", "bars"}, cams.Names())

	wrist, _ := cams.Get("wrist")
	rs, ok := wrist.(*RealSense)
	require.True(t, ok, "expected *RealSense, got %T", wrist)
	assert.Equal(t, "128422271347", rs.SerialNumberOrName)
	assert.True(t, rs.UseDepth)
	assert.Equal(t, ColorModeRGB, rs.ColorMode)
	assert.Equal(t, 1.0, rs.WarmupS)
	assert.Equal(t, Base{FPS: 30, Width: 640, Height: 480}, rs.Base)

	front, _ := cams.Get("front")
	cv := front.(*OpenCV)
	assert.Equal(t, IndexOrPath{Index: 2}, cv.IndexOrPath)
	assert.Equal(t, 2, cv.IndexOrPath.Target())
	assert.Equal(t, Rotation270, cv.Rotation)
	assert.Equal(t, ColorModeBGR, cv.ColorMode)

	side, _ := cams.Get("side")
	assert.Equal(t, "/dev/v4l/by-id/usb-cam-video-index0", side.(*OpenCV).IndexOrPath.Target())
	assert.Equal(t, "MJPG", side.(*OpenCV).FourCC)

	head, _ := cams.Get("head")
	r2 := head.(*Reachy2)
	assert.Equal(t, "192.168.1.42", r2.IPAddress)
	assert.Equal(t, DefaultReachy2Port, r2.Port)

	bars, _ := cams.Get("bars")
	g, ok := bars.(*Generic)
	require.True(t, ok, "expected *Generic, got %T", bars)
	assert.Equal(t, TypeVideoTest, g.Type())
	assert.Equal(t, 320, g.Int("width", 640))
	assert.Equal(t, 480, g.Int("height", 480))
	assert.Equal(t, 15.0, g.Float("fps", 30))
	_, hasType := g.Params["type"]
	assert.False(t, hasType)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"MissingType": `
cameras:
  front:
    index_or_path: 0
`,
		"BadRotation": `
cameras:
  front:
    type: opencv
    rotation: 45
`,
		"BadColorMode": `
cameras:
  front:
    type: opencv
    color_mode: yuv
`,
		"PartialRealSenseStream": `
cameras:
  wrist:
    type: intelrealsense
    serial_number_or_name: abc
    fps: 30
`,
		"BadReachy2ImageType": `
cameras:
  head:
    type: reachy2_camera
    name: teleop
    image_type: depth
`,
		"DuplicateName": `
cameras:
  front:
    type: opencv
  front:
    type: opencv
`,
		"NotAMapping": `
cameras: [a, b]
`,
	}

	for name, doc := range cases {
		doc := doc
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadValidationErrorIsInvalid(t *testing.T) {
	_, err := Load(strings.NewReader(`
cameras:
  front:
    type: opencv
    fourcc: MJPEG
`))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if !strings.Contains(err.Error(), `camera "front"`) {
		t.Errorf("expected error to name the camera, got %v", err)
	}
}

func TestLoadEmpty(t *testing.T) {
	for _, doc := range []string{"", "other: 1\n"} {
		cams, err := Load(strings.NewReader(doc))
		require.NoError(t, err)
		assert.Equal(t, 0, cams.Len())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cameras.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	cams, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cams.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

type stereo struct {
	Baseline float64 `yaml:"baseline"`
}

func (s *stereo) Type() string    { return "stereo" }
func (s *stereo) Validate() error { return nil }
func (s *stereo) String() string  { return "stereo" }

func TestRegisterDecoder(t *testing.T) {
	RegisterDecoder("stereo", func() CameraConfig { return &stereo{Baseline: 0.06} })
	defer func() {
		decodersMu.Lock()
		delete(decoders, "stereo")
		decodersMu.Unlock()
	}()

	cams, err := Load(strings.NewReader(`
cameras:
  pair:
    type: stereo
`))
	require.NoError(t, err)
	pair, _ := cams.Get("pair")
	assert.Equal(t, &stereo{Baseline: 0.06}, pair)
}
