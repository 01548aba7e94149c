package opencv

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/camrig/camrig/pkg/config"
	"github.com/camrig/camrig/pkg/cv"
	"github.com/camrig/camrig/pkg/driver"
	"github.com/camrig/camrig/pkg/driver/availability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCapture hands out a 2x1 image: red on the left, blue on the right.
type fakeCapture struct {
	reads  int
	closed bool
}

func (f *fakeCapture) read() (image.Image, func(), error) {
	f.reads++
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{B: 255, A: 255})
	return img, func() {}, nil
}

func (f *fakeCapture) close() error {
	f.closed = true
	return nil
}

type rotatingCapture struct {
	fakeCapture
	code int
}

func (r *rotatingCapture) setRotation(code int) {
	r.code = code
}

type openCall struct {
	target  interface{}
	backend cv.Backend
}

// stubOpen replaces openCapture for the duration of the test. Backends in
// failing return availability.ErrBusy.
func stubOpen(t *testing.T, capt capture, failing ...cv.Backend) *[]openCall {
	t.Helper()
	calls := &[]openCall{}
	orig := openCapture
	openCapture = func(target interface{}, backend cv.Backend, cfg *config.OpenCV) (capture, error) {
		*calls = append(*calls, openCall{target, backend})
		for _, b := range failing {
			if b == backend {
				return nil, availability.ErrBusy
			}
		}
		return capt, nil
	}
	t.Cleanup(func() { openCapture = orig })
	return calls
}

func newConfig() *config.OpenCV {
	cfg := config.NewOpenCV(config.IndexOrPath{Index: 3})
	cfg.WarmupS = 0
	return cfg
}

func TestNewValidates(t *testing.T) {
	cfg := newConfig()
	cfg.ColorMode = "yuv"
	_, err := New(cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestRegisteredFactory(t *testing.T) {
	f, ok := driver.GetManager().Lookup(config.TypeOpenCV)
	require.True(t, ok)

	cam, err := f(newConfig())
	require.NoError(t, err)
	assert.IsType(t, &Camera{}, cam)
	assert.Equal(t, "3", cam.Info().Label)

	_, err = f(config.NewRealSense("D435"))
	assert.ErrorIs(t, err, driver.ErrConfigType)
}

func TestOpenTriesBackendsInOrder(t *testing.T) {
	t.Setenv(cv.EnvBackends, "dshow,msmf,any")
	capt := &fakeCapture{}
	calls := stubOpen(t, capt, cv.BackendDShow)

	cam, err := New(newConfig())
	require.NoError(t, err)
	require.NoError(t, cam.Open())
	defer cam.Close()

	assert.Equal(t, []openCall{{3, cv.BackendDShow}, {3, cv.BackendMSMF}}, *calls)
	assert.Equal(t, cv.BackendMSMF, cam.Backend())
}

func TestOpenAllBackendsFail(t *testing.T) {
	t.Setenv(cv.EnvBackends, "dshow,any")
	stubOpen(t, &fakeCapture{}, cv.BackendDShow, cv.BackendAny)

	cam, err := New(newConfig())
	require.NoError(t, err)

	err = cam.Open()
	require.Error(t, err)
	assert.True(t, availability.IsError(err))
	assert.Contains(t, err.Error(), "DSHOW")
	assert.Contains(t, err.Error(), "ANY")

	_, _, err = cam.Read()
	assert.ErrorIs(t, err, driver.ErrNotRunning)
}

func TestReadBeforeOpen(t *testing.T) {
	cam, err := New(newConfig())
	require.NoError(t, err)

	_, _, err = cam.Read()
	assert.ErrorIs(t, err, driver.ErrNotRunning)
}

func TestReadColorModeAndRotation(t *testing.T) {
	t.Setenv(cv.EnvBackends, "")
	stubOpen(t, &fakeCapture{})

	cfg := newConfig()
	cfg.ColorMode = config.ColorModeBGR
	cfg.Rotation = config.Rotation90

	cam, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, cam.Open())
	defer cam.Close()

	img, release, err := cam.Read()
	require.NoError(t, err)
	defer release()

	// 2x1 rotated clockwise is 1x2 with the left pixel on top. Red and
	// blue are swapped for bgr.
	assert.Equal(t, image.Pt(1, 2), img.Bounds().Size())
	r, _, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), r)
	assert.Equal(t, uint32(0xffff), b)
}

func TestNativeRotation(t *testing.T) {
	t.Setenv(cv.EnvBackends, "")
	capt := &rotatingCapture{code: -1}
	stubOpen(t, capt)

	cfg := newConfig()
	cfg.Rotation = config.Rotation270

	cam, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, cam.Open())
	defer cam.Close()

	assert.Equal(t, 2, capt.code)

	img, _, err := cam.Read()
	require.NoError(t, err)
	assert.Equal(t, image.Pt(2, 1), img.Bounds().Size(), "capture rotates, no second rotation")
}

func TestWarmupReadsFrames(t *testing.T) {
	t.Setenv(cv.EnvBackends, "")
	capt := &fakeCapture{}
	stubOpen(t, capt)

	cfg := newConfig()
	cfg.WarmupS = 0.25

	cam, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, cam.Open())
	defer cam.Close()

	assert.GreaterOrEqual(t, capt.reads, 2)
}

func TestOpenCloseLifecycle(t *testing.T) {
	t.Setenv(cv.EnvBackends, "")
	capt := &fakeCapture{}
	stubOpen(t, capt)

	cam, err := New(newConfig())
	require.NoError(t, err)
	require.NoError(t, cam.Open())
	assert.Error(t, cam.Open(), "opening twice")

	require.NoError(t, cam.Close())
	assert.True(t, capt.closed)

	_, _, err = cam.Read()
	assert.ErrorIs(t, err, driver.ErrNotRunning)
	assert.NoError(t, cam.Close(), "closing twice")
}

func TestWarmupFailureCloses(t *testing.T) {
	t.Setenv(cv.EnvBackends, "")
	capt := &failingCapture{}
	stubOpen(t, capt)

	cfg := newConfig()
	cfg.WarmupS = 1

	cam, err := New(cfg)
	require.NoError(t, err)
	assert.ErrorIs(t, cam.Open(), errUnplugged)
	assert.True(t, capt.closed)
}

var errUnplugged = errors.New("unplugged")

type failingCapture struct {
	fakeCapture
}

func (f *failingCapture) read() (image.Image, func(), error) {
	return nil, func() {}, errUnplugged
}

var errStuck = errors.New("stuck")

type stuckCapture struct {
	failingCapture
}

func (s *stuckCapture) close() error {
	s.closed = true
	return errStuck
}

func TestWarmupFailureReportsCloseError(t *testing.T) {
	t.Setenv(cv.EnvBackends, "")
	capt := &stuckCapture{}
	stubOpen(t, capt)

	cfg := newConfig()
	cfg.WarmupS = 1

	cam, err := New(cfg)
	require.NoError(t, err)
	err = cam.Open()
	assert.ErrorIs(t, err, errUnplugged)
	assert.ErrorIs(t, err, errStuck)
	assert.True(t, capt.closed)
}
