package video

import (
	"errors"
	"image"
	"runtime"
	"testing"
	"time"
)

func TestThrottle(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("Skipping because Darwin CI is not reliable for timing related tests.")
	}
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))

	var captured, released int
	r := Throttle(50)(ReaderFunc(func() (image.Image, func(), error) {
		time.Sleep(2 * time.Millisecond)
		captured++
		return img, func() { released++ }, nil
	}))

	start := time.Now()
	for i := 0; i < 10; i++ {
		_, release, err := r.Read()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		release()
	}
	elapsed := time.Since(start)

	if elapsed < 180*time.Millisecond {
		t.Errorf("10 frames at 50 fps took only %v", elapsed)
	}
	if captured <= 10 {
		t.Errorf("expected frames to be dropped, captured %d", captured)
	}
	if released != captured {
		t.Errorf("expected every frame released, captured %d released %d", captured, released)
	}
}

func TestThrottleError(t *testing.T) {
	errCapture := errors.New("capture failed")
	r := Throttle(10)(ReaderFunc(func() (image.Image, func(), error) {
		return nil, func() {}, errCapture
	}))
	if _, _, err := r.Read(); !errors.Is(err, errCapture) {
		t.Errorf("expected %v, got %v", errCapture, err)
	}
}
