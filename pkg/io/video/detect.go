package video

import (
	"image"
	"time"
)

// Stats describes a video stream as observed by DetectChanges.
type Stats struct {
	Width, Height int
	// FPS is the frame rate measured over the last interval.
	FPS float64
}

// DetectChanges will detect frame size and frame rate changes. Since the frame
// rate is time related, interval will be used to determine the sample rate.
func DetectChanges(interval time.Duration, onChange func(Stats)) TransformFunc {
	return func(r Reader) Reader {
		var current Stats
		var lastTaken time.Time
		var frames uint
		return ReaderFunc(func() (image.Image, func(), error) {
			var dirty bool

			img, release, err := r.Read()
			if err != nil {
				return nil, func() {}, err
			}

			bounds := img.Bounds()
			if current.Width != bounds.Dx() {
				current.Width = bounds.Dx()
				dirty = true
			}
			if current.Height != bounds.Dy() {
				current.Height = bounds.Dy()
				dirty = true
			}

			now := time.Now()
			if lastTaken.IsZero() {
				lastTaken = now
			} else if elapsed := now.Sub(lastTaken); elapsed >= interval {
				current.FPS = float64(frames) / elapsed.Seconds()
				frames = 0
				lastTaken = now
				dirty = true
			}

			if dirty {
				onChange(current)
			}

			frames++
			return img, release, nil
		})
	}
}
