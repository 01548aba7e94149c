package video

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Rotation codes understood by Rotate. The values match OpenCV's RotateFlags.
const (
	Rotate90Clockwise        = 0
	Rotate180                = 1
	Rotate90CounterClockwise = 2
)

// Rotate returns a transform rotating every frame by the given rotation code.
// Frames are copied into a new image, so the source frame is released right
// after rotation.
func Rotate(code int) TransformFunc {
	return func(r Reader) Reader {
		return ReaderFunc(func() (image.Image, func(), error) {
			img, release, err := r.Read()
			if err != nil {
				return nil, func() {}, err
			}
			defer release()

			rotated, err := RotateImage(img, code)
			if err != nil {
				return nil, func() {}, err
			}
			return rotated, func() {}, nil
		})
	}
}

// RotateImage rotates src by the given rotation code. 16-bit gray frames
// such as depth maps stay *image.Gray16, everything else becomes *image.RGBA.
func RotateImage(src image.Image, code int) (draw.Image, error) {
	b := src.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	x0, y0 := float64(b.Min.X), float64(b.Min.Y)

	newImage := func(r image.Rectangle) draw.Image {
		if _, ok := src.(*image.Gray16); ok {
			return image.NewGray16(r)
		}
		return image.NewRGBA(r)
	}

	var dst draw.Image
	var s2d f64.Aff3
	switch code {
	case Rotate90Clockwise:
		dst = newImage(image.Rect(0, 0, b.Dy(), b.Dx()))
		s2d = f64.Aff3{
			0, -1, h + y0,
			1, 0, -x0,
		}
	case Rotate180:
		dst = newImage(image.Rect(0, 0, b.Dx(), b.Dy()))
		s2d = f64.Aff3{
			-1, 0, w + x0,
			0, -1, h + y0,
		}
	case Rotate90CounterClockwise:
		dst = newImage(image.Rect(0, 0, b.Dy(), b.Dx()))
		s2d = f64.Aff3{
			0, 1, -y0,
			-1, 0, w + x0,
		}
	default:
		return nil, fmt.Errorf("unknown rotation code %d", code)
	}

	draw.NearestNeighbor.Transform(dst, s2d, src, b, draw.Src, nil)
	return dst, nil
}
