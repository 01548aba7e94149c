package video

import (
	"image"

	"golang.org/x/image/draw"
)

// Scaler represents scaling algorithm
type Scaler draw.Scaler

// List of scaling algorithms
var (
	ScalerNearestNeighbor = Scaler(draw.NearestNeighbor)
	ScalerApproxBiLinear  = Scaler(draw.ApproxBiLinear)
	ScalerBiLinear        = Scaler(draw.BiLinear)
	ScalerCatmullRom      = Scaler(draw.CatmullRom)
)

// Scale returns video scaling transform.
// Setting scaler=nil to use default scaler. (ScalerNearestNeighbor)
// A non-positive width or height keeps the aspect ratio of the incoming
// image; when both are non-positive frames pass through unchanged.
//
// Frames are scaled into RGBA, or Gray16 for depth frames, so later
// transforms see a uniform layout.
func Scale(width, height int, scaler Scaler) TransformFunc {
	return func(r Reader) Reader {
		if width <= 0 && height <= 0 {
			return r
		}
		if scaler == nil {
			scaler = ScalerNearestNeighbor
		}

		return ReaderFunc(func() (image.Image, func(), error) {
			img, release, err := r.Read()
			if err != nil {
				return nil, func() {}, err
			}
			defer release()

			return ScaleImage(img, width, height, scaler), func() {}, nil
		})
	}
}

// ScaleImage scales src to width x height. See Scale for the meaning of
// non-positive sizes.
func ScaleImage(src image.Image, width, height int, scaler Scaler) draw.Image {
	b := src.Bounds()
	switch {
	case width <= 0 && height <= 0:
		width, height = b.Dx(), b.Dy()
	case height <= 0:
		height = b.Dy() * width / b.Dx()
	case width <= 0:
		width = b.Dx() * height / b.Dy()
	}

	rect := image.Rect(0, 0, width, height)
	var dst draw.Image
	if _, ok := src.(*image.Gray16); ok {
		dst = image.NewGray16(rect)
	} else {
		dst = image.NewRGBA(rect)
	}
	scaler.Scale(dst, rect, src, b, draw.Src, nil)
	return dst
}
