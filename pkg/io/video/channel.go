package video

import (
	"image"

	"golang.org/x/image/draw"
)

// SwapRB returns a transform exchanging the red and blue channels of every
// frame, turning an RGB frame into BGR channel order and back.
func SwapRB() TransformFunc {
	return func(r Reader) Reader {
		return ReaderFunc(func() (image.Image, func(), error) {
			img, release, err := r.Read()
			if err != nil {
				return nil, func() {}, err
			}
			defer release()

			return SwapRBImage(img), func() {}, nil
		})
	}
}

// SwapRBImage copies src into a new RGBA image with red and blue exchanged.
func SwapRBImage(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		dst.Pix[i], dst.Pix[i+2] = dst.Pix[i+2], dst.Pix[i]
	}
	return dst
}
