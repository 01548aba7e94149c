package frame

import (
	"fmt"
	"image"
	"reflect"
	"testing"
)

func TestDecodeYUY2(t *testing.T) {
	const (
		width  = 2
		height = 2
	)
	input := []byte{
		// Y    Cb     Y    Cr
		0x01, 0x82, 0x03, 0x84,
		0x05, 0x86, 0x07, 0x88,
	}
	expected := &image.YCbCr{
		Y:              []byte{0x01, 0x03, 0x05, 0x07},
		YStride:        width,
		Cb:             []byte{0x82, 0x86},
		Cr:             []byte{0x84, 0x88},
		CStride:        width / 2,
		SubsampleRatio: image.YCbCrSubsampleRatio422,
		Rect:           image.Rect(0, 0, width, height),
	}

	img, _, err := decodeYUY2(input, width, height)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(expected, img) {
		t.Errorf("Wrong decode result,\nexpected:\n%+v\ngot:\n%+v", expected, img)
	}
}

func TestDecodeUYVY(t *testing.T) {
	const (
		width  = 2
		height = 2
	)
	input := []byte{
		//Cb     Y    Cr     Y
		0x82, 0x01, 0x84, 0x03,
		0x86, 0x05, 0x88, 0x07,
	}
	expected := &image.YCbCr{
		Y:              []byte{0x01, 0x03, 0x05, 0x07},
		YStride:        width,
		Cb:             []byte{0x82, 0x86},
		Cr:             []byte{0x84, 0x88},
		CStride:        width / 2,
		SubsampleRatio: image.YCbCrSubsampleRatio422,
		Rect:           image.Rect(0, 0, width, height),
	}

	img, _, err := decodeUYVY(input, width, height)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(expected, img) {
		t.Errorf("Wrong decode result,\nexpected:\n%+v\ngot:\n%+v", expected, img)
	}
}

func TestDecodeNV21(t *testing.T) {
	const (
		width  = 2
		height = 2
	)
	input := []byte{
		0x01, 0x02,
		0x03, 0x04,
		// Cr   Cb
		0x90, 0x80,
	}

	img, _, err := decodeNV21(input, width, height)
	if err != nil {
		t.Fatal(err)
	}
	ycbcr, ok := img.(*image.YCbCr)
	if !ok {
		t.Fatalf("expected *image.YCbCr, got %T", img)
	}
	if !reflect.DeepEqual(ycbcr.Cb, []byte{0x80}) || !reflect.DeepEqual(ycbcr.Cr, []byte{0x90}) {
		t.Errorf("wrong chroma planes, cb=%v cr=%v", ycbcr.Cb, ycbcr.Cr)
	}

	if _, _, err := decodeNV21(input[:4], width, height); err == nil {
		t.Error("expected short frame to fail")
	}
}

func TestDecodeI420ShortFrame(t *testing.T) {
	if _, _, err := decodeI420(make([]byte, 5), 2, 2); err == nil {
		t.Error("expected short frame to fail")
	}
	if _, _, err := decodeI420(make([]byte, 6), 2, 2); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func BenchmarkDecodeYUY2(b *testing.B) {
	sizes := []struct {
		width, height int
	}{
		{640, 480},
		{1920, 1080},
	}
	for _, sz := range sizes {
		sz := sz
		b.Run(fmt.Sprintf("%dx%d", sz.width, sz.height), func(b *testing.B) {
			input := make([]byte, sz.width*sz.height*2)
			for i := 0; i < b.N; i++ {
				_, _, err := decodeYUY2(input, sz.width, sz.height)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func TestDecodeOwnsPixels(t *testing.T) {
	decoders := map[string]decoderFunc{
		"I420": decodeI420,
		"NV21": decodeNV21,
	}
	for name, decode := range decoders {
		decode := decode
		t.Run(name, func(t *testing.T) {
			buf := []byte{0x01, 0x02, 0x03, 0x04, 0x80, 0x90}
			img, _, err := decode(buf, 2, 2)
			if err != nil {
				t.Fatal(err)
			}
			// The capture buffer is overwritten by the next frame.
			for i := range buf {
				buf[i] = 0xff
			}
			ycbcr := img.(*image.YCbCr)
			if !reflect.DeepEqual(ycbcr.Y, []byte{0x01, 0x02, 0x03, 0x04}) {
				t.Errorf("luma changed with the source buffer: %v", ycbcr.Y)
			}
			if ycbcr.Cb[0] == 0xff || ycbcr.Cr[0] == 0xff {
				t.Errorf("chroma changed with the source buffer: cb=%v cr=%v", ycbcr.Cb, ycbcr.Cr)
			}
		})
	}
}
