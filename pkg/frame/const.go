package frame

type Format string

const (
	// YUV Formats

	// FormatI420 https://www.fourcc.org/pixel-format/yuv-i420/
	FormatI420 Format = "I420"
	// FormatNV21 https://www.fourcc.org/pixel-format/yuv-nv21/
	FormatNV21 Format = "NV21"
	// FormatYUY2 https://www.fourcc.org/pixel-format/yuv-yuy2/
	FormatYUY2 Format = "YUY2"
	// FormatUYVY https://www.fourcc.org/pixel-format/yuv-uyvy/
	FormatUYVY Format = "UYVY"

	// Compressed Formats

	// FormatMJPEG https://www.fourcc.org/mjpg/
	FormatMJPEG Format = "MJPEG"

	// Depth Formats

	// FormatZ16 https://www.kernel.org/doc/html/latest/userspace-api/media/v4l/pixfmt-z16.html
	FormatZ16 Format = "Z16"
)

// YUV aliases

// FormatYUYV is an alias of FormatYUY2
const FormatYUYV = FormatYUY2

func fourcc(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

// V4L2 pixel format codes, see linux/videodev2.h.
var v4l2Formats = map[uint32]Format{
	fourcc('Y', 'U', '1', '2'): FormatI420,
	fourcc('N', 'V', '2', '1'): FormatNV21,
	fourcc('Y', 'U', 'Y', 'V'): FormatYUY2,
	fourcc('U', 'Y', 'V', 'Y'): FormatUYVY,
	fourcc('M', 'J', 'P', 'G'): FormatMJPEG,
	fourcc('Z', '1', '6', ' '): FormatZ16,
}

// FromV4L2 maps a V4L2 pixel format code to a Format.
func FromV4L2(code uint32) (Format, bool) {
	f, ok := v4l2Formats[code]
	return f, ok
}

// V4L2 returns the V4L2 pixel format code of f.
func (f Format) V4L2() (uint32, bool) {
	for code, format := range v4l2Formats {
		if format == f {
			return code, true
		}
	}
	return 0, false
}

// ParseFourCC maps a four character code such as "MJPG" or "YUYV" to a Format.
func ParseFourCC(s string) (Format, bool) {
	if len(s) != 4 {
		return "", false
	}
	return FromV4L2(fourcc(s[0], s[1], s[2], s[3]))
}
