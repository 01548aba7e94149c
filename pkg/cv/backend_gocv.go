//go:build gocv

package cv

import "gocv.io/x/gocv"

const (
	BackendAny          = Backend(gocv.VideoCaptureAny)
	BackendV4L          = Backend(gocv.VideoCaptureV4L)
	BackendDShow        = Backend(gocv.VideoCaptureDshow)
	BackendAVFoundation = Backend(gocv.VideoCaptureAVFoundation)
	BackendMSMF         = Backend(gocv.VideoCaptureMSMF)
)

var optionalBackends = map[string]Backend{
	"AVFOUNDATION": BackendAVFoundation,
	"V4L":          BackendV4L,
}
