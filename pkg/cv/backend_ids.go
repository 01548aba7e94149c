//go:build !gocv

package cv

// OpenCV VideoCaptureAPIs values.
const (
	BackendAny          Backend = 0
	BackendV4L          Backend = 200
	BackendDShow        Backend = 700
	BackendAVFoundation Backend = 1200
	BackendMSMF         Backend = 1400
)

var optionalBackends = map[string]Backend{
	"AVFOUNDATION": BackendAVFoundation,
	"V4L":          BackendV4L,
}
