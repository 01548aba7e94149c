//go:build !linux && !gocv

package opencv

import (
	"fmt"

	"github.com/camrig/camrig/pkg/config"
	"github.com/camrig/camrig/pkg/cv"
	"github.com/camrig/camrig/pkg/driver/availability"
)

func openDevice(target interface{}, backend cv.Backend, cfg *config.OpenCV) (capture, error) {
	return nil, fmt.Errorf("%w: capture on this platform needs the gocv build tag", availability.ErrUnimplemented)
}
