/*
Package camera builds camera handles from a configured camera set.

Drivers are linked by importing their packages, which register them with
driver.GetManager:

	import (
		_ "github.com/camrig/camrig/pkg/driver/opencv"
		_ "github.com/camrig/camrig/pkg/driver/realsense"
	)

	cams, err := camera.MakeCameras(cfgs)

Building is sequential and all or nothing: the first failure aborts the
call and no handles are returned. Handles are returned closed and belong
to the caller.
*/
package camera

import (
	"fmt"
	"iter"

	"github.com/camrig/camrig/internal/logging"
	"github.com/camrig/camrig/internal/ordered"
	"github.com/camrig/camrig/pkg/config"
	"github.com/camrig/camrig/pkg/driver"
	pionlogging "github.com/pion/logging"
)

// knownTypes are the drivers with a dedicated construction path, checked
// in this order. Construction errors of these drivers are returned as is.
var knownTypes = []string{
	config.TypeOpenCV,
	config.TypeRealSense,
	config.TypeReachy2,
}

// DeviceMaker builds cameras of types without a dedicated construction path.
type DeviceMaker interface {
	MakeDevice(cfg config.CameraConfig) (driver.Camera, error)
}

// DeviceMakerFunc is a proxy type for DeviceMaker
type DeviceMakerFunc func(cfg config.CameraConfig) (driver.Camera, error)

func (f DeviceMakerFunc) MakeDevice(cfg config.CameraConfig) (driver.Camera, error) {
	return f(cfg)
}

// CreateError reports a camera that the generic construction path failed to build.
type CreateError struct {
	Name   string
	Config config.CameraConfig
	Err    error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("error creating camera %s with config %s: %v", e.Name, e.Config, e.Err)
}

func (e *CreateError) Unwrap() error {
	return e.Err
}

// Set maps camera names to handles in the order they were configured.
type Set struct {
	m ordered.Map[driver.Camera]
}

func (s *Set) Get(name string) (driver.Camera, bool) {
	return s.m.Get(name)
}

func (s *Set) Names() []string {
	return s.m.Keys()
}

func (s *Set) Len() int {
	return s.m.Len()
}

// All iterates over the cameras in configuration order.
func (s *Set) All() iter.Seq2[string, driver.Camera] {
	return s.m.All()
}

// Resolver turns camera configs into camera handles.
type Resolver struct {
	manager *driver.Manager
	maker   DeviceMaker
	log     pionlogging.LeveledLogger
}

// ResolverOption is a functional option of NewResolver.
type ResolverOption func(*Resolver)

// WithManager sets the driver registry. Defaults to driver.GetManager().
func WithManager(m *driver.Manager) ResolverOption {
	return func(r *Resolver) {
		r.manager = m
	}
}

// WithDeviceMaker replaces the generic construction path. Defaults to a
// registry lookup on the resolver's manager.
func WithDeviceMaker(maker DeviceMaker) ResolverOption {
	return func(r *Resolver) {
		r.maker = maker
	}
}

func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		manager: driver.GetManager(),
		log:     logging.NewLogger("camera"),
	}
	for _, o := range opts {
		o(r)
	}
	if r.maker == nil {
		r.maker = DeviceMakerFunc(r.manager.Make)
	}
	return r
}

// Resolve builds a camera for each config, in order. A nil set resolves
// to an empty one.
func (r *Resolver) Resolve(cfgs *config.Cameras) (*Set, error) {
	set := &Set{}
	if cfgs == nil {
		return set, nil
	}
	for name, cfg := range cfgs.All() {
		cam, err := r.make(name, cfg)
		if err != nil {
			return nil, err
		}
		r.log.Debugf("built camera %s (%s, id %s)", name, cfg.Type(), cam.Info().ID)
		if err := set.m.Set(name, cam); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func (r *Resolver) make(name string, cfg config.CameraConfig) (driver.Camera, error) {
	typ := cfg.Type()
	for _, known := range knownTypes {
		if typ != known {
			continue
		}
		construct, ok := r.manager.Lookup(known)
		if !ok {
			return nil, fmt.Errorf("camera %s: %w for type %q, import its driver package", name, driver.ErrNotRegistered, known)
		}
		return construct(cfg)
	}

	cam, err := r.maker.MakeDevice(cfg)
	if err != nil {
		return nil, &CreateError{Name: name, Config: cfg, Err: err}
	}
	return cam, nil
}

// MakeCameras builds cameras with the drivers registered in driver.GetManager.
func MakeCameras(cfgs *config.Cameras) (*Set, error) {
	return NewResolver().Resolve(cfgs)
}
