package config

import (
	"iter"

	"github.com/camrig/camrig/internal/ordered"
)

// Cameras maps logical camera names to their configs, in insertion order.
type Cameras struct {
	m ordered.Map[CameraConfig]
}

func NewCameras() *Cameras {
	return &Cameras{}
}

// Add appends a camera. Names must be unique.
func (c *Cameras) Add(name string, cfg CameraConfig) error {
	return c.m.Set(name, cfg)
}

func (c *Cameras) Get(name string) (CameraConfig, bool) {
	return c.m.Get(name)
}

func (c *Cameras) Names() []string {
	return c.m.Keys()
}

func (c *Cameras) Len() int {
	return c.m.Len()
}

// All iterates over the cameras in insertion order.
func (c *Cameras) All() iter.Seq2[string, CameraConfig] {
	return c.m.All()
}
