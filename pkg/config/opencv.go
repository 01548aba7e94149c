package config

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// IndexOrPath points at a capture device either by index or by path.
type IndexOrPath struct {
	Index int
	Path  string
}

// Target returns the device index when no path is set, otherwise the path.
func (p IndexOrPath) Target() interface{} {
	if p.Path != "" {
		return p.Path
	}
	return p.Index
}

func (p IndexOrPath) String() string {
	if p.Path != "" {
		return p.Path
	}
	return strconv.Itoa(p.Index)
}

func (p *IndexOrPath) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: index_or_path must be an integer or a path", value.Line)
	}
	s := value.Value
	if i, err := strconv.Atoi(s); err == nil {
		*p = IndexOrPath{Index: i}
		return nil
	}
	*p = IndexOrPath{Path: s}
	return nil
}

// OpenCV configures a camera opened through OpenCV style capture backends.
type OpenCV struct {
	Base        `yaml:",inline"`
	IndexOrPath IndexOrPath `yaml:"index_or_path"`
	ColorMode   ColorMode   `yaml:"color_mode"`
	Rotation    Rotation    `yaml:"rotation"`
	WarmupS     float64     `yaml:"warmup_s"`
	// FourCC requests a pixel format such as "MJPG". Empty keeps the device default.
	FourCC string `yaml:"fourcc"`
}

// NewOpenCV returns an OpenCV config with defaults applied.
func NewOpenCV(target IndexOrPath) *OpenCV {
	return &OpenCV{
		IndexOrPath: target,
		ColorMode:   ColorModeRGB,
		WarmupS:     1,
	}
}

func (c *OpenCV) Type() string { return TypeOpenCV }

func (c *OpenCV) Validate() error {
	if err := c.Base.validate(); err != nil {
		return err
	}
	if err := c.ColorMode.validate(); err != nil {
		return err
	}
	if err := c.Rotation.validate(); err != nil {
		return err
	}
	if c.IndexOrPath.Path == "" && c.IndexOrPath.Index < 0 {
		return fmt.Errorf("%w: index_or_path must not be negative", ErrInvalid)
	}
	if c.FourCC != "" && len(c.FourCC) != 4 {
		return fmt.Errorf("%w: fourcc must be exactly 4 characters, got %q", ErrInvalid, c.FourCC)
	}
	if c.WarmupS < 0 {
		return fmt.Errorf("%w: warmup_s must not be negative", ErrInvalid)
	}
	return nil
}

func (c *OpenCV) String() string {
	f := c.Base.fields()
	f.add("index_or_path", c.IndexOrPath)
	f.add("color_mode", c.ColorMode)
	f.add("rotation", c.Rotation)
	f.add("warmup_s", c.WarmupS)
	if c.FourCC != "" {
		f.add("fourcc", c.FourCC)
	}
	return f.render("OpenCVCameraConfig")
}
