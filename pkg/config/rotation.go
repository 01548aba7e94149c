package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Rotation is the clockwise rotation applied to every frame.
type Rotation int

const (
	RotationNone Rotation = 0
	Rotation90   Rotation = 90
	Rotation180  Rotation = 180
	Rotation270  Rotation = -90
)

// ParseRotation accepts 0, 90, 180, -90 and 270 degrees.
func ParseRotation(degrees int) (Rotation, error) {
	switch degrees {
	case 0:
		return RotationNone, nil
	case 90:
		return Rotation90, nil
	case 180:
		return Rotation180, nil
	case -90, 270:
		return Rotation270, nil
	}
	return RotationNone, fmt.Errorf("%w: rotation must be one of 0, 90, 180, -90, got %d", ErrInvalid, degrees)
}

func (r Rotation) String() string {
	switch r {
	case RotationNone:
		return "none"
	case Rotation90:
		return "90"
	case Rotation180:
		return "180"
	case Rotation270:
		return "270"
	}
	return fmt.Sprintf("Rotation(%d)", int(r))
}

func (r Rotation) validate() error {
	_, err := ParseRotation(int(r))
	return err
}

func (r *Rotation) UnmarshalYAML(value *yaml.Node) error {
	var degrees int
	if err := value.Decode(&degrees); err != nil {
		return err
	}
	parsed, err := ParseRotation(degrees)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ColorMode is the channel order frames are delivered in.
type ColorMode string

const (
	ColorModeRGB ColorMode = "rgb"
	ColorModeBGR ColorMode = "bgr"
)

func (c ColorMode) validate() error {
	switch c {
	case ColorModeRGB, ColorModeBGR:
		return nil
	}
	return fmt.Errorf("%w: color_mode must be %q or %q, got %q", ErrInvalid, ColorModeRGB, ColorModeBGR, string(c))
}
