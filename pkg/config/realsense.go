package config

import "fmt"

// RealSense configures an Intel RealSense depth camera.
type RealSense struct {
	Base `yaml:",inline"`
	// SerialNumberOrName matches the device serial number, or its product
	// name when that name is unique on the host.
	SerialNumberOrName string    `yaml:"serial_number_or_name"`
	ColorMode          ColorMode `yaml:"color_mode"`
	UseDepth           bool      `yaml:"use_depth"`
	Rotation           Rotation  `yaml:"rotation"`
	WarmupS            float64   `yaml:"warmup_s"`
}

func NewRealSense(serialNumberOrName string) *RealSense {
	return &RealSense{
		SerialNumberOrName: serialNumberOrName,
		ColorMode:          ColorModeRGB,
		WarmupS:            1,
	}
}

func (c *RealSense) Type() string { return TypeRealSense }

func (c *RealSense) Validate() error {
	if err := c.Base.validate(); err != nil {
		return err
	}
	if err := c.ColorMode.validate(); err != nil {
		return err
	}
	if err := c.Rotation.validate(); err != nil {
		return err
	}
	if c.SerialNumberOrName == "" {
		return fmt.Errorf("%w: serial_number_or_name is required", ErrInvalid)
	}
	if !c.Base.complete() && !c.Base.unset() {
		return fmt.Errorf("%w: fps, width and height must be set together", ErrInvalid)
	}
	if c.WarmupS < 0 {
		return fmt.Errorf("%w: warmup_s must not be negative", ErrInvalid)
	}
	return nil
}

func (c *RealSense) String() string {
	f := c.Base.fields()
	f.add("serial_number_or_name", c.SerialNumberOrName)
	f.add("color_mode", c.ColorMode)
	f.add("use_depth", c.UseDepth)
	f.add("rotation", c.Rotation)
	f.add("warmup_s", c.WarmupS)
	return f.render("RealSenseCameraConfig")
}
