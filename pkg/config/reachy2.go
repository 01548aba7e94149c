package config

import "fmt"

// Reachy2 configures one of the cameras mounted on a Reachy 2 robot.
type Reachy2 struct {
	Base `yaml:",inline"`
	// Name is "teleop" for the head stereo pair or "depth" for the torso camera.
	Name string `yaml:"name"`
	// ImageType is "left" or "right" for teleop, "rgb" or "depth" for depth.
	ImageType string    `yaml:"image_type"`
	IPAddress string    `yaml:"ip_address"`
	Port      int       `yaml:"port"`
	ColorMode ColorMode `yaml:"color_mode"`
}

const DefaultReachy2Port = 50065

func NewReachy2(name, imageType string) *Reachy2 {
	return &Reachy2{
		Name:      name,
		ImageType: imageType,
		IPAddress: "localhost",
		Port:      DefaultReachy2Port,
		ColorMode: ColorModeRGB,
	}
}

var reachy2ImageTypes = map[string][]string{
	"teleop": {"left", "right"},
	"depth":  {"rgb", "depth"},
}

func (c *Reachy2) Type() string { return TypeReachy2 }

func (c *Reachy2) Validate() error {
	if err := c.Base.validate(); err != nil {
		return err
	}
	if err := c.ColorMode.validate(); err != nil {
		return err
	}
	imageTypes, ok := reachy2ImageTypes[c.Name]
	if !ok {
		return fmt.Errorf("%w: name must be \"teleop\" or \"depth\", got %q", ErrInvalid, c.Name)
	}
	valid := false
	for _, t := range imageTypes {
		if t == c.ImageType {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("%w: image_type for %q must be one of %v, got %q", ErrInvalid, c.Name, imageTypes, c.ImageType)
	}
	if c.IPAddress == "" {
		return fmt.Errorf("%w: ip_address is required", ErrInvalid)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port out of range: %d", ErrInvalid, c.Port)
	}
	return nil
}

func (c *Reachy2) String() string {
	f := c.Base.fields()
	f.add("name", c.Name)
	f.add("image_type", c.ImageType)
	f.add("ip_address", c.IPAddress)
	f.add("port", c.Port)
	f.add("color_mode", c.ColorMode)
	return f.render("Reachy2CameraConfig")
}
