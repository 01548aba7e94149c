package config

import (
	"strings"
	"testing"
)

func TestParseRotation(t *testing.T) {
	cases := []struct {
		in       int
		expected Rotation
		ok       bool
	}{
		{0, RotationNone, true},
		{90, Rotation90, true},
		{180, Rotation180, true},
		{-90, Rotation270, true},
		{270, Rotation270, true},
		{45, RotationNone, false},
		{360, RotationNone, false},
	}

	for _, c := range cases {
		r, err := ParseRotation(c.in)
		if (err == nil) != c.ok {
			t.Errorf("ParseRotation(%d): unexpected error state: %v", c.in, err)
			continue
		}
		if r != c.expected {
			t.Errorf("ParseRotation(%d) = %v, expected %v", c.in, r, c.expected)
		}
	}
}

func TestString(t *testing.T) {
	cv := NewOpenCV(IndexOrPath{Index: 1})
	cv.Rotation = Rotation90
	s := cv.String()
	for _, want := range []string{"OpenCVCameraConfig(", "index_or_path=1", "rotation=90", "color_mode=rgb"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in %q", want, s)
		}
	}

	g := &Generic{Tag: "stereo", Params: map[string]interface{}{"b": 2, "a": "x"}}
	if s := g.String(); s != "CameraConfig(type=stereo, a=x, b=2)" {
		t.Errorf("unexpected generic string: %s", s)
	}
}

func TestValidateDefaults(t *testing.T) {
	configs := []CameraConfig{
		NewOpenCV(IndexOrPath{Path: "/dev/video0"}),
		NewRealSense("D435"),
		NewReachy2("depth", "rgb"),
		&Generic{Tag: TypeVideoTest},
	}
	for _, c := range configs {
		if err := c.Validate(); err != nil {
			t.Errorf("%s: unexpected error: %v", c.Type(), err)
		}
	}

	if err := NewRealSense("").Validate(); err == nil {
		t.Error("expected missing serial to fail")
	}
	if err := (&Generic{}).Validate(); err == nil {
		t.Error("expected missing tag to fail")
	}
	r := NewReachy2("teleop", "right")
	r.Port = 0
	if err := r.Validate(); err == nil {
		t.Error("expected bad port to fail")
	}
}
