package cv

import (
	"testing"

	"github.com/camrig/camrig/pkg/config"
)

func TestNativeRotation(t *testing.T) {
	if code, ok := NativeRotation(config.RotationNone); ok {
		t.Fatalf("expected no rotation, got code %d", code)
	}

	expected := map[config.Rotation]int{
		config.Rotation90:  0,
		config.Rotation180: 1,
		config.Rotation270: 2,
	}
	seen := make(map[int]bool)
	for r, want := range expected {
		code, ok := NativeRotation(r)
		if !ok {
			t.Fatalf("%v: expected a rotation code", r)
		}
		if code != want {
			t.Errorf("%v: expected code %d, got %d", r, want, code)
		}
		if code < 0 || seen[code] {
			t.Errorf("%v: code %d is negative or not distinct", r, code)
		}
		seen[code] = true
	}
}
