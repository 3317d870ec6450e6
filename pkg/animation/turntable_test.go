package animation

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

func TestTurntable_Angles(t *testing.T) {
	tt := Turntable{Frames: 120, FPS: 30, TargetAngle: 90, Frequency: 4.0, Damping: 1.0}
	angles := tt.Angles()

	if len(angles) != 120 {
		t.Fatalf("Expected 120 angles, got %d", len(angles))
	}
	if angles[0] != 0 {
		t.Errorf("First frame should start at 0, got %f", angles[0])
	}

	// Critically damped from rest: never reverses and never overshoots
	for i := 1; i < len(angles); i++ {
		if angles[i] < angles[i-1] {
			t.Fatalf("Angle decreased at frame %d: %f -> %f", i, angles[i-1], angles[i])
		}
		if angles[i] > tt.TargetAngle+1e-9 {
			t.Fatalf("Angle overshot at frame %d: %f", i, angles[i])
		}
	}

	if math.Abs(angles[len(angles)-1]-tt.TargetAngle) > 0.01*tt.TargetAngle {
		t.Errorf("Expected last angle near %f, got %f", tt.TargetAngle, angles[len(angles)-1])
	}
}

func TestDefaultTurntable_NearlyFullOrbit(t *testing.T) {
	tt := DefaultTurntable()
	angles := tt.Angles()

	last := angles[len(angles)-1]
	if last > tt.TargetAngle+1e-9 || tt.TargetAngle-last > 1.0 {
		t.Errorf("Expected last frame within a degree below %f, got %f", tt.TargetAngle, last)
	}
}

func TestTurntable_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tt      Turntable
		wantErr bool
	}{
		{"Default", DefaultTurntable(), false},
		{"No frames", Turntable{Frames: 0, FPS: 30}, true},
		{"No fps", Turntable{Frames: 10, FPS: 0}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tt.Validate()
			if tc.wantErr != (err != nil) {
				t.Fatalf("Expected error=%t, got %v", tc.wantErr, err)
			}
			if err != nil && !errors.Is(err, ErrInvalidTurntable) {
				t.Errorf("Expected ErrInvalidTurntable, got %v", err)
			}
			if err != nil && tc.tt.Angles() != nil {
				t.Errorf("Invalid turntable should produce no angles")
			}
		})
	}
}

func TestOrbitCamera(t *testing.T) {
	base := renderer.CameraConfig{
		Center: core.NewVec3(0, 2, 5),
		LookAt: core.NewVec3(0, 0, 0),
		Up:     core.NewVec3(0, 1, 0),
		Width:  100,
		VFov:   30,
	}

	tests := []struct {
		name     string
		angle    float64
		expected core.Vec3
	}{
		{"No rotation", 0, core.NewVec3(0, 2, 5)},
		{"Quarter turn", 90, core.NewVec3(5, 2, 0)},
		{"Half turn", 180, core.NewVec3(0, 2, -5)},
		{"Full turn", 360, core.NewVec3(0, 2, 5)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := OrbitCamera(base, tc.angle)
			if result.Center.Subtract(tc.expected).Length() > 1e-9 {
				t.Errorf("Expected center %v, got %v", tc.expected, result.Center)
			}
			if !result.LookAt.Equals(base.LookAt) || result.Width != base.Width || result.VFov != base.VFov {
				t.Errorf("Orbit should only move the camera center, got %+v", result)
			}
		})
	}
}

func TestOrbitCamera_OffCenterLookAt(t *testing.T) {
	base := renderer.CameraConfig{Center: core.NewVec3(4, 1, 3), LookAt: core.NewVec3(1, 1, 1)}
	before := base.Center.Subtract(base.LookAt).Length()

	for _, angle := range []float64{17, 45, 123, 300} {
		result := OrbitCamera(base, angle)
		after := result.Center.Subtract(result.LookAt).Length()
		if math.Abs(after-before) > 1e-9 {
			t.Errorf("Angle %f changed orbit radius from %f to %f", angle, before, after)
		}
		if result.Center.Y != base.Center.Y {
			t.Errorf("Angle %f changed camera height to %f", angle, result.Center.Y)
		}
	}
}
