// Package animation produces camera paths for multi-frame renders.
package animation

import (
	"errors"
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// ErrInvalidTurntable is returned for a turntable with no frames or no frame rate
var ErrInvalidTurntable = errors.New("invalid turntable")

// Turntable eases the camera around the look-at point with a spring
type Turntable struct {
	Frames      int     // Number of frames to produce
	FPS         int     // Playback rate the spring is stepped at
	TargetAngle float64 // Final orbit angle in degrees
	Frequency   float64 // Spring angular frequency; higher settles faster
	Damping     float64 // 1.0 is critically damped (no overshoot)
}

// DefaultTurntable returns a two-second, critically damped orbit.
// The spring approaches but never reaches its target; the last frame lands within a degree of 360.
func DefaultTurntable() Turntable {
	return Turntable{
		Frames:      60,
		FPS:         30,
		TargetAngle: 360,
		Frequency:   5.0,
		Damping:     1.0,
	}
}

// Validate reports whether the turntable can produce frames
func (tt Turntable) Validate() error {
	if tt.Frames <= 0 {
		return errors.Join(ErrInvalidTurntable, errors.New("frames must be positive"))
	}
	if tt.FPS <= 0 {
		return errors.Join(ErrInvalidTurntable, errors.New("fps must be positive"))
	}
	return nil
}

// Angles returns one orbit angle per frame, starting at 0 and easing toward TargetAngle
func (tt Turntable) Angles() []float64 {
	if tt.Frames <= 0 || tt.FPS <= 0 {
		return nil
	}

	spring := harmonica.NewSpring(harmonica.FPS(tt.FPS), tt.Frequency, tt.Damping)
	angles := make([]float64, tt.Frames)

	position, velocity := 0.0, 0.0
	for i := range angles {
		angles[i] = position
		position, velocity = spring.Update(position, velocity, tt.TargetAngle)
	}
	return angles
}

// OrbitCamera rotates the camera position about the vertical axis through LookAt
func OrbitCamera(base renderer.CameraConfig, angleDeg float64) renderer.CameraConfig {
	theta := core.DegreesToRadians(angleDeg)
	sin, cos := math.Sincos(theta)

	offset := base.Center.Subtract(base.LookAt)
	rotated := core.NewVec3(
		offset.X*cos+offset.Z*sin,
		offset.Y,
		-offset.X*sin+offset.Z*cos,
	)

	result := base
	result.Center = base.LookAt.Add(rotated)
	return result
}
