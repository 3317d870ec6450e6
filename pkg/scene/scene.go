package scene

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	World          *geometry.HittableList // Objects in the scene
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig
	TopColor       core.Vec3 // Sky color straight up
	BottomColor    core.Vec3 // Sky color toward the horizon and below
}

// New creates an empty scene with the standard blue sky
func New(name string, cameraConfig renderer.CameraConfig, samplingConfig renderer.SamplingConfig) *Scene {
	return &Scene{
		Name:           name,
		World:          geometry.NewHittableList(),
		CameraConfig:   cameraConfig,
		SamplingConfig: samplingConfig,
		TopColor:       core.NewVec3(0.5, 0.7, 1.0), // Blue sky
		BottomColor:    core.NewVec3(1.0, 1.0, 1.0), // White horizon
	}
}

// Add appends objects to the scene
func (s *Scene) Add(objects ...geometry.Hittable) {
	for _, object := range objects {
		s.World.Add(object)
	}
}

// Clear removes every object from the scene
func (s *Scene) Clear() {
	s.World.Clear()
}

// Camera builds the camera described by CameraConfig
func (s *Scene) Camera() *renderer.Camera {
	return renderer.NewCamera(s.CameraConfig)
}

// Integrator builds the path tracer for this scene's depth and sky
func (s *Scene) Integrator() *integrator.PathTracingIntegrator {
	return integrator.NewPathTracingIntegrator(s.SamplingConfig.MaxDepth, s.TopColor, s.BottomColor)
}

// NewRaytracer wires the scene into a single-pass raytracer
func (s *Scene) NewRaytracer(logger core.Logger) *renderer.Raytracer {
	return renderer.NewRaytracer(s.World, s.Camera(), s.Integrator(), s.SamplingConfig, logger)
}

// NewProgressiveRaytracer wires the scene into a progressive raytracer
func (s *Scene) NewProgressiveRaytracer(config renderer.ProgressiveConfig, logger core.Logger) *renderer.ProgressiveRaytracer {
	return renderer.NewProgressiveRaytracer(s.World, s.Camera(), s.Integrator(), s.SamplingConfig, config, logger)
}

// applyCameraOverrides merges the first override, if any, into defaults
func applyCameraOverrides(defaults renderer.CameraConfig, overrides []renderer.CameraConfig) renderer.CameraConfig {
	if len(overrides) > 0 {
		return renderer.MergeCameraConfig(defaults, overrides[0])
	}
	return defaults
}
