package scene

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// oklchToRGB converts OKLCH color values to linear RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	return colorToVec3(colorful.OkLch(l, c, h))
}

// NewSphereGridScene creates a scene with a 10x10 grid of spheres
func NewSphereGridScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	// Default camera configuration for sphere grid
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(4.5, 6, 18),    // Position camera farther back and slightly lower
		LookAt:        core.NewVec3(4.5, 0.8, 4.5), // Look at center of grid, slightly lower
		Up:            core.NewVec3(0, 1, 0),       // Standard up direction
		Width:         800,
		AspectRatio:   16.0 / 9.0, // 16:9 aspect ratio
		VFov:          40.0,       // Slightly narrower field of view for better framing
		Aperture:      0.02,       // Small depth of field for some focus variation
		FocusDistance: 0.0,        // Auto-calculate focus distance
	}
	cameraConfig := applyCameraOverrides(defaultCameraConfig, cameraOverrides)

	samplingConfig := renderer.SamplingConfig{
		SamplesPerPixel:    100,
		MaxDepth:           40,
		Seed:               42,
		AdaptiveMinSamples: 0.06,  // Standard minimum for adaptive sampling
		AdaptiveThreshold:  0.015, // 1.5% relative error threshold
	}

	s := New("spheregrid", cameraConfig, samplingConfig)

	// Ground is a huge gray sphere whose top sits at y=0
	s.Add(geometry.NewSphere(core.NewVec3(4.5, -10000, 4.5), 10000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))

	gridSize := 10

	// Target area: roughly 9x9 units (to fit nicely in camera view)
	targetArea := 9.0
	spacing := targetArea / float64(gridSize-1)
	sphereRadius := math.Min(0.35, spacing*0.35)

	// OKLCH parameters for color variation
	baseLightness := 0.65 // Keep lightness relatively constant for uniform appearance
	minChroma := 0.05     // Minimum chroma (near white/gray)
	maxChroma := 0.25     // Maximum chroma (vivid colors)

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5 // Center around x=4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5 // Center around z=4.5
			position := core.NewVec3(x, sphereRadius, z)

			// Hue varies across X, chroma across Z
			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)
			color := oklchToRGB(lightness, chroma, hue)

			// Checkerboard of metal and diffuse spheres
			var sphereMaterial material.Material
			if (i+j)%2 == 0 {
				roughness := 0.05 + 0.1*float64((i+j)%3)/2.0
				sphereMaterial = material.NewMetal(color, roughness)
			} else {
				sphereMaterial = material.NewLambertian(color)
			}

			s.Add(geometry.NewSphere(position, sphereRadius, sphereMaterial))
		}
	}

	return s
}
