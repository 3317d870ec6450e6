package scene

import (
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// NewRandomScene creates the cover scene: a field of small random spheres around three large ones.
// The same seed always produces the same scene.
func NewRandomScene(seed int64, cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         1200,
		AspectRatio:   3.0 / 2.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}
	cameraConfig := applyCameraOverrides(defaultCameraConfig, cameraOverrides)

	samplingConfig := renderer.DefaultSamplingConfig()
	samplingConfig.SamplesPerPixel = 500
	samplingConfig.Seed = seed

	s := New("random", cameraConfig, samplingConfig)
	random := rand.New(rand.NewSource(seed))

	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))

	// Keep small spheres away from the metal sphere at (4, 0.2, 0)
	clearing := core.NewVec3(4, 0.2, 0)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := random.Float64()
			center := core.NewVec3(float64(a)+0.9*random.Float64(), 0.2, float64(b)+0.9*random.Float64())

			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			var sphereMaterial material.Material
			switch {
			case chooseMat < 0.8:
				// Diffuse: saturated hues darkened toward the palette of the cover image
				sphereMaterial = material.NewLambertian(randomPaletteColor(random, 0.2, 0.9, 0.2, 1.0))
			case chooseMat < 0.95:
				// Metal: pale tints with varying fuzz
				albedo := randomPaletteColor(random, 0.0, 0.5, 0.5, 1.0)
				sphereMaterial = material.NewMetal(albedo, 0.5*random.Float64())
			default:
				sphereMaterial = material.NewDielectric(1.5)
			}

			s.Add(geometry.NewSphere(center, 0.2, sphereMaterial))
		}
	}

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)

	return s
}

// randomPaletteColor draws an HSV color with saturation and value in the given ranges,
// returned as linear RGB
func randomPaletteColor(random *rand.Rand, minSat, maxSat, minVal, maxVal float64) core.Vec3 {
	hue := random.Float64() * 360.0
	saturation := minSat + random.Float64()*(maxSat-minSat)
	value := minVal + random.Float64()*(maxVal-minVal)
	return colorToVec3(colorful.Hsv(hue, saturation, value))
}

// colorToVec3 converts a display color to the linear RGB the renderer works in
func colorToVec3(c colorful.Color) core.Vec3 {
	r, g, b := c.Clamped().LinearRgb()
	return core.NewVec3(r, g, b)
}
