package renderer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

var (
	testSkyTop    = core.NewVec3(0.5, 0.7, 1.0)
	testSkyBottom = core.NewVec3(1.0, 1.0, 1.0)
)

func TestRaytracer_SingleSphereEndToEnd(t *testing.T) {
	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
	)
	camera := NewCamera(CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       11,
		AspectRatio: 1.0,
		VFov:        90.0,
	})
	integ := integrator.NewPathTracingIntegrator(1, testSkyTop, testSkyBottom)
	sampler := core.NewSeededSampler(42)

	for n := 0; n < 100; n++ {
		// Central pixel always lands on the sphere
		center := camera.GetPixelRay(5, 5, sampler)
		if _, isHit := world.Hit(center, integrator.ShadowAcneEpsilon, 1e9); !isHit {
			t.Fatalf("Central ray %v missed the sphere", center.Direction)
		}

		// Corner pixel always sees the sky, with the gradient of its own direction
		for _, corner := range [][2]int{{0, 0}, {10, 0}, {0, 10}, {10, 10}} {
			ray := camera.GetPixelRay(corner[0], corner[1], sampler)
			if _, isHit := world.Hit(ray, integrator.ShadowAcneEpsilon, 1e9); isHit {
				t.Fatalf("Corner ray %v hit the sphere", ray.Direction)
			}
			color := integ.RayColor(ray, world, 1, sampler)
			if !color.Equals(integ.BackgroundGradient(ray)) {
				t.Fatalf("Corner color %v should be the background gradient", color)
			}
		}
	}
}

func TestRaytracer_Render(t *testing.T) {
	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
	)
	camera := createTestCamera(20)
	integ := integrator.NewPathTracingIntegrator(5, testSkyTop, testSkyBottom)

	var logs bytes.Buffer
	rt := NewRaytracer(world, camera, integ, SamplingConfig{SamplesPerPixel: 3, MaxDepth: 5, Seed: 7}, NewDefaultLogger(&logs))
	rt.SetTileSize(8)

	frame, stats, err := rt.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if frame.Width != 20 || frame.Height != 20 {
		t.Fatalf("Expected 20x20 frame, got %dx%d", frame.Width, frame.Height)
	}
	if stats.TotalSamples != 20*20*3 || stats.MinSamples != 3 {
		t.Errorf("Expected every pixel to take 3 samples, got %+v", stats)
	}

	// Top row looks at the sky, which is bluer than the bottom row's ground reflection
	top := frame.Pixels[0][0].GetColor()
	if top.Z < top.X {
		t.Errorf("Expected a sky-blue top-left pixel, got %v", top)
	}

	if !strings.Contains(logs.String(), "Render completed") {
		t.Errorf("Expected completion log line, got %q", logs.String())
	}
}

func TestRaytracer_RenderDeterministic(t *testing.T) {
	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewDielectric(1.5)),
	)
	integ := integrator.NewPathTracingIntegrator(10, testSkyTop, testSkyBottom)
	config := SamplingConfig{SamplesPerPixel: 2, MaxDepth: 10, Seed: 3}

	first, _, err := NewRaytracer(world, createTestCamera(12), integ, config, nil).Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := NewRaytracer(world, createTestCamera(12), integ, config, nil).Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	for y := range first.Pixels {
		for x := range first.Pixels[y] {
			if !first.Pixels[y][x].Sum().Equals(second.Pixels[y][x].Sum()) {
				t.Fatalf("Pixel (%d,%d) differs between renders with the same seed", x, y)
			}
		}
	}
}

func TestRaytracer_RenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := &MockIntegrator{}
	rt := NewRaytracer(geometry.NewHittableList(), createTestCamera(4), mock, SamplingConfig{SamplesPerPixel: 1}, nil)

	_, _, err := rt.Render(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if mock.callCount != 0 {
		t.Errorf("Cancelled render should not trace rays, traced %d", mock.callCount)
	}
}

func TestMergeSamplingConfig(t *testing.T) {
	base := DefaultSamplingConfig()
	merged := MergeSamplingConfig(base, SamplingConfig{SamplesPerPixel: 8, Seed: 5})

	if merged.SamplesPerPixel != 8 || merged.Seed != 5 {
		t.Errorf("Expected overrides to apply, got %+v", merged)
	}
	if merged.MaxDepth != base.MaxDepth || merged.AdaptiveMinSamples != base.AdaptiveMinSamples {
		t.Errorf("Zero override fields should keep base values, got %+v", merged)
	}
}

func TestDefaultSamplingConfig(t *testing.T) {
	config := DefaultSamplingConfig()
	if config.SamplesPerPixel != 100 || config.MaxDepth != 50 {
		t.Errorf("Expected 100 samples and depth 50, got %+v", config)
	}
}
