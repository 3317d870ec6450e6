package integrator

import (
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

var (
	skyBlue = core.NewVec3(0.5, 0.7, 1.0)
	white   = core.NewVec3(1.0, 1.0, 1.0)
)

// absorber is a material that never scatters
type absorber struct{}

func (absorber) Scatter(core.Ray, material.HitRecord, core.Sampler) (material.ScatterResult, bool) {
	return material.ScatterResult{}, false
}

// createTestWorld creates a single sphere in front of the origin
func createTestWorld(mat material.Material) *geometry.HittableList {
	return geometry.NewHittableList(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, mat))
}

func TestPathTracing_DepthTermination(t *testing.T) {
	world := createTestWorld(material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3)))
	integrator := NewPathTracingIntegrator(50, skyBlue, white)
	sampler := core.NewSeededSampler(42)

	// Even a ray that misses everything returns black once depth is spent
	tests := []struct {
		name  string
		ray   core.Ray
		depth int
	}{
		{"Depth 0 toward sphere", core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0},
		{"Depth 0 toward sky", core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)), 0},
		{"Negative depth", core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)), -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color := integrator.RayColor(tt.ray, world, tt.depth, sampler)
			if color != (core.Vec3{}) {
				t.Errorf("Expected black, got %v", color)
			}
		})
	}
}

func TestPathTracing_BackgroundGradient(t *testing.T) {
	integrator := NewPathTracingIntegrator(10, skyBlue, white)
	world := geometry.NewHittableList()
	sampler := core.NewSeededSampler(42)

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"Straight up is sky blue", core.NewVec3(0, 1, 0), skyBlue},
		{"Straight down is white", core.NewVec3(0, -1, 0), white},
		{"Horizon is the midpoint", core.NewVec3(0, 0, -1), core.NewVec3(0.75, 0.85, 1.0)},
		{"Direction length does not matter", core.NewVec3(0, 5, 0), skyBlue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(core.NewVec3(0, 0, 0), tt.direction)
			color := integrator.RayColor(ray, world, 10, sampler)
			if color.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, color)
			}
			if !integrator.BackgroundGradient(ray).Equals(color) {
				t.Errorf("Miss should return exactly the background gradient")
			}
		})
	}
}

func TestPathTracing_AbsorbedRayIsBlack(t *testing.T) {
	world := createTestWorld(absorber{})
	integrator := NewPathTracingIntegrator(10, skyBlue, white)
	sampler := core.NewSeededSampler(42)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if color := integrator.RayColor(ray, world, 10, sampler); color != (core.Vec3{}) {
		t.Errorf("Expected black for absorbed ray, got %v", color)
	}
}

func TestPathTracing_SingleBounceBudget(t *testing.T) {
	world := createTestWorld(material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3)))
	integrator := NewPathTracingIntegrator(10, skyBlue, white)
	sampler := core.NewSeededSampler(42)

	// One bounce of budget: the scattered ray arrives with depth 0
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if color := integrator.RayColor(ray, world, 1, sampler); color != (core.Vec3{}) {
		t.Errorf("Expected black with a single bounce, got %v", color)
	}
}

func TestPathTracing_MirrorReflectsSky(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.6, 0.2)
	world := createTestWorld(material.NewMetal(albedo, 0.0))
	integrator := NewPathTracingIntegrator(10, skyBlue, white)
	sampler := core.NewSeededSampler(42)

	// Head-on ray bounces straight back toward +z and escapes to the horizon
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	expected := albedo.MultiplyVec(core.NewVec3(0.75, 0.85, 1.0))

	color := integrator.RayColor(ray, world, 10, sampler)
	if color.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected %v, got %v", expected, color)
	}
}

func TestPathTracing_RadianceUsesMaxDepth(t *testing.T) {
	world := createTestWorld(material.NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.0))
	sampler := core.NewSeededSampler(1)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if color := NewPathTracingIntegrator(0, skyBlue, white).Radiance(ray, world, sampler); color != (core.Vec3{}) {
		t.Errorf("MaxDepth 0 should render black, got %v", color)
	}
	if color := NewPathTracingIntegrator(2, skyBlue, white).Radiance(ray, world, sampler); color == (core.Vec3{}) {
		t.Errorf("MaxDepth 2 should reach the sky after one mirror bounce")
	}
}

func TestPathTracing_ShadowAcneGuard(t *testing.T) {
	// A ray starting exactly on the sphere surface heading outward must not re-hit it
	world := createTestWorld(absorber{})
	integrator := NewPathTracingIntegrator(10, skyBlue, white)
	sampler := core.NewSeededSampler(42)

	ray := core.NewRay(core.NewVec3(0, 0, -0.5), core.NewVec3(0, 1, 1))
	color := integrator.RayColor(ray, world, 10, sampler)
	if color == (core.Vec3{}) {
		t.Errorf("Outgoing surface ray self-intersected")
	}
}

var _ Integrator = (*PathTracingIntegrator)(nil)
