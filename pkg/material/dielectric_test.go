package material

import (
	"math"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

func TestReflectance(t *testing.T) {
	tests := []struct {
		name     string
		cosine   float64
		ratio    float64
		expected float64
	}{
		{"Normal incidence air to glass", 1.0, 1.0 / 1.5, 0.04},
		{"Normal incidence glass to air", 1.0, 1.5, 0.04},
		{"Grazing incidence reflects fully", 0.0, 1.0 / 1.5, 1.0},
		{"Matched indices never reflect", 0.3, 1.0, 0.0},
		{"Matched indices at grazing angle", 0.0, 1.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Reflectance(tt.cosine, tt.ratio)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Reflectance(%f, %f) = %f, expected %f", tt.cosine, tt.ratio, result, tt.expected)
			}
		})
	}
}

func TestDielectric_IndexOneIsTransparent(t *testing.T) {
	glass := NewDielectric(1.0)

	direction := core.NewVec3(1, -2, 0.5)
	rayIn := core.NewRay(core.NewVec3(-1, 2, -0.5), direction)
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		FrontFace: true,
	}

	// Even the smallest reflection draw must not reflect
	sampler := fixedSampler{value1D: 0}

	scatter, didScatter := glass.Scatter(rayIn, hit, sampler)
	if !didScatter {
		t.Fatal("Dielectric should always scatter")
	}

	expected := direction.Normalize()
	if scatter.Scattered.Direction.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected undeviated direction %v, got %v", expected, scatter.Scattered.Direction)
	}
}

func TestDielectric_TotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)

	// Exiting the glass at a shallow angle: sin(theta) * 1.5 > 1
	direction := core.NewVec3(1, -0.2, 0).Normalize()
	rayIn := core.NewRay(core.NewVec3(-1, 0.2, 0), direction)
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		FrontFace: false,
	}

	// A draw of 0.999 would otherwise choose refraction
	sampler := fixedSampler{value1D: 0.999}

	scatter, didScatter := glass.Scatter(rayIn, hit, sampler)
	if !didScatter {
		t.Fatal("Dielectric should always scatter")
	}

	expected := core.Reflect(direction, hit.Normal)
	if scatter.Scattered.Direction.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected reflection %v, got %v", expected, scatter.Scattered.Direction)
	}
}

func TestDielectric_RefractsIntoGlass(t *testing.T) {
	glass := NewDielectric(1.5)

	direction := core.NewVec3(math.Sin(math.Pi/4), -math.Cos(math.Pi/4), 0)
	rayIn := core.NewRay(core.NewVec3(-1, 1, 0), direction)
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		FrontFace: true,
	}

	// Draw above the Fresnel reflectance picks refraction
	sampler := fixedSampler{value1D: 0.99}

	scatter, _ := glass.Scatter(rayIn, hit, sampler)
	out := scatter.Scattered.Direction

	if out.Y >= 0 {
		t.Fatalf("Refracted ray should continue into the surface, got %v", out)
	}
	// Bent toward the normal when entering a denser medium
	sinOut := math.Abs(out.X) / out.Length()
	expectedSin := math.Sin(math.Pi/4) / 1.5
	if math.Abs(sinOut-expectedSin) > 1e-9 {
		t.Errorf("Expected sin(out)=%f, got %f", expectedSin, sinOut)
	}
}

func TestDielectric_AttenuationIsWhite(t *testing.T) {
	glass := NewDielectric(1.5)
	sampler := core.NewSeededSampler(42)

	rayIn := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0.3, -1, 0))
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		FrontFace: true,
	}

	white := core.NewVec3(1, 1, 1)
	for i := 0; i < 100; i++ {
		scatter, didScatter := glass.Scatter(rayIn, hit, sampler)
		if !didScatter {
			t.Fatal("Dielectric should always scatter")
		}
		if !scatter.Attenuation.Equals(white) {
			t.Fatalf("Expected white attenuation, got %v", scatter.Attenuation)
		}
	}
}
