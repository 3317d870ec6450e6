package renderer

import (
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

func TestPixelStats_AddSample(t *testing.T) {
	var ps PixelStats
	ps.AddSample(core.NewVec3(1, 0, 0))
	ps.AddSample(core.NewVec3(0, 1, 0))
	ps.AddSample(core.NewVec3(0, 0, 1))
	ps.AddSample(core.NewVec3(1, 1, 1))

	if ps.SampleCount != 4 {
		t.Fatalf("Expected 4 samples, got %d", ps.SampleCount)
	}
	if !ps.Sum().Equals(core.NewVec3(2, 2, 2)) {
		t.Errorf("Expected raw sum (2, 2, 2), got %v", ps.Sum())
	}
	if !ps.GetColor().Equals(core.NewVec3(0.5, 0.5, 0.5)) {
		t.Errorf("Expected mean (0.5, 0.5, 0.5), got %v", ps.GetColor())
	}
}

func TestPixelStats_Empty(t *testing.T) {
	var ps PixelStats
	if ps.GetColor() != (core.Vec3{}) {
		t.Errorf("Expected black for an unsampled pixel, got %v", ps.GetColor())
	}
}

func TestFrame_Stats(t *testing.T) {
	frame := NewFrame(2, 2)
	counts := [][]int{{1, 3}, {4, 4}}
	for y, row := range counts {
		for x, n := range row {
			for i := 0; i < n; i++ {
				frame.Pixels[y][x].AddSample(core.NewVec3(1, 1, 1))
			}
		}
	}

	stats := frame.Stats(4)
	expected := RenderStats{
		TotalPixels:    4,
		TotalSamples:   12,
		AverageSamples: 3,
		MaxSamples:     4,
		MinSamples:     1,
		MaxSamplesUsed: 4,
	}
	if stats != expected {
		t.Errorf("Expected %+v, got %+v", expected, stats)
	}
}
