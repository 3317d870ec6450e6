package renderer

import (
	"context"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
)

// DefaultTileSize is the edge length of a render tile in pixels
const DefaultTileSize = 64

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel    int     // Number of rays per pixel
	MaxDepth           int     // Maximum ray bounce depth
	Seed               int64   // Base seed; tile n samples from Seed+n
	AdaptiveMinSamples float64 // Minimum samples as percentage of max samples (0.0-1.0)
	AdaptiveThreshold  float64 // Relative error threshold for adaptive convergence (0 disables)
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel:    100,
		MaxDepth:           50,
		Seed:               42,
		AdaptiveMinSamples: 0.1,
		AdaptiveThreshold:  0,
	}
}

// MergeSamplingConfig returns base with every non-zero field of override applied
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	result := base
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.Seed != 0 {
		result.Seed = override.Seed
	}
	if override.AdaptiveMinSamples != 0 {
		result.AdaptiveMinSamples = override.AdaptiveMinSamples
	}
	if override.AdaptiveThreshold != 0 {
		result.AdaptiveThreshold = override.AdaptiveThreshold
	}
	return result
}

// Raytracer renders a full frame in a single pass
type Raytracer struct {
	world      geometry.Hittable
	camera     *Camera
	integrator integrator.Integrator
	config     SamplingConfig
	tileSize   int
	logger     core.Logger
}

// NewRaytracer creates a new raytracer. Image size comes from the camera.
func NewRaytracer(world geometry.Hittable, camera *Camera, integratorInst integrator.Integrator, config SamplingConfig, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Raytracer{
		world:      world,
		camera:     camera,
		integrator: integratorInst,
		config:     config,
		tileSize:   DefaultTileSize,
		logger:     logger,
	}
}

// SetTileSize changes the tile edge length
func (rt *Raytracer) SetTileSize(tileSize int) {
	rt.tileSize = max(1, tileSize)
}

// Render samples every pixel up to SamplesPerPixel and returns the accumulated frame.
// Cancellation is checked between tiles.
func (rt *Raytracer) Render(ctx context.Context) (*Frame, RenderStats, error) {
	startTime := time.Now()
	width, height := rt.camera.Width(), rt.camera.Height()

	frame := NewFrame(width, height)
	tiles := NewTileGrid(width, height, rt.tileSize, rt.config.Seed)
	tileRenderer := NewTileRenderer(rt.world, rt.camera, rt.integrator, rt.config)

	rt.logger.Printf("Rendering %dx%d with %d samples per pixel, max depth %d (%d tiles)...\n",
		width, height, rt.config.SamplesPerPixel, rt.config.MaxDepth, len(tiles))

	for n, tile := range tiles {
		if err := ctx.Err(); err != nil {
			rt.logger.Printf("Rendering cancelled with %d tiles remaining\n", len(tiles)-n)
			return nil, RenderStats{}, err
		}
		tileRenderer.RenderTileBounds(tile.Bounds, frame.Pixels, tile.Sampler, rt.config.SamplesPerPixel)
		tile.PassesCompleted++
		rt.logger.Printf("\rTiles remaining: %d ", len(tiles)-n-1)
	}

	stats := frame.Stats(rt.config.SamplesPerPixel)
	rt.logger.Printf("\nRender completed in %v (%.1f samples/pixel)\n", time.Since(startTime), stats.AverageSamples)
	return frame, stats, nil
}
