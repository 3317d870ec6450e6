package renderer

import (
	"context"
	"image"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int // Size of each tile (64x64 recommended)
	InitialSamples     int // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int // Maximum total samples per pixel
	MaxPasses          int // Maximum number of passes
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           DefaultTileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: 50,
		MaxPasses:          7, // 1, then evenly spread up to 50
	}
}

// PassResult contains the result of a single pass.
// Frame is shared with the renderer and keeps accumulating after the callback returns.
type PassResult struct {
	PassNumber int
	Frame      *Frame
	Stats      RenderStats
	IsLast     bool
}

// ProgressiveRaytracer refines a frame over multiple passes, each adding samples to every pixel
type ProgressiveRaytracer struct {
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile
	frame         *Frame
	tileRenderer  *TileRenderer
	logger        core.Logger
}

// NewProgressiveRaytracer creates a new progressive raytracer
func NewProgressiveRaytracer(world geometry.Hittable, camera *Camera, integratorInst integrator.Integrator, sampling SamplingConfig, config ProgressiveConfig, logger core.Logger) *ProgressiveRaytracer {
	if logger == nil {
		logger = NopLogger{}
	}
	if config.TileSize <= 0 {
		config.TileSize = DefaultTileSize
	}
	if config.MaxPasses <= 0 {
		config.MaxPasses = 1
	}
	config.InitialSamples = max(1, min(config.InitialSamples, config.MaxSamplesPerPixel))

	width, height := camera.Width(), camera.Height()
	return &ProgressiveRaytracer{
		width:        width,
		height:       height,
		config:       config,
		tiles:        NewTileGrid(width, height, config.TileSize, sampling.Seed),
		frame:        NewFrame(width, height),
		tileRenderer: NewTileRenderer(world, camera, integratorInst, sampling),
		logger:       logger,
	}
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	// For multiple passes: first pass is quick preview
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	// Calculate target total samples for this pass
	targetSamples := pr.config.InitialSamples + (passNumber-1)*samplesPerPass

	// For the final pass, use all remaining samples
	if passNumber == pr.config.MaxPasses {
		targetSamples = pr.config.MaxSamplesPerPixel
	}

	return targetSamples
}

// RenderPass brings every tile up to the sample target of the given pass
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context, passNumber int) (RenderStats, error) {
	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Printf("Pass %d: Target %d samples per pixel...\n", passNumber, targetSamples)

	for _, tile := range pr.tiles {
		if err := ctx.Err(); err != nil {
			return RenderStats{}, err
		}
		pr.tileRenderer.RenderTileBounds(tile.Bounds, pr.frame.Pixels, tile.Sampler, targetSamples)
		tile.PassesCompleted++
	}

	return pr.frame.Stats(targetSamples), nil
}

// RenderProgressive runs passes until MaxPasses or MaxSamplesPerPixel is reached.
// onPass is called after each pass; returning an error stops rendering with that error.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, onPass func(PassResult) error) (*Frame, error) {
	pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

	for pass := 1; pass <= pr.config.MaxPasses; pass++ {
		if err := ctx.Err(); err != nil {
			pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
			return pr.frame, err
		}

		startTime := time.Now()
		stats, err := pr.RenderPass(ctx, pass)
		if err != nil {
			pr.logger.Printf("Rendering cancelled during pass %d\n", pass)
			return pr.frame, err
		}

		actualSamples := int(stats.AverageSamples)
		pr.logger.Printf("Pass %d completed in %v (actual: %d samples/pixel)\n",
			pass, time.Since(startTime), actualSamples)

		isLast := pass == pr.config.MaxPasses || actualSamples >= pr.config.MaxSamplesPerPixel
		if onPass != nil {
			if err := onPass(PassResult{PassNumber: pass, Frame: pr.frame, Stats: stats, IsLast: isLast}); err != nil {
				return pr.frame, err
			}
		}

		if isLast {
			break
		}
	}

	return pr.frame, nil
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int             // Number of passes completed for this tile
	Sampler         core.Sampler    // Tile-specific sampler for deterministic results
}

// NewTile creates a new tile whose sampler is seeded from seed+id
func NewTile(id int, bounds image.Rectangle, seed int64) *Tile {
	return &Tile{
		ID:              id,
		Bounds:          bounds,
		PassesCompleted: 0,
		Sampler:         core.NewSeededSampler(seed + int64(id)),
	}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int, seed int64) []*Tile {
	var tiles []*Tile
	tileID := 0

	// Calculate number of tiles in each dimension
	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			// Calculate tile bounds
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			bounds := image.Rect(x0, y0, x1, y1)
			tiles = append(tiles, NewTile(tileID, bounds, seed))
			tileID++
		}
	}

	return tiles
}
