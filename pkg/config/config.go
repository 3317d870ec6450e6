// Package config resolves render settings from defaults, a .env file, the
// environment and command-line flags, in that order of increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/df07/go-weekend-raytracer/pkg/output"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// ErrInvalidConfig is wrapped by every validation and parse failure
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "RAYTRACER_"

// EnvFileVar names the variable holding the .env path
const EnvFileVar = EnvPrefix + "ENV_FILE"

// Config holds everything needed to pick a scene and render it.
// Zero numeric fields keep the scene's own value.
type Config struct {
	Scene           string  // Built-in scene name
	GLTFPath        string  // glTF file to load instead of a built-in scene
	Width           int     // Image width in pixels
	AspectRatio     float64 // Width / height
	SamplesPerPixel int
	MaxDepth        int
	Seed            int64  // Base seed for layouts and pixel sampling; only used when set
	Format          string // "ppm", "png" or empty to infer from Output
	Output          string // Destination path; empty or "-" writes to stdout
	Preview         bool   // Draw each pass in the terminal
	Passes          int    // Progressive passes; 1 renders in a single pass
	VFov            float64
	Aperture        float64
	FocusDistance   float64

	// Zero is a meaningful value for these, so they track being set explicitly
	seedSet     bool
	apertureSet bool
}

// Default returns the built-in settings. Image size, sampling and camera
// settings are left to the chosen scene.
func Default() Config {
	return Config{
		Scene:  "default",
		Passes: 1,
	}
}

// Load returns defaults overlaid with the .env file and RAYTRACER_* variables.
// Values already present in the environment win over the .env file.
func Load() (Config, error) {
	envFile := os.Getenv(EnvFileVar)
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
	}

	cfg := Default()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	get := func(name string) (string, bool) {
		value, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(value), ok && strings.TrimSpace(value) != ""
	}
	parseInt := func(name string, dst *int) {
		if value, ok := get(name); ok {
			n, err := strconv.Atoi(value)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s%s=%q is not an integer", ErrInvalidConfig, EnvPrefix, name, value))
				return
			}
			*dst = n
		}
	}
	parseFloat := func(name string, dst *float64) {
		if value, ok := get(name); ok {
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s%s=%q is not a number", ErrInvalidConfig, EnvPrefix, name, value))
				return
			}
			*dst = f
		}
	}

	if value, ok := get("SCENE"); ok {
		c.Scene = value
	}
	if value, ok := get("GLTF"); ok {
		c.GLTFPath = value
	}
	if value, ok := get("FORMAT"); ok {
		c.Format = strings.ToLower(value)
	}
	if value, ok := get("OUTPUT"); ok {
		c.Output = value
	}
	if value, ok := get("PREVIEW"); ok {
		b, err := strconv.ParseBool(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %sPREVIEW=%q is not a boolean", ErrInvalidConfig, EnvPrefix, value))
		}
		c.Preview = b
	}
	if value, ok := get("SEED"); ok {
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %sSEED=%q is not an integer", ErrInvalidConfig, EnvPrefix, value))
		}
		c.Seed = seed
		c.seedSet = true
	}
	parseInt("WIDTH", &c.Width)
	parseInt("SAMPLES", &c.SamplesPerPixel)
	parseInt("MAX_DEPTH", &c.MaxDepth)
	parseInt("PASSES", &c.Passes)
	parseFloat("ASPECT_RATIO", &c.AspectRatio)
	parseFloat("VFOV", &c.VFov)
	if _, ok := get("APERTURE"); ok {
		parseFloat("APERTURE", &c.Aperture)
		c.apertureSet = true
	}
	parseFloat("FOCUS_DISTANCE", &c.FocusDistance)

	return errors.Join(errs...)
}

// Validate reports every setting that cannot be rendered. Scene-dependent
// limits are checked after merging by ValidateRender.
func (c Config) Validate() error {
	var errs []error
	if c.Width < 0 {
		errs = append(errs, fmt.Errorf("%w: width cannot be negative, got %d", ErrInvalidConfig, c.Width))
	}
	if c.AspectRatio < 0 {
		errs = append(errs, fmt.Errorf("%w: aspect ratio cannot be negative, got %g", ErrInvalidConfig, c.AspectRatio))
	}
	if c.SamplesPerPixel < 0 {
		errs = append(errs, fmt.Errorf("%w: samples per pixel cannot be negative, got %d", ErrInvalidConfig, c.SamplesPerPixel))
	}
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("%w: max depth cannot be negative, got %d", ErrInvalidConfig, c.MaxDepth))
	}
	if c.Passes <= 0 {
		errs = append(errs, fmt.Errorf("%w: passes must be positive, got %d", ErrInvalidConfig, c.Passes))
	}
	if c.VFov < 0 || c.VFov >= 180 {
		errs = append(errs, fmt.Errorf("%w: vertical fov must be in [0, 180), got %g", ErrInvalidConfig, c.VFov))
	}
	if c.Aperture < 0 || c.FocusDistance < 0 {
		errs = append(errs, fmt.Errorf("%w: aperture and focus distance cannot be negative", ErrInvalidConfig))
	}
	switch c.Format {
	case "", output.FormatPPM, output.FormatPNG:
	default:
		errs = append(errs, fmt.Errorf("%w: %w: %q", ErrInvalidConfig, output.ErrUnknownFormat, c.Format))
	}
	if c.Format == output.FormatPNG && c.WritesStdout() {
		errs = append(errs, fmt.Errorf("%w: png output needs a file path", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// WritesStdout reports whether the image goes to standard output
func (c Config) WritesStdout() bool {
	return c.Output == "" || c.Output == "-"
}

// OutputFormat returns the explicit format or one inferred from the output path
func (c Config) OutputFormat() string {
	if c.Format != "" {
		return c.Format
	}
	if c.WritesStdout() {
		return output.FormatPPM
	}
	return output.FormatFromPath(c.Output)
}

// ValidateRender checks the camera and sampling settings a scene ends up with
func ValidateRender(camera renderer.CameraConfig, sampling renderer.SamplingConfig) error {
	var errs []error
	if camera.Width <= 0 {
		errs = append(errs, fmt.Errorf("%w: width must be positive, got %d", ErrInvalidConfig, camera.Width))
	}
	if camera.AspectRatio <= 0 {
		errs = append(errs, fmt.Errorf("%w: aspect ratio must be positive, got %g", ErrInvalidConfig, camera.AspectRatio))
	} else if camera.ImageHeight() <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d pixels wide at aspect %g leaves no rows", ErrInvalidConfig, camera.Width, camera.AspectRatio))
	}
	if sampling.SamplesPerPixel <= 0 {
		errs = append(errs, fmt.Errorf("%w: samples per pixel must be positive, got %d", ErrInvalidConfig, sampling.SamplesPerPixel))
	}
	if sampling.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("%w: max depth must be positive, got %d", ErrInvalidConfig, sampling.MaxDepth))
	}
	return errors.Join(errs...)
}

// LayoutSeed returns the configured seed, or fallback when none was set
func (c Config) LayoutSeed(fallback int64) int64 {
	if c.seedSet {
		return c.Seed
	}
	return fallback
}

// ApplyCamera overlays the configured camera settings on a scene's camera.
// An explicitly set aperture of 0 turns defocus blur off.
func (c Config) ApplyCamera(base renderer.CameraConfig) renderer.CameraConfig {
	result := renderer.MergeCameraConfig(base, renderer.CameraConfig{
		Width:         c.Width,
		AspectRatio:   c.AspectRatio,
		VFov:          c.VFov,
		Aperture:      c.Aperture,
		FocusDistance: c.FocusDistance,
	})
	if c.apertureSet {
		result.Aperture = c.Aperture
	}
	return result
}

// ApplySampling overlays the configured sampling settings on a scene's own
func (c Config) ApplySampling(base renderer.SamplingConfig) renderer.SamplingConfig {
	result := renderer.MergeSamplingConfig(base, renderer.SamplingConfig{
		SamplesPerPixel: c.SamplesPerPixel,
		MaxDepth:        c.MaxDepth,
	})
	if c.seedSet {
		result.Seed = c.Seed
	}
	return result
}

// ProgressiveConfig spreads samplesPerPixel over Passes
func (c Config) ProgressiveConfig(samplesPerPixel int) renderer.ProgressiveConfig {
	progressive := renderer.DefaultProgressiveConfig()
	progressive.MaxSamplesPerPixel = samplesPerPixel
	progressive.MaxPasses = c.Passes
	return progressive
}
