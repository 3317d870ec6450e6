package config

import (
	"strings"

	"github.com/spf13/pflag"
)

// Flags holds command-line values until they are overlaid on a loaded Config
type Flags struct {
	fs     *pflag.FlagSet
	values Config
}

// RegisterFlags adds one flag per Config field to fs
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	d := Default()

	fs.StringVarP(&f.values.Scene, "scene", "s", d.Scene, "built-in scene name (see 'scenes')")
	fs.StringVar(&f.values.GLTFPath, "gltf", "", "load the scene from a glTF file instead")
	fs.IntVarP(&f.values.Width, "width", "w", 0, "image width in pixels (default: scene's)")
	fs.Float64Var(&f.values.AspectRatio, "aspect", 0, "aspect ratio width/height (default: scene's)")
	fs.IntVarP(&f.values.SamplesPerPixel, "samples", "n", 0, "samples per pixel (default: scene's)")
	fs.IntVar(&f.values.MaxDepth, "depth", 0, "maximum ray bounce depth (default: scene's)")
	fs.Int64Var(&f.values.Seed, "seed", 0, "random seed for scene layout and sampling (default: scene's)")
	fs.StringVarP(&f.values.Format, "format", "f", "", "output format: ppm or png (default: from output path)")
	fs.StringVarP(&f.values.Output, "output", "o", "", "output file ('-' or empty for stdout)")
	fs.BoolVarP(&f.values.Preview, "preview", "p", false, "draw each pass in the terminal")
	fs.IntVar(&f.values.Passes, "passes", d.Passes, "progressive passes")
	fs.Float64Var(&f.values.VFov, "vfov", 0, "vertical field of view in degrees (default: scene's)")
	fs.Float64Var(&f.values.Aperture, "aperture", 0, "lens aperture, 0 for a pinhole (default: scene's)")
	fs.Float64Var(&f.values.FocusDistance, "focus", 0, "focus distance (default: scene's)")
	return f
}

// Apply copies the flags the user actually set onto cfg.
// Changed is read per flag so values parsed by a subcommand's merged flag set count too.
func (f *Flags) Apply(cfg *Config) {
	f.fs.VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			return
		}
		switch flag.Name {
		case "scene":
			cfg.Scene = f.values.Scene
		case "gltf":
			cfg.GLTFPath = f.values.GLTFPath
		case "width":
			cfg.Width = f.values.Width
		case "aspect":
			cfg.AspectRatio = f.values.AspectRatio
		case "samples":
			cfg.SamplesPerPixel = f.values.SamplesPerPixel
		case "depth":
			cfg.MaxDepth = f.values.MaxDepth
		case "seed":
			cfg.Seed = f.values.Seed
			cfg.seedSet = true
		case "format":
			cfg.Format = strings.ToLower(f.values.Format)
		case "output":
			cfg.Output = f.values.Output
		case "preview":
			cfg.Preview = f.values.Preview
		case "passes":
			cfg.Passes = f.values.Passes
		case "vfov":
			cfg.VFov = f.values.VFov
		case "aperture":
			cfg.Aperture = f.values.Aperture
			cfg.apertureSet = true
		case "focus":
			cfg.FocusDistance = f.values.FocusDistance
		}
	})
}
