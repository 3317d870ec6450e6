package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/df07/go-weekend-raytracer/pkg/animation"
	"github.com/df07/go-weekend-raytracer/pkg/config"
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/loaders"
	"github.com/df07/go-weekend-raytracer/pkg/output"
	"github.com/df07/go-weekend-raytracer/pkg/preview"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// Preview size in terminal cells
const (
	previewCols = 80
	previewRows = 24
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// newRootCmd builds the CLI. Images go to stdout, progress and previews to stderr.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "raytracer",
		Short:         "Path trace a sphere scene to a PPM or PNG image",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := config.RegisterFlags(root.PersistentFlags())

	root.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(flags)
		if err != nil {
			return err
		}
		return runRender(cmd.Context(), cfg, stdout, stderr)
	}

	root.AddCommand(newScenesCmd(stdout), newTurntableCmd(flags, stderr))
	return root
}

func newScenesCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List the built-in scenes",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			fmt.Fprintln(stdout, "Available scenes:")
			for _, info := range scene.List() {
				fmt.Fprintf(stdout, "  %-12s %s\n", info.ID, info.Description)
			}
			return nil
		},
	}
}

func newTurntableCmd(flags *config.Flags, stderr io.Writer) *cobra.Command {
	tt := animation.DefaultTurntable()
	var dir string

	cmd := &cobra.Command{
		Use:   "turntable",
		Short: "Render PNG frames while orbiting the camera around the scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := tt.Validate(); err != nil {
				return err
			}
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return runTurntable(cmd.Context(), cfg, tt, dir, stderr)
		},
	}

	cmd.Flags().IntVar(&tt.Frames, "frames", tt.Frames, "number of frames")
	cmd.Flags().IntVar(&tt.FPS, "fps", tt.FPS, "playback rate the easing is computed for")
	cmd.Flags().Float64Var(&tt.TargetAngle, "angle", tt.TargetAngle, "total orbit in degrees")
	cmd.Flags().Float64Var(&tt.Frequency, "frequency", tt.Frequency, "spring frequency")
	cmd.Flags().Float64Var(&tt.Damping, "damping", tt.Damping, "spring damping ratio")
	cmd.Flags().StringVar(&dir, "dir", "turntable", "directory for frame_NNN.png files")
	return cmd
}

// loadConfig layers flags over the environment and validates the result
func loadConfig(flags *config.Flags) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	flags.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// createScene builds the configured scene, then overlays and validates the camera and sampling settings
func createScene(cfg config.Config) (*scene.Scene, error) {
	var s *scene.Scene
	if cfg.GLTFPath != "" {
		loaded, err := loaders.LoadGLTFScene(cfg.GLTFPath)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", cfg.GLTFPath, err)
		}
		s = loaded
	} else {
		builtin, err := scene.LookupSeeded(cfg.Scene, cfg.LayoutSeed(scene.DefaultSeed))
		if err != nil {
			return nil, err
		}
		s = builtin
	}

	s.CameraConfig = cfg.ApplyCamera(s.CameraConfig)
	s.SamplingConfig = cfg.ApplySampling(s.SamplingConfig)
	if err := config.ValidateRender(s.CameraConfig, s.SamplingConfig); err != nil {
		return nil, err
	}
	return s, nil
}

func runRender(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) error {
	s, err := createScene(cfg)
	if err != nil {
		return err
	}
	logger := renderer.NewDefaultLogger(stderr)
	logger.Printf("Rendering scene %q at %dx%d, %d samples per pixel\n",
		s.Name, s.CameraConfig.Width, s.CameraConfig.ImageHeight(), s.SamplingConfig.SamplesPerPixel)

	frame, err := renderFrame(ctx, s, cfg, logger, stderr)
	if err != nil {
		return err
	}
	return writeFrame(cfg, frame, stdout, logger)
}

// renderFrame renders in one pass unless progressive passes or a preview were asked for
func renderFrame(ctx context.Context, s *scene.Scene, cfg config.Config, logger core.Logger, stderr io.Writer) (*renderer.Frame, error) {
	if cfg.Passes == 1 && !cfg.Preview {
		frame, stats, err := s.NewRaytracer(logger).Render(ctx)
		if err != nil {
			return nil, err
		}
		logger.Printf("Samples per pixel: %.1f (range %d - %d)\n",
			stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)
		return frame, nil
	}

	pr := s.NewProgressiveRaytracer(cfg.ProgressiveConfig(s.SamplingConfig.SamplesPerPixel), logger)
	return pr.RenderProgressive(ctx, func(result renderer.PassResult) error {
		if !cfg.Preview {
			return nil
		}
		fb := preview.FromImage(output.ToImage(result.Frame), previewCols, previewRows)
		return fb.Render(stderr)
	})
}

func writeFrame(cfg config.Config, frame *renderer.Frame, stdout io.Writer, logger core.Logger) error {
	format := cfg.OutputFormat()
	if cfg.WritesStdout() {
		return output.Encode(stdout, frame, format)
	}

	if dir := filepath.Dir(cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := writeFile(cfg.Output, frame, format); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", cfg.Output)
	return nil
}

func writeFile(path string, frame *renderer.Frame, format string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()
	return output.Encode(file, frame, format)
}

func runTurntable(ctx context.Context, cfg config.Config, tt animation.Turntable, dir string, stderr io.Writer) error {
	s, err := createScene(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	logger := renderer.NewDefaultLogger(stderr)
	base := s.CameraConfig
	angles := tt.Angles()
	start := time.Now()

	for i, angle := range angles {
		s.CameraConfig = animation.OrbitCamera(base, angle)
		frame, _, err := s.NewRaytracer(renderer.NopLogger{}).Render(ctx)
		if err != nil {
			return err
		}

		path := filepath.Join(dir, fmt.Sprintf("frame_%03d.png", i))
		if err := writeFile(path, frame, output.FormatPNG); err != nil {
			return err
		}
		logger.Printf("Frame %d/%d (%.1f degrees) saved as %s\n", i+1, len(angles), angle, path)
	}

	logger.Printf("Turntable completed in %v\n", time.Since(start))
	return nil
}
