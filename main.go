package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/output"
	"github.com/df07/go-raycaster/pkg/renderer"
	"github.com/df07/go-raycaster/pkg/scene"
)

// Config holds the command line options
type Config struct {
	SceneType  string
	Width      int // 0 uses the scene's recommendation
	Height     int // 0 uses the scene's recommendation
	Samples    int // 0 uses the scene's recommendation
	Passes     int
	Seed       int64
	OutputPath string
}

func main() {
	// Progress goes to stderr so stdout can carry the image
	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	var config Config
	flag.StringVar(&config.SceneType, "scene", "default", "Scene name ("+strings.Join(scene.Names(), ", ")+") or a path to a .scene file")
	flag.IntVar(&config.Width, "width", 0, "Image width (0 = scene default)")
	flag.IntVar(&config.Height, "height", 0, "Image height (0 = scene default)")
	flag.IntVar(&config.Samples, "samples", 0, "Samples per pixel (0 = scene default)")
	flag.IntVar(&config.Passes, "passes", 1, "Number of progressive passes")
	flag.Int64Var(&config.Seed, "seed", 42, "Random seed for pixel jitter")
	flag.StringVar(&config.OutputPath, "o", output.Stdout, "Output file (.ppm or .png), '-' for PPM on stdout")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Sphere Raycaster")
		fmt.Println("Usage: raycaster [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		for _, info := range scene.ListScenes() {
			fmt.Printf("  %-10s - %s\n", info.ID, info.Description)
		}
		return
	}

	if err := run(context.Background(), config, os.Stdout, core.NewStdLogger(nil)); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// run renders the configured scene and writes it to OutputPath (or stdout)
func run(ctx context.Context, config Config, stdout io.Writer, logger core.Logger) error {
	writeImage, err := output.WriterFor(config.OutputPath)
	if err != nil {
		return err
	}

	selectedScene, err := createScene(config.SceneType)
	if err != nil {
		return err
	}
	applyOverrides(selectedScene, config)
	if err := selectedScene.Validate(); err != nil {
		return err
	}

	sampling := selectedScene.SamplingConfig
	logger.Printf("Rendering scene %q (%d shapes) at %dx%d, %d samples per pixel\n",
		selectedScene.Name, selectedScene.GetPrimitiveCount(), sampling.Width, sampling.Height, sampling.SamplesPerPixel)

	progressiveConfig := renderer.ProgressiveConfig{
		InitialSamples:     1,
		MaxSamplesPerPixel: sampling.SamplesPerPixel,
		MaxPasses:          max(1, config.Passes),
	}
	raytracer := renderer.NewProgressiveRaytracer(selectedScene, selectedScene.Camera,
		sampling.Width, sampling.Height, progressiveConfig, core.NewSeededSampler(config.Seed), logger)

	startTime := time.Now()
	var final renderer.PassResult
	err = raytracer.RenderProgressive(ctx, func(result renderer.PassResult) error {
		final = result
		return nil
	})
	if err != nil {
		return err
	}

	logger.Printf("Render completed in %v\n", time.Since(startTime))
	logger.Printf("Samples per pixel: %.1f (range %d - %d)\n",
		final.Stats.AverageSamples, final.Stats.MinSamples, final.Stats.MaxSamplesUsed)

	if config.OutputPath == output.Stdout {
		return writeImage(stdout, final.Image)
	}

	if dir := filepath.Dir(config.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputPath)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	if err := writeImage(file, final.Image); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing file: %w", err)
	}

	logger.Printf("Render saved as %s\n", config.OutputPath)
	return nil
}

// createScene creates a scene by built-in name or scene file path
func createScene(sceneType string) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, fmt.Errorf("%w: empty scene name", scene.ErrUnknownScene)
	}
	return scene.Create(sceneType)
}

// applyOverrides replaces the scene's recommended sampling settings with non-zero flags
func applyOverrides(s *scene.Scene, config Config) {
	if config.Width > 0 {
		s.SamplingConfig.Width = config.Width
	}
	if config.Height > 0 {
		s.SamplingConfig.Height = config.Height
	}
	if config.Samples > 0 {
		s.SamplingConfig.SamplesPerPixel = config.Samples
	}
}
