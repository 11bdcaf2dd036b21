package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	InitialSamples     int // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int // Maximum total samples per pixel
	MaxPasses          int // Maximum number of passes
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		InitialSamples:     1,
		MaxSamplesPerPixel: 50,
		MaxPasses:          7,
	}
}

// Validate checks that the pass schedule is usable
func (c ProgressiveConfig) Validate() error {
	if c.MaxPasses <= 0 {
		return fmt.Errorf("%w: max passes %d", ErrInvalidConfig, c.MaxPasses)
	}
	if c.MaxSamplesPerPixel <= 0 {
		return fmt.Errorf("%w: max samples per pixel %d", ErrInvalidConfig, c.MaxSamplesPerPixel)
	}
	if c.InitialSamples <= 0 || c.InitialSamples > c.MaxSamplesPerPixel {
		return fmt.Errorf("%w: initial samples %d not in [1, %d]", ErrInvalidConfig, c.InitialSamples, c.MaxSamplesPerPixel)
	}
	return nil
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	Elapsed    time.Duration
	IsLast     bool
}

// ProgressiveRaytracer refines an image over several passes, each adding
// samples to the same per-pixel accumulators. Passes run on the calling
// goroutine and draw from one sampler in a fixed pixel order.
type ProgressiveRaytracer struct {
	width, height int
	config        ProgressiveConfig
	currentPass   int            // Progressive state
	pixelStats    [][]PixelStats // Accumulated pixel statistics, indexed [y][x]
	raytracer     *Raytracer     // Base raytracer for actual rendering
	sampler       core.Sampler
	logger        core.Logger
}

// NewProgressiveRaytracer creates a new progressive raytracer
func NewProgressiveRaytracer(world geometry.Shape, camera *geometry.Camera, width, height int,
	config ProgressiveConfig, sampler core.Sampler, logger core.Logger) *ProgressiveRaytracer {
	if logger == nil {
		logger = core.NopLogger{}
	}

	raytracer := NewRaytracer(world, camera, SamplingConfig{
		Width:           width,
		Height:          height,
		SamplesPerPixel: config.MaxSamplesPerPixel,
	})

	return &ProgressiveRaytracer{
		width:       width,
		height:      height,
		config:      config,
		currentPass: 0,
		pixelStats:  NewPixelStatsGrid(width, height),
		raytracer:   raytracer,
		sampler:     sampler,
		logger:      logger,
	}
}

// SetShader replaces the per-ray shading function of the underlying raytracer
func (pr *ProgressiveRaytracer) SetShader(shade ShadeFunc) {
	pr.raytracer.SetShader(shade)
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	// First pass is a quick preview
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	targetSamples := pr.config.InitialSamples + (passNumber-1)*samplesPerPass

	// For the final pass, use all remaining samples
	if passNumber >= pr.config.MaxPasses {
		targetSamples = pr.config.MaxSamplesPerPixel
	}

	return min(targetSamples, pr.config.MaxSamplesPerPixel)
}

// RenderPass renders pass passNumber, topping every pixel up to that pass's target sample count
func (pr *ProgressiveRaytracer) RenderPass(passNumber int) (*image.RGBA, RenderStats) {
	pr.currentPass = passNumber
	targetSamples := pr.getSamplesForPass(passNumber)

	// Every pixel holds the same count, so the top-left pixel is representative
	current := 0
	if pr.height > 0 && pr.width > 0 {
		current = pr.pixelStats[0][0].SampleCount
	}

	pr.logger.Printf("Pass %d: Target %d samples per pixel (%d new)...\n",
		passNumber, targetSamples, max(0, targetSamples-current))

	if targetSamples > current {
		pr.raytracer.RenderInto(pr.pixelStats, targetSamples-current, pr.sampler)
	}

	return assembleImage(pr.pixelStats, targetSamples)
}

// RenderProgressive runs every pass in order, invoking callback after each one.
// ctx is checked only between passes; a callback error stops rendering and is returned.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, callback func(PassResult) error) error {
	if err := pr.config.Validate(); err != nil {
		return err
	}

	pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

	for pass := 1; pass <= pr.config.MaxPasses; pass++ {
		if err := ctx.Err(); err != nil {
			pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
			return err
		}

		startTime := time.Now()
		img, stats := pr.RenderPass(pass)
		passTime := time.Since(startTime)

		pr.logger.Printf("Pass %d completed in %v (%.0f samples/pixel, luminance variance %.4g)\n",
			pass, passTime, stats.AverageSamples, stats.MeanLuminanceVariance)

		isLast := pass == pr.config.MaxPasses || stats.MinSamples >= pr.config.MaxSamplesPerPixel
		if callback != nil {
			if err := callback(PassResult{
				PassNumber: pass,
				Image:      img,
				Stats:      stats,
				Elapsed:    passTime,
				IsLast:     isLast,
			}); err != nil {
				return err
			}
		}

		if isLast {
			if pass < pr.config.MaxPasses {
				pr.logger.Printf("Reached maximum samples per pixel (%d), stopping.\n", pr.config.MaxSamplesPerPixel)
			}
			break
		}
	}

	return nil
}
