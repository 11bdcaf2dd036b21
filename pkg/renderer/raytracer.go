package renderer

import (
	"errors"
	"fmt"
	"image"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
)

// ErrInvalidConfig is returned for sampling configurations that cannot be rendered
var ErrInvalidConfig = errors.New("invalid sampling config")

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int // Image width in pixels
	Height          int // Image height in pixels
	SamplesPerPixel int // Number of rays per pixel
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
	}
}

// Validate checks that every dimension is positive
func (c SamplingConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("%w: samples per pixel %d", ErrInvalidConfig, c.SamplesPerPixel)
	}
	return nil
}

// Raytracer handles the rendering process.
// It is not safe for concurrent use; the world must not change while rendering.
type Raytracer struct {
	world  geometry.Shape
	camera *geometry.Camera
	config SamplingConfig
	shade  ShadeFunc
}

// NewRaytracer creates a new raytracer using normal shading
func NewRaytracer(world geometry.Shape, camera *geometry.Camera, config SamplingConfig) *Raytracer {
	return &Raytracer{
		world:  world,
		camera: camera,
		config: config,
		shade:  RayColor,
	}
}

// SetShader replaces the per-ray shading function
func (rt *Raytracer) SetShader(shade ShadeFunc) {
	rt.shade = shade
}

// sampleRay casts one jittered ray through pixel (i, j), where j counts scanlines from the bottom
func (rt *Raytracer) sampleRay(i, j int, sampler core.Sampler) core.Vec3 {
	jitter := sampler.Get2D()
	u := (float64(i) + jitter.X) / float64(rt.config.Width)
	v := (float64(j) + jitter.Y) / float64(rt.config.Height)

	return rt.shade(rt.world, rt.camera.GetRay(u, v))
}

// SamplePixel returns the mean color of SamplesPerPixel jittered rays through
// pixel (i, j), where j counts scanlines from the bottom of the image
func (rt *Raytracer) SamplePixel(i, j int, sampler core.Sampler) core.Vec3 {
	var ps PixelStats
	for s := 0; s < rt.config.SamplesPerPixel; s++ {
		ps.AddSample(rt.sampleRay(i, j, sampler))
	}
	return ps.GetColor()
}

// RenderInto adds samples rays to every pixel of pixelStats, indexed [y][x]
// with y = 0 the top row. Pixels are visited top scanline first, left to right,
// so a seeded sampler gives reproducible output.
func (rt *Raytracer) RenderInto(pixelStats [][]PixelStats, samples int, sampler core.Sampler) {
	for y := 0; y < rt.config.Height; y++ {
		j := rt.config.Height - 1 - y
		row := pixelStats[y]
		for i := 0; i < rt.config.Width; i++ {
			for s := 0; s < samples; s++ {
				row[i].AddSample(rt.sampleRay(i, j, sampler))
			}
		}
	}
}

// RenderPass renders a single pass with multi-sampling and returns an image
func (rt *Raytracer) RenderPass(sampler core.Sampler) (*image.RGBA, RenderStats) {
	pixelStats := NewPixelStatsGrid(rt.config.Width, rt.config.Height)
	rt.RenderInto(pixelStats, rt.config.SamplesPerPixel, sampler)
	return assembleImage(pixelStats, rt.config.SamplesPerPixel)
}
