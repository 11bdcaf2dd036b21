package renderer

import (
	"image"

	"github.com/df07/go-raycaster/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int     // Total number of pixels rendered
	TotalSamples   int     // Total number of samples taken
	AverageSamples float64 // Average samples per pixel
	MaxSamples     int     // Maximum samples requested per pixel
	MinSamples     int     // Minimum samples taken per pixel
	MaxSamplesUsed int     // Maximum samples actually used by any pixel

	MeanLuminanceVariance float64 // Per-pixel luminance variance averaged over the image
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for final result
	LuminanceAccum   float64   // Luminance accumulator
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	return AverageColor(ps.ColorAccum, ps.SampleCount)
}

// LuminanceVariance returns the sample variance of the pixel's luminance
func (ps *PixelStats) LuminanceVariance() float64 {
	if ps.SampleCount < 2 {
		return 0
	}
	n := float64(ps.SampleCount)
	mean := ps.LuminanceAccum / n
	return max(0, (ps.LuminanceSqAccum-n*mean*mean)/(n-1))
}

// NewPixelStatsGrid allocates a height x width grid indexed [y][x]
func NewPixelStatsGrid(width, height int) [][]PixelStats {
	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}
	return pixelStats
}

// assembleImage converts pixel statistics into an image and summary statistics
func assembleImage(pixelStats [][]PixelStats, maxSamples int) (*image.RGBA, RenderStats) {
	height := len(pixelStats)
	width := 0
	if height > 0 {
		width = len(pixelStats[0])
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	stats := RenderStats{
		TotalPixels: width * height,
		MaxSamples:  maxSamples,
	}

	first := true
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			ps := &pixelStats[y][x]
			img.SetRGBA(x, y, ToRGBA(ps.GetColor()))

			stats.TotalSamples += ps.SampleCount
			if first || ps.SampleCount < stats.MinSamples {
				stats.MinSamples = ps.SampleCount
			}
			if ps.SampleCount > stats.MaxSamplesUsed {
				stats.MaxSamplesUsed = ps.SampleCount
			}
			stats.MeanLuminanceVariance += ps.LuminanceVariance()
			first = false
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
		stats.MeanLuminanceVariance /= float64(stats.TotalPixels)
	}

	return img, stats
}
