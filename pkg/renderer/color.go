package renderer

import (
	"image/color"

	"github.com/df07/go-raycaster/pkg/core"
)

// ToRGB converts a linear color to 8-bit channels without gamma correction
func ToRGB(c core.Vec3) [3]int {
	return [3]int{toByte(c.X), toByte(c.Y), toByte(c.Z)}
}

// ToRGBA converts a linear color to an opaque RGBA pixel
func ToRGBA(c core.Vec3) color.RGBA {
	rgb := ToRGB(c)
	return color.RGBA{
		R: uint8(rgb[0]),
		G: uint8(rgb[1]),
		B: uint8(rgb[2]),
		A: 255,
	}
}

// AverageColor divides an accumulated color sum by its sample count
func AverageColor(sum core.Vec3, samples int) core.Vec3 {
	if samples <= 0 {
		return core.Vec3{}
	}
	return sum.Multiply(1.0 / float64(samples))
}

// toByte scales a channel by 255.999 and truncates into [0, 255]
func toByte(channel float64) int {
	scaled := 255.999 * channel
	if !(scaled > 0) { // also catches NaN
		return 0
	}
	if scaled >= 255 {
		return 255
	}
	return int(scaled)
}
