package renderer

import (
	"math"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
)

// Background gradient endpoints
var (
	white   = core.NewVec3(1.0, 1.0, 1.0)
	skyBlue = core.NewVec3(0.5, 0.7, 1.0)
)

// ShadeFunc computes the color seen along a single ray
type ShadeFunc func(world geometry.Shape, r core.Ray) core.Vec3

// RayColor shades hits by their surface normal and misses by the sky gradient
func RayColor(world geometry.Shape, r core.Ray) core.Vec3 {
	if hit, isHit := world.Hit(r, 0, math.Inf(1)); isHit {
		// Map each normal component from [-1,1] to [0,1]
		return hit.Normal.Add(white).Multiply(0.5)
	}
	return Background(r)
}

// FlatShader returns a shader that paints every hit with a single color
func FlatShader(color core.Vec3) ShadeFunc {
	return func(world geometry.Shape, r core.Ray) core.Vec3 {
		if _, isHit := world.Hit(r, 0, math.Inf(1)); isHit {
			return color
		}
		return Background(r)
	}
}

// Background returns a vertical white to sky-blue gradient based on ray direction
func Background(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*white + t*skyBlue
	return white.Multiply(1.0 - t).Add(skyBlue.Multiply(t))
}
