package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-raycaster/pkg/core"
)

var (
	// ErrInvalidRadius is returned for radii that are not positive and finite
	ErrInvalidRadius = errors.New("sphere radius must be positive and finite")
	// ErrInvalidCenter is returned for centers with NaN or infinite components
	ErrInvalidCenter = errors.New("sphere center must be finite")
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere, rejecting geometry that would produce
// NaN normals at intersection time
func NewSphere(center core.Vec3, radius float64) (*Sphere, error) {
	if !center.IsFinite() {
		return nil, fmt.Errorf("center %v: %w", center, ErrInvalidCenter)
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
		return nil, fmt.Errorf("radius %g: %w", radius, ErrInvalidRadius)
	}
	return &Sphere{
		Center: center,
		Radius: radius,
	}, nil
}

// MustSphere is like NewSphere but panics on invalid input.
// Intended for scenes built from literal values.
func MustSphere(center core.Vec3, radius float64) *Sphere {
	s, err := NewSphere(center, radius)
	if err != nil {
		panic(err)
	}
	return s
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2(halfB)t + c = 0
	a := ray.Direction.LengthSquared()
	halfB := ray.Direction.Dot(oc)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		// Try the farther intersection point
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return nil, false
		}
	}

	hitRecord := &HitRecord{
		T:     root,
		Point: ray.At(root),
	}

	// Outward normal is unit length because the hit point lies on the surface
	outwardNormal := hitRecord.Point.Subtract(s.Center).Divide(s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)

	return hitRecord, true
}

// Contains reports whether p lies strictly inside the sphere
func (s *Sphere) Contains(p core.Vec3) bool {
	return p.Subtract(s.Center).LengthSquared() < s.Radius*s.Radius
}
