package scene

import (
	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
)

// defaultSamplingConfig is shared by the built-in 16:9 scenes
func defaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          225, // 16:9 aspect ratio
		SamplesPerPixel: 100,
	}
}

// NewDefaultScene creates a sphere resting on a large ground sphere
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	s := New("default", cameraConfig(cameraOverrides), defaultSamplingConfig())

	s.Add(
		geometry.MustSphere(core.NewVec3(0, 0, -1), 0.5),
		geometry.MustSphere(core.NewVec3(0, -100.5, -1), 100), // ground
	)

	return s
}

// NewSingleSphereScene creates a scene with one sphere in front of the camera
func NewSingleSphereScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	s := New("single", cameraConfig(cameraOverrides), defaultSamplingConfig())
	s.Add(geometry.MustSphere(core.NewVec3(0, 0, -1), 0.5))
	return s
}

// NewSphereRowScene creates a row of overlapping spheres receding from the camera
func NewSphereRowScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	s := New("sphere-row", cameraConfig(cameraOverrides), defaultSamplingConfig())

	// Listed far to near so closest-hit resolution has to replace earlier hits
	for i := 4; i >= 0; i-- {
		x := -1.2 + 0.6*float64(i)
		z := -1.0 - 0.5*float64(i)
		s.Add(geometry.MustSphere(core.NewVec3(x, 0, z), 0.4))
	}
	s.Add(geometry.MustSphere(core.NewVec3(0, -100.5, -1), 100))

	return s
}

// cameraConfig returns the default camera with the first override applied
func cameraConfig(overrides []geometry.CameraConfig) geometry.CameraConfig {
	config := geometry.DefaultCameraConfig()
	if len(overrides) == 0 {
		return config
	}

	override := overrides[0]
	config.Origin = override.Origin
	if override.AspectRatio > 0 {
		config.AspectRatio = override.AspectRatio
	}
	if override.ViewportHeight > 0 {
		config.ViewportHeight = override.ViewportHeight
	}
	if override.FocalLength > 0 {
		config.FocalLength = override.FocalLength
	}
	return config
}
