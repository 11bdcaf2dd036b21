package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/loaders"
)

// SceneFileExt is the extension of scene description files
const SceneFileExt = ".scene"

// LoadFile loads a scene description file and builds a scene from it
func LoadFile(filename string) (*Scene, error) {
	sceneFile, err := loaders.LoadSceneFile(filename)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	s, err := NewFromSceneFile(name, sceneFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// NewFromSceneFile converts parsed statements into a scene.
// Missing camera and film statements fall back to the built-in defaults.
func NewFromSceneFile(name string, sceneFile *loaders.SceneFile) (*Scene, error) {
	var overrides []geometry.CameraConfig
	if sceneFile.Camera != nil {
		overrides = append(overrides, geometry.CameraConfig{
			Origin:         sceneFile.Camera.Origin,
			AspectRatio:    sceneFile.Camera.AspectRatio,
			ViewportHeight: sceneFile.Camera.ViewportHeight,
			FocalLength:    sceneFile.Camera.FocalLength,
		})
	}

	samplingConfig := defaultSamplingConfig()
	if sceneFile.Film != nil {
		samplingConfig = SamplingConfig{
			Width:           sceneFile.Film.Width,
			Height:          sceneFile.Film.Height,
			SamplesPerPixel: sceneFile.Film.SamplesPerPixel,
		}
	}

	s := New(name, cameraConfig(overrides), samplingConfig)
	for _, stmt := range sceneFile.Spheres {
		sphere, err := geometry.NewSphere(stmt.Center, stmt.Radius)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", stmt.Line, err)
		}
		s.Add(sphere)
	}

	return s, nil
}
