package scene

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnknownScene is returned by Create for names that are not registered
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo represents a registered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "file"
}

type builtinScene struct {
	info   SceneInfo
	create func() *Scene
}

var builtinScenes = map[string]builtinScene{
	"default": {
		info: SceneInfo{
			ID:          "default",
			DisplayName: "Default",
			Description: "Sphere resting on a large ground sphere",
			Type:        "builtin",
		},
		create: func() *Scene { return NewDefaultScene() },
	},
	"single": {
		info: SceneInfo{
			ID:          "single",
			DisplayName: "Single Sphere",
			Description: "One sphere in front of the camera",
			Type:        "builtin",
		},
		create: func() *Scene { return NewSingleSphereScene() },
	},
	"sphere-row": {
		info: SceneInfo{
			ID:          "sphere-row",
			DisplayName: "Sphere Row",
			Description: "Overlapping spheres receding from the camera",
			Type:        "builtin",
		},
		create: func() *Scene { return NewSphereRowScene() },
	},
}

// ListScenes returns the built-in scenes sorted by ID
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtinScenes))
	for _, s := range builtinScenes {
		scenes = append(scenes, s.info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}

// Names returns the IDs of all built-in scenes, sorted
func Names() []string {
	infos := ListScenes()
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.ID
	}
	return names
}

// Create builds a scene by name. Names ending in ".scene" are loaded from disk.
func Create(name string) (*Scene, error) {
	if strings.EqualFold(filepath.Ext(name), SceneFileExt) {
		return LoadFile(name)
	}

	builtin, ok := builtinScenes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
	}
	return builtin.create(), nil
}
