package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// ErrUnknownScene is returned when a scene name has no builder
var ErrUnknownScene = errors.New("unknown scene")

// DefaultSeed is the layout seed used when none is given
const DefaultSeed int64 = 42

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string // Name accepted by Lookup
	DisplayName string // Human readable name
	Description string
}

type builder struct {
	info  SceneInfo
	build func(seed int64, overrides ...renderer.CameraConfig) *Scene
}

var builtins = map[string]builder{
	"default": {
		info: SceneInfo{ID: "default", DisplayName: "Default", Description: "Diffuse, hollow glass and metal spheres on a ground sphere"},
		build: func(_ int64, overrides ...renderer.CameraConfig) *Scene {
			return NewDefaultScene(overrides...)
		},
	},
	"random": {
		info:  SceneInfo{ID: "random", DisplayName: "Random Spheres", Description: "Hundreds of random small spheres around three large ones"},
		build: NewRandomScene,
	},
	"spheregrid": {
		info: SceneInfo{ID: "spheregrid", DisplayName: "Sphere Grid", Description: "10x10 grid of metal and diffuse spheres colored in OKLCH"},
		build: func(_ int64, overrides ...renderer.CameraConfig) *Scene {
			return NewSphereGridScene(overrides...)
		},
	},
	"single": {
		info: SceneInfo{ID: "single", DisplayName: "Single Sphere", Description: "One gray sphere in front of the camera"},
		build: func(_ int64, overrides ...renderer.CameraConfig) *Scene {
			return NewSingleSphereScene(overrides...)
		},
	},
}

// List returns every built-in scene sorted by ID
func List() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtins))
	for _, b := range builtins {
		scenes = append(scenes, b.info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}

// Names returns the IDs of every built-in scene, sorted
func Names() []string {
	var names []string
	for _, info := range List() {
		names = append(names, info.ID)
	}
	return names
}

// Lookup builds a built-in scene by name with the default layout seed
func Lookup(name string, overrides ...renderer.CameraConfig) (*Scene, error) {
	return LookupSeeded(name, DefaultSeed, overrides...)
}

// LookupSeeded builds a built-in scene by name; seed drives randomized layouts
func LookupSeeded(name string, seed int64, overrides ...renderer.CameraConfig) (*Scene, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownScene, name, Names())
	}
	return b.build(seed, overrides...), nil
}
