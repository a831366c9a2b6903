package scene

import (
	"fmt"
	"sort"
	"strings"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier used by -scene and the web API
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Spheres     int    `json:"spheres"`     // Number of spheres in the world
}

type sceneEntry struct {
	displayName string
	description string
	build       func() (*Scene, error)
}

var builtinScenes = map[string]sceneEntry{
	"default": {"Default", "Small diffuse sphere on a huge ground sphere under a sky gradient", NewDefaultScene},
	"single":  {"Single sphere", "One diffuse sphere with nothing below it", NewSingleSphereScene},
	"metal":   {"Metal spheres", "Default scene flanked by a mirror sphere and a fuzzy gold sphere", NewMetalScene},
}

// Lookup builds the named scene
func Lookup(name string) (*Scene, error) {
	entry, ok := builtinScenes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return entry.build()
}

// Names returns the sorted IDs of all built-in scenes
func Names() []string {
	names := make([]string, 0, len(builtinScenes))
	for name := range builtinScenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns metadata for every built-in scene sorted by ID
func List() ([]SceneInfo, error) {
	var scenes []SceneInfo
	for _, name := range Names() {
		entry := builtinScenes[name]
		s, err := entry.build()
		if err != nil {
			return nil, fmt.Errorf("failed to build scene %s: %w", name, err)
		}
		scenes = append(scenes, SceneInfo{
			ID:          name,
			DisplayName: entry.displayName,
			Description: entry.description,
			Spheres:     s.World.Len(),
		})
	}
	return scenes, nil
}
