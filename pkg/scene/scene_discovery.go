package scene

import (
	"errors"
	"fmt"
)

// ErrUnknownScene is returned by Create for names not in the registry
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Name passed to Create
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

type registryEntry struct {
	info   SceneInfo
	create func() *Scene
}

var registry = []registryEntry{
	{
		info: SceneInfo{
			ID:          "default",
			DisplayName: "Default Scene",
			Description: "Sphere resting on a ground sphere",
			Group:       "Basic",
		},
		create: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "single",
			DisplayName: "Single Sphere",
			Description: "One sphere in front of the sky gradient",
			Group:       "Basic",
		},
		create: NewSingleSphereScene,
	},
	{
		info: SceneInfo{
			ID:          "occluded",
			DisplayName: "Occluded Spheres",
			Description: "A near sphere hiding a larger one behind it",
			Group:       "Intersection Tests",
		},
		create: NewOccludedScene,
	},
	{
		info: SceneInfo{
			ID:          "spheregrid",
			DisplayName: "Sphere Grid",
			Description: "10x5 grid of spheres at staggered depths",
			Group:       "Intersection Tests",
		},
		create: NewSphereGridScene,
	},
}

// Create builds a fresh instance of the named scene
func Create(id string) (*Scene, error) {
	for _, entry := range registry {
		if entry.info.ID == id {
			return entry.create(), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
}

// List returns the built-in scenes in registry order
func List() []SceneInfo {
	scenes := make([]SceneInfo, len(registry))
	for i, entry := range registry {
		scenes[i] = entry.info
	}
	return scenes
}

// ListAllScenes returns the built-in scenes grouped by category, with groups
// in order of first appearance
func ListAllScenes() ScenesResponse {
	var response ScenesResponse
	groupIndex := make(map[string]int)

	for _, info := range List() {
		idx, ok := groupIndex[info.Group]
		if !ok {
			idx = len(response.Groups)
			groupIndex[info.Group] = idx
			response.Groups = append(response.Groups, SceneGroup{Name: info.Group})
		}
		response.Groups[idx].Scenes = append(response.Groups[idx].Scenes, info)
	}

	return response
}
