package scene

import (
	"github.com/Carmen-Shannon/pbr-go/engine/game_object"
)

// SceneBuilderOption configures a Scene during construction.
type SceneBuilderOption func(*scene)

// WithActive is an option builder that sets the scene's initial active state.
// Scenes are active by default.
//
// Parameters:
//   - active: true to start active
//
// Returns:
//   - SceneBuilderOption: the option
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithPipelineKey is an option builder that sets the render pipeline key used
// for object draw calls. Defaults to "pbr".
//
// Parameters:
//   - key: the registered pipeline key
//
// Returns:
//   - SceneBuilderOption: the option
func WithPipelineKey(key string) SceneBuilderOption {
	return func(s *scene) {
		s.pipelineKey = key
	}
}

// WithObjects is an option builder that adds the given objects to the scene once
// construction completes.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: the option
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		s.pendingObjects = append(s.pendingObjects, objects...)
	}
}

// WithCullingDisabled is an option builder that disables frustum culling.
//
// Parameters:
//   - disabled: true to disable culling
//
// Returns:
//   - SceneBuilderOption: the option
func WithCullingDisabled(disabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.cullingDisabled = disabled
	}
}
