package model

import (
	"github.com/Carmen-Shannon/pbr-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer/material"
)

// ModelBuilderOption is a function that configures a model instance during construction.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the model.
//
// Parameters:
//   - name: the identifier for the model
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithMeshProvider is an option builder that sets the bind group provider holding GPU mesh resources.
//
// Parameters:
//   - provider: the mesh bind group provider
//
// Returns:
//   - ModelBuilderOption: a function that applies the mesh provider option to a model
func WithMeshProvider(provider bind_group_provider.BindGroupProvider) ModelBuilderOption {
	return func(m *model) {
		m.meshProvider = provider
	}
}

// WithMaterials is an option builder that sets the render materials for the model.
//
// Parameters:
//   - materials: the render materials
//
// Returns:
//   - ModelBuilderOption: a function that applies the materials option to a model
func WithMaterials(materials ...material.Material) ModelBuilderOption {
	return func(m *model) {
		m.materials = materials
	}
}

// WithBoundingRadius is an option builder that sets the bounding sphere radius of the model.
//
// Parameters:
//   - radius: the bounding radius around the model origin
//
// Returns:
//   - ModelBuilderOption: a function that applies the bounding radius option to a model
func WithBoundingRadius(radius float32) ModelBuilderOption {
	return func(m *model) {
		m.boundingRadius = radius
	}
}

// WithIndexCount is an option builder that sets the index count of the model's combined mesh.
//
// Parameters:
//   - count: the number of indices
//
// Returns:
//   - ModelBuilderOption: a function that applies the index count option to a model
func WithIndexCount(count int) ModelBuilderOption {
	return func(m *model) {
		m.indexCount = count
	}
}
