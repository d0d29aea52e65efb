package model

import (
	"github.com/Carmen-Shannon/pbr-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer/material"
)

// model is the implementation of the Model interface.
type model struct {
	name           string
	materials      []material.Material
	meshProvider   bind_group_provider.BindGroupProvider
	boundingRadius float32
	indexCount     int
}

// Model defines the interface for a loaded 3D model.
// A Model is a GPU-ready container holding mesh data via a BindGroupProvider
// plus the render materials used during draw calls.
// It is produced by the Loader after importing and processing a model file.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// MeshProvider retrieves the BindGroupProvider holding GPU mesh resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// Materials retrieves the render-ready materials for this model. GPU
	// resources on each material are initialized by the Loader.
	//
	// Returns:
	//   - []material.Material: the render materials
	Materials() []material.Material

	// BoundingRadius retrieves the bounding sphere radius around the model origin,
	// used by the viewer to frame the camera.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// IndexCount returns the number of indices in the model's combined mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// SetMaterials sets the render materials for this model.
	//
	// Parameters:
	//   - materials: the render materials to associate with this model
	SetMaterials(materials []material.Material)
}

var _ Model = &model{}

// NewModel creates a new Model instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of ModelBuilderOption functions to configure the model
//
// Returns:
//   - Model: a new Model instance
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}

func (m *model) Materials() []material.Material {
	return m.materials
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) IndexCount() int {
	return m.indexCount
}

func (m *model) SetMaterials(materials []material.Material) {
	m.materials = materials
}
