package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGPUVertexSize(t *testing.T) {
	var v GPUVertex
	assert.Equal(t, 56, v.Size())
	assert.Len(t, v.Marshal(), 56)
}

func TestComputeBoundingRadius(t *testing.T) {
	vertices := []GPUVertex{
		{Position: [3]float32{1, 0, 0}},
		{Position: [3]float32{0, -3, 0}},
		{Position: [3]float32{0, 0, 2}},
	}
	assert.InDelta(t, 3.0, ComputeBoundingRadius(vertices), 1.0e-5)
}

func TestComputeBoundingRadiusEmpty(t *testing.T) {
	assert.Equal(t, float32(0), ComputeBoundingRadius(nil))
}

func TestModelBuilder(t *testing.T) {
	m := NewModel(
		WithName("helmet"),
		WithBoundingRadius(4.5),
		WithIndexCount(36),
	)
	assert.Equal(t, "helmet", m.Name())
	assert.Equal(t, float32(4.5), m.BoundingRadius())
	assert.Equal(t, 36, m.IndexCount())
	assert.Empty(t, m.Materials())
}
