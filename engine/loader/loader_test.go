package loader

import (
	"testing"

	"github.com/Carmen-Shannon/pbr-go/engine/model"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

const tol = 1.0e-5

func TestFloatToUNorm8(t *testing.T) {
	assert.Equal(t, byte(0), floatToUNorm8(0))
	assert.Equal(t, byte(0), floatToUNorm8(-1))
	assert.Equal(t, byte(255), floatToUNorm8(1))
	assert.Equal(t, byte(255), floatToUNorm8(2))
	assert.Equal(t, byte(128), floatToUNorm8(0.5))
}

func TestChannelOrFallbackExtractsChannel(t *testing.T) {
	// One 2x1 RGBA image: roughness in G, metalness in B.
	pixels := []byte{
		10, 20, 30, 255,
		40, 50, 60, 255,
	}
	staging := channelOrFallback(pixels, 2, 1, 2, 0)

	assert.Equal(t, uint32(2), staging.Width)
	assert.Equal(t, uint32(1), staging.Height)
	assert.Equal(t, []byte{30, 30, 30, 255, 60, 60, 60, 255}, staging.Pixels)
}

func TestChannelOrFallbackProducesFallbackTexel(t *testing.T) {
	staging := channelOrFallback(nil, 0, 0, 1, 77)

	assert.Equal(t, uint32(1), staging.Width)
	assert.Equal(t, uint32(1), staging.Height)
	assert.Equal(t, []byte{77, 77, 77, 255}, staging.Pixels)
}

func TestTextureOrFallbackSolidColor(t *testing.T) {
	staging, err := textureOrFallback(nil, [4]byte{128, 128, 255, 255}, false)
	assert.NoError(t, err)
	assert.Equal(t, uint32(1), staging.Width)
	assert.Equal(t, uint32(1), staging.Height)
	assert.Equal(t, []byte{128, 128, 255, 255}, staging.Pixels)
	assert.False(t, staging.Gamma)
}

func TestGenerateNormalsFlatTriangle(t *testing.T) {
	// CCW triangle in the XY plane faces +Z.
	vertices := []model.GPUVertex{
		{Position: [3]float32{0, 0, 0}},
		{Position: [3]float32{1, 0, 0}},
		{Position: [3]float32{0, 1, 0}},
	}
	generateNormals(vertices, []uint32{0, 1, 2})

	for _, v := range vertices {
		assert.InDelta(t, 0.0, v.Normal[0], tol)
		assert.InDelta(t, 0.0, v.Normal[1], tol)
		assert.InDelta(t, 1.0, v.Normal[2], tol)
	}
}

func TestGenerateNormalsDegenerateFallback(t *testing.T) {
	// All three corners coincide; the fallback normal points up.
	vertices := []model.GPUVertex{
		{Position: [3]float32{1, 1, 1}},
		{Position: [3]float32{1, 1, 1}},
		{Position: [3]float32{1, 1, 1}},
	}
	generateNormals(vertices, []uint32{0, 1, 2})

	for _, v := range vertices {
		assert.Equal(t, [3]float32{0, 1, 0}, v.Normal)
	}
}

func TestGenerateTangentsAlignedQuad(t *testing.T) {
	// A quad in the XY plane with U growing along +X and V along +Y produces
	// tangents along +X with positive handedness.
	vertices := []model.GPUVertex{
		{Position: [3]float32{0, 0, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{0, 0}},
		{Position: [3]float32{1, 0, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{1, 0}},
		{Position: [3]float32{1, 1, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{1, 1}},
		{Position: [3]float32{0, 1, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{0, 1}},
	}
	indices := []uint32{0, 1, 2, 0, 2, 3}
	tangents := make([][4]float32, len(vertices))
	generateTangents(vertices, indices, tangents)

	for _, tan := range tangents {
		length := math32.Sqrt(tan[0]*tan[0] + tan[1]*tan[1] + tan[2]*tan[2])
		assert.InDelta(t, 1.0, length, tol)
		assert.InDelta(t, 1.0, tan[0], tol)
		assert.InDelta(t, 0.0, tan[1], tol)
		assert.InDelta(t, 0.0, tan[2], tol)
	}
}

func TestGenerateTangentsDegenerateFallback(t *testing.T) {
	// Zero UV area leaves nothing to accumulate; the fallback tangent is +X.
	vertices := []model.GPUVertex{
		{Position: [3]float32{0, 0, 0}, Normal: [3]float32{0, 0, 1}},
		{Position: [3]float32{1, 0, 0}, Normal: [3]float32{0, 0, 1}},
		{Position: [3]float32{0, 1, 0}, Normal: [3]float32{0, 0, 1}},
	}
	tangents := make([][4]float32, len(vertices))
	generateTangents(vertices, []uint32{0, 1, 2}, tangents)

	for _, tan := range tangents {
		assert.Equal(t, [4]float32{1, 0, 0, 1}, tan)
	}
}
