package model

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUVertexSource is the canonical WGSL definition of the Vertex input struct for mesh pipelines.
// Matches GPUVertex layout exactly (56 bytes, tightly packed).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the GPU-aligned representation of a single mesh vertex. The full
// tangent frame is stored per vertex so the fragment shader can rotate sampled
// normal maps into world space.
// Matches the WGSL Vertex struct layout exactly (see GPUVertexSource).
// Size: 56 bytes (tightly packed, no padding required).
type GPUVertex struct {
	Position  [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal    [3]float32 // offset 12: vertex normal (12 bytes)
	Tangent   [3]float32 // offset 24: tangent vector for normal mapping (12 bytes)
	Bitangent [3]float32 // offset 36: bitangent vector for normal mapping (12 bytes)
	TexCoord  [2]float32 // offset 48: UV texture coordinate (8 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 56-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, 56)
	offset := 0
	for _, field := range [][]float32{g.Position[:], g.Normal[:], g.Tangent[:], g.Bitangent[:], g.TexCoord[:]} {
		for _, v := range field {
			binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
			offset += 4
		}
	}
	return buf
}

// ComputeBoundingRadius calculates the bounding sphere radius from a slice of
// GPUVertex positions. The radius is the maximum distance from the origin
// across all vertices in the slice.
//
// Parameters:
//   - vertices: the vertex data to compute the bounding radius from
//
// Returns:
//   - float32: the maximum distance from the origin
func ComputeBoundingRadius(vertices []GPUVertex) float32 {
	var maxDistSq float32
	for _, v := range vertices {
		p := v.Position
		distSq := p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
		if distSq > maxDistSq {
			maxDistSq = distSq
		}
	}
	return float32(math.Sqrt(float64(maxDistSq)))
}
