package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUTransformUniformsSource is the canonical WGSL definition of the TransformUniforms struct.
// Matches GPUTransformUniforms layout exactly (192 bytes, std430 aligned).
//
//go:embed assets/transform_uniforms.wgsl
var GPUTransformUniformsSource string

// GPUTransformUniforms is the GPU-aligned representation of the per-frame transform uniform
// buffer shared by the mesh and skybox render passes.
// Matches the WGSL TransformUniforms struct layout exactly (see GPUTransformUniformsSource).
// Size: 192 bytes (three mat4x4<f32>, std430 aligned).
type GPUTransformUniforms struct {
	ViewProjection    [16]float32 // offset   0: combined view-projection matrix (mat4x4<f32>)
	SkyViewProjection [16]float32 // offset  64: rotation-only view-projection for the skybox (mat4x4<f32>)
	SceneRotation     [16]float32 // offset 128: model rotation applied to scene geometry (mat4x4<f32>)
}

// Size returns the size of the GPUTransformUniforms struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (192)
func (g *GPUTransformUniforms) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUTransformUniforms struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUTransformUniforms) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProjection[i]))
	}
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.SkyViewProjection[i]))
	}
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[128+i*4:], math.Float32bits(g.SceneRotation[i]))
	}
	return buf
}
