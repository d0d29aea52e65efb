package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// MaxLights is the number of analytical light slots in the shading uniform buffer.
// The slot count is fixed in the WGSL struct, so the fragment shader always loops
// over exactly this many lights; disabled slots carry zero radiance.
const MaxLights = 3

// GPUShadingUniformsSource is the canonical WGSL definition of the ShadingUniforms struct.
// Matches GPUShadingUniforms layout exactly (112 bytes, std430 aligned).
//
//go:embed assets/shading_uniforms.wgsl
var GPUShadingUniformsSource string

// GPULight is the GPU-aligned representation of a single analytical light slot.
// Direction and radiance are padded to vec4 per WGSL alignment rules.
// Size: 32 bytes.
type GPULight struct {
	Direction [4]float32 // offset  0: normalized direction toward the light, w unused (vec4<f32>)
	Radiance  [4]float32 // offset 16: RGB radiance, w unused (vec4<f32>)
}

// GPUShadingUniforms is the GPU-aligned representation of the shading uniform buffer
// consumed by the lit mesh fragment shader.
// Matches the WGSL ShadingUniforms struct layout exactly (see GPUShadingUniformsSource).
// Size: 112 bytes (3 lights * 32 bytes + one vec4<f32>).
type GPUShadingUniforms struct {
	Lights      [MaxLights]GPULight // offset  0: analytical light slots (96 bytes)
	EyePosition [4]float32          // offset 96: world-space camera position, w unused (vec4<f32>)
}

// Size returns the size of the GPUShadingUniforms struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (112)
func (g *GPUShadingUniforms) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUShadingUniforms struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUShadingUniforms) Marshal() []byte {
	buf := make([]byte, g.Size())
	offset := 0
	for i := range g.Lights {
		for j := range 4 {
			binary.LittleEndian.PutUint32(buf[offset+j*4:], math.Float32bits(g.Lights[i].Direction[j]))
		}
		offset += 16
		for j := range 4 {
			binary.LittleEndian.PutUint32(buf[offset+j*4:], math.Float32bits(g.Lights[i].Radiance[j]))
		}
		offset += 16
	}
	for j := range 4 {
		binary.LittleEndian.PutUint32(buf[offset+j*4:], math.Float32bits(g.EyePosition[j]))
	}
	return buf
}

// BuildShadingUniforms assembles the shading uniform contents from a slice of lights
// and the camera eye position. Up to MaxLights lights are used; disabled lights and
// unused slots are written with zero radiance so the shader loop contributes nothing
// for them.
//
// Parameters:
//   - lights: the analytical lights to marshal (extra entries beyond MaxLights are ignored)
//   - eyeX, eyeY, eyeZ: world-space camera position
//
// Returns:
//   - GPUShadingUniforms: the assembled uniform struct ready for Marshal
func BuildShadingUniforms(lights []Light, eyeX, eyeY, eyeZ float32) GPUShadingUniforms {
	var uniforms GPUShadingUniforms
	for i := range MaxLights {
		if i >= len(lights) || lights[i] == nil {
			uniforms.Lights[i].Direction = [4]float32{0, -1, 0, 0}
			continue
		}
		dir := lights[i].Direction()
		uniforms.Lights[i].Direction = [4]float32{dir[0], dir[1], dir[2], 0}
		if lights[i].Enabled() {
			radiance := lights[i].Radiance()
			uniforms.Lights[i].Radiance = [4]float32{radiance[0], radiance[1], radiance[2], 0}
		}
	}
	uniforms.EyePosition = [4]float32{eyeX, eyeY, eyeZ, 1}
	return uniforms
}
