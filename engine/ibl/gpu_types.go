package ibl

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUFilterParams is the GPU-aligned uniform for the specular prefilter pass.
// Matches the WGSL FilterParams struct defined in the spmap shader.
// Size: 16 bytes, std430 aligned.
type GPUFilterParams struct {
	Roughness  float32    // offset 0: roughness the mip level is prefiltered for (4 bytes)
	NumSamples uint32     // offset 4: GGX sample count per texel (4 bytes)
	_          [2]float32 // offset 8: padding to 16 bytes
}

// Size returns the size of the GPUFilterParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUFilterParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUFilterParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUFilterParams) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Roughness))
	binary.LittleEndian.PutUint32(buf[4:8], g.NumSamples)
	return buf
}

// GPUSampleParams is the GPU-aligned uniform carrying the sample count for the
// irradiance and BRDF lookup table passes. Matches the WGSL SampleParams struct.
// Size: 16 bytes, std430 aligned.
type GPUSampleParams struct {
	NumSamples uint32    // offset 0: quasirandom sample count per texel (4 bytes)
	_          [3]uint32 // offset 4: padding to 16 bytes
}

// Size returns the size of the GPUSampleParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUSampleParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUSampleParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUSampleParams) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], g.NumSamples)
	return buf
}
