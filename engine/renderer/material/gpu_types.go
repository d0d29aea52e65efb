package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUTonemapParamsSource is the canonical WGSL definition of the TonemapParams struct.
// Matches GPUTonemapParams layout exactly (16 bytes, std430 aligned).
//
//go:embed assets/tonemap_params.wgsl
var GPUTonemapParamsSource string

// GPUTonemapParams is the GPU-aligned uniform for the tonemap fragment shader. Exposure
// scales scene luminance before the curve; PureWhite is the luminance mapped to white
// by the extended Reinhard operator.
// Matches the WGSL TonemapParams struct layout exactly (see GPUTonemapParamsSource).
// Size: 16 bytes (two f32 plus padding, std430 aligned).
type GPUTonemapParams struct {
	Exposure  float32    // offset 0: linear exposure multiplier (4 bytes)
	PureWhite float32    // offset 4: luminance mapped to pure white (4 bytes)
	_         [2]float32 // offset 8: padding to 16 bytes
}

// Size returns the size of the GPUTonemapParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUTonemapParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUTonemapParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUTonemapParams) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Exposure))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.PureWhite))
	return buf
}
