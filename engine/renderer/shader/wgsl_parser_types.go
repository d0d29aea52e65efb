package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo pairs a wgpu vertex format with its byte size so attribute
// offsets can be accumulated while walking a vertex input struct.
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// sampledTextureInfo holds the view dimension and multisampled flag for a
// sampled texture type. Cube textures map to the cube view dimension here.
type sampledTextureInfo struct {
	viewDimension wgpu.TextureViewDimension
	multisampled  bool
}

// wgslTypeLayout holds the byte size and alignment of a WGSL type per the WGSL
// specification, used to compute MinBindingSize for buffer bindings.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField is one field extracted from a WGSL struct during parsing.
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct is one WGSL struct block extracted during parsing.
type parsedStruct struct {
	name   string
	fields []parsedField
}
