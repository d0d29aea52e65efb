// gltf_types.go holds the glTF 2.0 JSON schema structures the loader
// deserializes into. Only the parts of the schema this viewer consumes are
// declared; encoding/json ignores the rest.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html
package loader

// --- Document root ---

// gltfDocument is the root of a glTF JSON document.
type gltfDocument struct {
	// Asset contains metadata about the glTF asset.
	Asset gltfAsset `json:"asset"`

	// Scene is the index of the default scene.
	Scene *int `json:"scene,omitempty"`

	// Scenes is the array of scenes.
	Scenes []gltfScene `json:"scenes,omitempty"`

	// Nodes is the transform hierarchy.
	Nodes []gltfNode `json:"nodes,omitempty"`

	// Meshes is the array of meshes.
	Meshes []gltfMesh `json:"meshes,omitempty"`

	// Accessors define how to interpret buffer data.
	Accessors []gltfAccessor `json:"accessors,omitempty"`

	// BufferViews define portions of buffers.
	BufferViews []gltfBufferView `json:"bufferViews,omitempty"`

	// Buffers are the raw binary data containers.
	Buffers []gltfBuffer `json:"buffers,omitempty"`

	// Materials is the array of materials.
	Materials []gltfMaterial `json:"materials,omitempty"`

	// Textures is the array of textures.
	Textures []gltfTexture `json:"textures,omitempty"`

	// Images is the array of images.
	Images []gltfImage `json:"images,omitempty"`

	// Samplers define texture sampling parameters.
	Samplers []gltfSampler `json:"samplers,omitempty"`

	// ExtensionsUsed lists extensions used by this asset.
	ExtensionsUsed []string `json:"extensionsUsed,omitempty"`

	// ExtensionsRequired lists extensions required to load this asset.
	ExtensionsRequired []string `json:"extensionsRequired,omitempty"`
}

// gltfAsset contains metadata about the glTF asset.
type gltfAsset struct {
	// Version is required and must be "2.0".
	Version string `json:"version"`

	// MinVersion is the minimum glTF version required.
	MinVersion string `json:"minVersion,omitempty"`

	// Generator is the tool that produced this asset.
	Generator string `json:"generator,omitempty"`

	// Copyright information.
	Copyright string `json:"copyright,omitempty"`
}

// --- Scene graph ---

// gltfScene is a set of root nodes to render.
type gltfScene struct {
	Name string `json:"name,omitempty"`

	// Nodes are the indices of root nodes in this scene.
	Nodes []int `json:"nodes,omitempty"`
}

// gltfNode is a node in the hierarchy. The transform is either the Matrix
// field or the TRS triple, never both.
type gltfNode struct {
	Name string `json:"name,omitempty"`

	// Children are indices of child nodes.
	Children []int `json:"children,omitempty"`

	// Mesh is the index of the mesh at this node.
	Mesh *int `json:"mesh,omitempty"`

	// Matrix is a column-major 4x4 transform.
	Matrix *[16]float32 `json:"matrix,omitempty"`

	// Translation is the node's translation (x, y, z).
	Translation *[3]float32 `json:"translation,omitempty"`

	// Rotation is a quaternion (x, y, z, w).
	Rotation *[4]float32 `json:"rotation,omitempty"`

	// Scale is the node's scale (x, y, z).
	Scale *[3]float32 `json:"scale,omitempty"`
}

// --- Mesh data ---

// gltfMesh is a set of primitives.
type gltfMesh struct {
	Name string `json:"name,omitempty"`

	// Primitives defines the geometry to render.
	Primitives []gltfPrimitive `json:"primitives"`
}

// gltfPrimitive defines one draw's worth of geometry.
type gltfPrimitive struct {
	// Attributes maps attribute semantics (POSITION, NORMAL, TANGENT,
	// TEXCOORD_0, ...) to accessor indices.
	Attributes map[string]int `json:"attributes"`

	// Indices is the accessor index for the index buffer.
	Indices *int `json:"indices,omitempty"`

	// Material is the material index.
	Material *int `json:"material,omitempty"`

	// Mode is the primitive topology; only TRIANGLES (4, the default) is
	// accepted by the parser.
	Mode *int `json:"mode,omitempty"`
}

const gltfPrimitiveModeTriangles = 4

// --- Buffer data ---

// gltfAccessor defines how to interpret a slice of a buffer view.
type gltfAccessor struct {
	Name string `json:"name,omitempty"`

	// BufferView is the index of the bufferView.
	BufferView *int `json:"bufferView,omitempty"`

	// ByteOffset is the offset within the bufferView.
	ByteOffset int `json:"byteOffset,omitempty"`

	// ComponentType is the scalar type of components.
	// 5120=BYTE, 5121=UNSIGNED_BYTE, 5122=SHORT, 5123=UNSIGNED_SHORT,
	// 5125=UNSIGNED_INT, 5126=FLOAT
	ComponentType int `json:"componentType"`

	// Normalized indicates integer data normalized to [0,1] or [-1,1].
	Normalized bool `json:"normalized,omitempty"`

	// Count is the number of elements.
	Count int `json:"count"`

	// Type is the element shape (SCALAR, VEC2, VEC3, VEC4, MAT2, MAT3, MAT4).
	Type string `json:"type"`

	// Max and Min bound each component.
	Max []float32 `json:"max,omitempty"`
	Min []float32 `json:"min,omitempty"`

	// Sparse storage is not supported; the parser rejects accessors that set it.
	Sparse *gltfAccessorSparse `json:"sparse,omitempty"`
}

const (
	gltfComponentTypeByte          = 5120
	gltfComponentTypeUnsignedByte  = 5121
	gltfComponentTypeShort         = 5122
	gltfComponentTypeUnsignedShort = 5123
	gltfComponentTypeUnsignedInt   = 5125
	gltfComponentTypeFloat         = 5126
)

const (
	gltfAccessorTypeScalar = "SCALAR"
	gltfAccessorTypeVec2   = "VEC2"
	gltfAccessorTypeVec3   = "VEC3"
	gltfAccessorTypeVec4   = "VEC4"
	gltfAccessorTypeMat2   = "MAT2"
	gltfAccessorTypeMat3   = "MAT3"
	gltfAccessorTypeMat4   = "MAT4"
)

// gltfAccessorSparse only needs Count: the parser errors out on sparse
// accessors, so the indices/values sub-objects are never read.
type gltfAccessorSparse struct {
	Count int `json:"count"`
}

// gltfBufferView is a subset of a buffer.
type gltfBufferView struct {
	Name string `json:"name,omitempty"`

	// Buffer is the index of the buffer.
	Buffer int `json:"buffer"`

	// ByteOffset is the offset into the buffer.
	ByteOffset int `json:"byteOffset,omitempty"`

	// ByteLength is the length of the view.
	ByteLength int `json:"byteLength"`

	// ByteStride is the stride for interleaved data.
	ByteStride *int `json:"byteStride,omitempty"`

	// Target is the intended GPU buffer type.
	// 34962=ARRAY_BUFFER, 34963=ELEMENT_ARRAY_BUFFER
	Target *int `json:"target,omitempty"`
}

// gltfBuffer is a binary data container.
type gltfBuffer struct {
	Name string `json:"name,omitempty"`

	// URI points at the buffer data (data: URI or external file). Empty for
	// the GLB binary chunk.
	URI string `json:"uri,omitempty"`

	// ByteLength is the length of the buffer.
	ByteLength int `json:"byteLength"`

	// Data holds the loaded bytes, populated during load rather than by JSON.
	Data []byte `json:"-"`
}

// --- Materials and textures ---

// gltfMaterial is a primitive's surface description. The shading model reads
// base color, normal, metalness, and roughness; occlusion, emissive, and alpha
// modes are not consumed.
type gltfMaterial struct {
	Name string `json:"name,omitempty"`

	// PbrMetallicRoughness is the metallic-roughness parameter set.
	PbrMetallicRoughness *gltfPbrMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`

	// NormalTexture is the tangent-space normal map.
	NormalTexture *gltfNormalTextureInfo `json:"normalTexture,omitempty"`
}

// gltfPbrMetallicRoughness is the metallic-roughness material model.
type gltfPbrMetallicRoughness struct {
	// BaseColorFactor is the base color (RGBA).
	BaseColorFactor *[4]float32 `json:"baseColorFactor,omitempty"`

	// BaseColorTexture is the base color texture.
	BaseColorTexture *gltfTextureInfo `json:"baseColorTexture,omitempty"`

	// MetallicFactor: 0.0 = dielectric, 1.0 = metal.
	MetallicFactor *float32 `json:"metallicFactor,omitempty"`

	// RoughnessFactor: 0.0 = smooth, 1.0 = rough.
	RoughnessFactor *float32 `json:"roughnessFactor,omitempty"`

	// MetallicRoughnessTexture packs metalness in B and roughness in G.
	MetallicRoughnessTexture *gltfTextureInfo `json:"metallicRoughnessTexture,omitempty"`
}

// gltfTextureInfo references a texture.
type gltfTextureInfo struct {
	// Index is the texture index.
	Index int `json:"index"`

	// TexCoord is the UV set to use (default 0).
	TexCoord int `json:"texCoord,omitempty"`
}

// gltfNormalTextureInfo references a normal map.
type gltfNormalTextureInfo struct {
	gltfTextureInfo

	// Scale is the normal scale factor.
	Scale *float32 `json:"scale,omitempty"`
}

// gltfTexture pairs an image with a sampler.
type gltfTexture struct {
	Name string `json:"name,omitempty"`

	// Sampler is the sampler index.
	Sampler *int `json:"sampler,omitempty"`

	// Source is the image index.
	Source *int `json:"source,omitempty"`
}

// gltfImage is a texture image source.
type gltfImage struct {
	Name string `json:"name,omitempty"`

	// URI is the image location (data: URI or external file).
	URI string `json:"uri,omitempty"`

	// MimeType applies when the image is embedded in a bufferView.
	MimeType string `json:"mimeType,omitempty"`

	// BufferView is the index of the bufferView holding the image bytes.
	BufferView *int `json:"bufferView,omitempty"`
}

// gltfSampler defines texture sampling parameters.
type gltfSampler struct {
	Name string `json:"name,omitempty"`

	// MagFilter: 9728=NEAREST, 9729=LINEAR.
	MagFilter *int `json:"magFilter,omitempty"`

	// MinFilter: 9728=NEAREST, 9729=LINEAR, 9984-9987 mipmapped variants.
	MinFilter *int `json:"minFilter,omitempty"`

	// WrapS / WrapT: 33071=CLAMP_TO_EDGE, 33648=MIRRORED_REPEAT,
	// 10497=REPEAT (default).
	WrapS *int `json:"wrapS,omitempty"`
	WrapT *int `json:"wrapT,omitempty"`
}

const (
	gltfFilterNearest              = 9728
	gltfFilterLinear               = 9729
	gltfFilterNearestMipmapNearest = 9984
	gltfFilterLinearMipmapNearest  = 9985
	gltfFilterNearestMipmapLinear  = 9986
	gltfFilterLinearMipmapLinear   = 9987
)

const (
	gltfWrapClampToEdge    = 33071
	gltfWrapMirroredRepeat = 33648
	gltfWrapRepeat         = 10497
)

// --- GLB binary container ---

// gltfGLBHeader is the 12-byte header of a GLB file.
type gltfGLBHeader struct {
	Magic   uint32 // must be 0x46546C67 ("glTF")
	Version uint32 // must be 2
	Length  uint32 // total file length
}

// gltfGLBChunkHeader is the 8-byte header of a GLB chunk.
type gltfGLBChunkHeader struct {
	ChunkLength uint32
	ChunkType   uint32
}

const (
	gltfGLBMagic     = 0x46546C67 // "glTF" in little-endian ASCII
	gltfGLBVersion   = 2
	gltfGLBChunkJSON = 0x4E4F534A // "JSON" in little-endian ASCII
	gltfGLBChunkBIN  = 0x004E4942 // "BIN\0" in little-endian ASCII
)
