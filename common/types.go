// package common contains common types that are used throughout this viewer. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA8 pixel data for a texture pending GPU upload.
// This is used for the PBR material textures (albedo, normal, metalness, roughness).
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Width uint32
	// Height is the height of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Height uint32
	// Gamma indicates the pixel data is gamma (2.2) encoded. Mip generation must
	// average such textures in linear light (decode, box filter, re-encode).
	Gamma bool
}

// PixelBuffer holds floating-point RGBA pixel data, one float32 per channel.
// This is the CPU-side representation of a decoded HDR environment map.
type PixelBuffer struct {
	// Pix is the pixel data in RGBA order, 4 float32 per pixel, row-major.
	Pix []float32
	// Width is the image width in pixels.
	Width uint32
	// Height is the image height in pixels.
	Height uint32
}

// At returns the RGBA value of the pixel at (x, y). No bounds checking.
//
// Parameters:
//   - x, y: pixel coordinates
//
// Returns:
//   - [4]float32: the RGBA value at the given coordinates
func (p *PixelBuffer) At(x, y int) [4]float32 {
	i := (y*int(p.Width) + x) * 4
	return [4]float32{p.Pix[i], p.Pix[i+1], p.Pix[i+2], p.Pix[i+3]}
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// This is primarily used in the BindGroupProvider to stage sampler data before creating the GPU sampler and bind group.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// Compare specifies the comparison function for comparison samplers.
	Compare wgpu.CompareFunction
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering, which can improve texture quality at oblique viewing angles.
	MaxAnisotropy uint16
}

// ImportedTexture represents texture data extracted from a model file.
// For embedded textures (GLB), the Data field contains raw image bytes.
// For external textures, the Path field contains the file path.
type ImportedTexture struct {
	// Name is an identifier for this texture (e.g., "albedo", "normal").
	Name string

	// Path is the file path for external textures (empty for embedded).
	Path string

	// Data contains raw image bytes for embedded textures (PNG/JPEG).
	Data []byte

	// MimeType indicates the image format (e.g., "image/png", "image/jpeg").
	MimeType string

	// Width is the texture width in pixels (populated after Decode).
	Width int

	// Height is the texture height in pixels (populated after Decode).
	Height int
}

// Decode decodes the texture to raw RGBA pixel data.
// Uses either embedded Data bytes or loads from Path on disk.
// Supports PNG and JPEG formats.
// Reference: https://pkg.go.dev/image
//
// Returns:
//   - []byte: raw RGBA pixel data (4 bytes per pixel, row-major order)
//   - uint32: texture width in pixels
//   - uint32: texture height in pixels
//   - error: error if decoding fails
func (t *ImportedTexture) Decode() ([]byte, uint32, uint32, error) {
	if t == nil {
		return nil, 0, 0, fmt.Errorf("texture is nil")
	}

	var img image.Image
	var err error

	if len(t.Data) > 0 {
		img, _, err = image.Decode(bytes.NewReader(t.Data))
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to decode embedded image: %w", err)
		}
	} else if t.Path != "" {
		file, fileErr := os.Open(t.Path)
		if fileErr != nil {
			return nil, 0, 0, fmt.Errorf("failed to open texture file %s: %w", t.Path, fileErr)
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to decode texture file %s: %w", t.Path, err)
		}
	} else {
		return nil, 0, 0, fmt.Errorf("texture has neither data nor path")
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	t.Width = width
	t.Height = height

	return rgba.Pix, uint32(width), uint32(height), nil
}

// ImportedMaterial represents surface material data extracted from a model file.
// Textures follow the glTF metallic-roughness model; the combined
// metallic-roughness texture carries roughness in the green channel and
// metalness in the blue channel.
type ImportedMaterial struct {
	// Name is an identifier for this material.
	Name string

	// BaseColorFactor is the RGBA base color multiplier.
	BaseColorFactor [4]float32

	// MetallicFactor is the metalness multiplier in [0, 1].
	MetallicFactor float32

	// RoughnessFactor is the roughness multiplier in [0, 1].
	RoughnessFactor float32

	// AlbedoTexture is the sRGB-encoded base color texture, or nil.
	AlbedoTexture *ImportedTexture

	// NormalTexture is the tangent-space normal map, or nil.
	NormalTexture *ImportedTexture

	// MetallicRoughnessTexture is the combined metallic-roughness texture, or nil.
	MetallicRoughnessTexture *ImportedTexture

	// SamplerData holds the sampler parameters declared by the model file, or nil for defaults.
	SamplerData *SamplerStagingData
}
