package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Texture wraps a GPU texture together with its default sampled view and the
// metadata needed to derive per-mip storage views. Textures with six array
// layers get a cube-dimension sampled view; single-layer textures get a 2D view.
type Texture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView

	width     uint32
	height    uint32
	layers    uint32
	mipLevels uint32
	format    wgpu.TextureFormat
}

// newTexture wraps a created wgpu texture and builds its default sampled
// view covering the full mip chain and all array layers. The texture is
// destroyed if the view cannot be created.
func newTexture(tex *wgpu.Texture, width, height, layers, mipLevels uint32, format wgpu.TextureFormat) (*Texture, error) {
	t := &Texture{
		texture:   tex,
		width:     width,
		height:    height,
		layers:    layers,
		mipLevels: mipLevels,
		format:    format,
	}
	dimension := wgpu.TextureViewDimension2D
	if layers == 6 {
		dimension = wgpu.TextureViewDimensionCube
	} else if layers > 1 {
		dimension = wgpu.TextureViewDimension2DArray
	}
	view, err := tex.CreateView(&wgpu.TextureViewDescriptor{
		Format:          format,
		Dimension:       dimension,
		BaseMipLevel:    0,
		MipLevelCount:   mipLevels,
		BaseArrayLayer:  0,
		ArrayLayerCount: layers,
	})
	if err != nil {
		tex.Destroy()
		return nil, fmt.Errorf("failed to create default view (%d mips, %d layers): %w", mipLevels, layers, err)
	}
	t.view = view
	return t, nil
}

// Texture returns the underlying wgpu texture.
//
// Returns:
//   - *wgpu.Texture: the wrapped texture
func (t *Texture) Texture() *wgpu.Texture {
	return t.texture
}

// View returns the default sampled view covering all mip levels and array layers.
// For six-layer textures this is a cube view, otherwise a 2D view.
//
// Returns:
//   - *wgpu.TextureView: the sampled view
func (t *Texture) View() *wgpu.TextureView {
	return t.view
}

// Width returns the base mip level width in texels.
//
// Returns:
//   - uint32: width of mip level 0
func (t *Texture) Width() uint32 {
	return t.width
}

// Height returns the base mip level height in texels.
//
// Returns:
//   - uint32: height of mip level 0
func (t *Texture) Height() uint32 {
	return t.height
}

// Layers returns the number of array layers (6 for cubemaps, 1 for 2D textures).
//
// Returns:
//   - uint32: the array layer count
func (t *Texture) Layers() uint32 {
	return t.layers
}

// MipLevels returns the number of mip levels in the chain.
//
// Returns:
//   - uint32: the mip level count
func (t *Texture) MipLevels() uint32 {
	return t.mipLevels
}

// Format returns the texel format of the texture.
//
// Returns:
//   - wgpu.TextureFormat: the texture format
func (t *Texture) Format() wgpu.TextureFormat {
	return t.format
}

// MipSize returns the dimensions of the given mip level, clamped to a minimum of 1 texel.
//
// Parameters:
//   - level: the mip level to query
//
// Returns:
//   - width, height: dimensions of the mip level in texels
func (t *Texture) MipSize(level uint32) (width, height uint32) {
	width = max(t.width>>level, 1)
	height = max(t.height>>level, 1)
	return width, height
}

// StorageMipView creates a view over a single mip level suitable for binding as a
// storage texture in a compute pass. All array layers are included, so cubemap
// levels bind as texture_storage_2d_array with six layers. The caller owns the
// returned view and should release it once the dispatch referencing it has been
// submitted.
//
// Parameters:
//   - level: the mip level to view
//
// Returns:
//   - *wgpu.TextureView: a single-mip storage view
//   - error: an error if view creation fails
func (t *Texture) StorageMipView(level uint32) (*wgpu.TextureView, error) {
	dimension := wgpu.TextureViewDimension2D
	if t.layers > 1 {
		dimension = wgpu.TextureViewDimension2DArray
	}
	view, err := t.texture.CreateView(&wgpu.TextureViewDescriptor{
		Label:           fmt.Sprintf("storage mip %d", level),
		Format:          t.format,
		Dimension:       dimension,
		BaseMipLevel:    level,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: t.layers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage view for mip %d: %w", level, err)
	}
	return view, nil
}

// SampledMipView creates a sampled view restricted to a range of mip levels,
// keeping the texture's natural dimension (cube for six-layer textures). This is
// used when a filter pass must sample only the already-written portion of a mip
// chain. The caller owns the returned view.
//
// Parameters:
//   - baseLevel: the first mip level included in the view
//   - levelCount: the number of mip levels included
//
// Returns:
//   - *wgpu.TextureView: the restricted sampled view
//   - error: an error if view creation fails
func (t *Texture) SampledMipView(baseLevel, levelCount uint32) (*wgpu.TextureView, error) {
	dimension := wgpu.TextureViewDimension2D
	if t.layers == 6 {
		dimension = wgpu.TextureViewDimensionCube
	} else if t.layers > 1 {
		dimension = wgpu.TextureViewDimension2DArray
	}
	view, err := t.texture.CreateView(&wgpu.TextureViewDescriptor{
		Label:           fmt.Sprintf("sampled mips %d..%d", baseLevel, baseLevel+levelCount-1),
		Format:          t.format,
		Dimension:       dimension,
		BaseMipLevel:    baseLevel,
		MipLevelCount:   levelCount,
		BaseArrayLayer:  0,
		ArrayLayerCount: t.layers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sampled view for mips %d..%d: %w", baseLevel, baseLevel+levelCount-1, err)
	}
	return view, nil
}

// ArrayMipView creates a sampled view over a single mip level with an explicit
// 2D-array dimension, regardless of layer count. Cubemap levels bound this way
// read as texture_2d_array in compute passes that fetch texels per layer. The
// caller owns the returned view.
//
// Parameters:
//   - level: the mip level to view
//
// Returns:
//   - *wgpu.TextureView: the single-mip array view
//   - error: an error if view creation fails
func (t *Texture) ArrayMipView(level uint32) (*wgpu.TextureView, error) {
	view, err := t.texture.CreateView(&wgpu.TextureViewDescriptor{
		Label:           fmt.Sprintf("array mip %d", level),
		Format:          t.format,
		Dimension:       wgpu.TextureViewDimension2DArray,
		BaseMipLevel:    level,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: t.layers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create array view for mip %d: %w", level, err)
	}
	return view, nil
}

// Destroy releases the texture's default view and the underlying GPU texture.
// The Texture must not be used after calling Destroy.
func (t *Texture) Destroy() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Destroy()
		t.texture = nil
	}
}
