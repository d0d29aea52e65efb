package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBindGroup is an option builder that sets a pre-built bind group.
//
// Parameters:
//   - bg: the bind group
//
// Returns:
//   - BindGroupProviderOption: the option
func WithBindGroup(bg *wgpu.BindGroup) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroup = bg
	}
}

// WithBindGroupLayout is an option builder that sets a pre-built bind group layout.
//
// Parameters:
//   - bgl: the bind group layout
//
// Returns:
//   - BindGroupProviderOption: the option
func WithBindGroupLayout(bgl *wgpu.BindGroupLayout) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroupLayout = bgl
	}
}

// WithBuffer is an option builder that sets a buffer at a binding index.
//
// Parameters:
//   - binding: the binding index
//   - buf: the buffer to bind
//
// Returns:
//   - BindGroupProviderOption: the option
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
	}
}

// WithBuffers is an option builder that replaces all buffers at once.
//
// Parameters:
//   - buffers: the buffers keyed by binding index
//
// Returns:
//   - BindGroupProviderOption: the option
func WithBuffers(buffers map[int]*wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers = buffers
	}
}

// WithTextureView is an option builder that pre-seeds a texture view at a
// binding index. InitBindGroup binds pre-seeded views instead of creating
// buffers for those bindings.
//
// Parameters:
//   - binding: the binding index
//   - tv: the texture view to bind
//
// Returns:
//   - BindGroupProviderOption: the option
func WithTextureView(binding int, tv *wgpu.TextureView) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.textureViews[binding] = tv
	}
}
