package renderer

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how finished frames reach the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank, capping the frame
	// rate to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents immediately without waiting for vertical
	// blank. Lowest latency, may tear.
	PresentModeUncapped
)

// MSAASampleCount is the multisample count for the scene color and depth
// targets. The multisampled scene color is resolved before the tone map pass
// samples it. WebGPU guarantees 1 and 4; 8 and 16 are adapter-dependent.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisampling (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x is the default sample count.
	MSAA4x MSAASampleCount = 4

	// MSAA8x is adapter-dependent.
	MSAA8x MSAASampleCount = 8

	// MSAA16x is adapter-dependent.
	MSAA16x MSAASampleCount = 16
)

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
