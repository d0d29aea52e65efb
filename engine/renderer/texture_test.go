package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/pbr-go/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newGPURenderer creates a windowed renderer, skipping the test on machines
// without a display or GPU adapter.
func newGPURenderer(t *testing.T) Renderer {
	t.Helper()

	var r Renderer
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				t.Skipf("no GPU environment available: %v", rec)
			}
		}()
		win := window.NewWindow(
			window.WithTitle("texture test"),
			window.WithWidth(640),
			window.WithHeight(480),
		)
		r = NewRenderer(BackendTypeWGPU, win)
	}()
	return r
}

func TestCreateTextureBuildsDefaultView(t *testing.T) {
	r := newGPURenderer(t)
	defer r.Release()

	tex, err := r.CreateTexture("cube test", 32, 32, 6, 6, wgpu.TextureFormatRGBA16Float,
		wgpu.TextureUsageTextureBinding|wgpu.TextureUsageStorageBinding)
	require.NoError(t, err)
	defer tex.Destroy()

	// Every successfully created texture carries a usable default view.
	require.NotNil(t, tex.View())
	assert.Equal(t, uint32(6), tex.Layers())
	assert.Equal(t, uint32(6), tex.MipLevels())

	view, err := tex.StorageMipView(3)
	require.NoError(t, err)
	view.Release()
}
