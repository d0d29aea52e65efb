package ibl

import (
	"testing"

	"github.com/Carmen-Shannon/pbr-go/common"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer"
	"github.com/Carmen-Shannon/pbr-go/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRenderer creates a windowed renderer, skipping the test on machines
// without a display or GPU adapter.
func newTestRenderer(t *testing.T) renderer.Renderer {
	t.Helper()

	var r renderer.Renderer
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				t.Skipf("no GPU environment available: %v", rec)
			}
		}()
		win := window.NewWindow(
			window.WithTitle("ibl test"),
			window.WithWidth(640),
			window.WithHeight(480),
		)
		r = renderer.NewRenderer(renderer.BackendTypeWGPU, win)
	}()
	return r
}

// constantEquirect builds a small equirect buffer filled with one color.
func constantEquirect(width, height uint32, r, g, b float32) *common.PixelBuffer {
	pix := make([]float32, width*height*4)
	for i := uint32(0); i < width*height; i++ {
		pix[i*4+0] = r
		pix[i*4+1] = g
		pix[i*4+2] = b
		pix[i*4+3] = 1
	}
	return &common.PixelBuffer{Pix: pix, Width: width, Height: height}
}

func TestPrecomputeProducesEnvironmentMaps(t *testing.T) {
	r := newTestRenderer(t)
	defer r.Release()

	cfg := Config{
		EnvironmentSize:   64,
		IrradianceSize:    16,
		BRDFLUTSize:       16,
		SpecularSamples:   64,
		IrradianceSamples: 256,
		BRDFSamples:       64,
	}
	pre, err := NewPrecomputer(r, WithConfig(cfg))
	require.NoError(t, err)

	maps, err := pre.Precompute(constantEquirect(32, 16, 1, 1, 1))
	require.NoError(t, err)
	defer maps.Destroy()

	require.NotNil(t, maps.Specular)
	require.NotNil(t, maps.Irradiance)
	require.NotNil(t, maps.BRDFLUT)

	assert.Equal(t, uint32(64), maps.Specular.Width())
	assert.Equal(t, uint32(64), maps.Specular.Height())
	assert.Equal(t, uint32(6), maps.Specular.Layers())
	assert.Equal(t, NumMipLevels(64, 64), maps.Specular.MipLevels())
	assert.Equal(t, wgpu.TextureFormatRGBA16Float, maps.Specular.Format())

	assert.Equal(t, uint32(16), maps.Irradiance.Width())
	assert.Equal(t, uint32(6), maps.Irradiance.Layers())
	assert.Equal(t, uint32(1), maps.Irradiance.MipLevels())

	assert.Equal(t, uint32(16), maps.BRDFLUT.Width())
	assert.Equal(t, uint32(16), maps.BRDFLUT.Height())
	assert.Equal(t, uint32(1), maps.BRDFLUT.Layers())
}

func TestPrecomputeMipSchedule(t *testing.T) {
	r := newTestRenderer(t)
	defer r.Release()

	pre, err := NewPrecomputer(r, WithConfig(Config{
		EnvironmentSize:   32,
		IrradianceSize:    16,
		BRDFLUTSize:       16,
		SpecularSamples:   64,
		IrradianceSamples: 256,
		BRDFSamples:       64,
	}))
	require.NoError(t, err)

	maps, err := pre.Precompute(constantEquirect(16, 8, 0.5, 0.5, 0.5))
	require.NoError(t, err)
	defer maps.Destroy()

	// 32 → 16 → 8 → 4 → 2 → 1.
	assert.Equal(t, uint32(6), maps.Specular.MipLevels())
	w, h := maps.Specular.MipSize(5)
	assert.Equal(t, uint32(1), w)
	assert.Equal(t, uint32(1), h)
}

func TestDispatchGroupsCoversPartialEdges(t *testing.T) {
	cases := []struct {
		name      string
		extent    uint32
		groupSize uint32
		want      uint32
	}{
		{"smaller than one group", 16, 32, 1},
		{"exactly one group", 32, 32, 1},
		{"one texel over", 33, 32, 2},
		{"full environment face", 1024, 32, 32},
		{"downsample group", 12, 8, 2},
		{"single texel", 1, 32, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, dispatchGroups(c.extent, c.groupSize))
		})
	}
}

func TestConfigWithDefaultsFillsUnsetFields(t *testing.T) {
	def := DefaultConfig()

	c := Config{EnvironmentSize: 32}.withDefaults()
	assert.Equal(t, uint32(32), c.EnvironmentSize)
	assert.Equal(t, def.IrradianceSize, c.IrradianceSize)
	assert.Equal(t, def.BRDFLUTSize, c.BRDFLUTSize)
	assert.Equal(t, def.SpecularSamples, c.SpecularSamples)
	assert.Equal(t, def.IrradianceSamples, c.IrradianceSamples)
	assert.Equal(t, def.BRDFSamples, c.BRDFSamples)

	assert.Equal(t, def, Config{}.withDefaults())

	full := Config{
		EnvironmentSize:   64,
		IrradianceSize:    16,
		BRDFLUTSize:       16,
		SpecularSamples:   64,
		IrradianceSamples: 256,
		BRDFSamples:       64,
	}
	assert.Equal(t, full, full.withDefaults())
}
