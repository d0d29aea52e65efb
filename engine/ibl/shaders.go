package ibl

import (
	_ "embed"

	"github.com/Carmen-Shannon/pbr-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer/shader"
)

// Pipeline keys for the precompute passes, registered with the renderer by NewPrecomputer.
const (
	PipelineKeyEquirectToCube  = "ibl_equirect2cube"
	PipelineKeySpecularFilter  = "ibl_spmap"
	PipelineKeyIrradiance      = "ibl_irmap"
	PipelineKeyBRDFLUT         = "ibl_spbrdf"
	PipelineKeyDownsampleArray = "ibl_downsample_array"
	PipelineKeyDownsample      = "ibl_downsample"
	PipelineKeyDownsampleGamma = "ibl_downsample_gamma"
)

//go:embed assets/equirect2cube.wgsl
var equirectToCubeSource string

//go:embed assets/spmap.wgsl
var specularFilterSource string

//go:embed assets/irmap.wgsl
var irradianceSource string

//go:embed assets/spbrdf.wgsl
var brdfLUTSource string

//go:embed assets/downsample-array.wgsl
var downsampleArraySource string

//go:embed assets/downsample.wgsl
var downsampleSource string

//go:embed assets/downsample-gamma.wgsl
var downsampleGammaSource string

// computePipelines builds the compute pipelines for every precompute pass from
// the embedded WGSL sources.
func computePipelines() []pipeline.Pipeline {
	sources := []struct {
		key    string
		source string
	}{
		{PipelineKeyEquirectToCube, equirectToCubeSource},
		{PipelineKeySpecularFilter, specularFilterSource},
		{PipelineKeyIrradiance, irradianceSource},
		{PipelineKeyBRDFLUT, brdfLUTSource},
		{PipelineKeyDownsampleArray, downsampleArraySource},
		{PipelineKeyDownsample, downsampleSource},
		{PipelineKeyDownsampleGamma, downsampleGammaSource},
	}

	pipelines := make([]pipeline.Pipeline, 0, len(sources))
	for _, s := range sources {
		pipelines = append(pipelines, pipeline.NewPipeline(s.key, pipeline.PipelineTypeCompute,
			pipeline.WithComputeShader(shader.NewShaderFromSource(s.key, shader.ShaderTypeCompute, s.source))))
	}
	return pipelines
}
