package light

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGPUShadingUniformsSize(t *testing.T) {
	var u GPUShadingUniforms
	assert.Equal(t, 112, u.Size())
	assert.Len(t, u.Marshal(), 112)
}

func TestBuildShadingUniformsBasic(t *testing.T) {
	lights := []Light{
		NewLight(WithDirection(-1, 0, 0), WithRadiance(1, 0.5, 0.25)),
	}
	u := BuildShadingUniforms(lights, 1, 2, 3)

	assert.Equal(t, [4]float32{-1, 0, 0, 0}, u.Lights[0].Direction)
	assert.Equal(t, [4]float32{1, 0.5, 0.25, 0}, u.Lights[0].Radiance)
	assert.Equal(t, [4]float32{1, 2, 3, 1}, u.EyePosition)
}

func TestBuildShadingUniformsDisabledLightHasZeroRadiance(t *testing.T) {
	lights := []Light{
		NewLight(WithDirection(0, -1, 0), WithRadiance(5, 5, 5), WithEnabled(false)),
	}
	u := BuildShadingUniforms(lights, 0, 0, 0)

	assert.Equal(t, [4]float32{0, -1, 0, 0}, u.Lights[0].Direction)
	assert.Equal(t, [4]float32{0, 0, 0, 0}, u.Lights[0].Radiance)
}

func TestBuildShadingUniformsFillsMissingSlots(t *testing.T) {
	u := BuildShadingUniforms(nil, 0, 0, 0)
	for i := range MaxLights {
		assert.Equal(t, [4]float32{0, -1, 0, 0}, u.Lights[i].Direction)
		assert.Equal(t, [4]float32{0, 0, 0, 0}, u.Lights[i].Radiance)
	}
}

func TestBuildShadingUniformsTruncatesExtraLights(t *testing.T) {
	lights := make([]Light, 0, MaxLights+2)
	for i := 0; i < MaxLights+2; i++ {
		lights = append(lights, NewLight(WithDirection(float32(i+1), 0, 0)))
	}
	u := BuildShadingUniforms(lights, 0, 0, 0)

	for i := range MaxLights {
		assert.Equal(t, float32(i+1), u.Lights[i].Direction[0])
	}
}

func TestLightToggle(t *testing.T) {
	l := NewLight(WithDirection(1, 0, 0))
	assert.True(t, l.Enabled())
	l.SetEnabled(false)
	assert.False(t, l.Enabled())
}
