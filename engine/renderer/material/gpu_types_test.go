package material

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGPUTonemapParamsSize(t *testing.T) {
	p := GPUTonemapParams{Exposure: 1, PureWhite: 1}
	assert.Equal(t, 16, p.Size())
	assert.Len(t, p.Marshal(), 16)
}

func TestGPUTonemapParamsMarshalLayout(t *testing.T) {
	p := GPUTonemapParams{Exposure: 2.5, PureWhite: 11.2}
	raw := p.Marshal()

	exposure := math.Float32frombits(binary.LittleEndian.Uint32(raw[0:4]))
	pureWhite := math.Float32frombits(binary.LittleEndian.Uint32(raw[4:8]))
	assert.Equal(t, float32(2.5), exposure)
	assert.Equal(t, float32(11.2), pureWhite)
}

func TestMaterialBuilderAccessors(t *testing.T) {
	m := NewMaterial(WithName("steel"))
	assert.Equal(t, "steel", m.Name())
	assert.Nil(t, m.BindGroupProvider())
}
