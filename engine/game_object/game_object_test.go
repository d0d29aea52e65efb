package game_object

import (
	"testing"

	"github.com/Carmen-Shannon/pbr-go/engine/light"
	"github.com/Carmen-Shannon/pbr-go/engine/model"
	"github.com/stretchr/testify/assert"
)

func TestNewGameObjectDefaults(t *testing.T) {
	obj := NewGameObject()
	assert.True(t, obj.Enabled())
	assert.Nil(t, obj.Model())
	assert.Nil(t, obj.FrameProvider())

	sx, sy, sz := obj.Scale()
	assert.Equal(t, float32(1), sx)
	assert.Equal(t, float32(1), sy)
	assert.Equal(t, float32(1), sz)
}

func TestGameObjectIDsAreUnique(t *testing.T) {
	a := NewGameObject()
	b := NewGameObject()
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestGameObjectAdvance(t *testing.T) {
	obj := NewGameObject(
		WithRotation(0, 1, 0),
		WithRotationSpeed(0, 0.5, 2),
	)
	obj.Advance(2)

	rx, ry, rz := obj.Rotation()
	assert.Equal(t, float32(0), rx)
	assert.InDelta(t, 2.0, ry, 1.0e-6)
	assert.InDelta(t, 4.0, rz, 1.0e-6)
}

func TestGameObjectModelMatrixTranslation(t *testing.T) {
	obj := NewGameObject(WithPosition(4, 5, 6))
	m := obj.ModelMatrix()

	assert.InDelta(t, 4.0, m[12], 1.0e-6)
	assert.InDelta(t, 5.0, m[13], 1.0e-6)
	assert.InDelta(t, 6.0, m[14], 1.0e-6)
}

func TestGameObjectBoundingRadiusScales(t *testing.T) {
	mdl := model.NewModel(model.WithBoundingRadius(2))
	obj := NewGameObject(
		WithModel(mdl),
		WithScale(1, 3, 2),
	)
	assert.Equal(t, float32(6), obj.BoundingRadius())

	empty := NewGameObject()
	assert.Equal(t, float32(0), empty.BoundingRadius())
}

func TestGameObjectAttachedLight(t *testing.T) {
	l := light.NewLight(light.WithDirection(0, -1, 0))
	obj := NewGameObject(WithLight(l))
	assert.Equal(t, l, obj.Light())

	assert.Nil(t, NewGameObject().Light())
}
