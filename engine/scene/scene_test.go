package scene

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/pbr-go/engine/camera"
	"github.com/Carmen-Shannon/pbr-go/engine/game_object"
	"github.com/Carmen-Shannon/pbr-go/engine/light"
	"github.com/Carmen-Shannon/pbr-go/engine/model"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer/material"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestScene builds a scene without a renderer. Objects added to it must
// already carry a frame provider so Add never reaches the GPU.
func newTestScene() *scene {
	return &scene{
		name:        "test",
		active:      true,
		pipelineKey: "pbr",
		objects:     make(map[uint64]game_object.GameObject),
	}
}

// newTestObject returns an enabled object with a pre-attached frame provider.
func newTestObject(options ...game_object.GameObjectBuilderOption) game_object.GameObject {
	obj := game_object.NewGameObject(options...)
	obj.SetFrameProvider(bind_group_provider.NewBindGroupProvider("test_frame"))
	return obj
}

func TestSceneAddGetRemove(t *testing.T) {
	s := newTestScene()

	obj := newTestObject()
	id := s.Add(obj)
	require.Equal(t, obj.ID(), id)
	assert.Equal(t, 1, s.Count())
	assert.Same(t, obj, s.Get(id))

	// Re-adding the same object must not duplicate it.
	s.Add(obj)
	assert.Equal(t, 1, s.Count())

	s.Remove(id)
	assert.Equal(t, 0, s.Count())
	assert.Nil(t, s.Get(id))

	// Removing an unknown ID is a no-op.
	s.Remove(id)
	assert.Equal(t, 0, s.Count())
}

func TestSceneAddNilObject(t *testing.T) {
	s := newTestScene()
	assert.Equal(t, uint64(0), s.Add(nil))
	assert.Equal(t, 0, s.Count())
}

func TestSceneClear(t *testing.T) {
	s := newTestScene()
	s.Add(newTestObject())
	s.Add(newTestObject())
	require.Equal(t, 2, s.Count())

	s.Clear()
	assert.Equal(t, 0, s.Count())
}

func TestSceneLightsIncludeAttached(t *testing.T) {
	s := newTestScene()

	sceneLight := light.NewLight(light.WithDirection(-1, 0, 0))
	s.AddLight(sceneLight)

	attached := light.NewLight(light.WithDirection(0, -1, 0))
	carrier := newTestObject(game_object.WithLight(attached))
	s.Add(carrier)

	lights := s.Lights()
	require.Len(t, lights, 2)
	assert.Same(t, sceneLight, lights[0])
	assert.Same(t, attached, lights[1])

	// Disabling the carrier removes its light from the effective set.
	carrier.SetEnabled(false)
	lights = s.Lights()
	require.Len(t, lights, 1)
	assert.Same(t, sceneLight, lights[0])
}

func TestSceneRemoveLight(t *testing.T) {
	s := newTestScene()

	l1 := light.NewLight()
	l2 := light.NewLight()
	s.AddLight(l1)
	s.AddLight(l2)
	require.Len(t, s.Lights(), 2)

	s.RemoveLight(l1)
	lights := s.Lights()
	require.Len(t, lights, 1)
	assert.Same(t, l2, lights[0])

	// Removing a light that is not present is a no-op.
	s.RemoveLight(l1)
	assert.Len(t, s.Lights(), 1)

	s.AddLight(nil)
	assert.Len(t, s.Lights(), 1)
}

func TestSceneUpdateAdvancesEnabledObjects(t *testing.T) {
	s := newTestScene()

	spinning := newTestObject(game_object.WithRotationSpeed(0, 1, 0))
	frozen := newTestObject(game_object.WithRotationSpeed(0, 1, 0), game_object.WithEnabled(false))
	s.Add(spinning)
	s.Add(frozen)

	s.Update(0.5)

	_, ry, _ := spinning.Rotation()
	assert.InDelta(t, 0.5, ry, 1e-6)

	_, ry, _ = frozen.Rotation()
	assert.Zero(t, ry)
}

func TestSceneRenderGating(t *testing.T) {
	// Render is a no-op before an environment is set and on inactive scenes.
	// The nil renderer panics if either gate fails to short-circuit.
	s := newTestScene()
	assert.NotPanics(t, func() { assert.NoError(t, s.Render()) })

	s.environment = bind_group_provider.NewBindGroupProvider("env")
	s.active = false
	assert.NotPanics(t, func() { assert.NoError(t, s.Render()) })
}

func TestSceneFlags(t *testing.T) {
	s := newTestScene()

	assert.Equal(t, "test", s.Name())
	s.SetName("renamed")
	assert.Equal(t, "renamed", s.Name())

	assert.True(t, s.Active())
	s.SetActive(false)
	assert.False(t, s.Active())

	assert.False(t, s.CullingDisabled())
	s.SetCullingDisabled(true)
	assert.True(t, s.CullingDisabled())
}

// recordingRenderer stubs the draw path so Render can run without a GPU.
// Methods outside the draw path panic through the embedded nil interface.
type recordingRenderer struct {
	renderer.Renderer
	drawErr error
	draws   int
}

func (r *recordingRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {}

func (r *recordingRenderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.draws++
	return r.drawErr
}

func TestSceneRenderPropagatesDrawErrors(t *testing.T) {
	rec := &recordingRenderer{drawErr: errors.New("device lost")}
	s := newTestScene()
	s.r = rec
	s.cam = camera.NewCamera()
	s.cullingDisabled = true
	s.environment = bind_group_provider.NewBindGroupProvider("env")

	mat := material.NewMaterial(material.WithBindGroupProvider(bind_group_provider.NewBindGroupProvider("mat")))
	mdl := model.NewModel(
		model.WithMeshProvider(bind_group_provider.NewBindGroupProvider("mesh")),
		model.WithMaterials(mat),
	)
	obj := newTestObject(game_object.WithModel(mdl))
	s.objects[obj.ID()] = obj
	s.order = append(s.order, obj.ID())

	err := s.Render()
	require.Error(t, err)
	assert.ErrorContains(t, err, "device lost")
	assert.Equal(t, 1, rec.draws)
	assert.Zero(t, s.VisibleCount())

	rec.drawErr = nil
	require.NoError(t, s.Render())
	assert.Equal(t, 2, rec.draws)
	assert.Equal(t, 1, s.VisibleCount())
}
