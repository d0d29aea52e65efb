package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

const tol = 1.0e-4

func TestGPUTransformUniformsSize(t *testing.T) {
	var u GPUTransformUniforms
	assert.Equal(t, 192, u.Size())
	assert.Len(t, u.Marshal(), 192)
}

func TestOrbitControllerPosition(t *testing.T) {
	ctrl := NewOrbitController(
		WithTarget(0, 0, 0),
		WithRadius(10),
		WithAzimuth(0),
		WithElevation(0),
	)

	// At zero azimuth and elevation the camera sits on +Z.
	x, y, z := ctrl.Position()
	assert.InDelta(t, 0.0, x, tol)
	assert.InDelta(t, 0.0, y, tol)
	assert.InDelta(t, 10.0, z, tol)

	ctrl.SetAzimuth(math32.Pi / 2)
	x, _, z = ctrl.Position()
	assert.InDelta(t, 10.0, x, tol)
	assert.InDelta(t, 0.0, z, tol)

	ctrl.SetElevation(math32.Pi / 4)
	_, y, _ = ctrl.Position()
	assert.InDelta(t, 10.0*math32.Sin(math32.Pi/4), y, tol)
}

func TestOrbitControllerElevationClamped(t *testing.T) {
	ctrl := NewOrbitController(WithRadius(10))
	ctrl.SetElevation(10)
	assert.Less(t, ctrl.Elevation(), math32.Pi/2)
	ctrl.SetElevation(-10)
	assert.Greater(t, ctrl.Elevation(), -math32.Pi/2)
}

func TestOrbitControllerZoomClampsToBounds(t *testing.T) {
	ctrl := NewOrbitController(
		WithRadius(10),
		WithRadiusBounds(5, 20),
		WithZoomSpeed(100),
	)

	ctrl.Zoom(1)
	assert.Equal(t, float32(5), ctrl.Radius())
	ctrl.Zoom(-1)
	assert.Equal(t, float32(20), ctrl.Radius())
}

func TestOrbitControllerTargetOffset(t *testing.T) {
	ctrl := NewOrbitController(
		WithTarget(1, 2, 3),
		WithRadius(4),
		WithElevation(0),
	)
	x, y, z := ctrl.Position()
	assert.InDelta(t, 1.0, x, tol)
	assert.InDelta(t, 2.0, y, tol)
	assert.InDelta(t, 7.0, z, tol)
}

func TestCameraViewMatrixLooksAtTarget(t *testing.T) {
	cam := NewCamera(
		WithAspect(1),
		WithController(NewOrbitController(WithTarget(0, 0, 0), WithRadius(5))),
	)
	cam.Update()

	view := cam.ViewMatrix()
	// The target projects to -radius along the view-space Z axis.
	z := view[2]*0 + view[6]*0 + view[10]*0 + view[14]
	assert.InDelta(t, -5.0, z, tol)
}

func TestSkyViewProjectionIgnoresTranslation(t *testing.T) {
	cam := NewCamera(
		WithAspect(1),
		WithController(NewOrbitController(WithTarget(50, -20, 30), WithRadius(5))),
	)
	cam.Update()

	// Two cameras with the same orientation but different positions share the
	// same sky view-projection.
	cam2 := NewCamera(
		WithAspect(1),
		WithController(NewOrbitController(WithTarget(0, 0, 0), WithRadius(5))),
	)
	cam2.Update()

	a := cam.SkyViewProjectionMatrix()
	b := cam2.SkyViewProjectionMatrix()
	for i := range a {
		assert.InDelta(t, b[i], a[i], tol)
	}
}

func TestSetAspectChangesProjection(t *testing.T) {
	cam := NewCamera(WithAspect(1), WithController(NewOrbitController(WithRadius(5))))
	cam.Update()
	before := cam.ProjectionMatrix()

	cam.SetAspect(2)
	cam.Update()
	after := cam.ProjectionMatrix()
	assert.InDelta(t, before[0]/2, after[0], tol)
	assert.Equal(t, before[5], after[5])
}
