package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const tol = 1.0e-5

func TestIdentity(t *testing.T) {
	var m [16]float32
	Identity(m[:])
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			expected := float32(0)
			if col == row {
				expected = 1
			}
			assert.Equal(t, expected, m[col*4+row])
		}
	}
}

func TestMul4Identity(t *testing.T) {
	var id, a, out [16]float32
	Identity(id[:])
	for i := range a {
		a[i] = float32(i) * 0.5
	}
	Mul4(out[:], id[:], a[:])
	assert.Equal(t, a, out)
	Mul4(out[:], a[:], id[:])
	assert.Equal(t, a, out)
}

func TestBuildModelMatrixTranslationAndScale(t *testing.T) {
	var m [16]float32
	BuildModelMatrix(m[:], 3, -2, 7, 0, 0, 0, 2, 4, 8)

	// Column-major: translation lives in the fourth column.
	assert.InDelta(t, 3.0, m[12], tol)
	assert.InDelta(t, -2.0, m[13], tol)
	assert.InDelta(t, 7.0, m[14], tol)
	assert.InDelta(t, 1.0, m[15], tol)

	// With zero rotation the scale sits on the diagonal.
	assert.InDelta(t, 2.0, m[0], tol)
	assert.InDelta(t, 4.0, m[5], tol)
	assert.InDelta(t, 8.0, m[10], tol)
}

func TestBuildModelMatrixIdentityAtRest(t *testing.T) {
	var m, id [16]float32
	BuildModelMatrix(m[:], 0, 0, 0, 0, 0, 0, 1, 1, 1)
	Identity(id[:])
	for i := range m {
		assert.InDelta(t, id[i], m[i], tol)
	}
}

func TestLookAtTransformsEyeToOrigin(t *testing.T) {
	var view [16]float32
	LookAt(view[:], 0, 0, 5, 0, 0, 0, 0, 1, 0)

	// The eye maps to the view-space origin.
	x := view[0]*0 + view[4]*0 + view[8]*5 + view[12]
	y := view[1]*0 + view[5]*0 + view[9]*5 + view[13]
	z := view[2]*0 + view[6]*0 + view[10]*5 + view[14]
	assert.InDelta(t, 0.0, x, tol)
	assert.InDelta(t, 0.0, y, tol)
	assert.InDelta(t, 0.0, z, tol)

	// The target sits in front of the camera along -Z.
	tz := view[2]*0 + view[6]*0 + view[10]*0 + view[14]
	assert.InDelta(t, -5.0, tz, tol)
}

func TestRotationYQuarterTurn(t *testing.T) {
	var m [16]float32
	RotationY(m[:], 1.5707964)

	// +X rotates to -Z.
	x := m[0]*1 + m[4]*0 + m[8]*0
	z := m[2]*1 + m[6]*0 + m[10]*0
	assert.InDelta(t, 0.0, x, 1.0e-4)
	assert.InDelta(t, -1.0, z, 1.0e-4)
}

func TestSliceToBytes(t *testing.T) {
	data := []float32{1, 2, 3}
	raw := SliceToBytes(data)
	assert.Len(t, raw, 12)

	verts := [][3]float32{{1, 2, 3}, {4, 5, 6}}
	assert.Len(t, SliceToBytes(verts), 24)

	assert.Nil(t, SliceToBytes([]uint32(nil)))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 5, Coalesce(0, 0, 5, 3))
	assert.Equal(t, "a", Coalesce("", "a"))
	assert.Equal(t, 0, Coalesce(0, 0))
}
