package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

// buildViewProjection assembles a perspective view-projection for a camera at eye
// looking at the origin.
func buildViewProjection(eyeX, eyeY, eyeZ float32) [16]float32 {
	var view, proj, vp [16]float32
	LookAt(view[:], eyeX, eyeY, eyeZ, 0, 0, 0, 0, 1, 0)
	Perspective(proj[:], math32.Pi/3, 16.0/9.0, 0.1, 1000)
	Mul4(vp[:], proj[:], view[:])
	return vp
}

func TestFrustumPlanesAreNormalized(t *testing.T) {
	vp := buildViewProjection(0, 0, 10)
	f := ExtractFrustumFromMatrix(vp[:])
	for i := range f.Planes {
		n := f.Planes[i].Normal
		length := math32.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
		assert.InDelta(t, 1.0, length, 1.0e-4, "plane %d", i)
	}
}

func TestContainsSphereInsideFrustum(t *testing.T) {
	vp := buildViewProjection(0, 0, 10)
	f := ExtractFrustumFromMatrix(vp[:])

	assert.True(t, f.ContainsSphere(0, 0, 0, 1))
	assert.True(t, f.ContainsSphere(0, 0, 5, 0.5))
}

func TestContainsSphereBehindCamera(t *testing.T) {
	vp := buildViewProjection(0, 0, 10)
	f := ExtractFrustumFromMatrix(vp[:])

	assert.False(t, f.ContainsSphere(0, 0, 50, 1))
}

func TestContainsSphereOutsideSides(t *testing.T) {
	vp := buildViewProjection(0, 0, 10)
	f := ExtractFrustumFromMatrix(vp[:])

	// Far off to the side at close depth.
	assert.False(t, f.ContainsSphere(100, 0, 9, 1))
	assert.False(t, f.ContainsSphere(0, 100, 9, 1))
}

func TestContainsSphereStraddlingPlane(t *testing.T) {
	vp := buildViewProjection(0, 0, 10)
	f := ExtractFrustumFromMatrix(vp[:])

	// Center outside the far plane but radius reaching back in.
	assert.True(t, f.ContainsSphere(0, 0, -995, 20))
	assert.False(t, f.ContainsSphere(0, 0, -1100, 20))
}
