package ibl

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

const tol = 1.0e-5

func length3(v [3]float32) float32 {
	return math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func TestNumMipLevels(t *testing.T) {
	assert.Equal(t, uint32(1), NumMipLevels(1, 1))
	assert.Equal(t, uint32(2), NumMipLevels(2, 2))
	assert.Equal(t, uint32(9), NumMipLevels(256, 256))
	assert.Equal(t, uint32(11), NumMipLevels(1024, 1024))
	assert.Equal(t, uint32(11), NumMipLevels(1024, 512))
}

func TestRoughnessForLevel(t *testing.T) {
	levels := NumMipLevels(1024, 1024)
	assert.Equal(t, float32(0), RoughnessForLevel(0, levels))
	assert.Equal(t, float32(1), RoughnessForLevel(levels-1, levels))
	assert.InDelta(t, 0.5, RoughnessForLevel(5, levels), tol)

	// A single-level chain must not divide by zero.
	assert.Equal(t, float32(0), RoughnessForLevel(0, 1))
}

func TestRadicalInverse(t *testing.T) {
	assert.Equal(t, float32(0), RadicalInverse(0))
	assert.InDelta(t, 0.5, RadicalInverse(1), tol)
	assert.InDelta(t, 0.25, RadicalInverse(2), tol)
	assert.InDelta(t, 0.75, RadicalInverse(3), tol)
	assert.InDelta(t, 0.125, RadicalInverse(4), tol)
}

func TestHammersleyCoversUnitSquare(t *testing.T) {
	const n = 1024
	for i := uint32(0); i < n; i++ {
		u1, u2 := Hammersley(i, n)
		assert.GreaterOrEqual(t, u1, float32(0))
		assert.Less(t, u1, float32(1))
		assert.GreaterOrEqual(t, u2, float32(0))
		assert.Less(t, u2, float32(1))
	}
}

func TestSampleGGXIsUnitLength(t *testing.T) {
	for _, roughness := range []float32{0, 0.25, 0.5, 0.75, 1} {
		for i := uint32(0); i < 64; i++ {
			u1, u2 := Hammersley(i, 64)
			h := SampleGGX(u1, u2, roughness)
			assert.InDelta(t, 1.0, length3(h), tol)
			// Half vectors always point into the upper hemisphere.
			assert.GreaterOrEqual(t, h[2], float32(0))
		}
	}
}

func TestSampleGGXConcentratesWithLowRoughness(t *testing.T) {
	// At near-zero roughness the distribution collapses onto the normal.
	h := SampleGGX(0.3, 0.7, 0.001)
	assert.InDelta(t, 1.0, h[2], 1.0e-3)
}

func TestSampleHemisphereIsUnitLength(t *testing.T) {
	for i := uint32(0); i < 256; i++ {
		u1, u2 := Hammersley(i, 256)
		v := SampleHemisphere(u1, u2)
		assert.InDelta(t, 1.0, length3(v), tol)
		assert.GreaterOrEqual(t, v[2], float32(0))
	}
}

func TestNdfGGXPeaksAtNormalIncidence(t *testing.T) {
	for _, roughness := range []float32{0.2, 0.5, 0.8} {
		peak := NdfGGX(1, roughness)
		assert.Greater(t, peak, NdfGGX(0.9, roughness))
		assert.Greater(t, NdfGGX(0.9, roughness), NdfGGX(0.5, roughness))
		assert.Greater(t, peak, float32(0))
	}
}

func TestFaceBasisIsOrthonormal(t *testing.T) {
	for face := range 6 {
		r, s, tv := FaceBasis(face)
		assert.InDelta(t, 1.0, length3(r), tol)
		assert.InDelta(t, 1.0, length3(s), tol)
		assert.InDelta(t, 1.0, length3(tv), tol)
		assert.InDelta(t, 0.0, dot3(r, s), tol)
		assert.InDelta(t, 0.0, dot3(r, tv), tol)
		assert.InDelta(t, 0.0, dot3(s, tv), tol)
	}
}

func TestFaceDirectionCenters(t *testing.T) {
	// The center of each face looks along the face normal.
	expected := [6][3]float32{
		{1, 0, 0},
		{-1, 0, 0},
		{0, 1, 0},
		{0, -1, 0},
		{0, 0, 1},
		{0, 0, -1},
	}
	for face := range 6 {
		dir := FaceDirection(face, 0.5, 0.5)
		for axis := range 3 {
			assert.InDelta(t, expected[face][axis], dir[axis], tol)
		}
	}
}

func TestFaceDirectionCorners(t *testing.T) {
	// Top-left texel of +X: u grows toward -Z, v grows toward -Y in texel order.
	dir := FaceDirection(0, 0, 0)
	norm := 1 / math32.Sqrt(3)
	assert.InDelta(t, norm, dir[0], tol)
	assert.InDelta(t, norm, dir[1], tol)
	assert.InDelta(t, norm, dir[2], tol)

	for face := range 6 {
		for _, uv := range [][2]float32{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0.25, 0.75}} {
			dir := FaceDirection(face, uv[0], uv[1])
			assert.InDelta(t, 1.0, length3(dir), tol)
		}
	}
}

func TestDirectionToFaceUVRoundTrip(t *testing.T) {
	// Projecting the direction through an interior face point recovers the
	// face and coordinates it was built from. Edge points are excluded since
	// they fall on two faces.
	grid := []float32{0.05, 0.25, 0.5, 0.75, 0.95}
	for face := range 6 {
		for _, u := range grid {
			for _, v := range grid {
				dir := FaceDirection(face, u, v)
				gotFace, gotU, gotV := DirectionToFaceUV(dir)
				assert.Equal(t, face, gotFace, "face %d uv (%v, %v)", face, u, v)
				assert.InDelta(t, u, gotU, tol)
				assert.InDelta(t, v, gotV, tol)
			}
		}
	}
}

func TestDirectionToFaceUVFaceNormals(t *testing.T) {
	// A face normal projects to the center of its own face.
	for face := range 6 {
		r, _, _ := FaceBasis(face)
		gotFace, u, v := DirectionToFaceUV(r)
		assert.Equal(t, face, gotFace)
		assert.InDelta(t, 0.5, u, tol)
		assert.InDelta(t, 0.5, v, tol)
	}
}

func TestEquirectUVCardinalDirections(t *testing.T) {
	u, v := EquirectUV([3]float32{1, 0, 0})
	assert.InDelta(t, 0.0, u, tol)
	assert.InDelta(t, 0.5, v, tol)

	u, v = EquirectUV([3]float32{0, 0, 1})
	assert.InDelta(t, 0.25, u, tol)
	assert.InDelta(t, 0.5, v, tol)

	_, v = EquirectUV([3]float32{0, 1, 0})
	assert.InDelta(t, 0.0, v, tol)

	_, v = EquirectUV([3]float32{0, -1, 0})
	assert.InDelta(t, 1.0, v, tol)
}

func TestGaSchlickGGXIBLRange(t *testing.T) {
	for _, roughness := range []float32{0, 0.3, 0.7, 1} {
		for _, cos := range []float32{0.1, 0.5, 1} {
			g := GaSchlickGGXIBL(cos, cos, roughness)
			assert.Greater(t, g, float32(0))
			assert.LessOrEqual(t, g, float32(1)+tol)
		}
	}
}

func TestIntegrateBRDFSmoothSurface(t *testing.T) {
	// At zero roughness every half vector is the normal, so the texel reduces
	// to scale = 1 - (1-cosV)^5 and bias = (1-cosV)^5.
	for _, cosView := range []float32{0.2, 0.5, 0.9} {
		scale, bias := IntegrateBRDF(cosView, 0, 256)
		fresnel := math32.Pow(1-cosView, 5)
		assert.InDelta(t, 1-fresnel, scale, 1.0e-4)
		assert.InDelta(t, fresnel, bias, 1.0e-4)
		assert.InDelta(t, 1.0, scale+bias, 1.0e-4)
	}
}

func TestIntegrateBRDFStaysInRange(t *testing.T) {
	for _, roughness := range []float32{0.25, 0.5, 1} {
		for _, cosView := range []float32{0.1, 0.5, 0.95} {
			scale, bias := IntegrateBRDF(cosView, roughness, 512)
			assert.GreaterOrEqual(t, scale, float32(0))
			assert.GreaterOrEqual(t, bias, float32(0))
			assert.LessOrEqual(t, scale+bias, float32(1.05))
		}
	}
}

func TestIntegrateIrradianceConstantEnvironment(t *testing.T) {
	constant := func([3]float32) [3]float32 { return [3]float32{1, 0.5, 0.25} }

	for _, normal := range [][3]float32{{0, 0, 1}, {0, 1, 0}, {1, 0, 0}} {
		irr := IntegrateIrradiance(normal, constant, 4096)
		// A constant environment integrates back to the constant.
		assert.InDelta(t, 1.0, irr[0], 0.01)
		assert.InDelta(t, 0.5, irr[1], 0.01)
		assert.InDelta(t, 0.25, irr[2], 0.01)
	}
}

func TestIntegrateIrradianceDarkHemisphere(t *testing.T) {
	// Radiance only above the horizon: a normal pointing into the dark half
	// receives no light.
	sky := func(dir [3]float32) [3]float32 {
		if dir[2] > 0 {
			return [3]float32{1, 1, 1}
		}
		return [3]float32{0, 0, 0}
	}

	lit := IntegrateIrradiance([3]float32{0, 0, 1}, sky, 4096)
	dark := IntegrateIrradiance([3]float32{0, 0, -1}, sky, 4096)
	assert.InDelta(t, 1.0, lit[0], 0.01)
	assert.InDelta(t, 0.0, dark[0], tol)
}
