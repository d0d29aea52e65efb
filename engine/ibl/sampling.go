package ibl

import (
	"github.com/chewxy/math32"
)

// faceBases holds the per-face cubemap basis. Index 0 is the face normal,
// indices 1 and 2 span the face plane in texel u and v order. Face order is
// +X, -X, +Y, -Y, +Z, -Z.
var faceBases = [6][3][3]float32{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

// NumMipLevels returns the length of a full mip chain for the given dimensions.
//
// Parameters:
//   - width, height: base level dimensions in texels
//
// Returns:
//   - uint32: the number of mip levels down to 1x1
func NumMipLevels(width, height uint32) uint32 {
	levels := uint32(1)
	for size := max(width, height); size > 1; size >>= 1 {
		levels++
	}
	return levels
}

// RoughnessForLevel maps a specular map mip level to the roughness value it is
// prefiltered for. Level zero is roughness zero and the last level is roughness one.
//
// Parameters:
//   - level: the mip level
//   - levels: the total number of mip levels in the chain
//
// Returns:
//   - float32: the roughness in [0, 1]
func RoughnessForLevel(level, levels uint32) float32 {
	if levels <= 1 {
		return 0
	}
	return float32(level) / float32(levels-1)
}

// RadicalInverse computes the Van der Corput radical inverse of the input in base 2.
//
// Parameters:
//   - bits: the sample index
//
// Returns:
//   - float32: the radical inverse in [0, 1)
func RadicalInverse(bits uint32) float32 {
	bits = (bits << 16) | (bits >> 16)
	bits = ((bits & 0x55555555) << 1) | ((bits & 0xAAAAAAAA) >> 1)
	bits = ((bits & 0x33333333) << 2) | ((bits & 0xCCCCCCCC) >> 2)
	bits = ((bits & 0x0F0F0F0F) << 4) | ((bits & 0xF0F0F0F0) >> 4)
	bits = ((bits & 0x00FF00FF) << 8) | ((bits & 0xFF00FF00) >> 8)
	return float32(bits) * 2.3283064365386963e-10
}

// Hammersley returns the i-th point of an n-point Hammersley sequence on the unit square.
//
// Parameters:
//   - i: the sample index
//   - n: the total number of samples
//
// Returns:
//   - u1, u2: the quasirandom point coordinates in [0, 1)
func Hammersley(i, n uint32) (u1, u2 float32) {
	return float32(i) / float32(n), RadicalInverse(i)
}

// SampleGGX importance-samples the GGX normal distribution, returning a
// tangent-space half vector with +Z along the surface normal. Uses Disney's
// roughness remapping (alpha = roughness squared).
//
// Parameters:
//   - u1, u2: quasirandom point on the unit square
//   - roughness: the surface roughness in [0, 1]
//
// Returns:
//   - [3]float32: the sampled unit half vector
func SampleGGX(u1, u2, roughness float32) [3]float32 {
	alpha := roughness * roughness
	cosTheta := math32.Sqrt((1 - u2) / (1 + (alpha*alpha-1)*u2))
	sinTheta := math32.Sqrt(1 - cosTheta*cosTheta)
	phi := 2 * math32.Pi * u1
	return [3]float32{sinTheta * math32.Cos(phi), sinTheta * math32.Sin(phi), cosTheta}
}

// SampleHemisphere uniformly samples a direction on the unit hemisphere with
// +Z along the surface normal.
//
// Parameters:
//   - u1, u2: quasirandom point on the unit square
//
// Returns:
//   - [3]float32: the sampled unit direction
func SampleHemisphere(u1, u2 float32) [3]float32 {
	u1p := math32.Sqrt(math32.Max(0, 1-u1*u1))
	phi := 2 * math32.Pi * u2
	return [3]float32{math32.Cos(phi) * u1p, math32.Sin(phi) * u1p, u1}
}

// NdfGGX evaluates the GGX/Towbridge-Reitz normal distribution function.
//
// Parameters:
//   - cosHalf: cosine between the surface normal and the half vector
//   - roughness: the surface roughness in [0, 1]
//
// Returns:
//   - float32: the distribution density
func NdfGGX(cosHalf, roughness float32) float32 {
	alpha := roughness * roughness
	alphaSq := alpha * alpha
	denom := cosHalf*cosHalf*(alphaSq-1) + 1
	return alphaSq / (math32.Pi * denom * denom)
}

// FaceBasis returns the cubemap basis vectors for a face: the face normal and
// the two vectors spanning the face plane in texel u and v order.
//
// Parameters:
//   - face: the cubemap face index in +X, -X, +Y, -Y, +Z, -Z order
//
// Returns:
//   - r, s, t: the face normal and the two in-plane basis vectors
func FaceBasis(face int) (r, s, t [3]float32) {
	basis := faceBases[face]
	return basis[0], basis[1], basis[2]
}

// FaceDirection returns the normalized world-space direction through the point
// (u, v) of a cubemap face, where both coordinates are in [0, 1] with v growing
// downward in texel order.
//
// Parameters:
//   - face: the cubemap face index in +X, -X, +Y, -Y, +Z, -Z order
//   - u, v: normalized face coordinates
//
// Returns:
//   - [3]float32: the normalized sampling direction
func FaceDirection(face int, u, v float32) [3]float32 {
	x := 2*u - 1
	y := 2*(1-v) - 1
	r, s, t := FaceBasis(face)
	dir := [3]float32{
		r[0] + x*s[0] + y*t[0],
		r[1] + x*s[1] + y*t[1],
		r[2] + x*s[2] + y*t[2],
	}
	length := math32.Sqrt(dir[0]*dir[0] + dir[1]*dir[1] + dir[2]*dir[2])
	return [3]float32{dir[0] / length, dir[1] / length, dir[2] / length}
}

// DirectionToFaceUV projects a world-space direction onto the cubemap face
// whose axis dominates it, returning the face index and the normalized face
// coordinates FaceDirection maps back to the same direction. Directions on a
// face edge resolve to the face earliest in +X, -X, +Y, -Y, +Z, -Z order.
//
// Parameters:
//   - dir: the direction to project, not necessarily unit length
//
// Returns:
//   - face: the cubemap face index
//   - u, v: normalized face coordinates in [0, 1], v growing downward
func DirectionToFaceUV(dir [3]float32) (face int, u, v float32) {
	ax := math32.Abs(dir[0])
	ay := math32.Abs(dir[1])
	az := math32.Abs(dir[2])
	switch {
	case ax >= ay && ax >= az:
		face = 0
		if dir[0] < 0 {
			face = 1
		}
	case ay >= az:
		face = 2
		if dir[1] < 0 {
			face = 3
		}
	default:
		face = 4
		if dir[2] < 0 {
			face = 5
		}
	}
	r, s, t := FaceBasis(face)
	scale := dot3vec(dir, r)
	x := dot3vec(dir, s) / scale
	y := dot3vec(dir, t) / scale
	return face, (x + 1) / 2, (1 - y) / 2
}

// EquirectUV maps a world-space direction to equirectangular texture
// coordinates, matching the sampling in the cubemap conversion pass.
//
// Parameters:
//   - dir: the unit direction
//
// Returns:
//   - u, v: the equirectangular coordinates, u in [-0.5, 0.5] wrapping, v in [0, 1]
func EquirectUV(dir [3]float32) (u, v float32) {
	phi := math32.Atan2(dir[2], dir[0])
	theta := math32.Acos(math32.Max(-1, math32.Min(1, dir[1])))
	return phi / (2 * math32.Pi), theta / math32.Pi
}

// GaSchlickGGXIBL evaluates the Schlick-GGX geometric attenuation term with the
// k remapping used for image based lighting.
//
// Parameters:
//   - cosLight, cosView: cosines of the light and view angles
//   - roughness: the surface roughness in [0, 1]
//
// Returns:
//   - float32: the attenuation factor
func GaSchlickGGXIBL(cosLight, cosView, roughness float32) float32 {
	alpha := roughness * roughness
	k := alpha / 2
	g1 := func(cosTheta float32) float32 {
		return cosTheta / (cosTheta*(1-k) + k)
	}
	return g1(cosLight) * g1(cosView)
}

// IntegrateBRDF computes one texel of the split-sum BRDF lookup table on the
// CPU, mirroring the integration the LUT compute pass performs.
//
// Parameters:
//   - cosView: cosine of the viewing angle
//   - roughness: the surface roughness in [0, 1]
//   - numSamples: the number of quasirandom samples
//
// Returns:
//   - scale, bias: the factors applied to F0 at shading time
func IntegrateBRDF(cosView, roughness float32, numSamples uint32) (scale, bias float32) {
	view := [3]float32{math32.Sqrt(1 - cosView*cosView), 0, cosView}

	for i := uint32(0); i < numSamples; i++ {
		u1, u2 := Hammersley(i, numSamples)
		half := SampleGGX(u1, u2, roughness)

		vDotH := view[0]*half[0] + view[1]*half[1] + view[2]*half[2]
		light := [3]float32{
			2*vDotH*half[0] - view[0],
			2*vDotH*half[1] - view[1],
			2*vDotH*half[2] - view[2],
		}

		cosLight := light[2]
		cosHalf := half[2]
		cosViewHalf := math32.Max(vDotH, 0)

		if cosLight > 0 {
			geometry := GaSchlickGGXIBL(cosLight, cosView, roughness)
			vis := geometry * cosViewHalf / (cosHalf * cosView)
			fresnel := math32.Pow(1-cosViewHalf, 5)

			scale += (1 - fresnel) * vis
			bias += fresnel * vis
		}
	}

	inv := 1 / float32(numSamples)
	return scale * inv, bias * inv
}

// IntegrateIrradiance estimates the diffuse irradiance arriving at a surface
// with the given normal, mirroring the convolution the irradiance compute pass
// performs: uniform hemisphere samples, each contributing 2 * L * cos(theta).
//
// Parameters:
//   - normal: the unit surface normal
//   - radiance: environment radiance as a function of direction
//   - numSamples: the number of quasirandom samples
//
// Returns:
//   - [3]float32: the RGB irradiance estimate
func IntegrateIrradiance(normal [3]float32, radiance func([3]float32) [3]float32, numSamples uint32) [3]float32 {
	tangent, bitangent := tangentBasis(normal)

	var irradiance [3]float32
	for i := uint32(0); i < numSamples; i++ {
		u1, u2 := Hammersley(i, numSamples)
		local := SampleHemisphere(u1, u2)
		dir := [3]float32{
			bitangent[0]*local[0] + tangent[0]*local[1] + normal[0]*local[2],
			bitangent[1]*local[0] + tangent[1]*local[1] + normal[1]*local[2],
			bitangent[2]*local[0] + tangent[2]*local[1] + normal[2]*local[2],
		}
		cosTheta := math32.Max(0, dir[0]*normal[0]+dir[1]*normal[1]+dir[2]*normal[2])
		l := radiance(dir)
		irradiance[0] += 2 * l[0] * cosTheta
		irradiance[1] += 2 * l[1] * cosTheta
		irradiance[2] += 2 * l[2] * cosTheta
	}

	inv := 1 / float32(numSamples)
	return [3]float32{irradiance[0] * inv, irradiance[1] * inv, irradiance[2] * inv}
}

// tangentBasis builds an orthonormal tangent and bitangent around a normal,
// matching the basis construction in the irradiance pass.
func tangentBasis(normal [3]float32) (tangent, bitangent [3]float32) {
	tangent = cross3(normal, [3]float32{0, 1, 0})
	if dot3vec(tangent, tangent) < 1.0e-5 {
		tangent = cross3(normal, [3]float32{1, 0, 0})
	}
	invLen := 1 / math32.Sqrt(dot3vec(tangent, tangent))
	tangent = [3]float32{tangent[0] * invLen, tangent[1] * invLen, tangent[2] * invLen}

	bitangent = cross3(normal, tangent)
	invLen = 1 / math32.Sqrt(dot3vec(bitangent, bitangent))
	bitangent = [3]float32{bitangent[0] * invLen, bitangent[1] * invLen, bitangent[2] * invLen}
	return tangent, bitangent
}

func cross3(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot3vec(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}
