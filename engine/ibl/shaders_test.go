package ibl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// faceBasisBlock extracts the face_basis function body from a WGSL source.
func faceBasisBlock(t *testing.T, source string) string {
	t.Helper()
	start := strings.Index(source, "fn face_basis")
	require.GreaterOrEqual(t, start, 0, "source has no face_basis function")
	end := strings.Index(source[start:], "\n}")
	require.GreaterOrEqual(t, end, 0)
	return source[start : start+end]
}

// The three cubemap passes must agree on face orientation, so they share one
// basis table indexed by face.
func TestCubemapShadersShareFaceBasis(t *testing.T) {
	reference := faceBasisBlock(t, equirectToCubeSource)
	assert.Contains(t, reference, "array<mat3x3<f32>, 6>")
	assert.NotContains(t, reference, "switch")
	assert.Equal(t, reference, faceBasisBlock(t, irradianceSource))
	assert.Equal(t, reference, faceBasisBlock(t, specularFilterSource))
}
