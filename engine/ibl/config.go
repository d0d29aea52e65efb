package ibl

// Config holds the texture sizes and per-pass sample counts used by the
// environment precompute passes. Sample counts reach the compute shaders
// through per-dispatch uniforms, so reduced configurations run the same
// pipelines with cheaper integration.
type Config struct {
	// EnvironmentSize is the face size of the specular environment cubemap.
	EnvironmentSize uint32
	// IrradianceSize is the face size of the diffuse irradiance cubemap.
	IrradianceSize uint32
	// BRDFLUTSize is the edge size of the square split-sum BRDF lookup table.
	BRDFLUTSize uint32
	// SpecularSamples is the GGX sample count per prefiltered specular texel.
	SpecularSamples uint32
	// IrradianceSamples is the hemisphere sample count per irradiance texel.
	IrradianceSamples uint32
	// BRDFSamples is the sample count per BRDF lookup table texel.
	BRDFSamples uint32
}

// DefaultConfig returns the precompute configuration used by the viewer.
//
// Returns:
//   - Config: 1024 face environment map, 32 face irradiance map, 256x256 BRDF LUT
func DefaultConfig() Config {
	return Config{
		EnvironmentSize:   1024,
		IrradianceSize:    32,
		BRDFLUTSize:       256,
		SpecularSamples:   1024,
		IrradianceSamples: 64 * 1024,
		BRDFSamples:       1024,
	}
}

// withDefaults fills zero-valued fields from DefaultConfig so partially
// specified configurations keep working sizes and sample counts.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.EnvironmentSize == 0 {
		c.EnvironmentSize = def.EnvironmentSize
	}
	if c.IrradianceSize == 0 {
		c.IrradianceSize = def.IrradianceSize
	}
	if c.BRDFLUTSize == 0 {
		c.BRDFLUTSize = def.BRDFLUTSize
	}
	if c.SpecularSamples == 0 {
		c.SpecularSamples = def.SpecularSamples
	}
	if c.IrradianceSamples == 0 {
		c.IrradianceSamples = def.IrradianceSamples
	}
	if c.BRDFSamples == 0 {
		c.BRDFSamples = def.BRDFSamples
	}
	return c
}
