package ibl

// PrecomputerOption is a function that configures a precomputer instance during construction.
type PrecomputerOption func(*precomputer)

// WithConfig is an option builder that overrides the default precompute configuration.
//
// Parameters:
//   - config: the texture sizes to use for the precompute passes
//
// Returns:
//   - PrecomputerOption: a function that applies the configuration to a precomputer
func WithConfig(config Config) PrecomputerOption {
	return func(p *precomputer) {
		p.config = config
	}
}
