package core

// Verbosity selects how demanding the minimum-content contracts are.
// Extended verbosity raises thresholds; it never lowers them.
type Verbosity string

const (
	VerbosityStandard Verbosity = "standard"
	VerbosityExtended Verbosity = "extended"
)

// Options control one generation request.
type Options struct {
	// RefinementPasses is how many of the fixed refinement passes run, in
	// sequence, at most once each. Zero skips refinement entirely, so a
	// zero-value Options disables it; start from DefaultOptions() for the
	// standard three-pass run.
	RefinementPasses int

	// Verbosity selects the threshold profile.
	Verbosity Verbosity

	// UseSuggestion lets a high-confidence pattern store suggestion override
	// the classifier's tags. Off by default; the store is otherwise
	// informational only.
	UseSuggestion bool
}

// DefaultOptions returns the standard three-pass configuration.
func DefaultOptions() Options {
	return Options{
		RefinementPasses: 3,
		Verbosity:        VerbosityStandard,
	}
}

// Extended reports whether the extended threshold profile is selected.
func (o Options) Extended() bool {
	return o.Verbosity == VerbosityExtended
}

// Normalize fills unset fields with defaults.
func (o Options) Normalize() Options {
	if o.Verbosity == "" {
		o.Verbosity = VerbosityStandard
	}
	if o.RefinementPasses < 0 {
		o.RefinementPasses = 0
	}
	return o
}
