package config

// Weights holds every tunable number in the scoring and refinement pipeline.
// These are configuration data, not constants; the values below are defaults
// rather than canon.
type Weights struct {
	Baseline             float64 `yaml:"baseline" validate:"required,min=0,max=50"`
	LineWeight           float64 `yaml:"line_weight" validate:"min=0,max=5"`
	VolumeCap            float64 `yaml:"volume_cap" validate:"min=0,max=50"`
	TermCap              float64 `yaml:"term_cap" validate:"required,min=1,max=50"`
	PatternCap           float64 `yaml:"pattern_cap" validate:"required,min=1,max=50"`
	NormalizationDivisor float64 `yaml:"normalization_divisor" validate:"required,min=0.1,max=10"`

	// MultiplierTiers reward breadth of distinct advanced terms. Tiers are
	// checked highest-first; a requirement matching none gets factor 1.0.
	MultiplierTiers []MultiplierTier `yaml:"multiplier_tiers" validate:"required,dive"`

	Thresholds Thresholds `yaml:"thresholds" validate:"required"`

	// SimilarityThreshold is the minimum Jaccard overlap before the pattern
	// store suggests reusing a past strategy.
	SimilarityThreshold float64 `yaml:"similarity_threshold" validate:"min=0,max=1"`
}

// MultiplierTier maps a minimum count of distinct advanced terms to a
// co-occurrence multiplier.
type MultiplierTier struct {
	MinDistinct int     `yaml:"min_distinct" validate:"required,min=1"`
	Factor      float64 `yaml:"factor" validate:"required,min=1,max=5"`
}

// Thresholds are the minimum-content contracts enforced by generators and
// refinement passes. Extended verbosity raises them.
type Thresholds struct {
	MinTestFunctions         int `yaml:"min_test_functions" validate:"required,min=1"`
	MinTestFunctionsExtended int `yaml:"min_test_functions_extended" validate:"required,min=1"`
	MinAnnotations           int `yaml:"min_annotations" validate:"required,min=1"`
	MinAnnotationsExtended   int `yaml:"min_annotations_extended" validate:"required,min=1"`
	MinRoutes                int `yaml:"min_routes" validate:"required,min=1"`
	MinRoutesExtended        int `yaml:"min_routes_extended" validate:"required,min=1"`
}

// DefaultWeights returns the built-in tuning defaults.
func DefaultWeights() Weights {
	return Weights{
		Baseline:             10,
		LineWeight:           0.4,
		VolumeCap:            15,
		TermCap:              5,
		PatternCap:           8,
		NormalizationDivisor: 1.2,
		MultiplierTiers: []MultiplierTier{
			{MinDistinct: 8, Factor: 1.6},
			{MinDistinct: 5, Factor: 1.4},
			{MinDistinct: 3, Factor: 1.2},
		},
		Thresholds: Thresholds{
			MinTestFunctions:         8,
			MinTestFunctionsExtended: 12,
			MinAnnotations:           20,
			MinAnnotationsExtended:   30,
			MinRoutes:                3,
			MinRoutesExtended:        5,
		},
		SimilarityThreshold: 0.3,
	}
}

// MultiplierFor returns the co-occurrence factor for a count of distinct
// advanced terms.
func (w Weights) MultiplierFor(distinctAdvanced int) float64 {
	best := 1.0
	for _, tier := range w.MultiplierTiers {
		if distinctAdvanced >= tier.MinDistinct && tier.Factor > best {
			best = tier.Factor
		}
	}
	return best
}

// MinTests returns the test-count contract for the given verbosity.
func (w Weights) MinTests(extended bool) int {
	if extended {
		return w.Thresholds.MinTestFunctionsExtended
	}
	return w.Thresholds.MinTestFunctions
}

// MinAnnotations returns the annotation-count contract for the given verbosity.
func (w Weights) MinAnnotations(extended bool) int {
	if extended {
		return w.Thresholds.MinAnnotationsExtended
	}
	return w.Thresholds.MinAnnotations
}

// MinRoutes returns the route-count contract for the given verbosity.
func (w Weights) MinRoutes(extended bool) int {
	if extended {
		return w.Thresholds.MinRoutesExtended
	}
	return w.Thresholds.MinRoutes
}
