// Package refine runs a fixed, ordered sequence of enrichment passes over a
// draft artifact. Every pass is fail-safe: a candidate that no longer parses
// is discarded and the prior artifact carries forward unchanged.
package refine

import (
	"context"
	"log/slog"

	"github.com/vampirenirmal/codeforge/internal/assemble"
	"github.com/vampirenirmal/codeforge/internal/config"
	"github.com/vampirenirmal/codeforge/internal/core"
	"github.com/vampirenirmal/codeforge/internal/validate"
)

// Pass is one enrichment step: a precondition check plus an idempotent
// correction that yields a new section set.
type Pass interface {
	// Name identifies the pass in logs and results.
	Name() string

	// Applies reports whether the artifact still needs this correction.
	Applies(artifact core.Artifact) bool

	// Apply builds the corrected section set. It must not mutate the input.
	Apply(artifact core.Artifact) ([]core.Section, error)
}

// PassResult records what happened to one pass during a refinement run.
type PassResult struct {
	Name      string `json:"name"`
	Applied   bool   `json:"applied"`
	Discarded bool   `json:"discarded"`
}

// Refiner sequences passes and re-validates every candidate.
type Refiner struct {
	validator *validate.Validator
	logger    *slog.Logger
}

// Option allows customization of the Refiner.
type Option func(*Refiner)

// WithLogger configures a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Refiner) {
		r.logger = logger
	}
}

// New creates a Refiner backed by the given validator.
func New(validator *validate.Validator, options ...Option) *Refiner {
	r := &Refiner{
		validator: validator,
		logger:    slog.Default(),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Sequence builds the canonical pass list for the given thresholds:
// annotation completeness, then test coverage, then instrumentation.
func Sequence(weights config.Weights, opts core.Options) []Pass {
	extended := opts.Extended()
	return []Pass{
		&AnnotationPass{Min: weights.MinAnnotations(extended)},
		&TestCoveragePass{Min: weights.MinTests(extended)},
		&InstrumentationPass{},
	}
}

// Refine runs up to maxPasses of the sequence, each at most once, in order.
// Cancellation is honored at pass boundaries; the artifact returned is always
// the last valid one.
func (r *Refiner) Refine(ctx context.Context, artifact core.Artifact, passes []Pass, maxPasses int) (core.Artifact, []PassResult, error) {
	current := artifact
	results := make([]PassResult, 0, len(passes))

	for i, pass := range passes {
		if i >= maxPasses {
			break
		}
		select {
		case <-ctx.Done():
			return current, results, ctx.Err()
		default:
		}

		result := PassResult{Name: pass.Name()}

		if !pass.Applies(current) {
			r.logger.Debug("Refinement pass precondition already satisfied", "pass", pass.Name())
			results = append(results, result)
			continue
		}

		sections, err := pass.Apply(current)
		if err != nil {
			// A pass that cannot build its correction is discarded, never fatal.
			r.logger.Warn("Refinement pass failed to apply, discarding",
				"pass", pass.Name(),
				"error", err,
			)
			result.Discarded = true
			results = append(results, result)
			continue
		}

		candidate, err := assemble.Assemble(sections)
		if err != nil {
			r.logger.Warn("Refinement candidate failed assembly, discarding",
				"pass", pass.Name(),
				"error", err,
			)
			result.Discarded = true
			results = append(results, result)
			continue
		}

		report, err := r.validator.Validate(ctx, candidate)
		if err != nil {
			return current, results, err
		}
		if !report.SyntacticallyValid {
			r.logger.Warn("Refinement candidate failed to parse, keeping prior artifact",
				"pass", pass.Name(),
				"issues", len(report.Errors),
			)
			result.Discarded = true
			results = append(results, result)
			continue
		}

		current = candidate
		result.Applied = true
		results = append(results, result)
		r.logger.Debug("Refinement pass applied", "pass", pass.Name())
	}

	return current, results, nil
}
