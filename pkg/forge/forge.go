// Package forge is the public entry point for the code generation engine:
// requirement analysis, section generation, assembly, refinement, syntax
// validation, and pattern learning behind one facade.
package forge

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/vampirenirmal/codeforge/internal/analyzer"
	"github.com/vampirenirmal/codeforge/internal/assemble"
	"github.com/vampirenirmal/codeforge/internal/config"
	"github.com/vampirenirmal/codeforge/internal/core"
	"github.com/vampirenirmal/codeforge/internal/generate"
	"github.com/vampirenirmal/codeforge/internal/refine"
	"github.com/vampirenirmal/codeforge/internal/store"
	"github.com/vampirenirmal/codeforge/internal/validate"
)

// Public aliases so callers never import internal packages.
type (
	Artifact          = core.Artifact
	AnalysisRecord    = core.AnalysisRecord
	ValidationReport  = core.ValidationReport
	SuggestedStrategy = core.SuggestedStrategy
	PatternEntry      = core.PatternEntry
	Options           = core.Options
	Verbosity         = core.Verbosity
)

// Verbosity profiles for generation options.
const (
	VerbosityStandard = core.VerbosityStandard
	VerbosityExtended = core.VerbosityExtended
)

// DefaultOptions returns the standard generation options.
func DefaultOptions() Options { return core.DefaultOptions() }

// Result bundles everything one generation run produced.
type Result struct {
	Artifact   Artifact            `json:"artifact"`
	Analysis   AnalysisRecord      `json:"analysis"`
	Report     ValidationReport    `json:"report"`
	Passes     []refine.PassResult `json:"passes"`
	Suggestion SuggestedStrategy   `json:"suggestion"`
}

// Engine wires the pipeline stages together.
type Engine struct {
	cfg       *config.Config
	analyzer  *analyzer.Analyzer
	generator *generate.Generator
	validator *validate.Validator
	refiner   *refine.Refiner
	patterns  *store.PatternStore
	artifacts *store.ArtifactDir
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// Option allows customization of the Engine.
type Option func(*Engine)

// WithLogger configures a custom logger for the engine and every stage.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New builds an Engine from the given config. Pass nil to use defaults.
func New(cfg *config.Config, options ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	e := &Engine{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, option := range options {
		option(e)
	}

	var err error
	e.analyzer, err = analyzer.New(analyzer.DefaultDictionary(), cfg.Weights,
		analyzer.WithLogger(e.logger))
	if err != nil {
		return nil, err
	}

	e.generator = generate.New(cfg.Weights, generate.WithLogger(e.logger))
	e.validator = validate.New(validate.WithLogger(e.logger))
	e.refiner = refine.New(e.validator, refine.WithLogger(e.logger))

	e.patterns, err = store.Open(cfg.Paths.StorePath,
		store.WithLogger(e.logger),
		store.WithSimilarityThreshold(cfg.Weights.SimilarityThreshold))
	if err != nil {
		return nil, err
	}

	e.artifacts = store.NewArtifactDir(cfg.Paths.OutputDir)
	e.limiter = rate.NewLimiter(
		rate.Limit(float64(cfg.RateLimit.RequestsPerMinute)/60.0),
		cfg.RateLimit.BurstSize,
	)
	return e, nil
}

// Analyze scores and classifies a requirement without generating code.
func (e *Engine) Analyze(ctx context.Context, requirement string) (AnalysisRecord, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return AnalysisRecord{}, err
	}
	return e.analyzer.Analyze(requirement)
}

// Suggest consults the pattern store for the closest recorded requirement.
func (e *Engine) Suggest(requirement string) SuggestedStrategy {
	return e.patterns.Suggest(requirement)
}

// IntelligenceScore reports the store's accumulated experience, bounded to
// [0,100].
func (e *Engine) IntelligenceScore() float64 {
	return e.patterns.IntelligenceScore()
}

// Generate runs the full pipeline for one requirement: analyze, generate,
// assemble, validate the draft, refine, validate again, and record the
// outcome in the pattern store.
func (e *Engine) Generate(ctx context.Context, requirement string, opts Options) (Result, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return Result{}, err
	}
	opts = opts.Normalize()

	analysis, err := e.analyzer.Analyze(requirement)
	if err != nil {
		return Result{}, err
	}

	suggestion := e.patterns.Suggest(requirement)
	if opts.UseSuggestion && suggestion.Strategy == core.StrategyReusePattern {
		e.logger.Info("Reusing strategy from pattern store",
			"code_type", suggestion.CodeType,
			"architecture", suggestion.Architecture,
			"confidence", suggestion.Confidence,
		)
		analysis.CodeType = suggestion.CodeType
		analysis.Architecture = suggestion.Architecture
	}

	e.logger.Info("Requirement analyzed",
		"complexity", analysis.ComplexityScore,
		"code_type", analysis.CodeType,
		"architecture", analysis.Architecture,
	)

	sections, err := e.generator.Generate(ctx, analysis, opts)
	if err != nil {
		e.recordOutcome(requirement, analysis, false)
		return Result{Analysis: analysis, Suggestion: suggestion}, err
	}

	draft, err := assemble.Assemble(sections)
	if err != nil {
		e.recordOutcome(requirement, analysis, false)
		return Result{Analysis: analysis, Suggestion: suggestion}, err
	}

	report, err := e.validator.Validate(ctx, draft)
	if err != nil {
		return Result{Analysis: analysis, Suggestion: suggestion}, err
	}
	if !report.SyntacticallyValid {
		// A draft that does not parse is fatal: refinement only ever starts
		// from valid code.
		e.recordOutcome(requirement, analysis, false)
		return Result{Analysis: analysis, Report: report, Suggestion: suggestion},
			core.NewValidationFailure("draft", report.Errors)
	}

	refined, passes, err := e.refiner.Refine(ctx, draft,
		refine.Sequence(e.cfg.Weights, opts), opts.RefinementPasses)
	if err != nil {
		return Result{Analysis: analysis, Report: report, Suggestion: suggestion}, err
	}

	final, err := e.validator.Validate(ctx, refined)
	if err != nil {
		return Result{Analysis: analysis, Suggestion: suggestion}, err
	}

	e.recordOutcome(requirement, analysis, final.SyntacticallyValid)

	result := Result{
		Artifact:   refined,
		Analysis:   analysis,
		Report:     final,
		Passes:     passes,
		Suggestion: suggestion,
	}
	e.logger.Info("Generation complete",
		"artifact_id", refined.ID,
		"lines", refined.LineCount(),
		"valid", final.SyntacticallyValid,
	)
	return result, nil
}

// WriteArtifact persists the artifact's full text under the configured output
// directory and returns the path written.
func (e *Engine) WriteArtifact(ctx context.Context, name string, artifact Artifact) (string, error) {
	return e.artifacts.SaveArtifact(ctx, name, artifact)
}

// recordOutcome appends to the pattern store; store failures are logged and
// never surfaced to the caller.
func (e *Engine) recordOutcome(requirement string, analysis AnalysisRecord, success bool) {
	if _, err := e.patterns.Record(requirement, analysis, success); err != nil {
		if errors.Is(err, core.ErrStoreClosed) {
			return
		}
		e.logger.Warn("Failed to record generation outcome", "error", err)
	}
}

// Close releases the engine's resources.
func (e *Engine) Close() error {
	return e.patterns.Close()
}
