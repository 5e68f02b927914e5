// Package generate produces named code sections for an analyzed requirement.
// Each section generator is a pure function of the analysis record and its
// explicit parameters; nothing here touches global mutable state.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vampirenirmal/codeforge/internal/config"
	"github.com/vampirenirmal/codeforge/internal/core"
)

// Params carries the explicit minimum-content configuration into section
// generators.
type Params struct {
	MinTests       int
	MinRoutes      int
	MinAnnotations int
	Extended       bool
}

// SectionFunc builds the content of one section.
type SectionFunc func(rec core.AnalysisRecord, p Params) (string, error)

// typeFuncs is the per-code-type part of the dispatch table; the remaining
// sections are universal.
type typeFuncs struct {
	setup     SectionFunc
	coreLogic SectionFunc
}

// Generator dispatches section generation by (code type, section name).
type Generator struct {
	weights  config.Weights
	registry map[core.CodeType]typeFuncs
	logger   *slog.Logger
}

// Option allows customization of the Generator.
type Option func(*Generator)

// WithLogger configures a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New builds a Generator with the full dispatch table registered.
func New(weights config.Weights, options ...Option) *Generator {
	g := &Generator{
		weights: weights,
		logger:  slog.Default(),
	}
	for _, option := range options {
		option(g)
	}

	g.registry = map[core.CodeType]typeFuncs{
		core.CodeTypeAPI:            {setup: apiSetup, coreLogic: apiCoreLogic},
		core.CodeTypeML:             {setup: mlSetup, coreLogic: mlCoreLogic},
		core.CodeTypeCLI:            {setup: cliSetup, coreLogic: cliCoreLogic},
		core.CodeTypeDatabase:       {setup: databaseSetup, coreLogic: databaseCoreLogic},
		core.CodeTypeDataProcessing: {setup: dataProcessingSetup, coreLogic: dataProcessingCoreLogic},
		core.CodeTypeTesting:        {setup: testingSetup, coreLogic: testingCoreLogic},
		core.CodeTypeGeneric:        {setup: genericSetup, coreLogic: genericCoreLogic},
	}

	return g
}

// Params derives the per-request parameters from the configured thresholds.
func (g *Generator) Params(opts core.Options) Params {
	return Params{
		MinTests:       g.weights.MinTests(opts.Extended()),
		MinRoutes:      g.weights.MinRoutes(opts.Extended()),
		MinAnnotations: g.weights.MinAnnotations(opts.Extended()),
		Extended:       opts.Extended(),
	}
}

// Generate produces every section for the record's code type. Sections are
// generated concurrently; ordering is the assembler's job, not ours.
func (g *Generator) Generate(ctx context.Context, rec core.AnalysisRecord, opts core.Options) ([]core.Section, error) {
	funcs, ok := g.registry[rec.CodeType]
	if !ok {
		return nil, &core.GenerationError{
			Stage:    "generate",
			CodeType: rec.CodeType,
			Reason:   "no generator registered for code type",
			Cause:    core.ErrNoGenerator,
		}
	}

	p := g.Params(opts)

	table := []struct {
		name core.SectionName
		fn   SectionFunc
	}{
		{core.SectionDocs, docsSection},
		{core.SectionImports, importsSection},
		{core.SectionSetup, funcs.setup},
		{core.SectionCoreLogic, funcs.coreLogic},
		{core.SectionSupporting, supportingSection},
		{core.SectionErrorHierarchy, errorHierarchySection},
		{core.SectionTests, testsSection},
		{core.SectionMain, mainSection},
		{core.SectionExecution, executionSection},
	}

	sections := make([]core.Section, len(table))
	eg, _ := errgroup.WithContext(ctx)
	for i, entry := range table {
		i, entry := i, entry
		eg.Go(func() error {
			content, err := entry.fn(rec, p)
			if err != nil {
				return &core.GenerationError{
					Stage:    "generate",
					Section:  entry.name,
					CodeType: rec.CodeType,
					Reason:   err.Error(),
					Cause:    err,
				}
			}
			sections[i] = core.Section{Name: entry.name, Content: content}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if err := g.checkContracts(sections, rec, p); err != nil {
		return nil, err
	}

	g.logger.Debug("Sections generated",
		"code_type", rec.CodeType,
		"sections", len(sections),
		"min_tests", p.MinTests,
	)

	return sections, nil
}

var testFuncRe = regexp.MustCompile(`(?m)^\s*def test_\w+`)

// checkContracts enforces the section-specific minimum-content contracts
// before anything reaches the assembler.
func (g *Generator) checkContracts(sections []core.Section, rec core.AnalysisRecord, p Params) error {
	for _, s := range sections {
		switch s.Name {
		case core.SectionTests:
			count := len(testFuncRe.FindAllString(s.Content, -1))
			if count < p.MinTests {
				return &core.GenerationError{
					Stage:    "generate",
					Section:  s.Name,
					CodeType: rec.CodeType,
					Reason:   fmt.Sprintf("tests section has %d test cases, contract requires %d", count, p.MinTests),
				}
			}
			for _, category := range []string{"TestBasicFunctionality", "TestEdgeCases", "TestErrorHandling"} {
				if !strings.Contains(s.Content, category) {
					return &core.GenerationError{
						Stage:    "generate",
						Section:  s.Name,
						CodeType: rec.CodeType,
						Reason:   fmt.Sprintf("tests section missing category %s", category),
					}
				}
			}
		case core.SectionDocs:
			if !strings.Contains(s.Content, `"""`) {
				return &core.GenerationError{
					Stage:    "generate",
					Section:  s.Name,
					CodeType: rec.CodeType,
					Reason:   "docs section must contain a module docstring",
				}
			}
		}
	}
	return nil
}
