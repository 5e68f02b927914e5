package forge

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vampirenirmal/codeforge/internal/config"
	"github.com/vampirenirmal/codeforge/internal/core"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.StorePath = filepath.Join(t.TempDir(), "patterns.jsonl")
	cfg.Paths.OutputDir = t.TempDir()

	engine, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine
}

func TestGenerateEndToEnd(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		requirement string
		codeType    core.CodeType
		wantText    string
	}{
		{
			name:        "api with auth",
			requirement: "Build a REST API for managing books with JWT authentication",
			codeType:    core.CodeTypeAPI,
			wantText:    "FastAPI",
		},
		{
			name:        "ml pipeline",
			requirement: "Train a machine learning model to predict churn",
			codeType:    core.CodeTypeML,
			wantText:    "class ModelPipeline",
		},
		{
			name:        "cli tool",
			requirement: "Command line tool that renames photos in bulk",
			codeType:    core.CodeTypeCLI,
			wantText:    "argparse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Generate(ctx, tt.requirement, DefaultOptions())
			require.NoError(t, err)

			assert.Equal(t, tt.codeType, result.Analysis.CodeType)
			assert.GreaterOrEqual(t, result.Analysis.ComplexityScore, 10)
			assert.True(t, result.Report.SyntacticallyValid)
			assert.Contains(t, result.Artifact.FullText, tt.wantText)
			assert.NotEmpty(t, result.Artifact.ID)

			// The docstring leads the module.
			assert.True(t, strings.HasPrefix(result.Artifact.FullText, `"""`))

			// Refinement contracts hold on the final artifact.
			assert.GreaterOrEqual(t, result.Report.FeaturePresence[core.FeatureTestFunction], 8)
			assert.GreaterOrEqual(t, result.Report.FeaturePresence[core.FeatureTypeAnnotation], 20)
			assert.Contains(t, result.Artifact.FullText, "perf_counter")
		})
	}
}

func TestGenerateEmptyRequirement(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Generate(context.Background(), "   ", DefaultOptions())
	assert.ErrorIs(t, err, core.ErrEmptyRequirement)

	_, err = engine.Analyze(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrEmptyRequirement)
}

func TestGenerateQuoteLadenRequirement(t *testing.T) {
	engine := newTestEngine(t)

	// Free text may carry Python string delimiters; they must not break
	// the generated module docstring.
	requirement := `build a rest api that stores docstrings like """example""" in a database`
	result, err := engine.Generate(context.Background(), requirement, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, result.Report.SyntacticallyValid)
	assert.Empty(t, result.Report.Errors)
	assert.Contains(t, result.Artifact.FullText, "'''example'''")
}

func TestGenerateSurvivesCorruptStore(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StorePath = filepath.Join(t.TempDir(), "patterns.jsonl")
	cfg.Paths.OutputDir = t.TempDir()

	// A half-written store file from a crashed run: one good entry, one
	// truncated line, one line that was never JSON.
	seed := `{"run_id":"a1","signature":"invoice api build","snippet":"build an invoice api","complexity_score":20,"code_type":"api","architecture":"none","success":true,"timestamp":"2026-08-30T10:00:00Z"}
{"run_id":"a2","signature":"books api
not json at all
`
	require.NoError(t, os.WriteFile(cfg.Paths.StorePath, []byte(seed), 0o644))

	engine, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })

	result, err := engine.Generate(context.Background(), "Build a REST API for invoices", DefaultOptions())
	require.NoError(t, err)
	assert.True(t, result.Report.SyntacticallyValid)

	// The intact entry survived the reload and still drives suggestions.
	suggestion := engine.Suggest("build an invoice api")
	assert.Equal(t, core.StrategyReusePattern, suggestion.Strategy)
}

func TestGenerateRecordsPatterns(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	requirement := "Build a REST API for managing customer invoices"

	assert.Equal(t, float64(0), engine.IntelligenceScore())

	_, err := engine.Generate(ctx, requirement, DefaultOptions())
	require.NoError(t, err)

	// The outcome landed in the store: a near-identical requirement now gets
	// a reuse suggestion and the intelligence score moved off zero.
	suggestion := engine.Suggest("Build a REST API for managing customer invoices quickly")
	assert.Equal(t, core.StrategyReusePattern, suggestion.Strategy)
	assert.Equal(t, core.CodeTypeAPI, suggestion.CodeType)
	assert.Greater(t, suggestion.Confidence, 0.3)

	assert.Greater(t, engine.IntelligenceScore(), float64(0))
}

func TestGenerateWithoutRefinement(t *testing.T) {
	engine := newTestEngine(t)

	opts := DefaultOptions()
	opts.RefinementPasses = 0

	result, err := engine.Generate(context.Background(), "Build a REST API for managing books", opts)
	require.NoError(t, err)

	assert.True(t, result.Report.SyntacticallyValid)
	assert.Empty(t, result.Passes)
	assert.NotContains(t, result.Artifact.FullText, "perf_counter")
}

func TestGenerateExtendedVerbosity(t *testing.T) {
	engine := newTestEngine(t)

	opts := DefaultOptions()
	opts.Verbosity = VerbosityExtended

	result, err := engine.Generate(context.Background(), "Data processing pipeline for sensor readings", opts)
	require.NoError(t, err)

	assert.True(t, result.Report.SyntacticallyValid)
	assert.GreaterOrEqual(t, result.Report.FeaturePresence[core.FeatureTestFunction], 12)
	assert.GreaterOrEqual(t, result.Report.FeaturePresence[core.FeatureTypeAnnotation], 30)
}

func TestWriteArtifact(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	result, err := engine.Generate(ctx, "Command line tool that renames photos", DefaultOptions())
	require.NoError(t, err)

	path, err := engine.WriteArtifact(ctx, "renamer", result.Artifact)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "renamer.py"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, result.Artifact.FullText, string(data))
}

func TestGenerateHonorsCancellation(t *testing.T) {
	engine := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Generate(ctx, "Build a REST API for books", DefaultOptions())
	assert.Error(t, err)
}
