package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vampirenirmal/codeforge/internal/core"
)

func apiRecord() core.AnalysisRecord {
	return core.AnalysisRecord{
		ComplexityScore: 24,
		CodeType:        core.CodeTypeAPI,
		Architecture:    core.ArchMicroservices,
	}
}

func TestStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.jsonl")

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	_, err = s.Record("build a rest api for invoices", apiRecord(), true)
	require.NoError(t, err)
	_, err = s.Record("train a churn model", core.AnalysisRecord{CodeType: core.CodeTypeML}, false)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Entries survive a reopen.
	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.Len())

	entries := reopened.Entries()
	assert.Equal(t, core.CodeTypeAPI, entries[0].CodeType)
	assert.True(t, entries[0].Success)
	assert.False(t, entries[1].Success)
	assert.NotEmpty(t, entries[0].RunID)
	assert.NotEqual(t, entries[0].RunID, entries[1].RunID)
}

func TestStoreSkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.jsonl")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Record("build a rest api for invoices", apiRecord(), true)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("{not json at all\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = s.Record("after close", apiRecord(), true)
	assert.ErrorIs(t, err, core.ErrStoreClosed)

	// One good line, one corrupt: load what parses, never fail.
	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Len())
}

func TestStoreOpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nested", "patterns.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, float64(0), s.IntelligenceScore())
}

func TestStoreSuggest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.jsonl")
	s, err := Open(path)
	require.NoError(t, err)

	requirement := "build a rest api for managing customer invoices with authentication"
	_, err = s.Record(requirement, apiRecord(), true)
	require.NoError(t, err)

	t.Run("close match reuses strategy", func(t *testing.T) {
		got := s.Suggest("build a rest api for managing customer invoices")
		assert.Equal(t, core.StrategyReusePattern, got.Strategy)
		assert.Equal(t, core.CodeTypeAPI, got.CodeType)
		assert.Equal(t, core.ArchMicroservices, got.Architecture)
		assert.Greater(t, got.Confidence, 0.3)
	})

	t.Run("unrelated requirement stays standard", func(t *testing.T) {
		got := s.Suggest("sort photos by color temperature")
		assert.Equal(t, core.StrategyStandard, got.Strategy)
		assert.Equal(t, float64(0), got.Confidence)
	})

	t.Run("failed runs never suggest reuse", func(t *testing.T) {
		failed := "migrate the ledger database to a new schema"
		_, err := s.Record(failed, core.AnalysisRecord{CodeType: core.CodeTypeDatabase}, false)
		require.NoError(t, err)

		got := s.Suggest(failed)
		assert.Equal(t, core.StrategyStandard, got.Strategy)
	})
}

func TestIntelligenceScore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.jsonl")
	s, err := Open(path)
	require.NoError(t, err)

	requirements := []string{
		"build a rest api for invoices",
		"train a churn model",
		"cli tool for renaming files",
		"etl pipeline for sensor data",
	}
	records := []core.AnalysisRecord{
		{CodeType: core.CodeTypeAPI},
		{CodeType: core.CodeTypeML},
		{CodeType: core.CodeTypeCLI},
		{CodeType: core.CodeTypeDataProcessing},
	}
	for i, requirement := range requirements {
		_, err := s.Record(requirement, records[i], true)
		require.NoError(t, err)
	}

	score := s.IntelligenceScore()
	assert.Greater(t, score, float64(40), "all-success store should beat the success-rate floor")
	assert.LessOrEqual(t, score, float64(100))

	// A failure lowers the score but keeps it in range.
	_, err = s.Record("broken run", core.AnalysisRecord{CodeType: core.CodeTypeGeneric}, false)
	require.NoError(t, err)
	lowered := s.IntelligenceScore()
	assert.Less(t, lowered, score)
	assert.GreaterOrEqual(t, lowered, float64(0))
}

func TestArtifactDir(t *testing.T) {
	dir := NewArtifactDir(t.TempDir())
	ctx := context.Background()
	artifact := core.Artifact{ID: "a1", FullText: "print(\"hello\")\n"}

	t.Run("save and load", func(t *testing.T) {
		path, err := dir.SaveArtifact(ctx, "hello", artifact)
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(path))

		data, err := dir.Load(ctx, "hello.py")
		require.NoError(t, err)
		assert.Equal(t, artifact.FullText, string(data))

		names, err := dir.List(ctx, "*.py")
		require.NoError(t, err)
		assert.Equal(t, []string{"hello.py"}, names)
	})

	t.Run("rejects traversal", func(t *testing.T) {
		tests := []string{
			"../escape",
			"nested/../../escape",
			"/etc/passwd",
		}
		for _, name := range tests {
			_, err := dir.SaveArtifact(ctx, name, artifact)
			assert.Error(t, err, "name %q must be rejected", name)
		}
	})
}
