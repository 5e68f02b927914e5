package refine

import (
	"context"
	"strings"
	"testing"

	"github.com/vampirenirmal/codeforge/internal/assemble"
	"github.com/vampirenirmal/codeforge/internal/config"
	"github.com/vampirenirmal/codeforge/internal/core"
	"github.com/vampirenirmal/codeforge/internal/validate"
)

func sparseArtifact(t *testing.T) core.Artifact {
	t.Helper()
	artifact, err := assemble.Assemble([]core.Section{
		{Name: core.SectionImports, Content: "import logging\nfrom typing import Any, Dict"},
		{Name: core.SectionCoreLogic, Content: "def run(payload):\n    return payload"},
		{Name: core.SectionSupporting, Content: "def process_data(data):\n    return {\"processed\": True}"},
		{Name: core.SectionTests, Content: "def test_run():\n    assert run({}) == {}"},
		{Name: core.SectionMain, Content: "def main():\n    run({})"},
		{Name: core.SectionExecution, Content: "if __name__ == \"__main__\":\n    main()"},
	})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	return artifact
}

func TestAnnotationPass(t *testing.T) {
	artifact := sparseArtifact(t)
	pass := &AnnotationPass{Min: 10}

	if !pass.Applies(artifact) {
		t.Fatal("Applies() = false on an under-annotated artifact")
	}

	sections, err := pass.Apply(artifact)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	candidate, err := assemble.Assemble(sections)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if got := validate.CountAnnotations(candidate.FullText); got < 10 {
		t.Errorf("annotations after pass = %d, want >= 10", got)
	}
	if !strings.Contains(candidate.FullText, "def run(payload) -> Any:") {
		t.Error("bare def did not receive a return annotation")
	}
	if pass.Applies(candidate) {
		t.Error("Applies() = true after the pass brought the artifact up to threshold")
	}
}

func TestTestCoveragePass(t *testing.T) {
	artifact := sparseArtifact(t)
	pass := &TestCoveragePass{Min: 8}

	if !pass.Applies(artifact) {
		t.Fatal("Applies() = false on an under-tested artifact")
	}

	sections, err := pass.Apply(artifact)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	candidate, err := assemble.Assemble(sections)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if got := validate.CountTestFunctions(candidate.FullText); got != 8 {
		t.Errorf("test functions after pass = %d, want exactly 8", got)
	}
	if pass.Applies(candidate) {
		t.Error("Applies() = true after the pass reached the threshold")
	}
}

func TestInstrumentationPass(t *testing.T) {
	artifact := sparseArtifact(t)
	pass := &InstrumentationPass{}

	if !pass.Applies(artifact) {
		t.Fatal("Applies() = false on an uninstrumented artifact")
	}

	sections, err := pass.Apply(artifact)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	candidate, err := assemble.Assemble(sections)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if !strings.Contains(candidate.FullText, "perf_counter") {
		t.Error("timing decorator not injected")
	}
	if !strings.Contains(candidate.FullText, "main = timed(main)") {
		t.Error("entry point not rebound through the decorator")
	}
	if pass.Applies(candidate) {
		t.Error("Applies() = true after instrumentation, pass is not idempotent")
	}
}

func TestRefineSequence(t *testing.T) {
	refiner := New(validate.New())
	artifact := sparseArtifact(t)
	passes := Sequence(config.DefaultWeights(), core.DefaultOptions())

	refined, results, err := refiner.Refine(context.Background(), artifact, passes, 3)
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d pass results, want 3", len(results))
	}
	for _, r := range results {
		if !r.Applied {
			t.Errorf("pass %s not applied on a sparse artifact", r.Name)
		}
		if r.Discarded {
			t.Errorf("pass %s discarded, candidates should stay valid", r.Name)
		}
	}
	if refined.FullText == artifact.FullText {
		t.Error("refinement changed nothing on a sparse artifact")
	}

	// A second run over an already-refined artifact must be a no-op.
	again, results, err := refiner.Refine(context.Background(), refined, passes, 3)
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	for _, r := range results {
		if r.Applied {
			t.Errorf("pass %s re-applied on a compliant artifact", r.Name)
		}
	}
	if again.FullText != refined.FullText {
		t.Error("refinement is not idempotent")
	}
}

func TestRefineRespectsMaxPasses(t *testing.T) {
	refiner := New(validate.New())
	artifact := sparseArtifact(t)
	passes := Sequence(config.DefaultWeights(), core.DefaultOptions())

	refined, results, err := refiner.Refine(context.Background(), artifact, passes, 1)
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d pass results, want 1", len(results))
	}
	if strings.Contains(refined.FullText, "perf_counter") {
		t.Error("instrumentation ran beyond the pass limit")
	}

	unchanged, results, err := refiner.Refine(context.Background(), artifact, passes, 0)
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d pass results with a zero pass limit, want 0", len(results))
	}
	if unchanged.FullText != artifact.FullText {
		t.Error("zero-pass refinement modified the artifact")
	}
}

func TestRefineHonorsCancellation(t *testing.T) {
	refiner := New(validate.New())
	artifact := sparseArtifact(t)
	passes := Sequence(config.DefaultWeights(), core.DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, _, err := refiner.Refine(ctx, artifact, passes, 3)
	if err != context.Canceled {
		t.Errorf("Refine() error = %v, want context.Canceled", err)
	}
	if got.FullText != artifact.FullText {
		t.Error("cancelled refinement must return the input artifact")
	}
}
