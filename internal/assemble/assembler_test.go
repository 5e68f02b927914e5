package assemble

import (
	"errors"
	"strings"
	"testing"

	"github.com/vampirenirmal/codeforge/internal/core"
)

func TestAssembleOrdering(t *testing.T) {
	// Sections arrive scrambled; the artifact must come out in canonical order.
	sections := []core.Section{
		{Name: core.SectionTests, Content: "def test_one():\n    assert True"},
		{Name: core.SectionDocs, Content: `"""Module docs."""`},
		{Name: core.SectionCoreLogic, Content: "def run():\n    return 1"},
		{Name: core.SectionImports, Content: "import os"},
	}

	artifact, err := Assemble(sections)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	wantOrder := []core.SectionName{
		core.SectionDocs,
		core.SectionImports,
		core.SectionCoreLogic,
		core.SectionTests,
	}
	if len(artifact.Sections) != len(wantOrder) {
		t.Fatalf("got %d sections, want %d", len(artifact.Sections), len(wantOrder))
	}
	for i, name := range wantOrder {
		if artifact.Sections[i].Name != name {
			t.Errorf("section[%d] = %s, want %s", i, artifact.Sections[i].Name, name)
		}
	}

	docsIdx := strings.Index(artifact.FullText, "Module docs")
	testsIdx := strings.Index(artifact.FullText, "def test_one")
	if docsIdx == -1 || testsIdx == -1 || docsIdx > testsIdx {
		t.Errorf("FullText ordering wrong: docs at %d, tests at %d", docsIdx, testsIdx)
	}
}

func TestAssembleFullTextMatchesSections(t *testing.T) {
	sections := []core.Section{
		{Name: core.SectionImports, Content: "import os\n\n"},
		{Name: core.SectionCoreLogic, Content: "def run():\n    return 1\n"},
	}

	artifact, err := Assemble(sections)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	parts := make([]string, 0, len(artifact.Sections))
	for _, s := range artifact.Sections {
		parts = append(parts, s.Content)
	}
	want := strings.Join(parts, "\n\n") + "\n"
	if artifact.FullText != want {
		t.Errorf("FullText diverges from joined sections:\ngot  %q\nwant %q", artifact.FullText, want)
	}
}

func TestAssembleOmitsEmptySections(t *testing.T) {
	sections := []core.Section{
		{Name: core.SectionDocs, Content: `"""Docs."""`},
		{Name: core.SectionMain, Content: ""},
		{Name: core.SectionSetup, Content: "   \n  "},
	}

	artifact, err := Assemble(sections)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if len(artifact.Sections) != 1 {
		t.Errorf("got %d sections, want 1 (empty ones omitted)", len(artifact.Sections))
	}
	if artifact.HasSection(core.SectionMain) {
		t.Error("empty main section should be omitted, not padded")
	}
}

func TestAssembleRejectsUnknownSection(t *testing.T) {
	sections := []core.Section{
		{Name: core.SectionName("prologue"), Content: "x = 1"},
	}

	_, err := Assemble(sections)
	if err == nil {
		t.Fatal("Assemble() expected error for unknown section")
	}
	if !errors.Is(err, core.ErrUnknownSection) {
		t.Errorf("error = %v, want ErrUnknownSection", err)
	}
}

func TestAssembleDeterministic(t *testing.T) {
	sections := []core.Section{
		{Name: core.SectionCoreLogic, Content: "def run():\n    return 1"},
		{Name: core.SectionImports, Content: "import os"},
	}

	first, err := Assemble(sections)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	second, err := Assemble(sections)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if first.FullText != second.FullText {
		t.Error("FullText differs across identical inputs")
	}
	if first.ID == second.ID {
		t.Error("artifact IDs should be unique per assembly")
	}
}

func TestReplace(t *testing.T) {
	sections := []core.Section{
		{Name: core.SectionImports, Content: "import os"},
		{Name: core.SectionTests, Content: "def test_one():\n    assert True"},
	}

	t.Run("replaces existing", func(t *testing.T) {
		out := Replace(sections, core.SectionTests, "def test_two():\n    assert True")
		if len(out) != 2 {
			t.Fatalf("got %d sections, want 2", len(out))
		}
		if !strings.Contains(out[1].Content, "test_two") {
			t.Errorf("tests content = %q, want replacement", out[1].Content)
		}
		// The input slice must be untouched.
		if !strings.Contains(sections[1].Content, "test_one") {
			t.Error("Replace mutated its input")
		}
	})

	t.Run("appends missing", func(t *testing.T) {
		out := Replace(sections, core.SectionSetup, "DEBUG = False")
		if len(out) != 3 {
			t.Fatalf("got %d sections, want 3", len(out))
		}
		if out[2].Name != core.SectionSetup {
			t.Errorf("appended section = %s, want setup", out[2].Name)
		}
	})
}
