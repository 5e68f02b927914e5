// Package assemble turns a set of named sections into an Artifact with a
// fixed, deterministic ordering.
package assemble

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/vampirenirmal/codeforge/internal/core"
)

// ordinals maps each section name to its canonical position.
var ordinals = func() map[core.SectionName]int {
	m := make(map[core.SectionName]int, len(core.SectionOrder))
	for i, name := range core.SectionOrder {
		m[name] = i
	}
	return m
}()

// Assemble orders the given sections canonically and concatenates them into
// an Artifact. The input order is irrelevant; empty sections are omitted, and
// the assembler never fabricates placeholder content for missing ones. An
// unknown section name is a generator defect and is rejected.
func Assemble(sections []core.Section) (core.Artifact, error) {
	kept := make([]core.Section, 0, len(sections))
	for _, s := range sections {
		ord, ok := ordinals[s.Name]
		if !ok {
			return core.Artifact{}, &core.GenerationError{
				Stage:   "assemble",
				Section: s.Name,
				Reason:  core.ErrUnknownSection.Error(),
				Cause:   core.ErrUnknownSection,
			}
		}
		if strings.TrimSpace(s.Content) == "" {
			continue
		}
		// Trailing newlines are normalized so FullText is exactly the joined
		// section contents.
		s.Content = strings.TrimRight(s.Content, "\n")
		s.Ordinal = ord
		kept = append(kept, s)
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Ordinal < kept[j].Ordinal })

	parts := make([]string, 0, len(kept))
	for _, s := range kept {
		parts = append(parts, s.Content)
	}

	return core.Artifact{
		ID:       uuid.NewString(),
		Sections: kept,
		FullText: strings.Join(parts, "\n\n") + "\n",
	}, nil
}

// Replace returns a new section set with the named section's content swapped
// (or appended when absent). It is a helper for refinement passes, which must
// build a fresh candidate rather than mutate a prior artifact.
func Replace(sections []core.Section, name core.SectionName, content string) []core.Section {
	out := make([]core.Section, 0, len(sections)+1)
	replaced := false
	for _, s := range sections {
		if s.Name == name {
			s.Content = content
			replaced = true
		}
		out = append(out, s)
	}
	if !replaced {
		out = append(out, core.Section{Name: name, Content: content})
	}
	return out
}
