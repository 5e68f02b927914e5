package refine

import (
	"strings"

	"github.com/vampirenirmal/codeforge/internal/core"
)

const timingBlock = `from functools import wraps
from time import perf_counter


def timed(func: Any) -> Any:
    """Wrap a callable with wall-clock timing and a log line."""

    @wraps(func)
    def wrapper(*args: Any, **kwargs: Any) -> Any:
        started = perf_counter()
        try:
            return func(*args, **kwargs)
        finally:
            logging.getLogger(__name__).info(
                "%s took %.6f seconds", func.__name__, perf_counter() - started
            )

    return wrapper`

// InstrumentationPass injects a timing decorator and, where an entry point
// exists, rebinds it through the decorator.
type InstrumentationPass struct{}

func (p *InstrumentationPass) Name() string { return "instrumentation" }

func (p *InstrumentationPass) Applies(artifact core.Artifact) bool {
	return !strings.Contains(artifact.FullText, "perf_counter")
}

func (p *InstrumentationPass) Apply(artifact core.Artifact) ([]core.Section, error) {
	sections := make([]core.Section, len(artifact.Sections))
	copy(sections, artifact.Sections)

	placed := false
	for i, s := range sections {
		if s.Name == core.SectionSupporting {
			sections[i].Content = strings.TrimRight(s.Content, "\n") + "\n\n\n" + timingBlock
			placed = true
			break
		}
	}
	if !placed {
		sections = append(sections, core.Section{Name: core.SectionSupporting, Content: timingBlock})
	}

	if artifact.HasSection(core.SectionMain) {
		for i, s := range sections {
			if s.Name == core.SectionExecution {
				sections[i].Content = "main = timed(main)\n\n\n" + strings.TrimLeft(s.Content, "\n")
			}
		}
	}
	return sections, nil
}
