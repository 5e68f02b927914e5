package validate

import (
	"regexp"

	"github.com/vampirenirmal/codeforge/internal/core"
)

// Feature scans are independent structural matches over the artifact text.
// Go's regexp has no lookahead, so annotation counting is split into a
// return-annotation scan and a typed-name scan.
var (
	returnAnnotationRe = regexp.MustCompile(`->\s*"?[\w\[\], .]+"?\s*:`)
	typedNameRe        = regexp.MustCompile(`\b\w+\s*:\s*(?:int|str|float|bool|bytes|None|Any|Dict|List|Set|Optional|Tuple|Union|Callable|Iterator|Session|Path|argparse\.Namespace|pd\.\w+|np\.\w+)\b`)
	docstringRe        = regexp.MustCompile(`(?s)""".*?"""|'''.*?'''`)
	errorHandlingRe    = regexp.MustCompile(`\b(?:try|except|raise|finally)\b`)
	loggingCallRe      = regexp.MustCompile(`\blogging\.\w+|\blogger\.\w+\(`)
	testFunctionRe     = regexp.MustCompile(`(?m)^\s*def test_\w+`)
)

// Features runs every structural scan over the text and returns the counts.
// A feature with no positive match reports zero; there are no default-true
// shortcuts.
func Features(text string) map[string]int {
	return map[string]int{
		core.FeatureTypeAnnotation: len(returnAnnotationRe.FindAllString(text, -1)) +
			len(typedNameRe.FindAllString(text, -1)),
		core.FeatureDocstring:     len(docstringRe.FindAllString(text, -1)),
		core.FeatureErrorHandling: len(errorHandlingRe.FindAllString(text, -1)),
		core.FeatureLoggingCall:   len(loggingCallRe.FindAllString(text, -1)),
		core.FeatureTestFunction:  len(testFunctionRe.FindAllString(text, -1)),
	}
}

// CountAnnotations returns only the annotation count; the annotation
// refinement pass keys its precondition off this.
func CountAnnotations(text string) int {
	return len(returnAnnotationRe.FindAllString(text, -1)) + len(typedNameRe.FindAllString(text, -1))
}

// CountTestFunctions returns only the test function count.
func CountTestFunctions(text string) int {
	return len(testFunctionRe.FindAllString(text, -1))
}
