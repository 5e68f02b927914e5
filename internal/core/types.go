package core

import (
	"strings"
	"time"
)

// =============================================================================
// Classification Enums
// =============================================================================

// CodeType tags the kind of program a requirement asks for.
type CodeType string

const (
	CodeTypeAPI            CodeType = "api"
	CodeTypeML             CodeType = "ml"
	CodeTypeCLI            CodeType = "cli"
	CodeTypeDatabase       CodeType = "database"
	CodeTypeDataProcessing CodeType = "data_processing"
	CodeTypeTesting        CodeType = "testing"
	CodeTypeGeneric        CodeType = "generic"
)

// Architecture tags the structural style detected in a requirement.
type Architecture string

const (
	ArchMicroservices Architecture = "microservices"
	ArchEventDriven   Architecture = "event_driven"
	ArchDistributed   Architecture = "distributed"
	ArchLayered       Architecture = "layered"
	ArchPipeline      Architecture = "pipeline"
	ArchPlugin        Architecture = "plugin"
	ArchNone          Architecture = "none"
)

// =============================================================================
// Analysis Record
// =============================================================================

// TermHit records a dictionary term found in a requirement.
type TermHit struct {
	Term     string  `json:"term"`
	Weight   float64 `json:"weight"`
	Count    int     `json:"count"`
	Advanced bool    `json:"advanced,omitempty"`
}

// PatternHit records a structural pattern found in a requirement.
type PatternHit struct {
	Pattern string  `json:"pattern"`
	Weight  float64 `json:"weight"`
	Count   int     `json:"count"`
}

// ResourceEstimate is a coarse sizing of one requirement. The categorical
// estimates stay at "medium" until measured signals exist; only the
// dependency count is derived from the text.
type ResourceEstimate struct {
	Time         string `json:"time_estimate"`
	Memory       string `json:"memory_estimate"`
	CPU          string `json:"cpu_estimate"`
	Storage      string `json:"storage_estimate"`
	Dependencies int    `json:"dependencies_estimate"`
}

// AnalysisRecord is the immutable result of analyzing one requirement.
// It is created once per generation request; downstream stages only read it.
type AnalysisRecord struct {
	Requirement      string           `json:"requirement"`
	ComplexityScore  int              `json:"complexity_score"`
	DetectedTerms    []TermHit        `json:"detected_terms"`
	DetectedPatterns []PatternHit     `json:"detected_patterns"`
	CodeType         CodeType         `json:"code_type"`
	Architecture     Architecture     `json:"architecture"`
	Dependencies     []string         `json:"dependencies"`
	Constraints      []string         `json:"constraints,omitempty"`
	PerformanceFlags []string         `json:"performance_flags"`
	SecurityFlags    []string         `json:"security_flags"`
	OutputFormat     string           `json:"output_format"`
	ExecutionContext string           `json:"execution_context"`
	Priority         string           `json:"priority"`
	Resources        ResourceEstimate `json:"resources"`
}

// HasSecurityFlag reports whether the named security concern was detected.
func (r AnalysisRecord) HasSecurityFlag(name string) bool {
	for _, f := range r.SecurityFlags {
		if f == name {
			return true
		}
	}
	return false
}

// HasPerformanceFlag reports whether the named performance concern was detected.
func (r AnalysisRecord) HasPerformanceFlag(name string) bool {
	for _, f := range r.PerformanceFlags {
		if f == name {
			return true
		}
	}
	return false
}

// =============================================================================
// Sections and Artifacts
// =============================================================================

// SectionName identifies one independently generated code fragment.
type SectionName string

const (
	SectionDocs           SectionName = "docs"
	SectionImports        SectionName = "imports"
	SectionSetup          SectionName = "setup"
	SectionCoreLogic      SectionName = "core_logic"
	SectionSupporting     SectionName = "supporting"
	SectionErrorHierarchy SectionName = "error_hierarchy"
	SectionTests          SectionName = "tests"
	SectionMain           SectionName = "main"
	SectionExecution      SectionName = "execution"
)

// SectionOrder is the canonical assembly order. The assembler emits sections
// in exactly this order regardless of how they arrive.
var SectionOrder = []SectionName{
	SectionDocs,
	SectionImports,
	SectionSetup,
	SectionCoreLogic,
	SectionSupporting,
	SectionErrorHierarchy,
	SectionTests,
	SectionMain,
	SectionExecution,
}

// Section is one named code fragment. Ordinal is assigned by the assembler.
type Section struct {
	Name    SectionName `json:"name"`
	Content string      `json:"content"`
	Ordinal int         `json:"ordinal"`
}

// Artifact is a fully assembled output: ordered sections plus the derived
// full text. Refinement passes never mutate an Artifact in place; each pass
// consumes one and produces a new candidate.
type Artifact struct {
	ID       string    `json:"id"`
	Sections []Section `json:"sections"`
	FullText string    `json:"full_text"`
}

// SectionContent returns the content of the named section, or "" if absent.
func (a Artifact) SectionContent(name SectionName) string {
	for _, s := range a.Sections {
		if s.Name == name {
			return s.Content
		}
	}
	return ""
}

// HasSection reports whether the artifact contains the named section.
func (a Artifact) HasSection(name SectionName) bool {
	for _, s := range a.Sections {
		if s.Name == name {
			return true
		}
	}
	return false
}

// LineCount returns the number of lines in the assembled text.
func (a Artifact) LineCount() int {
	if a.FullText == "" {
		return 0
	}
	return strings.Count(a.FullText, "\n") + 1
}

// =============================================================================
// Validation
// =============================================================================

// Feature names reported by the validator's structural scans.
const (
	FeatureTypeAnnotation = "type_annotation"
	FeatureDocstring      = "docstring"
	FeatureErrorHandling  = "error_handling"
	FeatureLoggingCall    = "logging_call"
	FeatureTestFunction   = "test_function"
)

// ValidationIssue pins a syntax problem to a location in the artifact text.
type ValidationIssue struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// ValidationReport is the validator's verdict on one artifact. Feature counts
// are only populated when the artifact parsed; a feature is never reported
// present without a positive structural match.
type ValidationReport struct {
	SyntacticallyValid bool              `json:"syntactically_valid"`
	FeaturePresence    map[string]int    `json:"feature_presence"`
	Errors             []ValidationIssue `json:"errors,omitempty"`
}

// FeatureCount returns the count for a feature, 0 when absent or invalid.
func (r ValidationReport) FeatureCount(name string) int {
	if r.FeaturePresence == nil {
		return 0
	}
	return r.FeaturePresence[name]
}

// =============================================================================
// Pattern Store
// =============================================================================

// PatternEntry is one completed generation recorded in the pattern store.
type PatternEntry struct {
	RunID           string       `json:"run_id"`
	Signature       string       `json:"signature"`
	Snippet         string       `json:"snippet"`
	ComplexityScore int          `json:"complexity_score"`
	CodeType        CodeType     `json:"code_type"`
	Architecture    Architecture `json:"architecture"`
	Success         bool         `json:"success"`
	Timestamp       time.Time    `json:"timestamp"`
}

// Strategies the pattern store can suggest for a new requirement.
const (
	StrategyStandard     = "standard"
	StrategyReusePattern = "reuse_pattern"
)

// SuggestedStrategy is the store's advice for a new requirement, derived from
// the closest previously recorded signature.
type SuggestedStrategy struct {
	Strategy     string       `json:"strategy"` // "reuse_pattern" or "standard"
	CodeType     CodeType     `json:"code_type"`
	Architecture Architecture `json:"architecture"`
	Confidence   float64      `json:"confidence"`
}
