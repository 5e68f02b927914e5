// Package classify derives a code-type tag and an architecture tag from an
// analyzed requirement using priority-ordered keyword rules.
package classify

import (
	"regexp"

	"github.com/vampirenirmal/codeforge/internal/core"
)

// CodeTypeRule maps a keyword expression to a code type. Rules are evaluated
// in declaration order and the first match wins; the order below is part of
// the classifier's contract and must stay stable.
type CodeTypeRule struct {
	Type core.CodeType
	re   *regexp.Regexp
}

// ArchitectureRule maps a keyword expression to an architecture tag, first
// match wins, declaration order is the contract.
type ArchitectureRule struct {
	Arch core.Architecture
	re   *regexp.Regexp
}

// CodeTypeRules is the ordered code-type rule table:
// api > ml > database > cli > testing > data_processing, falling back to
// generic. An "api" requirement that also mentions a database classifies as
// api because of this ordering.
var CodeTypeRules = []CodeTypeRule{
	{core.CodeTypeAPI, regexp.MustCompile(`(?i)\b(?:api|rest|endpoint|route|http)\b`)},
	{core.CodeTypeML, regexp.MustCompile(`(?i)\b(?:machine learning|model|neural|train|predict)\b`)},
	{core.CodeTypeDatabase, regexp.MustCompile(`(?i)\b(?:database|sql|query|orm)\b`)},
	{core.CodeTypeCLI, regexp.MustCompile(`(?i)\b(?:cli|command|script|automation)\b`)},
	{core.CodeTypeTesting, regexp.MustCompile(`(?i)\b(?:test|unit|integration|pytest)\b`)},
	{core.CodeTypeDataProcessing, regexp.MustCompile(`(?i)\b(?:data|process|analysis|stream)\b`)},
}

// ArchitectureRules is the ordered architecture rule table:
// microservices > event_driven > distributed > layered > plugin > pipeline,
// falling back to none.
var ArchitectureRules = []ArchitectureRule{
	{core.ArchMicroservices, regexp.MustCompile(`(?i)\b(?:microservices?|service-oriented)\b`)},
	{core.ArchEventDriven, regexp.MustCompile(`(?i)\b(?:event-driven|event sourcing|cqrs)\b`)},
	{core.ArchDistributed, regexp.MustCompile(`(?i)\b(?:distributed|consensus|replicated)\b`)},
	{core.ArchLayered, regexp.MustCompile(`(?i)\b(?:layered|mvc|mvvm|separation of concerns)\b`)},
	{core.ArchPlugin, regexp.MustCompile(`(?i)\b(?:plugin|extension|modular)\b`)},
	{core.ArchPipeline, regexp.MustCompile(`(?i)\b(?:pipeline|batch|streaming)\b`)},
}

// Classify is a pure function over the analysis record and requirement text.
// The record is consulted for tie-breaking context only; the keyword tables
// decide.
func Classify(rec core.AnalysisRecord, requirement string) (core.CodeType, core.Architecture) {
	codeType := core.CodeTypeGeneric
	for _, rule := range CodeTypeRules {
		if rule.re.MatchString(requirement) {
			codeType = rule.Type
			break
		}
	}

	// A requirement with no type keywords but an ml execution context still
	// deserves the ml generators.
	if codeType == core.CodeTypeGeneric && rec.ExecutionContext == "ml" {
		codeType = core.CodeTypeML
	}

	arch := core.ArchNone
	for _, rule := range ArchitectureRules {
		if rule.re.MatchString(requirement) {
			arch = rule.Arch
			break
		}
	}

	return codeType, arch
}
