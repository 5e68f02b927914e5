// Package analyzer turns a raw requirement into an immutable AnalysisRecord
// using a weighted term and pattern dictionary.
package analyzer

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vampirenirmal/codeforge/internal/classify"
	"github.com/vampirenirmal/codeforge/internal/config"
	"github.com/vampirenirmal/codeforge/internal/core"
)

const defaultCacheSize = 256

type compiledTerm struct {
	term Term
	re   *regexp.Regexp
}

type compiledPattern struct {
	rule PatternRule
	re   *regexp.Regexp
}

type compiledBonus struct {
	bonus ArchBonus
	re    *regexp.Regexp
}

type compiledFlag struct {
	name string
	re   *regexp.Regexp
}

// Analyzer scans requirements against a compiled dictionary. Analysis is a
// pure function of (text, dictionary, weights); the cache only short-circuits
// identical inputs and never changes the result.
type Analyzer struct {
	weights  config.Weights
	terms    []compiledTerm
	patterns []compiledPattern
	bonuses  []compiledBonus
	perf     []compiledFlag
	security []compiledFlag
	formats  []compiledFlag
	contexts []compiledFlag
	priority []compiledFlag
	stdLibs  []compiledFlag
	thirdPty []compiledFlag
	cache    *lru.Cache[string, core.AnalysisRecord]
	logger   *slog.Logger
}

// Option allows customization of the Analyzer.
type Option func(*Analyzer)

// WithLogger configures a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// New compiles the dictionary and returns a ready Analyzer.
func New(dict *Dictionary, weights config.Weights, options ...Option) (*Analyzer, error) {
	a := &Analyzer{
		weights: weights,
		logger:  slog.Default(),
	}

	for _, option := range options {
		option(a)
	}

	for _, t := range dict.Terms {
		re, err := compileWord(t.Name)
		if err != nil {
			return nil, fmt.Errorf("compiling term %q: %w", t.Name, err)
		}
		a.terms = append(a.terms, compiledTerm{term: t, re: re})
	}
	for _, p := range dict.Patterns {
		re, err := regexp.Compile(`(?i)` + p.Expr)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q: %w", p.Name, err)
		}
		a.patterns = append(a.patterns, compiledPattern{rule: p, re: re})
	}
	for _, b := range dict.Bonuses {
		re, err := regexp.Compile(`(?i)` + b.Expr)
		if err != nil {
			return nil, fmt.Errorf("compiling bonus %q: %w", b.Name, err)
		}
		a.bonuses = append(a.bonuses, compiledBonus{bonus: b, re: re})
	}

	var err error
	if a.perf, err = compileFlags(dict.PerformanceRules); err != nil {
		return nil, err
	}
	if a.security, err = compileFlags(dict.SecurityRules); err != nil {
		return nil, err
	}
	if a.formats, err = compileFlags(dict.FormatRules); err != nil {
		return nil, err
	}
	if a.contexts, err = compileFlags(dict.ContextRules); err != nil {
		return nil, err
	}
	if a.priority, err = compileFlags(dict.PriorityRules); err != nil {
		return nil, err
	}
	for _, lib := range dict.StdLibs {
		re, err := compileWord(lib)
		if err != nil {
			return nil, fmt.Errorf("compiling stdlib %q: %w", lib, err)
		}
		a.stdLibs = append(a.stdLibs, compiledFlag{name: lib, re: re})
	}
	for _, lib := range dict.ThirdParty {
		re, err := compileWord(lib)
		if err != nil {
			return nil, fmt.Errorf("compiling library %q: %w", lib, err)
		}
		a.thirdPty = append(a.thirdPty, compiledFlag{name: lib, re: re})
	}

	cache, err := lru.New[string, core.AnalysisRecord](defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating analysis cache: %w", err)
	}
	a.cache = cache

	return a, nil
}

func compileWord(word string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
}

func compileFlags(rules []FlagRule) ([]compiledFlag, error) {
	flags := make([]compiledFlag, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile(`(?i)` + r.Expr)
		if err != nil {
			return nil, fmt.Errorf("compiling flag %q: %w", r.Name, err)
		}
		flags = append(flags, compiledFlag{name: r.Name, re: re})
	}
	return flags, nil
}

// Analyze produces the AnalysisRecord for a requirement. Empty or
// whitespace-only input is a contract violation and returns an AnalysisError.
func (a *Analyzer) Analyze(requirement string) (core.AnalysisRecord, error) {
	trimmed := strings.TrimSpace(requirement)
	if trimmed == "" {
		return core.AnalysisRecord{}, core.NewAnalysisError("analyzer", "requirement is empty or whitespace-only")
	}

	if cached, ok := a.cache.Get(trimmed); ok {
		return cached, nil
	}

	terms, termScore, distinctAdvanced := a.scanTerms(trimmed)
	patterns, patternScore := a.scanPatterns(trimmed)
	bonus := a.scanBonuses(trimmed)
	multiplier := a.weights.MultiplierFor(distinctAdvanced)

	// Volume term: lines beyond the first, bounded. A one-line requirement
	// with no dictionary hits scores exactly the baseline.
	lines := strings.Count(trimmed, "\n")
	volume := math.Min(float64(lines)*a.weights.LineWeight, a.weights.VolumeCap)

	raw := (a.weights.Baseline+volume+termScore+patternScore)*multiplier + bonus
	score := a.normalize(raw)

	deps := a.scanDependencies(trimmed)
	rec := core.AnalysisRecord{
		Requirement:      trimmed,
		ComplexityScore:  score,
		DetectedTerms:    terms,
		DetectedPatterns: patterns,
		Dependencies:     deps,
		Constraints:      scanConstraints(trimmed),
		PerformanceFlags: scanFlagSet(a.perf, trimmed),
		SecurityFlags:    scanFlagSet(a.security, trimmed),
		OutputFormat:     firstFlag(a.formats, trimmed, "code_snippet"),
		ExecutionContext: firstFlag(a.contexts, trimmed, "general"),
		Priority:         firstFlag(a.priority, trimmed, "medium"),
		Resources:        estimateResources(deps),
	}
	rec.CodeType, rec.Architecture = classify.Classify(rec, trimmed)

	a.logger.Debug("Requirement analyzed",
		"complexity", rec.ComplexityScore,
		"code_type", rec.CodeType,
		"architecture", rec.Architecture,
		"distinct_advanced", distinctAdvanced,
		"multiplier", multiplier,
	)

	a.cache.Add(trimmed, rec)
	return rec, nil
}

// normalize divides the excess over baseline by the configured divisor and
// clamps into [0,100].
func (a *Analyzer) normalize(raw float64) int {
	normalized := a.weights.Baseline + (raw-a.weights.Baseline)/a.weights.NormalizationDivisor
	return int(math.Min(100, math.Max(0, math.Round(normalized))))
}

func (a *Analyzer) scanTerms(text string) ([]core.TermHit, float64, int) {
	var hits []core.TermHit
	var score float64
	distinctAdvanced := 0

	for _, ct := range a.terms {
		count := len(ct.re.FindAllStringIndex(text, -1))
		if count == 0 {
			continue
		}
		// Cap the total contribution from one repeated term so a requirement
		// cannot game the score by repeating a single buzzword.
		score += math.Min(float64(count)*ct.term.Weight, a.weights.TermCap)
		if ct.term.Advanced {
			distinctAdvanced++
		}
		hits = append(hits, core.TermHit{
			Term:     ct.term.Name,
			Weight:   ct.term.Weight,
			Count:    count,
			Advanced: ct.term.Advanced,
		})
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Term < hits[j].Term })
	return hits, score, distinctAdvanced
}

func (a *Analyzer) scanPatterns(text string) ([]core.PatternHit, float64) {
	var hits []core.PatternHit
	var score float64

	for _, cp := range a.patterns {
		count := len(cp.re.FindAllStringIndex(text, -1))
		if count == 0 {
			continue
		}
		score += math.Min(float64(count)*cp.rule.Weight, a.weights.PatternCap)
		hits = append(hits, core.PatternHit{
			Pattern: cp.rule.Name,
			Weight:  cp.rule.Weight,
			Count:   count,
		})
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Pattern < hits[j].Pattern })
	return hits, score
}

func (a *Analyzer) scanBonuses(text string) float64 {
	var bonus float64
	for _, cb := range a.bonuses {
		if cb.re.MatchString(text) {
			bonus += cb.bonus.Points
		}
	}
	return bonus
}

func (a *Analyzer) scanDependencies(text string) []string {
	var deps []string
	for _, lib := range a.stdLibs {
		if lib.re.MatchString(text) {
			deps = append(deps, lib.name)
		}
	}
	for _, lib := range a.thirdPty {
		if lib.re.MatchString(text) {
			deps = append(deps, lib.name)
		}
	}
	sort.Strings(deps)
	return deps
}

// constraintRes capture the clause following an obligation, prohibition,
// or bound marker, up to the next conjunction or sentence break.
var constraintRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:must|should|shall|need to|required to)\s+(.+?)(?:\s+and\b|\s+or\b|[.;]|$)`),
	regexp.MustCompile(`(?i)(?:avoid|never|without)\s+(.+?)(?:\s+and\b|\s+or\b|[.;]|$)`),
	regexp.MustCompile(`(?i)(?:limit(?:ed)? to|constraint:)\s+(.+?)(?:\s+and\b|\s+or\b|[.;]|$)`),
	regexp.MustCompile(`(?i)(?:maximum|minimum|at least|at most)\s+(.+?)(?:\s+and\b|\s+or\b|[.;]|$)`),
}

// scanConstraints collects obligation clauses from the requirement in rule
// order, deduplicated case-insensitively.
func scanConstraints(text string) []string {
	seen := make(map[string]bool)
	var constraints []string
	for _, re := range constraintRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			clause := strings.TrimSpace(m[1])
			if clause == "" || seen[strings.ToLower(clause)] {
				continue
			}
			seen[strings.ToLower(clause)] = true
			constraints = append(constraints, clause)
		}
	}
	return constraints
}

// estimateResources sizes the work implied by a requirement. There is no
// measured signal for the categorical axes yet, so they hold at medium;
// the dependency count comes straight from the dependency scan.
func estimateResources(deps []string) core.ResourceEstimate {
	return core.ResourceEstimate{
		Time:         "medium",
		Memory:       "medium",
		CPU:          "medium",
		Storage:      "medium",
		Dependencies: len(deps),
	}
}

func scanFlagSet(flags []compiledFlag, text string) []string {
	var names []string
	for _, f := range flags {
		if f.re.MatchString(text) {
			names = append(names, f.name)
		}
	}
	sort.Strings(names)
	return names
}

// firstFlag returns the name of the first matching rule (declaration order
// wins), or the fallback when nothing matches.
func firstFlag(flags []compiledFlag, text, fallback string) string {
	for _, f := range flags {
		if f.re.MatchString(text) {
			return f.name
		}
	}
	return fallback
}
