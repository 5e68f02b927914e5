// Package store persists generation outcomes as an append-only JSONL pattern
// store and serves strategy suggestions for new requirements.
package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vampirenirmal/codeforge/internal/core"
)

// PatternStore keeps every recorded generation in memory and mirrors new
// records to a JSONL file, one entry per line.
type PatternStore struct {
	mu        sync.RWMutex
	path      string
	entries   []core.PatternEntry
	threshold float64
	closed    bool
	logger    *slog.Logger
}

// Option allows customization of the PatternStore.
type Option func(*PatternStore)

// WithLogger configures a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *PatternStore) {
		s.logger = logger
	}
}

// WithSimilarityThreshold overrides the minimum token overlap a past entry
// needs before its strategy is suggested for reuse.
func WithSimilarityThreshold(threshold float64) Option {
	return func(s *PatternStore) {
		s.threshold = threshold
	}
}

// Open loads the pattern store at path. A missing file yields an empty store;
// an unreadable file or corrupt lines degrade to whatever loaded cleanly and
// are logged, never fatal.
func Open(path string, options ...Option) (*PatternStore, error) {
	s := &PatternStore{
		path:      path,
		threshold: 0.3,
		logger:    slog.Default(),
	}
	for _, option := range options {
		option(s)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &core.StoreError{Path: path, Reason: "creating store directory", Cause: err}
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		s.logger.Warn("Pattern store unreadable, starting empty",
			"path", path,
			"error", err,
		)
		return s, nil
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	skipped := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var entry core.PatternEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			skipped++
			s.logger.Warn("Skipping corrupt pattern store line",
				"path", path,
				"line", line,
				"error", err,
			)
			continue
		}
		s.entries = append(s.entries, entry)
	}
	if err := scanner.Err(); err != nil {
		s.logger.Warn("Pattern store truncated while loading",
			"path", path,
			"loaded", len(s.entries),
			"error", err,
		)
	}
	s.logger.Info("Pattern store loaded",
		"path", path,
		"entries", len(s.entries),
		"skipped", skipped,
	)
	return s, nil
}

// Record appends one outcome to memory and to the JSONL file. The requirement
// is captured as a 100-character signature snippet for later similarity
// matching.
func (s *PatternStore) Record(requirement string, rec core.AnalysisRecord, success bool) (core.PatternEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return core.PatternEntry{}, core.ErrStoreClosed
	}

	entry := core.PatternEntry{
		RunID:           uuid.New().String(),
		Signature:       signature(requirement),
		Snippet:         snippet(requirement),
		ComplexityScore: rec.ComplexityScore,
		CodeType:        rec.CodeType,
		Architecture:    rec.Architecture,
		Success:         success,
		Timestamp:       time.Now().UTC(),
	}

	if err := s.append(entry); err != nil {
		return core.PatternEntry{}, err
	}
	s.entries = append(s.entries, entry)
	return entry, nil
}

// append writes one JSONL line, opening and closing the file in this scope so
// a crash never leaves a dangling handle.
func (s *PatternStore) append(entry core.PatternEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return &core.StoreError{Path: s.path, Reason: "encoding entry", Cause: err}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return &core.StoreError{Path: s.path, Reason: "opening store for append", Cause: err}
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return &core.StoreError{Path: s.path, Reason: "appending entry", Cause: err}
	}
	return nil
}

// Suggest compares the requirement against every recorded signature and, when
// the best successful match clears the similarity threshold, advises reusing
// its strategy. Otherwise the standard strategy is returned with zero
// confidence.
func (s *PatternStore) Suggest(requirement string) core.SuggestedStrategy {
	s.mu.RLock()
	defer s.mu.RUnlock()

	target := tokenize(snippet(requirement))
	best := core.SuggestedStrategy{Strategy: core.StrategyStandard}
	for _, entry := range s.entries {
		if !entry.Success {
			continue
		}
		score := jaccard(target, tokenize(entry.Snippet))
		if score > s.threshold && score > best.Confidence {
			best = core.SuggestedStrategy{
				Strategy:     core.StrategyReusePattern,
				CodeType:     entry.CodeType,
				Architecture: entry.Architecture,
				Confidence:   score,
			}
		}
	}
	return best
}

// Len returns the number of loaded entries.
func (s *PatternStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// IntelligenceScore summarizes accumulated experience as a bounded [0,100]
// composite of success rate, pattern variety, skill variety, and volume.
func (s *PatternStore) IntelligenceScore() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return 0
	}

	successes := 0
	signatures := make(map[string]struct{})
	skills := make(map[core.CodeType]struct{})
	for _, entry := range s.entries {
		if entry.Success {
			successes++
		}
		signatures[entry.Signature] = struct{}{}
		skills[entry.CodeType] = struct{}{}
	}

	successRate := float64(successes) / float64(len(s.entries))
	patterns := math.Min(float64(len(signatures))/10, 1)
	skillSpread := math.Min(float64(len(skills))/5, 1)
	experience := math.Min(float64(len(s.entries))/50, 1)

	score := successRate*40 + patterns*20 + skillSpread*20 + experience*20
	return math.Min(math.Max(score, 0), 100)
}

// Entries returns a copy of the loaded entries, newest last.
func (s *PatternStore) Entries() []core.PatternEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.PatternEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Close marks the store closed. Further Record calls fail with ErrStoreClosed.
func (s *PatternStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// signature is a stable identity for a requirement: the sorted distinct
// tokens of its snippet.
func signature(requirement string) string {
	tokens := tokenize(snippet(requirement))
	sorted := make([]string, 0, len(tokens))
	for token := range tokens {
		sorted = append(sorted, token)
	}
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}

// snippet truncates a requirement to its first 100 characters.
func snippet(requirement string) string {
	requirement = strings.TrimSpace(requirement)
	if len(requirement) > 100 {
		return requirement[:100]
	}
	return requirement
}

func tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, field := range strings.Fields(strings.ToLower(text)) {
		field = strings.Trim(field, ".,;:!?()[]{}\"'")
		if field != "" {
			tokens[field] = struct{}{}
		}
	}
	return tokens
}

// jaccard is token-set overlap: intersection over union.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// String implements fmt.Stringer for diagnostics.
func (s *PatternStore) String() string {
	return fmt.Sprintf("PatternStore(path=%s, entries=%d)", s.path, s.Len())
}
