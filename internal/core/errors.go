package core

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// Predefined Error Values
// =============================================================================

var (
	ErrEmptyRequirement = errors.New("requirement is empty")
	ErrNoGenerator      = errors.New("no generator registered")
	ErrDraftInvalid     = errors.New("draft artifact failed to parse")
	ErrUnknownSection   = errors.New("unknown section name")
	ErrStoreCorrupt     = errors.New("pattern store unreadable")
	ErrStoreClosed      = errors.New("pattern store closed")
)

// =============================================================================
// Core Error Types
// =============================================================================

// AnalysisError reports a contract violation by the caller: input that cannot
// be analyzed at all. It is fatal for the request and surfaced immediately.
type AnalysisError struct {
	Stage  string
	Reason string
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed in %s: %s", e.Stage, e.Reason)
}

func (e *AnalysisError) Unwrap() error {
	return ErrEmptyRequirement
}

// NewAnalysisError creates an AnalysisError with stage context.
func NewAnalysisError(stage, reason string) *AnalysisError {
	return &AnalysisError{Stage: stage, Reason: reason}
}

// GenerationError reports that a component generator could not produce a
// section meeting its minimum-content contract. No artifact is returned.
type GenerationError struct {
	Stage    string
	Section  SectionName
	CodeType CodeType
	Reason   string
	Cause    error
}

func (e *GenerationError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("generation failed in %s (section %s, code type %s): %s",
			e.Stage, e.Section, e.CodeType, e.Reason)
	}
	return fmt.Sprintf("generation failed in %s (code type %s): %s", e.Stage, e.CodeType, e.Reason)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// ValidationFailure reports that an artifact failed to parse. During
// refinement it is recovered locally by discarding the candidate; it only
// escalates when the pre-refinement draft itself is invalid.
type ValidationFailure struct {
	Stage     string
	Issues    []ValidationIssue
	Timestamp time.Time
}

// NewValidationFailure creates a ValidationFailure stamped with the current
// time.
func NewValidationFailure(stage string, issues []ValidationIssue) *ValidationFailure {
	return &ValidationFailure{
		Stage:     stage,
		Issues:    issues,
		Timestamp: time.Now().UTC(),
	}
}

func (e *ValidationFailure) Error() string {
	if len(e.Issues) > 0 {
		first := e.Issues[0]
		return fmt.Sprintf("validation failed in %s: line %d col %d: %s (%d issues)",
			e.Stage, first.Line, first.Column, first.Message, len(e.Issues))
	}
	return fmt.Sprintf("validation failed in %s", e.Stage)
}

func (e *ValidationFailure) Unwrap() error {
	return ErrDraftInvalid
}

// StoreError reports a pattern store problem. Store errors are never fatal to
// generation; callers recover with an empty store and a logged warning.
type StoreError struct {
	Path   string
	Reason string
	Cause  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("pattern store %s: %s", e.Path, e.Reason)
}

func (e *StoreError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return ErrStoreCorrupt
}

// =============================================================================
// Error Classification Functions
// =============================================================================

// IsFatal determines if an error must surface to the caller rather than be
// recovered locally. Analysis errors and an invalid draft are contract
// violations; everything downstream has a local fallback.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var analysisErr *AnalysisError
	if errors.As(err, &analysisErr) {
		return true
	}

	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return true
	}

	var vf *ValidationFailure
	if errors.As(err, &vf) {
		return vf.Stage == "draft"
	}

	return false
}

// IsRecoverable determines if the pipeline may continue after this error
// with a local fallback (prior artifact, empty store).
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}

	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return true
	}

	var vf *ValidationFailure
	if errors.As(err, &vf) {
		return vf.Stage != "draft"
	}

	return errors.Is(err, ErrStoreCorrupt)
}
