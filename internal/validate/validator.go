// Package validate checks artifacts for syntactic validity against the
// Python grammar and scans valid artifacts for required structural features.
package validate

import (
	"context"
	"fmt"
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/vampirenirmal/codeforge/internal/core"
)

const maxIssueContext = 50

// Validator parses artifact text with a real grammar. A fresh parser is
// created per call; tree-sitter parsers are not safe for concurrent reuse.
type Validator struct {
	logger *slog.Logger
}

// Option allows customization of the Validator.
type Option func(*Validator)

// WithLogger configures a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// New creates a Validator.
func New(options ...Option) *Validator {
	v := &Validator{logger: slog.Default()}
	for _, option := range options {
		option(v)
	}
	return v
}

// Validate parses the artifact's full text. A syntax failure is recorded
// with location and message and fails the artifact immediately; feature
// scans only run on syntactically valid text.
func (v *Validator) Validate(ctx context.Context, artifact core.Artifact) (core.ValidationReport, error) {
	content := []byte(artifact.FullText)

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return core.ValidationReport{}, fmt.Errorf("parsing artifact: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		var issues []core.ValidationIssue
		collectSyntaxIssues(root, content, &issues)
		v.logger.Debug("Artifact failed to parse",
			"artifact_id", artifact.ID,
			"issues", len(issues),
		)
		// Fast rejection: no feature checks on invalid syntax.
		return core.ValidationReport{
			SyntacticallyValid: false,
			Errors:             issues,
		}, nil
	}

	return core.ValidationReport{
		SyntacticallyValid: true,
		FeaturePresence:    Features(artifact.FullText),
	}, nil
}

// collectSyntaxIssues traverses the tree and records ERROR and missing nodes.
func collectSyntaxIssues(node *sitter.Node, content []byte, issues *[]core.ValidationIssue) {
	if node.IsError() || node.IsMissing() {
		startPoint := node.StartPoint()

		start := node.StartByte()
		end := node.EndByte()
		if end > uint32(len(content)) {
			end = uint32(len(content))
		}
		snippet := string(content[start:end])
		if len(snippet) > maxIssueContext {
			snippet = snippet[:maxIssueContext] + "..."
		}

		message := "syntax error near: " + snippet
		if node.IsMissing() {
			message = "missing " + node.Type()
		}

		*issues = append(*issues, core.ValidationIssue{
			Line:    int(startPoint.Row) + 1,
			Column:  int(startPoint.Column),
			Message: message,
		})
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collectSyntaxIssues(node.Child(i), content, issues)
	}
}
