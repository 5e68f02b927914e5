package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vampirenirmal/codeforge/internal/core"
)

// ArtifactDir writes generated source files under a single base directory,
// rejecting any path that would escape it.
type ArtifactDir struct {
	baseDir string
}

// NewArtifactDir creates an artifact directory rooted at baseDir.
func NewArtifactDir(baseDir string) *ArtifactDir {
	return &ArtifactDir{baseDir: baseDir}
}

// sanitizePath validates and cleans the path to prevent directory traversal.
func (d *ArtifactDir) sanitizePath(path string) (string, error) {
	cleaned := filepath.Clean(path)

	if strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid path: contains parent directory reference")
	}
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid path: absolute paths not allowed")
	}

	fullPath := filepath.Join(d.baseDir, cleaned)
	if !strings.HasPrefix(fullPath, d.baseDir+string(filepath.Separator)) && fullPath != d.baseDir {
		return "", fmt.Errorf("invalid path: outside base directory")
	}
	return fullPath, nil
}

// SaveArtifact writes the artifact's full text as <name>.py and returns the
// absolute path written.
func (d *ArtifactDir) SaveArtifact(ctx context.Context, name string, artifact core.Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !strings.HasSuffix(name, ".py") {
		name += ".py"
	}
	fullPath, err := d.sanitizePath(name)
	if err != nil {
		return "", fmt.Errorf("invalid artifact name: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(fullPath, []byte(artifact.FullText), 0644); err != nil {
		return "", fmt.Errorf("writing artifact: %w", err)
	}
	return fullPath, nil
}

// Load reads a previously written artifact back.
func (d *ArtifactDir) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fullPath, err := d.sanitizePath(name)
	if err != nil {
		return nil, fmt.Errorf("invalid artifact name: %w", err)
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}
	return data, nil
}

// List returns the relative paths of artifacts matching the glob pattern.
func (d *ArtifactDir) List(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cleaned := filepath.Clean(pattern)
	if strings.Contains(cleaned, "..") {
		return nil, fmt.Errorf("invalid pattern: contains parent directory reference")
	}
	if filepath.IsAbs(cleaned) {
		return nil, fmt.Errorf("invalid pattern: absolute paths not allowed")
	}

	matches, err := filepath.Glob(filepath.Join(d.baseDir, cleaned))
	if err != nil {
		return nil, fmt.Errorf("listing artifacts: %w", err)
	}

	var results []string
	for _, match := range matches {
		if !strings.HasPrefix(match, d.baseDir+string(filepath.Separator)) && match != d.baseDir {
			continue
		}
		rel, err := filepath.Rel(d.baseDir, match)
		if err != nil {
			continue
		}
		results = append(results, rel)
	}
	return results, nil
}
