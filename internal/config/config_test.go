package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Point at a config file that does not exist; defaults must come back.
	t.Setenv("CODEFORGE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("CODEFORGE_STORE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Weights.Baseline != 10 {
		t.Errorf("Baseline = %v, want 10", cfg.Weights.Baseline)
	}
	if cfg.RateLimit.RequestsPerMinute != 60 {
		t.Errorf("RequestsPerMinute = %d, want 60", cfg.RateLimit.RequestsPerMinute)
	}
	if !strings.HasSuffix(cfg.Paths.StorePath, "patterns.jsonl") {
		t.Errorf("StorePath = %s, want default patterns.jsonl", cfg.Paths.StorePath)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	cfg := Default()
	cfg.Weights.Baseline = 12
	cfg.RateLimit.RequestsPerMinute = 30
	if err := Save(cfg, configPath); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	t.Setenv("CODEFORGE_CONFIG", configPath)
	t.Setenv("CODEFORGE_STORE", "")

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Weights.Baseline != 12 {
		t.Errorf("Baseline = %v, want 12 from file", loaded.Weights.Baseline)
	}
	if loaded.RateLimit.RequestsPerMinute != 30 {
		t.Errorf("RequestsPerMinute = %d, want 30 from file", loaded.RateLimit.RequestsPerMinute)
	}
}

func TestLoadStoreOverride(t *testing.T) {
	t.Setenv("CODEFORGE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("CODEFORGE_STORE", "/tmp/override.jsonl")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Paths.StorePath != "/tmp/override.jsonl" {
		t.Errorf("StorePath = %s, want env override", cfg.Paths.StorePath)
	}
}

func TestLoadRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "rate limit out of range",
			yaml: "rate_limit:\n  requests_per_minute: 0\n  burst_size: 10\n",
		},
		{
			name: "negative divisor",
			yaml: "weights:\n  normalization_divisor: -1\n",
		},
		{
			name: "duplicate multiplier tiers",
			yaml: `weights:
  baseline: 10
  term_cap: 5
  pattern_cap: 8
  normalization_divisor: 1.2
  multiplier_tiers:
    - min_distinct: 3
      factor: 1.2
    - min_distinct: 3
      factor: 1.4
  thresholds:
    min_test_functions: 8
    min_test_functions_extended: 12
    min_annotations: 20
    min_annotations_extended: 30
    min_routes: 3
    min_routes_extended: 5
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			t.Setenv("CODEFORGE_CONFIG", configPath)
			t.Setenv("CODEFORGE_STORE", "")

			if _, err := Load(); err == nil {
				t.Error("Load() accepted invalid config")
			}
		})
	}
}

func TestMultiplierFor(t *testing.T) {
	w := DefaultWeights()

	tests := []struct {
		distinct int
		want     float64
	}{
		{0, 1.0},
		{1, 1.0},
		{2, 1.0},
		{3, 1.2},
		{4, 1.2},
		{5, 1.4},
		{7, 1.4},
		{8, 1.6},
		{20, 1.6},
	}

	for _, tt := range tests {
		if got := w.MultiplierFor(tt.distinct); got != tt.want {
			t.Errorf("MultiplierFor(%d) = %v, want %v", tt.distinct, got, tt.want)
		}
	}
}

func TestThresholdHelpers(t *testing.T) {
	w := DefaultWeights()

	if got := w.MinTests(false); got != 8 {
		t.Errorf("MinTests(false) = %d, want 8", got)
	}
	if got := w.MinTests(true); got != 12 {
		t.Errorf("MinTests(true) = %d, want 12", got)
	}
	if got := w.MinAnnotations(true); got != 30 {
		t.Errorf("MinAnnotations(true) = %d, want 30", got)
	}
	if got := w.MinRoutes(false); got != 3 {
		t.Errorf("MinRoutes(false) = %d, want 3", got)
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := expandTilde("~/data/patterns.jsonl"); got != filepath.Join(home, "data", "patterns.jsonl") {
		t.Errorf("expandTilde() = %s", got)
	}
	if got := expandTilde("/abs/path"); got != "/abs/path" {
		t.Errorf("expandTilde() changed an absolute path: %s", got)
	}
}
