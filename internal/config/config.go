package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Paths     PathsConfig     `yaml:"paths" validate:"required"`
	Weights   Weights         `yaml:"weights" validate:"required"`
	RateLimit RateLimitConfig `yaml:"rate_limit" validate:"required"`
}

type PathsConfig struct {
	// StorePath is the pattern store file (append-only JSON lines).
	StorePath string `yaml:"store_path" validate:"required,storepath"`
	// OutputDir receives generated artifacts written by callers.
	OutputDir string `yaml:"output_dir" validate:"required,dirpath"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" validate:"required,min=1,max=1000"`
	BurstSize         int `yaml:"burst_size" validate:"required,min=1,max=100"`
}

// Load reads the config file (if any), applies environment overrides, and
// validates the result. A missing config file yields defaults, not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	configPath := getConfigPath()
	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if storePath := os.Getenv("CODEFORGE_STORE"); storePath != "" {
		cfg.Paths.StorePath = storePath
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with XDG-compliant paths and default weights.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			StorePath: filepath.Join(dataDir(), "patterns.jsonl"),
			OutputDir: filepath.Join(dataDir(), "output"),
		},
		Weights: DefaultWeights(),
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			BurstSize:         10,
		},
	}
}

func getConfigPath() string {
	// 1. Explicit config path via environment variable
	if path := os.Getenv("CODEFORGE_CONFIG"); path != "" {
		return path
	}

	// 2. XDG_CONFIG_HOME (XDG Base Directory Specification)
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "codeforge", "config.yaml")
	}

	// 3. Default to ~/.config/codeforge/config.yaml (XDG fallback)
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "codeforge", "config.yaml")
}

func dataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "codeforge")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "codeforge")
}

// expandTilde expands a tilde (~) at the beginning of a path to the user's home directory
func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path // Return original path if we can't get home dir
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func (c *Config) validate() error {
	if c.Paths.StorePath == "" {
		c.Paths.StorePath = filepath.Join(dataDir(), "patterns.jsonl")
	} else {
		c.Paths.StorePath = expandTilde(c.Paths.StorePath)
	}
	if c.Paths.OutputDir == "" {
		c.Paths.OutputDir = filepath.Join(dataDir(), "output")
	} else {
		c.Paths.OutputDir = expandTilde(c.Paths.OutputDir)
	}

	if len(c.Weights.MultiplierTiers) == 0 {
		c.Weights = DefaultWeights()
	}

	validate := validator.New()

	// Register custom validation for dirpath
	validate.RegisterValidation("dirpath", func(fl validator.FieldLevel) bool {
		// Output directories are created on demand
		return fl.Field().String() != ""
	})

	// Register custom validation for storepath
	validate.RegisterValidation("storepath", func(fl validator.FieldLevel) bool {
		// The store file may not exist yet; existence is checked at open time
		return fl.Field().String() != ""
	})

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Tiers must be declared in a well-formed shape; order is normalized by
	// MultiplierFor, duplicates are a config mistake.
	seen := make(map[int]bool)
	for _, tier := range c.Weights.MultiplierTiers {
		if seen[tier.MinDistinct] {
			return fmt.Errorf("config validation failed: duplicate multiplier tier for %d distinct terms", tier.MinDistinct)
		}
		seen[tier.MinDistinct] = true
	}

	return nil
}

// Save writes the config to the given path, creating parent directories.
func Save(cfg *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}
