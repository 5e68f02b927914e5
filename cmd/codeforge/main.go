package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/vampirenirmal/codeforge/internal/config"
	"github.com/vampirenirmal/codeforge/pkg/forge"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "generate":
		err = runGenerate(os.Args[2:])
	case "analyze":
		err = runAnalyze(os.Args[2:])
	case "suggest":
		err = runSuggest(os.Args[2:])
	case "score":
		err = runScore(os.Args[2:])
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`codeforge - requirement-driven code generation

Usage:
  codeforge generate [flags] <requirement>   generate, refine, and validate code
  codeforge analyze [flags] <requirement>    score and classify a requirement
  codeforge suggest <requirement>            consult the pattern store
  codeforge score                            print the accumulated intelligence score

Generate flags:
  -out <name>      write the artifact under the configured output directory
  -passes <n>      refinement passes to run (default 3)
  -extended        use extended verbosity thresholds
  -reuse           let a pattern store match override classification
  -timeout <dur>   overall deadline (default 2m)
  -debug           verbose logging`)
}

func newEngine(debug bool) (*forge.Engine, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return forge.New(cfg, forge.WithLogger(logger))
}

func requirementArg(args []string) (string, error) {
	requirement := strings.TrimSpace(strings.Join(args, " "))
	if requirement == "" {
		return "", fmt.Errorf("a requirement is required")
	}
	return requirement, nil
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	out := fs.String("out", "", "artifact name to write under the output directory")
	passes := fs.Int("passes", 3, "refinement passes to run")
	extended := fs.Bool("extended", false, "use extended verbosity thresholds")
	reuse := fs.Bool("reuse", false, "let a pattern store match override classification")
	timeout := fs.Duration("timeout", 2*time.Minute, "overall deadline")
	debug := fs.Bool("debug", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	requirement, err := requirementArg(fs.Args())
	if err != nil {
		return err
	}

	engine, err := newEngine(*debug)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	opts := forge.DefaultOptions()
	opts.RefinementPasses = *passes
	opts.UseSuggestion = *reuse
	if *extended {
		opts.Verbosity = forge.VerbosityExtended
	}

	result, err := engine.Generate(ctx, requirement, opts)
	if err != nil {
		return err
	}

	if *out != "" {
		path, err := engine.WriteArtifact(ctx, *out, result.Artifact)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	} else {
		fmt.Print(result.Artifact.FullText)
	}

	fmt.Fprintf(os.Stderr, "complexity=%d code_type=%s architecture=%s lines=%d valid=%t\n",
		result.Analysis.ComplexityScore,
		result.Analysis.CodeType,
		result.Analysis.Architecture,
		result.Artifact.LineCount(),
		result.Report.SyntacticallyValid,
	)
	return nil
}

func runAnalyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	debug := fs.Bool("debug", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	requirement, err := requirementArg(fs.Args())
	if err != nil {
		return err
	}

	engine, err := newEngine(*debug)
	if err != nil {
		return err
	}
	defer engine.Close()

	record, err := engine.Analyze(context.Background(), requirement)
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(record)
}

func runSuggest(args []string) error {
	requirement, err := requirementArg(args)
	if err != nil {
		return err
	}

	engine, err := newEngine(false)
	if err != nil {
		return err
	}
	defer engine.Close()

	return json.NewEncoder(os.Stdout).Encode(engine.Suggest(requirement))
}

func runScore(args []string) error {
	engine, err := newEngine(false)
	if err != nil {
		return err
	}
	defer engine.Close()

	fmt.Printf("%.1f\n", engine.IntelligenceScore())
	return nil
}
