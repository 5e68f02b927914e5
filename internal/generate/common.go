package generate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/vampirenirmal/codeforge/internal/core"
)

// quoteRunRe matches quote runs long enough to terminate a triple-quoted
// string from inside.
var quoteRunRe = regexp.MustCompile(`"{3,}`)

// sanitizeSummary neutralizes requirement text that would break out of the
// surrounding docstring: quote runs become apostrophes and trailing
// backslashes are dropped.
func sanitizeSummary(s string) string {
	s = quoteRunRe.ReplaceAllStringFunc(s, func(run string) string {
		return strings.Repeat("'", len(run))
	})
	return strings.TrimRight(s, `\`)
}

// docsSection emits the module docstring. It is ordered first so the Python
// grammar treats it as the module's documentation block.
func docsSection(rec core.AnalysisRecord, _ Params) (string, error) {
	summary := firstLine(rec.Requirement)
	if len(summary) > 100 {
		summary = summary[:100]
	}
	summary = sanitizeSummary(summary)

	var b strings.Builder
	b.WriteString("\"\"\"")
	b.WriteString(summary)
	b.WriteString("\n\nAuto-generated module.\n\n")
	fmt.Fprintf(&b, "Code type: %s\n", rec.CodeType)
	fmt.Fprintf(&b, "Architecture: %s\n", rec.Architecture)
	fmt.Fprintf(&b, "Complexity: %d/100\n", rec.ComplexityScore)
	if len(rec.Dependencies) > 0 {
		fmt.Fprintf(&b, "Dependencies: %s\n", strings.Join(rec.Dependencies, ", "))
	}
	if len(rec.SecurityFlags) > 0 {
		fmt.Fprintf(&b, "Security concerns: %s\n", strings.Join(rec.SecurityFlags, ", "))
	}
	b.WriteString("\"\"\"")
	return b.String(), nil
}

// importsSection emits core imports plus the code type's framework imports.
func importsSection(rec core.AnalysisRecord, _ Params) (string, error) {
	stdlib := []string{
		"import json",
		"import logging",
		"import os",
		"import sys",
	}
	fromImports := []string{
		"from dataclasses import dataclass, field",
		"from datetime import datetime",
		"from typing import Any, Callable, Dict, List, Optional, Tuple, Union",
	}

	var framework []string
	switch rec.CodeType {
	case core.CodeTypeAPI:
		framework = []string{
			"from fastapi import FastAPI, HTTPException, Request, status",
			"from pydantic import BaseModel, Field",
		}
	case core.CodeTypeML:
		framework = []string{
			"import numpy as np",
			"import pandas as pd",
			"from sklearn import metrics, model_selection, preprocessing",
		}
	case core.CodeTypeDatabase:
		framework = []string{
			"from sqlalchemy import Column, DateTime, Integer, String, create_engine",
			"from sqlalchemy.orm import Session, declarative_base, sessionmaker",
		}
	case core.CodeTypeCLI:
		framework = []string{
			"import argparse",
		}
	case core.CodeTypeDataProcessing:
		framework = []string{
			"import numpy as np",
			"import pandas as pd",
			"from pathlib import Path",
		}
	case core.CodeTypeTesting:
		framework = []string{
			"from unittest.mock import MagicMock, Mock, patch",
		}
	}

	sort.Strings(stdlib)
	parts := []string{strings.Join(stdlib, "\n"), strings.Join(fromImports, "\n")}
	if len(framework) > 0 {
		parts = append(parts, strings.Join(framework, "\n"))
	}
	return strings.Join(parts, "\n"), nil
}

// supportingSection emits the universal helper trio shared by every code
// type. Generators and tests both rely on these names.
func supportingSection(_ core.AnalysisRecord, _ Params) (string, error) {
	return `def validate_input(data: Dict[str, Any]) -> bool:
    """Validate input data before any processing happens."""
    if data is None:
        raise ValueError("input data cannot be None")
    if not isinstance(data, dict):
        raise TypeError(f"expected dict, got {type(data).__name__}")
    return True


def process_data(data: Dict[str, Any]) -> Dict[str, Any]:
    """Process one payload and enrich it with bookkeeping fields."""
    if not data:
        raise ValueError("data cannot be empty")
    validate_input(data)
    return {
        "original": data,
        "processed": True,
        "timestamp": datetime.now().isoformat(),
    }


def format_output(data: Any) -> str:
    """Render a value as printable JSON."""
    if data is None:
        return ""
    return json.dumps(data, indent=2, default=str)`, nil
}

// errorHierarchySection emits the exception classes and the shared handler.
func errorHierarchySection(rec core.AnalysisRecord, _ Params) (string, error) {
	var b strings.Builder
	b.WriteString(`class ApplicationError(Exception):
    """Base class for application failures."""


class ValidationError(ApplicationError):
    """Raised when input fails validation."""


class ProcessingError(ApplicationError):
    """Raised when a processing step fails."""
`)
	if rec.HasSecurityFlag("authentication") || rec.HasSecurityFlag("authorization") {
		b.WriteString(`

class AuthError(ApplicationError):
    """Raised when a caller is not allowed to perform an operation."""
`)
	}
	b.WriteString(`

def handle_error(error: Exception, context: str = "unknown") -> None:
    """Log an error with context and re-raise application failures."""
    logger = logging.getLogger(__name__)
    logger.error("error in %s: %s", context, error)
    if isinstance(error, ApplicationError):
        raise error`)
	return b.String(), nil
}

// testsSection emits a pytest suite with at least p.MinTests cases grouped
// into the three contract categories.
func testsSection(_ core.AnalysisRecord, p Params) (string, error) {
	var b strings.Builder
	b.WriteString(`import pytest


@pytest.fixture
def sample_data() -> Dict[str, Any]:
    """Provide a representative payload."""
    return {"id": 1, "name": "example", "values": [1, 2, 3]}


class TestBasicFunctionality:
    """Happy-path behavior of the public helpers."""

    def test_validate_input_with_valid_data(self, sample_data: Dict[str, Any]) -> None:
        assert validate_input(sample_data) is True

    def test_process_data_returns_dict(self, sample_data: Dict[str, Any]) -> None:
        result = process_data(sample_data)
        assert isinstance(result, dict)
        assert result["processed"] is True

    def test_format_output_returns_string(self, sample_data: Dict[str, Any]) -> None:
        assert isinstance(format_output(sample_data), str)


class TestEdgeCases:
    """Boundary and unusual-input behavior."""

    def test_process_data_with_large_dataset(self) -> None:
        payload = {"items": list(range(10_000))}
        assert process_data(payload)["processed"] is True

    def test_process_data_with_special_characters(self) -> None:
        payload = {"name": "üñïçödé ☃"}
        assert process_data(payload)["processed"] is True

    def test_process_data_with_nested_structures(self) -> None:
        payload = {"outer": {"inner": {"leaf": [1, 2, 3]}}}
        assert process_data(payload)["original"] == payload

    def test_format_output_with_none(self) -> None:
        assert format_output(None) == ""


class TestErrorHandling:
    """Failure modes raise the documented exceptions."""

    def test_validate_input_with_none(self) -> None:
        with pytest.raises(ValueError):
            validate_input(None)

    def test_validate_input_with_wrong_type(self) -> None:
        with pytest.raises(TypeError):
            validate_input([1, 2, 3])

    def test_process_data_with_empty_dict(self) -> None:
        with pytest.raises(ValueError):
            process_data({})`)

	base := 10
	for i := base; i < p.MinTests; i++ {
		fmt.Fprintf(&b, `

    def test_process_data_variant_%d(self) -> None:
        assert process_data({"case": %d})["processed"] is True`, i-base+1, i-base+1)
	}

	return b.String(), nil
}

// mainSection emits the module entry point.
func mainSection(rec core.AnalysisRecord, _ Params) (string, error) {
	if rec.CodeType == core.CodeTypeCLI {
		// The CLI core logic owns its own main.
		return "", nil
	}
	return `def main() -> None:
    """Entry point: validate, process, and report."""
    logger = logging.getLogger(__name__)
    logger.info("main execution started")
    payload: Dict[str, Any] = {"id": 1, "name": "bootstrap"}
    try:
        result = process_data(payload)
        logger.info("processed payload: %s", format_output(result))
    except ApplicationError as error:
        handle_error(error, context="main")
        raise
    finally:
        logger.info("main execution finished")`, nil
}

// executionSection emits the __main__ guard.
func executionSection(rec core.AnalysisRecord, _ Params) (string, error) {
	switch rec.CodeType {
	case core.CodeTypeAPI:
		return `if __name__ == "__main__":
    import uvicorn

    logging.basicConfig(level=logging.INFO)
    uvicorn.run(app, host="0.0.0.0", port=8000)`, nil
	case core.CodeTypeCLI:
		return `if __name__ == "__main__":
    logging.basicConfig(level=logging.INFO)
    sys.exit(run(sys.argv[1:]))`, nil
	default:
		return `if __name__ == "__main__":
    logging.basicConfig(level=logging.INFO)
    main()`, nil
	}
}

var wordRe = regexp.MustCompile(`[a-z]{4,}`)

// stopwords that never make sensible resource names.
var entityStopwords = map[string]bool{
	"with": true, "that": true, "this": true, "from": true, "into": true,
	"build": true, "create": true, "make": true, "using": true, "support": true,
	"service": true, "system": true, "must": true, "should": true, "need": true,
	"rest": true, "http": true, "auth": true, "data": true, "code": true,
}

// entityNames extracts up to n lowercase candidate resource names from the
// requirement, deterministically, with stable fallbacks.
func entityNames(requirement string, n int) []string {
	fallback := []string{"items", "users", "records", "events", "reports"}

	seen := make(map[string]bool)
	var names []string
	for _, w := range wordRe.FindAllString(strings.ToLower(requirement), -1) {
		if entityStopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		if !strings.HasSuffix(w, "s") {
			w += "s"
		}
		names = append(names, w)
		if len(names) == n {
			return names
		}
	}
	for _, f := range fallback {
		if len(names) == n {
			break
		}
		if !seen[f] {
			names = append(names, f)
			seen[f] = true
		}
	}
	return names
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
