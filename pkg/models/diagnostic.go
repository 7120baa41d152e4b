// Package models contains shared data models used across the diagnostic codebase.
package models

import "fmt"

// Stage identifies the build pipeline phase a log line originated from.
// The set is closed; parsing rejects anything outside it.
type Stage string

const (
	StageXMLValidation  Stage = "xml_validation"
	StageCodeGeneration Stage = "code_generation"
	StageIECCompilation Stage = "iec_compilation"
	StageCCompilation   Stage = "c_compilation"
	StageUnknown        Stage = "unknown"
)

// ParseStage validates a raw stage string against the closed enumeration.
func ParseStage(s string) (Stage, error) {
	switch Stage(s) {
	case StageXMLValidation, StageCodeGeneration, StageIECCompilation, StageCCompilation, StageUnknown:
		return Stage(s), nil
	}
	return "", fmt.Errorf("unknown stage %q", s)
}

// Severity classifies how disruptive a diagnosed error is.
type Severity string

const (
	SeverityBlocking Severity = "blocking"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Complexity estimates the effort required to fix a diagnosed error.
type Complexity string

const (
	ComplexityTrivial  Complexity = "trivial"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// ErrorDescriptor is the normalized output of the log classifier.
// Stage is always set; Line is nil when no location pattern matched.
type ErrorDescriptor struct {
	Stage      Stage    `json:"stage"`
	Line       *int     `json:"line_number"`
	RawSnippet string   `json:"raw_snippet,omitempty"`
	Severity   Severity `json:"severity"`
}

// LineValue returns the extracted line number, or 0 when absent.
func (d ErrorDescriptor) LineValue() int {
	if d.Line == nil {
		return 0
	}
	return *d.Line
}

// Variable is a single declaration from a POU interface section.
type Variable struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Constant bool   `json:"constant"`
}

// CodeContext is the output of the XML context extractor.
// ExtractionSucceeded reports whether a POU was located; an empty CodeContext
// with ExtractionSucceeded=true means the POU body carried no code.
type CodeContext struct {
	POUName             string     `json:"pou_name"`
	CodeContext         string     `json:"code_context"`
	Variables           []Variable `json:"variables,omitempty"`
	ExtractionSucceeded bool       `json:"extraction_succeeded"`
}

// FixSuggestion is a single proposed code change from the diagnosis provider.
type FixSuggestion struct {
	Explanation string  `json:"explanation"`
	Before      string  `json:"before"`
	After       string  `json:"after"`
	Confidence  float64 `json:"confidence"`
}

// DiagnosticReport is the structured diagnosis returned by an AI provider.
// Reports are validated at the boundary; see Validate.
type DiagnosticReport struct {
	Severity    Severity        `json:"severity"`
	Stage       Stage           `json:"stage"`
	Complexity  Complexity      `json:"complexity"`
	RootCause   string          `json:"root_cause"`
	Suggestions []FixSuggestion `json:"suggestions"`
}

// Validate checks the report against the closed enumerations and suggestion
// bounds. It fails closed: any missing field or out-of-range value rejects the
// whole report rather than coercing it.
func (r *DiagnosticReport) Validate() error {
	switch r.Severity {
	case SeverityBlocking, SeverityWarning, SeverityInfo:
	default:
		return fmt.Errorf("invalid severity %q", r.Severity)
	}

	if _, err := ParseStage(string(r.Stage)); err != nil {
		return err
	}

	switch r.Complexity {
	case ComplexityTrivial, ComplexityModerate, ComplexityComplex:
	default:
		return fmt.Errorf("invalid complexity %q", r.Complexity)
	}

	if r.RootCause == "" {
		return fmt.Errorf("root_cause is required")
	}

	if len(r.Suggestions) < 1 || len(r.Suggestions) > 3 {
		return fmt.Errorf("expected 1-3 suggestions, got %d", len(r.Suggestions))
	}
	for i, s := range r.Suggestions {
		if s.Explanation == "" {
			return fmt.Errorf("suggestion %d: explanation is required", i)
		}
		if s.Confidence < 0 || s.Confidence > 1 {
			return fmt.Errorf("suggestion %d: confidence %v outside [0, 1]", i, s.Confidence)
		}
	}

	return nil
}
