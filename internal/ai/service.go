package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/AlyonaCIA/AI-diagnostic/internal/logparse"
	"github.com/AlyonaCIA/AI-diagnostic/internal/plcxml"
	"github.com/AlyonaCIA/AI-diagnostic/pkg/models"
)

// maxLogExcerptBytes bounds how much raw log text rides along in the prompt.
const maxLogExcerptBytes = 8000

// DiagnosisResult is the output of a full diagnosis pipeline run.
type DiagnosisResult struct {
	Descriptor models.ErrorDescriptor
	Context    models.CodeContext
	Report     models.DiagnosticReport
	Provider   string
}

// DiagnosisService runs the deterministic front-end pipeline and hands the
// merged result to the configured AI provider. The deterministic stages never
// fail; only the provider call can. One provider call per request, no retries.
type DiagnosisService struct {
	provider models.AIProvider
	timeout  time.Duration
}

// NewDiagnosisService creates a new DiagnosisService.
func NewDiagnosisService(provider models.AIProvider, timeout time.Duration) *DiagnosisService {
	return &DiagnosisService{
		provider: provider,
		timeout:  timeout,
	}
}

// Provider exposes the configured provider for health reporting.
func (s *DiagnosisService) Provider() models.AIProvider { return s.provider }

// Diagnose classifies the log, extracts XML context and requests a validated
// diagnosis from the provider. Classification and extraction misses degrade
// gracefully; a provider failure or schema-invalid report is a hard failure.
func (s *DiagnosisService) Diagnose(ctx context.Context, logText, xmlContent string) (*DiagnosisResult, error) {
	desc := logparse.Classify(logText)
	slog.Debug("log classified", "stage", desc.Stage, "line", desc.LineValue())

	codeCtx := plcxml.Extract(xmlContent, desc)
	if !codeCtx.ExtractionSucceeded {
		slog.Warn("xml context extraction failed, diagnosing from log only")
	}

	req := models.DiagnosisRequest{
		Descriptor: desc,
		Context:    codeCtx,
		LogExcerpt: tailString(logText, maxLogExcerptBytes),
	}

	diagCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	report, err := s.provider.Diagnose(diagCtx, req)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", s.provider.Name(), err)
	}

	if err := report.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return &DiagnosisResult{
		Descriptor: desc,
		Context:    codeCtx,
		Report:     report,
		Provider:   s.provider.Name(),
	}, nil
}

// tailString keeps the last maxBytes of s without splitting UTF-8 runes.
// The end of a build log carries the failure; the head is boilerplate.
func tailString(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	start := len(s) - maxBytes
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}
