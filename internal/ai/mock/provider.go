// Package mock provides an AIProvider test double with canned diagnoses.
package mock

import (
	"context"

	"github.com/AlyonaCIA/AI-diagnostic/pkg/models"
)

// MockProvider satisfies models.AIProvider for testing.
type MockProvider struct {
	Name_        string
	DiagnoseFunc func(ctx context.Context, req models.DiagnosisRequest) (models.DiagnosticReport, error)
}

func (m *MockProvider) Name() string { return m.Name_ }

func (m *MockProvider) Diagnose(ctx context.Context, req models.DiagnosisRequest) (models.DiagnosticReport, error) {
	if m.DiagnoseFunc != nil {
		return m.DiagnoseFunc(ctx, req)
	}
	return models.DiagnosticReport{}, nil
}

// NewMockProvider returns a MockProvider that echoes the classified stage
// back in a schema-valid report.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Name_: "mock",
		DiagnoseFunc: func(_ context.Context, req models.DiagnosisRequest) (models.DiagnosticReport, error) {
			stage := req.Descriptor.Stage
			if stage == "" {
				stage = models.StageUnknown
			}
			severity := req.Descriptor.Severity
			if severity == "" {
				severity = models.SeverityInfo
			}
			return models.DiagnosticReport{
				Severity:   severity,
				Stage:      stage,
				Complexity: models.ComplexityTrivial,
				RootCause:  "Simulated root cause from mock provider",
				Suggestions: []models.FixSuggestion{
					{
						Explanation: "Mock suggestion for testing",
						Before:      req.Context.CodeContext,
						After:       req.Context.CodeContext,
						Confidence:  0.85,
					},
				},
			}, nil
		},
	}
}

// NewFailingProvider returns a MockProvider that always returns the given error.
func NewFailingProvider(err error) *MockProvider {
	return &MockProvider{
		Name_: "mock-failing",
		DiagnoseFunc: func(_ context.Context, _ models.DiagnosisRequest) (models.DiagnosticReport, error) {
			return models.DiagnosticReport{}, err
		},
	}
}

// NewTimeoutProvider returns a MockProvider that blocks until context is cancelled.
func NewTimeoutProvider() *MockProvider {
	return &MockProvider{
		Name_: "mock-timeout",
		DiagnoseFunc: func(ctx context.Context, _ models.DiagnosisRequest) (models.DiagnosticReport, error) {
			<-ctx.Done()
			return models.DiagnosticReport{}, models.ErrInferenceTimeout
		},
	}
}

// Compile-time check that MockProvider implements AIProvider.
var _ models.AIProvider = (*MockProvider)(nil)
