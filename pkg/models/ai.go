package models

import (
	"context"
	"errors"
)

// Provider contract errors. Implementations classify their failures into
// these so callers can map them without knowing the transport.
var (
	ErrProviderUnavailable = errors.New("ai provider unavailable")
	ErrInferenceTimeout    = errors.New("ai inference timeout")
	ErrInvalidResponse     = errors.New("ai provider returned invalid response")
)

// AIProvider is the core interface that all AI integrations must implement.
// Never call specific AI providers directly — always inject this interface.
type AIProvider interface {
	// Diagnose produces a structured diagnosis for a classified build error.
	// A single call per request; implementations do not retry.
	Diagnose(ctx context.Context, req DiagnosisRequest) (DiagnosticReport, error)
	// Name returns the provider identifier (e.g., "gemini", "openai").
	Name() string
}

// DiagnosisRequest is the input to an AI diagnosis operation. It merges the
// two deterministic pipeline outputs; LogExcerpt carries the raw log tail for
// providers that want it verbatim.
type DiagnosisRequest struct {
	Descriptor ErrorDescriptor
	Context    CodeContext
	LogExcerpt string
}
