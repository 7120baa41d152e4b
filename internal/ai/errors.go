package ai

import "github.com/AlyonaCIA/AI-diagnostic/pkg/models"

// Aliases for the provider contract errors, re-exported for handler use.
var (
	ErrProviderUnavailable = models.ErrProviderUnavailable
	ErrInferenceTimeout    = models.ErrInferenceTimeout
	ErrInvalidResponse     = models.ErrInvalidResponse
)
