package handler

import (
	"net/http"

	"github.com/AlyonaCIA/AI-diagnostic/internal/api/response"
	"github.com/AlyonaCIA/AI-diagnostic/internal/logparse"
	"github.com/AlyonaCIA/AI-diagnostic/pkg/models"
)

const version = "0.1.0"

// NewHealthHandler returns the liveness endpoint.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, map[string]string{
			"status":  "healthy",
			"version": version,
			"service": "plc-diagnostic-api",
		})
	}
}

// NewDetailedHealthHandler probes the classifier and provider wiring.
// The classifier is exercised on a fixed string; the provider is only checked
// for presence, no inference call is made.
func NewDetailedHealthHandler(provider models.AIProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		desc := logparse.Classify("health probe")
		classifierOK := desc.Stage == models.StageUnknown
		providerOK := provider != nil

		components := map[string]string{
			"classifier":  statusWord(classifierOK),
			"ai_provider": statusWord(providerOK),
		}

		status := "healthy"
		if !classifierOK || !providerOK {
			status = "degraded"
		}

		response.JSON(w, map[string]any{
			"status":     status,
			"version":    version,
			"components": components,
		})
	}
}

func statusWord(ok bool) string {
	if ok {
		return "operational"
	}
	return "failed"
}
