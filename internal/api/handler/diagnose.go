package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AlyonaCIA/AI-diagnostic/internal/ai"
	"github.com/AlyonaCIA/AI-diagnostic/internal/api/response"
	"github.com/AlyonaCIA/AI-diagnostic/pkg/models"
)

// maxRequestBytes caps the request body; build logs and project XML are
// bounded in practice, anything larger is abuse.
const maxRequestBytes = 10 << 20

// Diagnoser defines the interface the handler depends on.
type Diagnoser interface {
	Diagnose(ctx context.Context, logText, xmlContent string) (*ai.DiagnosisResult, error)
}

type diagnoseRequest struct {
	LogText    string `json:"log_text"`
	XMLContent string `json:"xml_content"`
}

type diagnoseResponse struct {
	Stage               models.Stage            `json:"stage"`
	LineNumber          *int                    `json:"line_number"`
	POUName             string                  `json:"pou_name,omitempty"`
	ExtractionSucceeded bool                    `json:"extraction_succeeded"`
	Provider            string                  `json:"provider"`
	Report              models.DiagnosticReport `json:"report"`
}

// NewDiagnoseHandler returns an http.HandlerFunc for POST /api/v1/diagnose.
//
// Failures in the deterministic pipeline degrade into the response; only a
// provider failure fails the request.
func NewDiagnoseHandler(svc Diagnoser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

		var req diagnoseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		if req.LogText == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "log_text is required", nil)
			return
		}
		if req.XMLContent == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "xml_content is required", nil)
			return
		}

		result, err := svc.Diagnose(r.Context(), req.LogText, req.XMLContent)
		if err != nil {
			switch {
			case errors.Is(err, ai.ErrInferenceTimeout):
				response.Error(w, http.StatusGatewayTimeout, "AI_INFERENCE_TIMEOUT",
					"AI diagnosis took too long and was cancelled", nil)
			case errors.Is(err, ai.ErrProviderUnavailable):
				response.Error(w, http.StatusBadGateway, "AI_PROVIDER_UNAVAILABLE",
					"The AI provider is not available", nil)
			case errors.Is(err, ai.ErrInvalidResponse):
				response.Error(w, http.StatusBadGateway, "AI_INVALID_RESPONSE",
					"The AI provider returned an invalid diagnosis", nil)
			default:
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"An unexpected error occurred", nil)
			}
			return
		}

		response.JSON(w, diagnoseResponse{
			Stage:               result.Descriptor.Stage,
			LineNumber:          result.Descriptor.Line,
			POUName:             result.Context.POUName,
			ExtractionSucceeded: result.Context.ExtractionSucceeded,
			Provider:            result.Provider,
			Report:              result.Report,
		})
	}
}
