package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlyonaCIA/AI-diagnostic/internal/ai"
	"github.com/AlyonaCIA/AI-diagnostic/internal/api/handler"
	"github.com/AlyonaCIA/AI-diagnostic/pkg/models"
)

// mockDiagnoser implements handler.Diagnoser for tests.
type mockDiagnoser struct {
	result *ai.DiagnosisResult
	err    error
}

func (m *mockDiagnoser) Diagnose(_ context.Context, _, _ string) (*ai.DiagnosisResult, error) {
	return m.result, m.err
}

func successResult() *ai.DiagnosisResult {
	line := 30
	return &ai.DiagnosisResult{
		Descriptor: models.ErrorDescriptor{
			Stage:    models.StageIECCompilation,
			Line:     &line,
			Severity: models.SeverityBlocking,
		},
		Context: models.CodeContext{
			POUName:             "program0",
			ExtractionSucceeded: true,
		},
		Provider: "mock",
		Report: models.DiagnosticReport{
			Severity:   models.SeverityBlocking,
			Stage:      models.StageIECCompilation,
			Complexity: models.ComplexityTrivial,
			RootCause:  "Assignment to a CONSTANT variable",
			Suggestions: []models.FixSuggestion{
				{Explanation: "Remove the constant qualifier", Confidence: 0.9},
			},
		},
	}
}

func doDiagnose(t *testing.T, svc handler.Diagnoser, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/diagnose", &buf)
	rec := httptest.NewRecorder()
	handler.NewDiagnoseHandler(svc)(rec, req)
	return rec
}

func TestDiagnoseHandler_Success(t *testing.T) {
	svc := &mockDiagnoser{result: successResult()}

	rec := doDiagnose(t, svc, map[string]string{
		"log_text":    "error: cannot assign to CONSTANT variable",
		"xml_content": "<project/>",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Stage               string                  `json:"stage"`
			LineNumber          *int                    `json:"line_number"`
			POUName             string                  `json:"pou_name"`
			ExtractionSucceeded bool                    `json:"extraction_succeeded"`
			Provider            string                  `json:"provider"`
			Report              models.DiagnosticReport `json:"report"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	assert.Equal(t, "iec_compilation", envelope.Data.Stage)
	require.NotNil(t, envelope.Data.LineNumber)
	assert.Equal(t, 30, *envelope.Data.LineNumber)
	assert.Equal(t, "program0", envelope.Data.POUName)
	assert.True(t, envelope.Data.ExtractionSucceeded)
	assert.Equal(t, "mock", envelope.Data.Provider)
	assert.Equal(t, "Assignment to a CONSTANT variable", envelope.Data.Report.RootCause)
}

func TestDiagnoseHandler_InvalidJSON(t *testing.T) {
	rec := doDiagnose(t, &mockDiagnoser{}, "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_REQUEST")
}

func TestDiagnoseHandler_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body map[string]string
		want string
	}{
		{"missing log_text", map[string]string{"xml_content": "<project/>"}, "log_text"},
		{"missing xml_content", map[string]string{"log_text": "error: boom"}, "xml_content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doDiagnose(t, &mockDiagnoser{}, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestDiagnoseHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"timeout", ai.ErrInferenceTimeout, http.StatusGatewayTimeout, "AI_INFERENCE_TIMEOUT"},
		{"unavailable", ai.ErrProviderUnavailable, http.StatusBadGateway, "AI_PROVIDER_UNAVAILABLE"},
		{"invalid response", ai.ErrInvalidResponse, http.StatusBadGateway, "AI_INVALID_RESPONSE"},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	body := map[string]string{"log_text": "error: boom", "xml_content": "<project/>"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doDiagnose(t, &mockDiagnoser{err: tt.err}, body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestDiagnoseHandler_WrappedErrorMapping(t *testing.T) {
	// Service errors arrive wrapped; mapping must use errors.Is.
	wrapped := &mockDiagnoser{err: errors.Join(errors.New("decoding report"), ai.ErrInvalidResponse)}
	body := map[string]string{"log_text": "error: boom", "xml_content": "<project/>"}

	rec := doDiagnose(t, wrapped, body)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "AI_INVALID_RESPONSE")
}

func TestDiagnoseHandler_DegradedExtractionStillOK(t *testing.T) {
	result := successResult()
	result.Context = models.CodeContext{ExtractionSucceeded: false}

	rec := doDiagnose(t, &mockDiagnoser{result: result}, map[string]string{
		"log_text":    "error: boom",
		"xml_content": "not xml at all",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"extraction_succeeded":false`)
}
