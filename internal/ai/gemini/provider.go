// Package gemini implements models.AIProvider using the Gemini REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/AlyonaCIA/AI-diagnostic/internal/ai/prompt"
	"github.com/AlyonaCIA/AI-diagnostic/internal/config"
	"github.com/AlyonaCIA/AI-diagnostic/pkg/models"
)

// Provider implements models.AIProvider using Gemini's generateContent API.
type Provider struct {
	cfg    config.GeminiConfig
	client *http.Client
}

func NewProvider(cfg config.GeminiConfig) *Provider {
	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: 90 * time.Second},
	}
}

func (p *Provider) Name() string { return "gemini" }

type generateRequest struct {
	SystemInstruction *content         `json:"system_instruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"`
	Temperature      float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Diagnose sends a single generateContent request and decodes the returned
// JSON into a DiagnosticReport. No retries; failures are classified into the
// provider contract errors.
func (p *Provider) Diagnose(ctx context.Context, req models.DiagnosisRequest) (models.DiagnosticReport, error) {
	body := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: prompt.System}}},
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt.Build(req)}},
		}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0,
		},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return models.DiagnosticReport{}, fmt.Errorf("marshaling request: %w", err)
	}

	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.cfg.BaseURL, p.cfg.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(jsonBody))
	if err != nil {
		return models.DiagnosticReport{}, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.cfg.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return models.DiagnosticReport{}, classifyTransportError(err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.DiagnosticReport{}, classifyTransportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.DiagnosticReport{}, fmt.Errorf("%w: gemini status %d: %s",
			models.ErrProviderUnavailable, resp.StatusCode, respBytes)
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBytes, &genResp); err != nil {
		return models.DiagnosticReport{}, fmt.Errorf("%w: %v", models.ErrInvalidResponse, err)
	}
	if genResp.Error.Message != "" {
		return models.DiagnosticReport{}, fmt.Errorf("%w: gemini: %s",
			models.ErrProviderUnavailable, genResp.Error.Message)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return models.DiagnosticReport{}, fmt.Errorf("%w: empty gemini response", models.ErrInvalidResponse)
	}

	var report models.DiagnosticReport
	if err := json.Unmarshal([]byte(genResp.Candidates[0].Content.Parts[0].Text), &report); err != nil {
		return models.DiagnosticReport{}, fmt.Errorf("%w: decoding report: %v", models.ErrInvalidResponse, err)
	}

	return report, nil
}

// classifyTransportError maps low-level HTTP failures into contract errors.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", models.ErrInferenceTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", models.ErrInferenceTimeout, err)
	}
	return fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
}

var _ models.AIProvider = (*Provider)(nil)
