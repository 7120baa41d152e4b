// Package openai implements models.AIProvider using the OpenAI chat API.
package openai

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

// Provider implements models.AIProvider using OpenAI chat completions.
type Provider struct {
	cfg    config.OpenAIConfig
	client *http.Client
}

func NewProvider(cfg config.OpenAIConfig) *Provider {
	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: 90 * time.Second},
	}
}

func (p *Provider) Name() string { return "openai" }

func (p *Provider) Diagnose(ctx context.Context, req models.DiagnosisRequest) (models.DiagnosticReport, error) {
	body := map[string]any{
		"model": p.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": prompt.System},
			{"role": "user", "content": prompt.Build(req)},
		},
		"response_format": map[string]string{"type": "json_object"},
		"temperature":     0,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return models.DiagnosticReport{}, fmt.Errorf("marshaling request: %w", err)
	}

	u := p.cfg.BaseURL + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(jsonBody))
	if err != nil {
		return models.DiagnosticReport{}, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

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
		return models.DiagnosticReport{}, fmt.Errorf("%w: openai status %d: %s",
			models.ErrProviderUnavailable, resp.StatusCode, respBytes)
	}

	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return models.DiagnosticReport{}, fmt.Errorf("%w: %v", models.ErrInvalidResponse, err)
	}
	if chatResp.Error.Message != "" {
		return models.DiagnosticReport{}, fmt.Errorf("%w: openai: %s",
			models.ErrProviderUnavailable, chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return models.DiagnosticReport{}, fmt.Errorf("%w: empty openai response", models.ErrInvalidResponse)
	}

	var report models.DiagnosticReport
	if err := json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &report); err != nil {
		return models.DiagnosticReport{}, fmt.Errorf("%w: decoding report: %v", models.ErrInvalidResponse, err)
	}

	return report, nil
}

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
