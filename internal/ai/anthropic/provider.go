// Package anthropic implements models.AIProvider using the Anthropic API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/AlyonaCIA/AI-diagnostic/internal/ai/prompt"
	"github.com/AlyonaCIA/AI-diagnostic/internal/config"
	"github.com/AlyonaCIA/AI-diagnostic/pkg/models"
)

// Provider implements models.AIProvider using Anthropic's messages API.
type Provider struct {
	cfg    config.AnthropicConfig
	client *http.Client
}

func NewProvider(cfg config.AnthropicConfig) *Provider {
	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: 90 * time.Second},
	}
}

func (p *Provider) Name() string { return "anthropic" }

func (p *Provider) Diagnose(ctx context.Context, req models.DiagnosisRequest) (models.DiagnosticReport, error) {
	body := map[string]any{
		"model":  p.cfg.Model,
		"system": prompt.System,
		"messages": []map[string]string{
			{"role": "user", "content": prompt.Build(req)},
		},
		"max_tokens":  4000,
		"temperature": 0,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return models.DiagnosticReport{}, fmt.Errorf("marshaling request: %w", err)
	}

	u := p.cfg.BaseURL + "/v1/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(jsonBody))
	if err != nil {
		return models.DiagnosticReport{}, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.cfg.APIKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

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
		return models.DiagnosticReport{}, fmt.Errorf("%w: anthropic status %d: %s",
			models.ErrProviderUnavailable, resp.StatusCode, respBytes)
	}

	var msgResp struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &msgResp); err != nil {
		return models.DiagnosticReport{}, fmt.Errorf("%w: %v", models.ErrInvalidResponse, err)
	}
	if msgResp.Error.Message != "" {
		return models.DiagnosticReport{}, fmt.Errorf("%w: anthropic: %s",
			models.ErrProviderUnavailable, msgResp.Error.Message)
	}
	if len(msgResp.Content) == 0 {
		return models.DiagnosticReport{}, fmt.Errorf("%w: empty anthropic response", models.ErrInvalidResponse)
	}

	var report models.DiagnosticReport
	text := stripCodeFence(msgResp.Content[0].Text)
	if err := json.Unmarshal([]byte(text), &report); err != nil {
		return models.DiagnosticReport{}, fmt.Errorf("%w: decoding report: %v", models.ErrInvalidResponse, err)
	}

	return report, nil
}

// stripCodeFence removes a surrounding markdown fence; the messages API has
// no JSON response mode, so the model occasionally wraps its output.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
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
