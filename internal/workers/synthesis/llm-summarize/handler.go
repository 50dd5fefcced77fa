// internal/workers/synthesis/llm-summarize/handler.go
package llmsummarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"varsight/internal/common/logger"
	"varsight/internal/common/metrics"
	"varsight/internal/prompt"
)

const (
	TaskType = "llm-summarize"
)

var (
	ErrSummaryFailed = errors.New("SUMMARY_FAILED")
)

type Handler struct {
	config *Config
	client *http.Client
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// Execute returns a narrative for the assembled document. It never fails the
// pipeline: backend errors are absorbed into a diagnostic narrative, and a
// vacuous evidence bundle short-circuits to a fixed message without touching
// the backend.
func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	if input.AbstractCount == 0 && input.VariantCount == 0 {
		h.logger.Info("skipping synthesis, no evidence", map[string]interface{}{
			"gene": input.Gene,
		})
		return &Output{
			Narrative: fmt.Sprintf("No relevant data found for %s in PubMed or ClinVar.", input.Gene),
		}
	}

	narrative, err := h.complete(ctx, input.Document)
	if err != nil {
		h.logger.Warn("synthesis failed, substituting diagnostic narrative", map[string]interface{}{
			"gene":  input.Gene,
			"error": err.Error(),
		})
		return &Output{
			Narrative: fmt.Sprintf("summary unavailable: %v", err),
			Degraded:  true,
			Warning:   fmt.Sprintf("narrative synthesis failed for %s: %v", input.Gene, err),
		}
	}

	h.logger.Info("synthesis completed", map[string]interface{}{
		"gene":            input.Gene,
		"narrativeLength": len(narrative),
	})

	return &Output{Narrative: narrative}
}

// complete issues a single chat completion. No retry or backoff: a failed
// call propagates once and is absorbed by Execute.
func (h *Handler) complete(ctx context.Context, document string) (string, error) {
	reqBody := chatRequest{
		Model: h.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.SystemInstruction},
			{Role: "user", Content: document},
		},
		MaxTokens:   h.config.MaxTokens,
		Temperature: h.config.Temperature,
	}

	body, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, "POST", h.config.GenAIBaseURL+"/v1/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSummaryFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.config.APIKey)

	resp, err := h.client.Do(req)
	if err != nil {
		metrics.BackendRequests.WithLabelValues("genai", "error").Inc()
		return "", fmt.Errorf("%w: %v", ErrSummaryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.BackendRequests.WithLabelValues("genai", "error").Inc()
		return "", fmt.Errorf("%w: backend returned %d", ErrSummaryFailed, resp.StatusCode)
	}
	metrics.BackendRequests.WithLabelValues("genai", "ok").Inc()

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("%w: decode error: %v", ErrSummaryFailed, err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", ErrSummaryFailed)
	}

	content := chatResp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: response content is empty", ErrSummaryFailed)
	}

	return content, nil
}
