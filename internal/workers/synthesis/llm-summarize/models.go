// internal/workers/synthesis/llm-summarize/models.go
package llmsummarize

type Input struct {
	Gene          string `json:"gene"`
	Document      string `json:"document"`
	AbstractCount int    `json:"abstractCount"`
	VariantCount  int    `json:"variantCount"`
}

type Output struct {
	Narrative string `json:"narrative"`
	// Degraded marks a diagnostic narrative substituted after a backend
	// failure; the pipeline completes either way.
	Degraded bool   `json:"degraded"`
	Warning  string `json:"warning,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
